package export

import (
	"bytes"
	"html/template"

	"github.com/gorushbn/pharmacydash/internal/model"
)

// manifestTemplate is the standalone printable manifest: a summary block
// followed by the numbered rows.
var manifestTemplate = template.Must(template.New("manifest").Parse(`<!DOCTYPE html>
<html>
  <head>
    <title>{{.Summary.DeliveryMethod}} - {{.Summary.Batch}}</title>
    <style>
      table { border-collapse: collapse; width: 100%; }
      th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
      th { background-color: #f2f2f2; }
      .summary { margin-bottom: 20px; }
    </style>
  </head>
  <body>
    <div class="summary">
      <h2>Form Summary</h2>
      <p><strong>Total Orders:</strong> {{.Summary.Total}}</p>
      <p><strong>Delivery Method:</strong> {{.Summary.DeliveryMethod}}</p>
      <p><strong>Batch:</strong> {{.Summary.Batch}}</p>
      <p><strong>Form Date:</strong> {{.Summary.FormDate}}</p>
      {{- if .Summary.CollectionDate}}
      <p><strong>Collection Date:</strong> {{.Summary.CollectionDate}}</p>
      {{- end}}
    </div>
    <table>
      <thead>
        <tr>
          <th>No.</th>
          <th>Patient Name</th>
          <th>Tracking Number</th>
          <th>Address</th>
          <th>Delivery Code</th>
        </tr>
      </thead>
      <tbody>
        {{- range .Rows}}
        <tr>
          <td>{{.Number}}</td>
          <td>{{.PatientName}}</td>
          <td>{{.TrackingNumber}}</td>
          <td>{{.Address}}</td>
          <td>{{.DeliveryCode}}</td>
        </tr>
        {{- end}}
      </tbody>
    </table>
  </body>
</html>
`))

// ManifestHTML renders the printable manifest from a frozen snapshot.
func ManifestHTML(p model.PreviewData) ([]byte, error) {
	var buf bytes.Buffer
	if err := manifestTemplate.Execute(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
