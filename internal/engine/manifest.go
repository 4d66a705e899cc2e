package engine

import (
	"fmt"
	"time"

	"github.com/gorushbn/pharmacydash/internal/model"
)

// NumberPrefix - manifest numbering prefix per job method.
func NumberPrefix(jobMethod string) string {
	switch jobMethod {
	case string(CategoryTTG):
		return "T"
	case string(CategoryKB):
		return "K"
	case model.JobMethodStandard:
		return "S"
	case model.JobMethodExpress:
		return "E"
	case model.JobMethodImmediate:
		return "IMM"
	case model.JobMethodSelfCollect:
		return "SC"
	default:
		return "O"
	}
}

// PharmacyName - dispensing pharmacy printed in the packing list footer,
// derived from the numbering prefix. Tutong runs go through PMMH, Kuala
// Belait through SSBH, everything else is the central MOH pharmacy.
func PharmacyName(prefix string) string {
	switch prefix {
	case "T":
		return "PMMH"
	case "K":
		return "SSBH"
	default:
		return "MOH Pharmacy"
	}
}

// DeliveryCode - code printed in the manifest's delivery column.
func DeliveryCode(jobMethod string) string {
	switch jobMethod {
	case model.JobMethodStandard:
		return "STD"
	case model.JobMethodExpress:
		return "EXP"
	case model.JobMethodImmediate:
		return "IMM"
	case model.JobMethodSelfCollect:
		return "SELF"
	case string(CategoryTTG):
		return "TTG"
	case string(CategoryKB):
		return "KB"
	default:
		return "OTH"
	}
}

// Number assigns sequence labels {prefix}{start+i} in selection order.
// Labels are export metadata only: a different start value or a reordered
// selection relabels everything.
func Number(prefix string, start, n int) []string {
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		labels[i] = fmt.Sprintf("%s%d", prefix, start+i)
	}
	return labels
}

// BatchLabel - "B{batchNo} {prefix}{start}-{prefix}{start+n-1}".
func BatchLabel(batchNo, prefix string, start, n int) string {
	return fmt.Sprintf("B%s %s%d-%s%d", batchNo, prefix, start, prefix, start+n-1)
}

// manifestJobMethod derives the manifest-wide job method from the first
// selected row, district rules first.
func manifestJobMethod(first model.Order) string {
	switch {
	case first.AppointmentDistrict == districtTutong && first.SendOrderTo == hospitalPMMH:
		return string(CategoryTTG)
	case first.AppointmentDistrict == districtBelait && first.SendOrderTo == hospitalSSBH:
		return string(CategoryKB)
	case first.JobMethod != "":
		return first.JobMethod
	default:
		return "OTH"
	}
}

const formDateLayout = "02.01.06"

// BuildPreview assembles the manifest snapshot for a row selection: numbered
// rows plus summary and meta blocks. This is the Draft state of a manifest;
// saving freezes the result.
func BuildPreview(selected []model.Order, start int, batchNo string, now time.Time) model.PreviewData {
	if batchNo == "" {
		batchNo = "1"
	}

	var jobMethod string
	if len(selected) > 0 {
		jobMethod = manifestJobMethod(selected[0])
	} else {
		jobMethod = "OTH"
	}

	prefix := NumberPrefix(jobMethod)
	labels := Number(prefix, start, len(selected))
	formDate := now.Format(formDateLayout)

	rows := make([]model.PreviewRow, len(selected))
	for i, o := range selected {
		o = Normalize(o)
		rows[i] = model.PreviewRow{
			Key:            o.ID,
			Number:         labels[i],
			PatientName:    o.ReceiverName,
			TrackingNumber: o.DOTrackingNumber,
			Address:        o.ReceiverAddress,
			DeliveryCode:   DeliveryCode(jobMethod),
			RawData:        o,
		}
	}

	startNo := fmt.Sprintf("%s%d", prefix, start)
	endNo := fmt.Sprintf("%s%d", prefix, start+len(selected)-1)

	return model.PreviewData{
		Rows: rows,
		Summary: model.PreviewSummary{
			Total:          len(selected),
			DeliveryMethod: jobMethod,
			Batch:          BatchLabel(batchNo, prefix, start, len(selected)),
			FormDate:       formDate,
			Pharmacy:       PharmacyName(prefix),
		},
		Meta: model.PreviewMeta{
			JobMethod: jobMethod,
			BatchNo:   batchNo,
			StartNo:   startNo,
			EndNo:     endNo,
			FormDate:  formDate,
		},
	}
}

// FormName - "{jobMethod} B{batch} {startNo}-{endNo} {DD.MM.YY}".
func FormName(p model.PreviewData) string {
	return fmt.Sprintf("%s B%s %s-%s %s",
		p.Meta.JobMethod, p.Meta.BatchNo, p.Meta.StartNo, p.Meta.EndNo, p.Meta.FormDate)
}
