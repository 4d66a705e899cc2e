package model

import "time"

// PreviewRow - one manifest line as shown to the operator. Number is export
// metadata only, never a stable identifier.
type PreviewRow struct {
	Key            string `json:"key"`
	Number         string `json:"number"`
	PatientName    string `json:"patientName"`
	TrackingNumber string `json:"trackingNumber"`
	Address        string `json:"address"`
	DeliveryCode   string `json:"deliveryCode"`
	RawData        Order  `json:"rawData"`
}

type PreviewSummary struct {
	Total          int    `json:"total"`
	DeliveryMethod string `json:"deliveryMethod"`
	Batch          string `json:"batch"`
	FormDate       string `json:"formDate"`
	CollectionDate string `json:"collectionDate,omitempty"`
	Pharmacy       string `json:"pharmacy,omitempty"`
}

type PreviewMeta struct {
	JobMethod string `json:"jobMethod"`
	BatchNo   string `json:"batchNo"`
	StartNo   string `json:"startNo"`
	EndNo     string `json:"endNo"`
	FormDate  string `json:"formDate"`
}

// PreviewData - the frozen snapshot of a manifest. Once the form is saved
// re-export reads this snapshot, not live order data.
type PreviewData struct {
	Rows       []PreviewRow   `json:"rows"`
	Summary    PreviewSummary `json:"summary"`
	Meta       PreviewMeta    `json:"meta"`
	SavedToDMS bool           `json:"savedToDMS"`
	FormID     string         `json:"formId,omitempty"`
}

type Form struct {
	ID            string      `json:"id"`
	FormName      string      `json:"formName"`
	FormDate      string      `json:"formDate"`
	BatchNo       string      `json:"batchNo"`
	StartNo       string      `json:"startNo"`
	EndNo         string      `json:"endNo"`
	MohForm       string      `json:"mohForm"`
	NumberOfForms string      `json:"numberOfForms"`
	FormCreator   string      `json:"formCreator"`
	OrderIDs      []string    `json:"orderIds"`
	PreviewData   PreviewData `json:"previewData"`
	CreationDate  time.Time   `json:"creationDate"`
}

type SaveFormDTO struct {
	OrderIDs       []string `json:"orderIds"`
	StartNumber    int      `json:"startNumber"`
	BatchNo        string   `json:"batchNo"`
	CollectionDate string   `json:"collectionDate,omitempty"`
	FormCreator    string   `json:"formCreator,omitempty"`
}

type SaveFormResponse struct {
	Success  bool   `json:"success"`
	FormID   string `json:"formId"`
	FormName string `json:"formName"`
}
