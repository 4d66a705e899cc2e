package model

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusCollected  OrderStatus = "collected"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

const (
	JobMethodStandard    = "Standard"
	JobMethodExpress     = "Express"
	JobMethodImmediate   = "Immediate"
	JobMethodSelfCollect = "Self Collect"
)

const (
	ProductPharmacyJPMC = "pharmacyjpmc"
	ProductPharmacyMOH  = "pharmacymoh"
)

type Order struct {
	ID                  string     `json:"_id"`
	DOTrackingNumber    string     `json:"doTrackingNumber"`
	ReceiverName        string     `json:"receiverName"`
	ReceiverAddress     string     `json:"receiverAddress"`
	ReceiverPhoneNumber string     `json:"receiverPhoneNumber"`
	PatientNumber       string     `json:"patientNumber"`
	JobMethod           string     `json:"jobMethod"`
	AppointmentDistrict string     `json:"appointmentDistrict"`
	SendOrderTo         string     `json:"sendOrderTo"`
	Product             string     `json:"product"`
	GoRushStatus        string     `json:"goRushStatus"`
	PharmacyStatus      string     `json:"pharmacyStatus"`
	CreationDate        string     `json:"creationDate"`
	CollectionDate      string     `json:"collectionDate"`
	CollectionStatus    string     `json:"collectionStatus,omitempty"`
	MedicationName      string     `json:"medicationName,omitempty"`
	Remarks             string     `json:"remarks,omitempty"`
	InternalRemarks     string     `json:"internalRemarks,omitempty"`
	Area                string     `json:"area,omitempty"`
	Logs                []OrderLog `json:"logs,omitempty"`
}

// OrderLog - audit entry attached to an order by the upstream system.
type OrderLog struct {
	CreatedBy string `json:"createdBy"`
	CreatedAt string `json:"createdAt"`
	Note      string `json:"note"`
}

type GetOrdersResponse = []Order

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

type UpdateCollectionDateDTO struct {
	CollectionDate   string `json:"collectionDate"`
	CollectionStatus string `json:"collectionStatus,omitempty"`
}

type BulkStatusDTO struct {
	OrderIDs []string `json:"orderIds"`
	Status   string   `json:"status"`
}

type BulkCollectionDateDTO struct {
	TrackingNumbers []string `json:"trackingNumbers"`
	CollectionDate  string   `json:"collectionDate"`
}

// BulkResult - tally of a parallel fan-out; failed items are reported,
// never retried or rolled back.
type BulkResult struct {
	Requested int      `json:"requested"`
	Updated   int      `json:"updatedCount"`
	Failed    []string `json:"failed,omitempty"`
}

type SearchOrdersDTO struct {
	Term string `json:"term"`
}

// ReorderDTO - options for re-placing a past order through the upstream
// reorder webhook.
type ReorderDTO struct {
	JobMethod     string `json:"jobMethod"`
	PaymentMethod string `json:"paymentMethod"`
	Remarks       string `json:"remarks,omitempty"`
}
