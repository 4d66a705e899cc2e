package model

type Customer struct {
	Name          string `json:"name"`
	PatientNumber string `json:"patientNumber"`
	TotalOrders   int    `json:"totalOrders"`
	LastOrderDate string `json:"lastOrderDate"`
}

type GetCustomersResponse = []Customer
