package http

import (
	"github.com/go-chi/chi/v5"
)

func InitRoutes(r *chi.Mux, c *Controller) *chi.Mux {
	r.Get("/api/health", c.Health)
	r.Post("/api/auth/session", c.CreateSession)

	r.Group(func(r chi.Router) {
		r.Use(c.RoleMiddleware)

		r.Get("/api/orders", c.GetDashboard)
		r.Get("/api/collection-dates", c.GetCollectionDates)
		r.Get("/api/orders/collection-dates", c.GetOrdersForDate)
		r.Get("/api/orders/pending-collection", c.GetPendingCollection)
		r.Get("/api/orders/aging-summary", c.GetAgingSummary)
		r.Put("/api/orders/{id}/go-rush-status", c.UpdateGoRushStatus)
		r.Put("/api/orders/{id}/pharmacy-status", c.UpdatePharmacyStatus)
		r.Put("/api/orders/{id}/collection-date", c.UpdateCollectionDate)
		r.Put("/api/orders/bulk-go-rush-status", c.BulkUpdateGoRushStatus)
		r.Post("/api/orders/bulk-collection-date", c.BulkUpdateCollectionDate)
		r.Post("/api/orders/search", c.SearchOrders)
		r.Post("/api/orders/{id}/reorder", c.Reorder)

		r.Get("/api/gr_dms/forms", c.GetForms)
		r.Post("/api/gr_dms/forms", c.SaveForm)
		r.Post("/api/gr_dms/forms/preview", c.PreviewForm)
		r.Get("/api/gr_dms/forms/by-order/{id}", c.GetFormByOrder)
		r.Get("/api/gr_dms/forms/{id}", c.GetForm)
		r.Get("/api/gr_dms/forms/{id}/export", c.ExportForm)
		r.Get("/api/gr_dms/saved-orders", c.GetSavedOrders)

		r.Get("/api/customers", c.GetCustomers)
		r.Get("/api/customers/{patientNumber}/orders", c.GetCustomerOrders)
	})

	return r
}
