package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gorushbn/pharmacydash/internal/engine"
	"github.com/gorushbn/pharmacydash/internal/model"
	"github.com/gorushbn/pharmacydash/internal/service"
	"github.com/gorushbn/pharmacydash/pgk/auth"
)

type Service interface {
	CreateSession(input model.SessionDTO) (string, *model.APIError)
	VerifySession(token string) (*model.TokenInfo, error)

	GetDashboard(ctx context.Context, role model.Role, q engine.Query) (*service.Dashboard, *model.APIError)
	GetCollectionDates(ctx context.Context, role model.Role) ([]string, *model.APIError)
	GetCollectionDateGroups(ctx context.Context, role model.Role) (engine.DateGroups, *model.APIError)
	GetOrdersForDate(ctx context.Context, role model.Role, date string, q engine.Query) ([]model.Order, *model.APIError)
	UpdateGoRushStatus(ctx context.Context, role model.Role, orderID, status string) *model.APIError
	UpdatePharmacyStatus(ctx context.Context, role model.Role, orderID, status string) *model.APIError
	UpdateCollectionDate(ctx context.Context, role model.Role, orderID, date string) *model.APIError
	BulkUpdateGoRushStatus(ctx context.Context, role model.Role, input model.BulkStatusDTO) (*model.BulkResult, *model.APIError)
	BulkUpdateCollectionDate(ctx context.Context, role model.Role, input model.BulkCollectionDateDTO) (*model.BulkResult, *model.APIError)
	SearchOrders(ctx context.Context, role model.Role, term string) ([]model.Order, *model.APIError)
	Reorder(ctx context.Context, role model.Role, orderID string, input model.ReorderDTO) *model.APIError
	GetAgingSummary(ctx context.Context, role model.Role) (*engine.AgingSummary, *model.APIError)

	PreviewManifest(ctx context.Context, role model.Role, input model.SaveFormDTO) (*model.PreviewData, *model.APIError)
	SaveManifest(ctx context.Context, role model.Role, input model.SaveFormDTO) (*model.SaveFormResponse, *model.APIError)
	GetManifests(ctx context.Context) ([]model.Form, *model.APIError)
	GetManifest(ctx context.Context, id string) (*model.Form, *model.APIError)
	GetManifestByOrderID(ctx context.Context, orderID string) (*model.Form, *model.APIError)
	ExportManifest(ctx context.Context, id, format string) (*service.Export, *model.APIError)
	GetSavedOrders(ctx context.Context) ([]string, *model.APIError)

	GetCustomers(ctx context.Context, role model.Role) ([]model.Customer, *model.APIError)
	GetCustomerOrders(ctx context.Context, role model.Role, patientNumber string) ([]service.CustomerOrder, *model.APIError)
}

type Controller struct {
	service Service
	lg      *zap.SugaredLogger
}

func New(s Service, lg *zap.SugaredLogger) *Controller {
	return &Controller{
		lg:      lg,
		service: s,
	}
}

func (c *Controller) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, c.lg, map[string]string{"status": "ok"}, http.StatusOK)
}

func (c *Controller) CreateSession(w http.ResponseWriter, r *http.Request) {
	body, err := readBody[model.SessionDTO](r)
	if err != nil {
		c.lg.Errorf("failed to parse request body: %v", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	token, apiErr := c.service.CreateSession(body)
	if apiErr != nil {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}

	w.Header().Set("Authorization", token)
	writeJSON(w, c.lg, map[string]string{"token": token, "role": body.Role}, http.StatusOK)
}

func (c *Controller) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, apiErr := c.service.GetDashboard(r.Context(), roleFrom(r), queryFrom(r))
	if apiErr != nil {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}

	writeJSON(w, c.lg, dashboard, http.StatusOK)
}

func (c *Controller) GetCollectionDates(w http.ResponseWriter, r *http.Request) {
	dates, apiErr := c.service.GetCollectionDates(r.Context(), roleFrom(r))
	if apiErr != nil {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}

	writeJSON(w, c.lg, dates, http.StatusOK)
}

func (c *Controller) GetOrdersForDate(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")

	orders, apiErr := c.service.GetOrdersForDate(r.Context(), roleFrom(r), date, queryFrom(r))
	if apiErr != nil {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}

	writeJSON(w, c.lg, orders, http.StatusOK)
}

func (c *Controller) GetPendingCollection(w http.ResponseWriter, r *http.Request) {
	groups, apiErr := c.service.GetCollectionDateGroups(r.Context(), roleFrom(r))
	if apiErr != nil {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}

	writeJSON(w, c.lg, groups, http.StatusOK)
}

func (c *Controller) UpdateGoRushStatus(w http.ResponseWriter, r *http.Request) {
	body, err := readBody[model.UpdateStatusDTO](r)
	if err != nil {
		c.lg.Errorf("failed to parse request body: %v", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	apiErr := c.service.UpdateGoRushStatus(r.Context(), roleFrom(r), chi.URLParam(r, "id"), body.Status)
	if apiErr != nil {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (c *Controller) UpdatePharmacyStatus(w http.ResponseWriter, r *http.Request) {
	body, err := readBody[model.UpdateStatusDTO](r)
	if err != nil {
		c.lg.Errorf("failed to parse request body: %v", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	apiErr := c.service.UpdatePharmacyStatus(r.Context(), roleFrom(r), chi.URLParam(r, "id"), body.Status)
	if apiErr != nil {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (c *Controller) UpdateCollectionDate(w http.ResponseWriter, r *http.Request) {
	body, err := readBody[model.UpdateCollectionDateDTO](r)
	if err != nil {
		c.lg.Errorf("failed to parse request body: %v", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	apiErr := c.service.UpdateCollectionDate(r.Context(), roleFrom(r), chi.URLParam(r, "id"), body.CollectionDate)
	if apiErr != nil {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (c *Controller) BulkUpdateGoRushStatus(w http.ResponseWriter, r *http.Request) {
	body, err := readBody[model.BulkStatusDTO](r)
	if err != nil {
		c.lg.Errorf("failed to parse request body: %v", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	result, apiErr := c.service.BulkUpdateGoRushStatus(r.Context(), roleFrom(r), body)
	if apiErr != nil {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}

	writeJSON(w, c.lg, result, http.StatusOK)
}

func (c *Controller) BulkUpdateCollectionDate(w http.ResponseWriter, r *http.Request) {
	body, err := readBody[model.BulkCollectionDateDTO](r)
	if err != nil {
		c.lg.Errorf("failed to parse request body: %v", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	result, apiErr := c.service.BulkUpdateCollectionDate(r.Context(), roleFrom(r), body)
	if apiErr != nil {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}

	writeJSON(w, c.lg, result, http.StatusOK)
}

func (c *Controller) SearchOrders(w http.ResponseWriter, r *http.Request) {
	body, err := readBody[model.SearchOrdersDTO](r)
	if err != nil {
		c.lg.Errorf("failed to parse request body: %v", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	orders, apiErr := c.service.SearchOrders(r.Context(), roleFrom(r), body.Term)
	if apiErr != nil {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}

	writeJSON(w, c.lg, orders, http.StatusOK)
}

func (c *Controller) Reorder(w http.ResponseWriter, r *http.Request) {
	body, err := readBody[model.ReorderDTO](r)
	if err != nil {
		c.lg.Errorf("failed to parse request body: %v", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	apiErr := c.service.Reorder(r.Context(), roleFrom(r), chi.URLParam(r, "id"), body)
	if apiErr != nil {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (c *Controller) GetAgingSummary(w http.ResponseWriter, r *http.Request) {
	summary, apiErr := c.service.GetAgingSummary(r.Context(), roleFrom(r))
	if apiErr != nil {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}

	writeJSON(w, c.lg, summary, http.StatusOK)
}

func (c *Controller) PreviewForm(w http.ResponseWriter, r *http.Request) {
	body, err := readBody[model.SaveFormDTO](r)
	if err != nil {
		c.lg.Errorf("failed to parse request body: %v", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	preview, apiErr := c.service.PreviewManifest(r.Context(), roleFrom(r), body)
	if apiErr != nil {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}

	writeJSON(w, c.lg, preview, http.StatusOK)
}

func (c *Controller) SaveForm(w http.ResponseWriter, r *http.Request) {
	body, err := readBody[model.SaveFormDTO](r)
	if err != nil {
		c.lg.Errorf("failed to parse request body: %v", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	resp, apiErr := c.service.SaveManifest(r.Context(), roleFrom(r), body)
	if apiErr != nil {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}

	writeJSON(w, c.lg, resp, http.StatusCreated)
}

func (c *Controller) GetForms(w http.ResponseWriter, r *http.Request) {
	forms, apiErr := c.service.GetManifests(r.Context())
	if apiErr != nil {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}

	writeJSON(w, c.lg, forms, http.StatusOK)
}

func (c *Controller) GetForm(w http.ResponseWriter, r *http.Request) {
	form, apiErr := c.service.GetManifest(r.Context(), chi.URLParam(r, "id"))
	if apiErr != nil {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}

	writeJSON(w, c.lg, form, http.StatusOK)
}

func (c *Controller) GetFormByOrder(w http.ResponseWriter, r *http.Request) {
	form, apiErr := c.service.GetManifestByOrderID(r.Context(), chi.URLParam(r, "id"))
	if apiErr != nil {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}

	writeJSON(w, c.lg, form, http.StatusOK)
}

func (c *Controller) ExportForm(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")

	result, apiErr := c.service.ExportManifest(r.Context(), chi.URLParam(r, "id"), format)
	if apiErr != nil {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(result.Data)
}

func (c *Controller) GetSavedOrders(w http.ResponseWriter, r *http.Request) {
	ids, apiErr := c.service.GetSavedOrders(r.Context())
	if apiErr != nil {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}

	writeJSON(w, c.lg, ids, http.StatusOK)
}

func (c *Controller) GetCustomers(w http.ResponseWriter, r *http.Request) {
	customers, apiErr := c.service.GetCustomers(r.Context(), roleFrom(r))
	if apiErr != nil {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}

	writeJSON(w, c.lg, customers, http.StatusOK)
}

func (c *Controller) GetCustomerOrders(w http.ResponseWriter, r *http.Request) {
	orders, apiErr := c.service.GetCustomerOrders(r.Context(), roleFrom(r), chi.URLParam(r, "patientNumber"))
	if apiErr != nil {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}

	writeJSON(w, c.lg, orders, http.StatusOK)
}

// roleFrom reads the role the middleware placed in the request context.
func roleFrom(r *http.Request) model.Role {
	if info := auth.GetTokenInfo[model.TokenInfo](r); info != nil {
		return info.Role
	}
	return ""
}

// queryFrom maps the filter query params onto one pipeline configuration.
func queryFrom(r *http.Request) engine.Query {
	q := r.URL.Query()
	return engine.Query{
		Tab:     engine.Category(q.Get("tab")),
		Search:  q.Get("search"),
		Status:  q.Get("status"),
		Product: q.Get("product"),
	}
}
