package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gorushbn/pharmacydash/internal/engine"
	"github.com/gorushbn/pharmacydash/internal/model"
	"github.com/gorushbn/pharmacydash/internal/service"
)

// fakeService lets each test override just the methods it exercises.
type fakeService struct {
	createSession    func(model.SessionDTO) (string, *model.APIError)
	verifySession    func(string) (*model.TokenInfo, error)
	getDashboard     func(model.Role, engine.Query) (*service.Dashboard, *model.APIError)
	updateGoRush     func(model.Role, string, string) *model.APIError
	bulkGoRush       func(model.Role, model.BulkStatusDTO) (*model.BulkResult, *model.APIError)
	saveManifest     func(model.Role, model.SaveFormDTO) (*model.SaveFormResponse, *model.APIError)
	reorder          func(model.Role, string, model.ReorderDTO) *model.APIError
	exportManifest   func(string, string) (*service.Export, *model.APIError)
	getManifest      func(string) (*model.Form, *model.APIError)
	getCustomerOrder func(model.Role, string) ([]service.CustomerOrder, *model.APIError)
}

func (f *fakeService) CreateSession(input model.SessionDTO) (string, *model.APIError) {
	return f.createSession(input)
}

func (f *fakeService) VerifySession(token string) (*model.TokenInfo, error) {
	return f.verifySession(token)
}

func (f *fakeService) GetDashboard(_ context.Context, role model.Role, q engine.Query) (*service.Dashboard, *model.APIError) {
	return f.getDashboard(role, q)
}

func (f *fakeService) GetCollectionDates(context.Context, model.Role) ([]string, *model.APIError) {
	return []string{"2026-08-14"}, nil
}

func (f *fakeService) GetCollectionDateGroups(context.Context, model.Role) (engine.DateGroups, *model.APIError) {
	return engine.DateGroups{}, nil
}

func (f *fakeService) GetOrdersForDate(context.Context, model.Role, string, engine.Query) ([]model.Order, *model.APIError) {
	return nil, nil
}

func (f *fakeService) UpdateGoRushStatus(_ context.Context, role model.Role, orderID, status string) *model.APIError {
	return f.updateGoRush(role, orderID, status)
}

func (f *fakeService) UpdatePharmacyStatus(context.Context, model.Role, string, string) *model.APIError {
	return nil
}

func (f *fakeService) UpdateCollectionDate(context.Context, model.Role, string, string) *model.APIError {
	return nil
}

func (f *fakeService) BulkUpdateGoRushStatus(_ context.Context, role model.Role, input model.BulkStatusDTO) (*model.BulkResult, *model.APIError) {
	return f.bulkGoRush(role, input)
}

func (f *fakeService) BulkUpdateCollectionDate(context.Context, model.Role, model.BulkCollectionDateDTO) (*model.BulkResult, *model.APIError) {
	return &model.BulkResult{}, nil
}

func (f *fakeService) SearchOrders(context.Context, model.Role, string) ([]model.Order, *model.APIError) {
	return nil, nil
}

func (f *fakeService) Reorder(_ context.Context, role model.Role, orderID string, input model.ReorderDTO) *model.APIError {
	if f.reorder != nil {
		return f.reorder(role, orderID, input)
	}
	return nil
}

func (f *fakeService) GetAgingSummary(context.Context, model.Role) (*engine.AgingSummary, *model.APIError) {
	return &engine.AgingSummary{}, nil
}

func (f *fakeService) PreviewManifest(context.Context, model.Role, model.SaveFormDTO) (*model.PreviewData, *model.APIError) {
	return &model.PreviewData{}, nil
}

func (f *fakeService) SaveManifest(_ context.Context, role model.Role, input model.SaveFormDTO) (*model.SaveFormResponse, *model.APIError) {
	return f.saveManifest(role, input)
}

func (f *fakeService) GetManifests(context.Context) ([]model.Form, *model.APIError) {
	return nil, nil
}

func (f *fakeService) GetManifest(_ context.Context, id string) (*model.Form, *model.APIError) {
	return f.getManifest(id)
}

func (f *fakeService) GetManifestByOrderID(context.Context, string) (*model.Form, *model.APIError) {
	return nil, &model.APIError{Code: http.StatusNotFound, Message: model.ErrFormNotFoundMessage}
}

func (f *fakeService) ExportManifest(_ context.Context, id, format string) (*service.Export, *model.APIError) {
	return f.exportManifest(id, format)
}

func (f *fakeService) GetSavedOrders(context.Context) ([]string, *model.APIError) {
	return []string{"o1"}, nil
}

func (f *fakeService) GetCustomers(context.Context, model.Role) ([]model.Customer, *model.APIError) {
	return nil, nil
}

func (f *fakeService) GetCustomerOrders(_ context.Context, role model.Role, patientNumber string) ([]service.CustomerOrder, *model.APIError) {
	return f.getCustomerOrder(role, patientNumber)
}

func newTestRouter(svc *fakeService) *chi.Mux {
	if svc.verifySession == nil {
		svc.verifySession = func(string) (*model.TokenInfo, error) {
			return &model.TokenInfo{Role: model.RoleGoRush}, nil
		}
	}
	controller := New(svc, zap.NewNop().Sugar())
	return InitRoutes(chi.NewRouter(), controller)
}

func TestCreateSessionHandler(t *testing.T) {
	svc := &fakeService{
		createSession: func(input model.SessionDTO) (string, *model.APIError) {
			assert.Equal(t, "gorush", input.Role)
			return "Bearer token123", nil
		},
	}
	router := newTestRouter(svc)

	body, _ := json.Marshal(model.SessionDTO{Role: "gorush", AccessKey: "key"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/session", bytes.NewReader(body))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bearer token123", w.Header().Get("Authorization"))
}

func TestCreateSessionHandler_InvalidKey(t *testing.T) {
	svc := &fakeService{
		createSession: func(model.SessionDTO) (string, *model.APIError) {
			return "", &model.APIError{Code: http.StatusUnauthorized, Message: model.ErrInvalidAccessKeyMessage}
		},
	}
	router := newTestRouter(svc)

	body, _ := json.Marshal(model.SessionDTO{Role: "gorush", AccessKey: "bad"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/session", bytes.NewReader(body))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetDashboardHandler_RoleHeaderAndQuery(t *testing.T) {
	var gotRole model.Role
	var gotQuery engine.Query

	svc := &fakeService{
		getDashboard: func(role model.Role, q engine.Query) (*service.Dashboard, *model.APIError) {
			gotRole, gotQuery = role, q
			return &service.Dashboard{Stats: engine.Stats{All: 2}}, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/orders?tab=Express&search=GR1&status=pending&product=pharmacymoh", nil)
	req.Header.Set("X-User-Role", "moh")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.RoleMOH, gotRole)
	assert.Equal(t, engine.Query{
		Tab:     engine.CategoryExpress,
		Search:  "GR1",
		Status:  "pending",
		Product: "pharmacymoh",
	}, gotQuery)

	var dashboard service.Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dashboard))
	assert.Equal(t, 2, dashboard.Stats.All)
}

func TestProtectedRoute_NoCredentials(t *testing.T) {
	router := newTestRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoute_BadRoleHeader(t *testing.T) {
	router := newTestRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("X-User-Role", "driver")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoute_BearerToken(t *testing.T) {
	svc := &fakeService{
		verifySession: func(token string) (*model.TokenInfo, error) {
			assert.Equal(t, "Bearer token123", token)
			return &model.TokenInfo{Role: model.RoleJPMC}, nil
		},
		getDashboard: func(role model.Role, _ engine.Query) (*service.Dashboard, *model.APIError) {
			assert.Equal(t, model.RoleJPMC, role)
			return &service.Dashboard{}, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer token123")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateGoRushStatusHandler(t *testing.T) {
	svc := &fakeService{
		updateGoRush: func(role model.Role, orderID, status string) *model.APIError {
			assert.Equal(t, model.RoleGoRush, role)
			assert.Equal(t, "o42", orderID)
			assert.Equal(t, "collected", status)
			return nil
		},
	}
	router := newTestRouter(svc)

	body, _ := json.Marshal(model.UpdateStatusDTO{Status: "collected"})
	req := httptest.NewRequest(http.MethodPut, "/api/orders/o42/go-rush-status", bytes.NewReader(body))
	req.Header.Set("X-User-Role", "gorush")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateGoRushStatusHandler_Forbidden(t *testing.T) {
	svc := &fakeService{
		updateGoRush: func(model.Role, string, string) *model.APIError {
			return &model.APIError{Code: http.StatusForbidden, Message: model.ErrPermissionDeniedMessage}
		},
	}
	router := newTestRouter(svc)

	body, _ := json.Marshal(model.UpdateStatusDTO{Status: "collected"})
	req := httptest.NewRequest(http.MethodPut, "/api/orders/o42/go-rush-status", bytes.NewReader(body))
	req.Header.Set("X-User-Role", "moh")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), model.ErrPermissionDeniedMessage)
}

func TestBulkUpdateGoRushStatusHandler(t *testing.T) {
	svc := &fakeService{
		bulkGoRush: func(_ model.Role, input model.BulkStatusDTO) (*model.BulkResult, *model.APIError) {
			assert.Equal(t, []string{"o1", "o2"}, input.OrderIDs)
			return &model.BulkResult{Requested: 2, Updated: 2}, nil
		},
	}
	router := newTestRouter(svc)

	body, _ := json.Marshal(model.BulkStatusDTO{OrderIDs: []string{"o1", "o2"}, Status: "collected"})
	req := httptest.NewRequest(http.MethodPut, "/api/orders/bulk-go-rush-status", bytes.NewReader(body))
	req.Header.Set("X-User-Role", "gorush")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result model.BulkResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Updated)
}

func TestReorderHandler(t *testing.T) {
	svc := &fakeService{
		reorder: func(_ model.Role, orderID string, input model.ReorderDTO) *model.APIError {
			assert.Equal(t, "o42", orderID)
			assert.Equal(t, model.ReorderDTO{JobMethod: "Express", PaymentMethod: "Cash"}, input)
			return nil
		},
	}
	router := newTestRouter(svc)

	body, _ := json.Marshal(model.ReorderDTO{JobMethod: "Express", PaymentMethod: "Cash"})
	req := httptest.NewRequest(http.MethodPost, "/api/orders/o42/reorder", bytes.NewReader(body))
	req.Header.Set("X-User-Role", "jpmc")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestSaveFormHandler(t *testing.T) {
	svc := &fakeService{
		saveManifest: func(_ model.Role, input model.SaveFormDTO) (*model.SaveFormResponse, *model.APIError) {
			assert.Equal(t, []string{"o1"}, input.OrderIDs)
			return &model.SaveFormResponse{Success: true, FormID: "42", FormName: "Standard B1 S1-S1 14.08.26"}, nil
		},
	}
	router := newTestRouter(svc)

	body, _ := json.Marshal(model.SaveFormDTO{OrderIDs: []string{"o1"}, StartNumber: 1})
	req := httptest.NewRequest(http.MethodPost, "/api/gr_dms/forms", bytes.NewReader(body))
	req.Header.Set("X-User-Role", "gorush")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestExportFormHandler(t *testing.T) {
	svc := &fakeService{
		exportManifest: func(id, format string) (*service.Export, *model.APIError) {
			assert.Equal(t, "42", id)
			assert.Equal(t, "html", format)
			return &service.Export{
				Data:        []byte("<html></html>"),
				ContentType: "text/html; charset=utf-8",
				FileName:    "form.html",
			}, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/gr_dms/forms/42/export?format=html", nil)
	req.Header.Set("X-User-Role", "gorush")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "form.html")
}

func TestGetFormHandler_NotFound(t *testing.T) {
	svc := &fakeService{
		getManifest: func(string) (*model.Form, *model.APIError) {
			return nil, &model.APIError{Code: http.StatusNotFound, Message: model.ErrFormNotFoundMessage}
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/gr_dms/forms/999", nil)
	req.Header.Set("X-User-Role", "gorush")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCustomerOrdersHandler(t *testing.T) {
	svc := &fakeService{
		getCustomerOrder: func(_ model.Role, patientNumber string) ([]service.CustomerOrder, *model.APIError) {
			assert.Equal(t, "BN123", patientNumber)
			return []service.CustomerOrder{}, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/customers/BN123/orders", nil)
	req.Header.Set("X-User-Role", "moh")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthHandler_NoAuthRequired(t *testing.T) {
	router := newTestRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
