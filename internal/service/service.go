package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gorushbn/pharmacydash/internal/engine"
	"github.com/gorushbn/pharmacydash/internal/export"
	"github.com/gorushbn/pharmacydash/internal/model"
	"github.com/gorushbn/pharmacydash/internal/repository/upstream"
	"github.com/gorushbn/pharmacydash/pgk/auth"
	"github.com/gorushbn/pharmacydash/pgk/cache"
	"github.com/gorushbn/pharmacydash/pgk/password"
)

type OrdersRepo interface {
	GetOrders(ctx context.Context, role model.Role) ([]model.Order, error)
	GetCollectionDates(ctx context.Context, role model.Role) ([]string, error)
	GetOrdersForCollectionDate(ctx context.Context, role model.Role, date string) ([]model.Order, error)
	UpdateGoRushStatus(ctx context.Context, role model.Role, orderID, status string) error
	UpdatePharmacyStatus(ctx context.Context, role model.Role, orderID, status string) error
	UpdateCollectionDate(ctx context.Context, role model.Role, orderID string, dto model.UpdateCollectionDateDTO) error
	UpdateCollectionDateByTracking(ctx context.Context, role model.Role, trackingNumber, date string) error
	GetCustomers(ctx context.Context, role model.Role) ([]model.Customer, error)
	GetCustomerOrders(ctx context.Context, role model.Role, patientNumber string) ([]model.Order, error)
	SearchOrders(ctx context.Context, role model.Role, term string) ([]model.Order, error)
	Reorder(ctx context.Context, role model.Role, orderID string, dto model.ReorderDTO) error
}

type FormsRepo interface {
	CreateForm(ctx context.Context, form model.Form) (string, error)
	GetForms(ctx context.Context) ([]model.Form, error)
	GetFormByID(ctx context.Context, id string) (*model.Form, error)
	GetFormByOrderID(ctx context.Context, orderID string) (*model.Form, error)
	GetSavedOrderIDs(ctx context.Context) ([]string, error)
}

const ordersCachePrefix = "orders:"

type Service struct {
	orders OrdersRepo
	forms  FormsRepo
	cache  *cache.LRUCache[string, []model.Order]
	lg     *zap.SugaredLogger

	tokenSecret string
	tokenExp    time.Duration
	keyHashes   map[model.Role]string
	bulkWorkers int
}

type Options struct {
	TokenSecret string
	TokenExp    time.Duration
	CacheTTL    time.Duration
	KeyHashes   map[model.Role]string
	BulkWorkers int
}

func New(orders OrdersRepo, forms FormsRepo, lg *zap.SugaredLogger, opts Options) *Service {
	if opts.BulkWorkers <= 0 {
		opts.BulkWorkers = 8
	}

	return &Service{
		orders:      orders,
		forms:       forms,
		cache:       cache.New[string, []model.Order](cache.Config{MaxSize: 16, TTL: opts.CacheTTL}),
		lg:          lg,
		tokenSecret: opts.TokenSecret,
		tokenExp:    opts.TokenExp,
		keyHashes:   opts.KeyHashes,
		bulkWorkers: opts.BulkWorkers,
	}
}

// CreateSession checks the role's access key and issues a session token
// carrying the role.
func (s *Service) CreateSession(input model.SessionDTO) (string, *model.APIError) {
	role := model.Role(input.Role)
	hash, ok := s.keyHashes[role]
	if !role.Valid() || !ok {
		return "", &model.APIError{
			Code:    http.StatusUnauthorized,
			Message: model.ErrInvalidAccessKeyMessage,
		}
	}

	if !password.CheckPasswordHash(input.AccessKey, hash) {
		return "", &model.APIError{
			Code:    http.StatusUnauthorized,
			Message: model.ErrInvalidAccessKeyMessage,
		}
	}

	token, err := auth.GenerateBearerToken(model.TokenInfo{Role: role}, s.tokenExp, s.tokenSecret)
	if err != nil {
		return "", &model.APIError{
			Code:    http.StatusInternalServerError,
			Message: model.ErrInternalServerMessage,
		}
	}

	return token, nil
}

func (s *Service) VerifySession(token string) (*model.TokenInfo, error) {
	return auth.VerifyJWTBearerToken[model.TokenInfo](token, s.tokenSecret)
}

// Dashboard - the aggregated view for one role: full stats plus the subset
// of orders visible under the active query.
type Dashboard struct {
	Stats  engine.Stats  `json:"stats"`
	Orders []model.Order `json:"orders"`
}

func (s *Service) GetDashboard(ctx context.Context, role model.Role, q engine.Query) (*Dashboard, *model.APIError) {
	orders, apiErr := s.cachedOrders(ctx, role)
	if apiErr != nil {
		return nil, apiErr
	}

	idx, degraded := s.formIndex(ctx)

	stats := engine.Aggregate(orders, idx.SavedIDs)
	if degraded {
		// the view still renders without the forms collection, but the
		// no-form counters would be nonsense, so they are zeroed.
		stats.NoFormCreated = 0
		stats.StandardNoForm = 0
		stats.ExpressNoForm = 0
		stats.TTGNoForm = 0
		stats.KBNoForm = 0
	}

	return &Dashboard{
		Stats:  stats,
		Orders: engine.Filter(orders, q, idx),
	}, nil
}

func (s *Service) GetCollectionDates(ctx context.Context, role model.Role) ([]string, *model.APIError) {
	dates, err := s.orders.GetCollectionDates(ctx, role)
	if err != nil {
		return nil, upstreamAPIError(err)
	}
	return dates, nil
}

// GetCollectionDateGroups returns orders still missing a collection date,
// grouped by creation day and then pharmacy type.
func (s *Service) GetCollectionDateGroups(ctx context.Context, role model.Role) (engine.DateGroups, *model.APIError) {
	orders, apiErr := s.cachedOrders(ctx, role)
	if apiErr != nil {
		return nil, apiErr
	}

	pending := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if engine.NoCollectionDate(o) && !engine.IsCancelled(o) {
			pending = append(pending, o)
		}
	}

	return engine.GroupByCreationDate(pending), nil
}

func (s *Service) GetOrdersForDate(ctx context.Context, role model.Role, date string, q engine.Query) ([]model.Order, *model.APIError) {
	if apiErr := validateCollectionDate(date); apiErr != nil {
		return nil, apiErr
	}

	orders, err := s.orders.GetOrdersForCollectionDate(ctx, role, date)
	if err != nil {
		return nil, upstreamAPIError(err)
	}

	idx, _ := s.formIndex(ctx)
	return engine.Filter(engine.NormalizeAll(orders), q, idx), nil
}

func (s *Service) UpdateGoRushStatus(ctx context.Context, role model.Role, orderID, status string) *model.APIError {
	if !role.CanUpdateGoRushStatus() {
		return &model.APIError{
			Code:    http.StatusForbidden,
			Message: model.ErrPermissionDeniedMessage,
		}
	}

	if err := s.orders.UpdateGoRushStatus(ctx, role, orderID, status); err != nil {
		return upstreamAPIError(err)
	}

	s.cache.DeletePrefix(ordersCachePrefix)
	return nil
}

func (s *Service) UpdatePharmacyStatus(ctx context.Context, role model.Role, orderID, status string) *model.APIError {
	if !role.CanUpdatePharmacyStatus() {
		return &model.APIError{
			Code:    http.StatusForbidden,
			Message: model.ErrPermissionDeniedMessage,
		}
	}

	if err := s.orders.UpdatePharmacyStatus(ctx, role, orderID, status); err != nil {
		return upstreamAPIError(err)
	}

	s.cache.DeletePrefix(ordersCachePrefix)
	return nil
}

func (s *Service) UpdateCollectionDate(ctx context.Context, role model.Role, orderID, date string) *model.APIError {
	if apiErr := validateCollectionDate(date); apiErr != nil {
		return apiErr
	}

	dto := model.UpdateCollectionDateDTO{
		CollectionDate:   upstreamDateFormat(date),
		CollectionStatus: "scheduled",
	}
	if err := s.orders.UpdateCollectionDate(ctx, role, orderID, dto); err != nil {
		return upstreamAPIError(err)
	}

	s.cache.DeletePrefix(ordersCachePrefix)
	return nil
}

// PreviewManifest builds the draft preview for a selection without
// persisting anything.
func (s *Service) PreviewManifest(ctx context.Context, role model.Role, input model.SaveFormDTO) (*model.PreviewData, *model.APIError) {
	selected, apiErr := s.selectOrders(ctx, role, input.OrderIDs)
	if apiErr != nil {
		return nil, apiErr
	}

	preview := engine.BuildPreview(selected, startNumber(input), input.BatchNo, time.Now())
	if input.CollectionDate != "" {
		preview.Summary.CollectionDate = input.CollectionDate
	}

	return &preview, nil
}

// SaveManifest freezes the preview for a selection and persists it as a
// form. The stored snapshot is what every later export reads.
func (s *Service) SaveManifest(ctx context.Context, role model.Role, input model.SaveFormDTO) (*model.SaveFormResponse, *model.APIError) {
	selected, apiErr := s.selectOrders(ctx, role, input.OrderIDs)
	if apiErr != nil {
		return nil, apiErr
	}

	if apiErr := s.rejectAlreadySaved(ctx, selected); apiErr != nil {
		return nil, apiErr
	}

	preview := engine.BuildPreview(selected, startNumber(input), input.BatchNo, time.Now())
	if input.CollectionDate != "" {
		if apiErr := validateCollectionDate(input.CollectionDate); apiErr != nil {
			return nil, apiErr
		}
		preview.Summary.CollectionDate = input.CollectionDate
	}
	preview.SavedToDMS = true

	creator := input.FormCreator
	if creator == "" {
		creator = string(role)
	}

	form := model.Form{
		FormName:      engine.FormName(preview),
		FormDate:      preview.Meta.FormDate,
		BatchNo:       preview.Meta.BatchNo,
		StartNo:       preview.Meta.StartNo,
		EndNo:         preview.Meta.EndNo,
		MohForm:       mohFormFlag(selected),
		NumberOfForms: "1",
		FormCreator:   creator,
		OrderIDs:      input.OrderIDs,
		PreviewData:   preview,
	}

	id, err := s.forms.CreateForm(ctx, form)
	if err != nil {
		s.lg.Errorf("create form error: %v", err)
		return nil, &model.APIError{
			Code:    http.StatusInternalServerError,
			Message: model.ErrInternalServerMessage,
		}
	}

	return &model.SaveFormResponse{
		Success:  true,
		FormID:   id,
		FormName: form.FormName,
	}, nil
}

func (s *Service) GetManifests(ctx context.Context) ([]model.Form, *model.APIError) {
	forms, err := s.forms.GetForms(ctx)
	if err != nil {
		s.lg.Errorf("get forms error: %v", err)
		return nil, &model.APIError{
			Code:    http.StatusInternalServerError,
			Message: model.ErrInternalServerMessage,
		}
	}
	return forms, nil
}

func (s *Service) GetManifest(ctx context.Context, id string) (*model.Form, *model.APIError) {
	form, err := s.forms.GetFormByID(ctx, id)
	if errors.Is(err, model.ErrFormNotFound) {
		return nil, &model.APIError{
			Code:    http.StatusNotFound,
			Message: model.ErrFormNotFoundMessage,
		}
	}
	if err != nil {
		s.lg.Errorf("get form error: %v", err)
		return nil, &model.APIError{
			Code:    http.StatusInternalServerError,
			Message: model.ErrInternalServerMessage,
		}
	}

	// older rows may predate the snapshot carrying its own form id
	form.PreviewData.FormID = form.ID
	return form, nil
}

func (s *Service) GetManifestByOrderID(ctx context.Context, orderID string) (*model.Form, *model.APIError) {
	form, err := s.forms.GetFormByOrderID(ctx, orderID)
	if errors.Is(err, model.ErrFormNotFound) {
		return nil, &model.APIError{
			Code:    http.StatusNotFound,
			Message: model.ErrFormNotFoundMessage,
		}
	}
	if err != nil {
		s.lg.Errorf("get form by order error: %v", err)
		return nil, &model.APIError{
			Code:    http.StatusInternalServerError,
			Message: model.ErrInternalServerMessage,
		}
	}

	form.PreviewData.FormID = form.ID
	return form, nil
}

// Export - a rendered manifest document ready to serve.
type Export struct {
	Data        []byte
	ContentType string
	FileName    string
}

// ExportManifest re-renders a saved form in the requested format. Only the
// frozen snapshot is read; live order data never leaks into a re-export.
func (s *Service) ExportManifest(ctx context.Context, id, format string) (*Export, *model.APIError) {
	form, apiErr := s.GetManifest(ctx, id)
	if apiErr != nil {
		return nil, apiErr
	}

	switch format {
	case "", "xlsx":
		data, err := export.PackingListXLSX(form.PreviewData)
		if err != nil {
			s.lg.Errorf("render packing list error: %v", err)
			return nil, &model.APIError{
				Code:    http.StatusInternalServerError,
				Message: model.ErrInternalServerMessage,
			}
		}
		return &Export{
			Data:        data,
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			FileName:    export.PackingListFileName(form.PreviewData),
		}, nil
	case "html":
		data, err := export.ManifestHTML(form.PreviewData)
		if err != nil {
			s.lg.Errorf("render manifest html error: %v", err)
			return nil, &model.APIError{
				Code:    http.StatusInternalServerError,
				Message: model.ErrInternalServerMessage,
			}
		}
		return &Export{
			Data:        data,
			ContentType: "text/html; charset=utf-8",
			FileName:    form.FormName + ".html",
		}, nil
	default:
		return nil, &model.APIError{
			Code:    http.StatusBadRequest,
			Message: "unsupported export format: " + format,
		}
	}
}

// GetSavedOrders lists every order id already captured in a saved form.
func (s *Service) GetSavedOrders(ctx context.Context) ([]string, *model.APIError) {
	ids, err := s.forms.GetSavedOrderIDs(ctx)
	if err != nil {
		s.lg.Errorf("get saved order ids error: %v", err)
		return nil, &model.APIError{
			Code:    http.StatusInternalServerError,
			Message: model.ErrInternalServerMessage,
		}
	}
	return ids, nil
}

// CustomerOrder - an order annotated with its age classification for the
// customer history view.
type CustomerOrder struct {
	model.Order
	Aging       engine.Aging `json:"aging"`
	AgingStatus string       `json:"agingStatus,omitempty"`
}

func (s *Service) GetCustomers(ctx context.Context, role model.Role) ([]model.Customer, *model.APIError) {
	customers, err := s.orders.GetCustomers(ctx, role)
	if err != nil {
		return nil, upstreamAPIError(err)
	}
	return customers, nil
}

func (s *Service) GetCustomerOrders(ctx context.Context, role model.Role, patientNumber string) ([]CustomerOrder, *model.APIError) {
	orders, err := s.orders.GetCustomerOrders(ctx, role, patientNumber)
	if err != nil {
		return nil, upstreamAPIError(err)
	}

	now := time.Now()
	out := make([]CustomerOrder, 0, len(orders))
	for _, o := range engine.NormalizeAll(orders) {
		a := engine.ClassifyAging(o, now)
		out = append(out, CustomerOrder{
			Order:       o,
			Aging:       a,
			AgingStatus: a.StatusText(),
		})
	}

	return out, nil
}

func (s *Service) GetAgingSummary(ctx context.Context, role model.Role) (*engine.AgingSummary, *model.APIError) {
	orders, apiErr := s.cachedOrders(ctx, role)
	if apiErr != nil {
		return nil, apiErr
	}

	summary := engine.SummarizeAging(orders, time.Now())
	return &summary, nil
}

func (s *Service) SearchOrders(ctx context.Context, role model.Role, term string) ([]model.Order, *model.APIError) {
	orders, err := s.orders.SearchOrders(ctx, role, term)
	if err != nil {
		return nil, upstreamAPIError(err)
	}
	return engine.NormalizeAll(orders), nil
}

func (s *Service) Reorder(ctx context.Context, role model.Role, orderID string, input model.ReorderDTO) *model.APIError {
	if err := s.orders.Reorder(ctx, role, orderID, input); err != nil {
		return upstreamAPIError(err)
	}
	return nil
}

// cachedOrders serves the normalized order list from the per-role cache,
// fetching upstream on a miss.
func (s *Service) cachedOrders(ctx context.Context, role model.Role) ([]model.Order, *model.APIError) {
	key := ordersCachePrefix + string(role)
	if orders, ok := s.cache.Get(key); ok {
		return orders, nil
	}

	raw, err := s.orders.GetOrders(ctx, role)
	if err != nil {
		return nil, upstreamAPIError(err)
	}

	orders := engine.NormalizeAll(raw)
	s.cache.Set(key, orders)
	return orders, nil
}

// formIndex loads the saved-forms lookup. A store failure degrades to an
// empty index instead of failing the caller's whole view.
func (s *Service) formIndex(ctx context.Context) (engine.FormIndex, bool) {
	forms, err := s.forms.GetForms(ctx)
	if err != nil {
		s.lg.Errorf("get forms error: %v", err)
		return engine.NewFormIndex(nil), true
	}
	return engine.NewFormIndex(forms), false
}

// selectOrders resolves the selection ids against the live order list,
// preserving the selection's order.
func (s *Service) selectOrders(ctx context.Context, role model.Role, ids []string) ([]model.Order, *model.APIError) {
	if len(ids) == 0 {
		return nil, &model.APIError{
			Code:    http.StatusBadRequest,
			Message: model.ErrEmptySelectionMessage,
		}
	}

	orders, apiErr := s.cachedOrders(ctx, role)
	if apiErr != nil {
		return nil, apiErr
	}

	byID := make(map[string]model.Order, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}

	selected := make([]model.Order, 0, len(ids))
	for _, id := range ids {
		if o, ok := byID[id]; ok {
			selected = append(selected, o)
		}
	}

	if len(selected) == 0 {
		return nil, &model.APIError{
			Code:    http.StatusNotFound,
			Message: model.ErrOrdersNotFoundMessage,
		}
	}

	return selected, nil
}

// rejectAlreadySaved blocks re-saving orders that are already on a form;
// a saved form's numbering is frozen, so duplicates would clash with it. A
// store failure skips the check rather than blocking the save.
func (s *Service) rejectAlreadySaved(ctx context.Context, selected []model.Order) *model.APIError {
	savedIDs, err := s.forms.GetSavedOrderIDs(ctx)
	if err != nil {
		s.lg.Errorf("get saved order ids error: %v", err)
		return nil
	}

	saved := make(map[string]struct{}, len(savedIDs))
	for _, id := range savedIDs {
		saved[id] = struct{}{}
	}

	for _, o := range selected {
		if _, ok := saved[o.ID]; ok {
			return &model.APIError{
				Code:    http.StatusConflict,
				Message: model.ErrFormAlreadySavedMessage,
			}
		}
	}
	return nil
}

func startNumber(input model.SaveFormDTO) int {
	if input.StartNumber > 0 {
		return input.StartNumber
	}
	return 1
}

func mohFormFlag(selected []model.Order) string {
	for _, o := range selected {
		if o.Product == model.ProductPharmacyMOH {
			return "Yes"
		}
	}
	return "No"
}

// upstreamAPIError maps a failed orders-API call to an APIError: declared
// upstream statuses pass through with their message, transport failures
// become a bad-gateway reply.
func upstreamAPIError(err error) *model.APIError {
	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) {
		message := statusErr.Message
		if message == "" {
			message = model.ErrUpstreamUnavailableMessage
		}
		return &model.APIError{
			Code:    statusErr.StatusCode,
			Message: message,
		}
	}

	return &model.APIError{
		Code:    http.StatusBadGateway,
		Message: model.ErrUpstreamUnavailableMessage,
	}
}
