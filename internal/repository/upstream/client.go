package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/gorushbn/pharmacydash/internal/model"
	"github.com/gorushbn/pharmacydash/pgk/retryablehttp"
)

const roleHeader = "X-User-Role"

// Client talks to the remote orders REST API. Every request carries the
// caller's role header; authorization is enforced upstream, this client
// only transports it.
type Client struct {
	address      string
	retryClient  *retryablehttp.RetryableClient
	lg           *zap.SugaredLogger
	stopPingChan chan struct{}
}

func New(address string, lg *zap.SugaredLogger) *Client {
	return &Client{
		address:     address,
		retryClient: retryablehttp.NewRetryableClient(retryablehttp.RetryConfig{}),
		lg:          lg,
	}
}

// StatusError - non-2xx upstream reply; the message is surfaced to the
// caller verbatim (permission failures included).
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("orders api: status %d: %s", e.StatusCode, e.Message)
}

func (c *Client) GetOrders(ctx context.Context, role model.Role) ([]model.Order, error) {
	var orders []model.Order
	if err := c.doJSON(ctx, role, http.MethodGet, "/api/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetCollectionDates(ctx context.Context, role model.Role) ([]string, error) {
	var dates []string
	if err := c.doJSON(ctx, role, http.MethodGet, "/api/collection-dates", nil, &dates); err != nil {
		return nil, err
	}
	return dates, nil
}

func (c *Client) GetOrdersForCollectionDate(ctx context.Context, role model.Role, date string) ([]model.Order, error) {
	var orders []model.Order
	path := "/api/orders/collection-dates?date=" + url.QueryEscape(date)
	if err := c.doJSON(ctx, role, http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) UpdateGoRushStatus(ctx context.Context, role model.Role, orderID, status string) error {
	body := model.UpdateStatusDTO{Status: status}
	return c.doJSON(ctx, role, http.MethodPut, "/api/orders/"+orderID+"/go-rush-status", body, nil)
}

func (c *Client) UpdatePharmacyStatus(ctx context.Context, role model.Role, orderID, status string) error {
	body := model.UpdateStatusDTO{Status: status}
	return c.doJSON(ctx, role, http.MethodPut, "/api/orders/"+orderID+"/pharmacy-status", body, nil)
}

func (c *Client) UpdateCollectionDate(ctx context.Context, role model.Role, orderID string, dto model.UpdateCollectionDateDTO) error {
	return c.doJSON(ctx, role, http.MethodPut, "/api/orders/"+orderID+"/collection-date", dto, nil)
}

func (c *Client) UpdateCollectionDateByTracking(ctx context.Context, role model.Role, trackingNumber, date string) error {
	body := model.BulkCollectionDateDTO{
		TrackingNumbers: []string{trackingNumber},
		CollectionDate:  date,
	}
	return c.doJSON(ctx, role, http.MethodPost, "/api/orders/bulk-collection-date", body, nil)
}

func (c *Client) GetCustomers(ctx context.Context, role model.Role) ([]model.Customer, error) {
	var customers []model.Customer
	if err := c.doJSON(ctx, role, http.MethodGet, "/api/customers", nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (c *Client) GetCustomerOrders(ctx context.Context, role model.Role, patientNumber string) ([]model.Order, error) {
	var orders []model.Order
	path := "/api/customers/" + url.PathEscape(patientNumber) + "/orders"
	if err := c.doJSON(ctx, role, http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) SearchOrders(ctx context.Context, role model.Role, term string) ([]model.Order, error) {
	var orders []model.Order
	body := model.SearchOrdersDTO{Term: term}
	if err := c.doJSON(ctx, role, http.MethodPost, "/api/orders/search", body, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Reorder triggers the upstream reorder webhook without creating a local
// record. The webhook looks the source order up by originalOrderId.
func (c *Client) Reorder(ctx context.Context, role model.Role, orderID string, dto model.ReorderDTO) error {
	body := struct {
		OriginalOrderID string `json:"originalOrderId"`
		model.ReorderDTO
	}{OriginalOrderID: orderID, ReorderDTO: dto}
	return c.doJSON(ctx, role, http.MethodPost, "/api/orders/reorder-webhook-only", body, nil)
}

func (c *Client) Health(ctx context.Context) error {
	return c.doJSON(ctx, "", http.MethodGet, "/api/health", nil, nil)
}

func (c *Client) doJSON(ctx context.Context, role model.Role, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.address+path, reqBody)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set(roleHeader, string(role))
	}

	response, err := c.retryClient.Do(ctx, req)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{
			StatusCode: response.StatusCode,
			Message:    readErrorMessage(response.Body),
		}
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(response.Body).Decode(out)
}

// readErrorMessage pulls {"message": ...} or {"error": ...} out of an
// upstream error body, falling back to the raw text.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}

	return string(raw)
}
