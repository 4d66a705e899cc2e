package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorushbn/pharmacydash/internal/model"
)

type countingOrders struct {
	stubOrders
	mu     sync.Mutex
	seen   []string
	failOn map[string]bool
}

func (c *countingOrders) UpdateGoRushStatus(_ context.Context, _ model.Role, orderID, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, orderID)
	if c.failOn[orderID] {
		return errors.New("upstream rejected")
	}
	return nil
}

func (c *countingOrders) UpdateCollectionDateByTracking(_ context.Context, _ model.Role, trackingNumber, date string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.updatedDates == nil {
		c.updatedDates = make(map[string]string)
	}
	c.updatedDates[trackingNumber] = date
	return nil
}

func TestBulkUpdateGoRushStatus(t *testing.T) {
	orders := &countingOrders{}
	svc := newTestService(orders, &stubForms{})

	result, apiErr := svc.BulkUpdateGoRushStatus(context.Background(), model.RoleGoRush, model.BulkStatusDTO{
		OrderIDs: []string{"o1", "o2", "o3", "o4", "o5"},
		Status:   "collected",
	})

	require.Nil(t, apiErr)
	assert.Equal(t, 5, result.Requested)
	assert.Equal(t, 5, result.Updated)
	assert.Empty(t, result.Failed)
	assert.Len(t, orders.seen, 5)
}

func TestBulkUpdateGoRushStatus_PartialFailure(t *testing.T) {
	orders := &countingOrders{failOn: map[string]bool{"o2": true, "o4": true}}
	svc := newTestService(orders, &stubForms{})

	result, apiErr := svc.BulkUpdateGoRushStatus(context.Background(), model.RoleGoRush, model.BulkStatusDTO{
		OrderIDs: []string{"o1", "o2", "o3", "o4"},
		Status:   "collected",
	})

	require.Nil(t, apiErr)
	assert.Equal(t, 4, result.Requested)
	assert.Equal(t, 2, result.Updated)
	assert.ElementsMatch(t, []string{"o2", "o4"}, result.Failed)
}

func TestBulkUpdateGoRushStatus_RoleGate(t *testing.T) {
	orders := &countingOrders{}
	svc := newTestService(orders, &stubForms{})

	_, apiErr := svc.BulkUpdateGoRushStatus(context.Background(), model.RoleJPMC, model.BulkStatusDTO{
		OrderIDs: []string{"o1"},
		Status:   "collected",
	})

	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Code)
	assert.Empty(t, orders.seen)
}

func TestBulkUpdateGoRushStatus_EmptySelection(t *testing.T) {
	svc := newTestService(&stubOrders{}, &stubForms{})

	_, apiErr := svc.BulkUpdateGoRushStatus(context.Background(), model.RoleGoRush, model.BulkStatusDTO{
		Status: "collected",
	})

	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Code)
}

func TestBulkUpdateCollectionDate(t *testing.T) {
	orders := &countingOrders{}
	svc := newTestService(orders, &stubForms{})

	result, apiErr := svc.BulkUpdateCollectionDate(context.Background(), model.RoleGoRush, model.BulkCollectionDateDTO{
		TrackingNumbers: []string{"GR100", "GR101"},
		CollectionDate:  "2026-08-14",
	})

	require.Nil(t, apiErr)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, "14-08-2026", orders.updatedDates["GR100"])
}

func TestBulkUpdateCollectionDate_BadDate(t *testing.T) {
	svc := newTestService(&stubOrders{}, &stubForms{})

	_, apiErr := svc.BulkUpdateCollectionDate(context.Background(), model.RoleGoRush, model.BulkCollectionDateDTO{
		TrackingNumbers: []string{"GR100"},
		CollectionDate:  "14-08-2026",
	})

	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Code)
	assert.Equal(t, model.ErrInvalidDateMessage, apiErr.Message)
}

func TestBulk_CancelledContextAbandonsQueuedWork(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orders := &countingOrders{}
	svc := newTestService(orders, &stubForms{})

	result, apiErr := svc.BulkUpdateGoRushStatus(ctx, model.RoleGoRush, model.BulkStatusDTO{
		OrderIDs: []string{"o1", "o2", "o3"},
		Status:   "collected",
	})

	require.Nil(t, apiErr)
	assert.Equal(t, 3, result.Requested)
	assert.Equal(t, 3, len(result.Failed)+result.Updated+0)
}
