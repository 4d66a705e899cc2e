package service

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorushbn/pharmacydash/internal/model"
)

// BulkUpdateGoRushStatus fans the status change out over the selection,
// one upstream call per order. Failures are tallied and reported; nothing
// is retried or rolled back.
func (s *Service) BulkUpdateGoRushStatus(ctx context.Context, role model.Role, input model.BulkStatusDTO) (*model.BulkResult, *model.APIError) {
	if !role.CanUpdateGoRushStatus() {
		return nil, &model.APIError{
			Code:    http.StatusForbidden,
			Message: model.ErrPermissionDeniedMessage,
		}
	}
	if len(input.OrderIDs) == 0 {
		return nil, &model.APIError{
			Code:    http.StatusBadRequest,
			Message: model.ErrEmptySelectionMessage,
		}
	}

	result := s.fanOut(ctx, input.OrderIDs, func(ctx context.Context, orderID string) error {
		return s.orders.UpdateGoRushStatus(ctx, role, orderID, input.Status)
	})

	s.cache.DeletePrefix(ordersCachePrefix)
	return result, nil
}

// BulkUpdateCollectionDate assigns one collection date to every tracking
// number in the selection.
func (s *Service) BulkUpdateCollectionDate(ctx context.Context, role model.Role, input model.BulkCollectionDateDTO) (*model.BulkResult, *model.APIError) {
	if apiErr := validateCollectionDate(input.CollectionDate); apiErr != nil {
		return nil, apiErr
	}
	if len(input.TrackingNumbers) == 0 {
		return nil, &model.APIError{
			Code:    http.StatusBadRequest,
			Message: model.ErrEmptySelectionMessage,
		}
	}

	date := upstreamDateFormat(input.CollectionDate)
	result := s.fanOut(ctx, input.TrackingNumbers, func(ctx context.Context, trackingNumber string) error {
		return s.orders.UpdateCollectionDateByTracking(ctx, role, trackingNumber, date)
	})

	s.cache.DeletePrefix(ordersCachePrefix)
	return result, nil
}

// fanOut runs fn for every item through a bounded worker pool. Context
// cancellation abandons the items still queued; items already in flight
// finish or fail on their own.
func (s *Service) fanOut(ctx context.Context, items []string, fn func(ctx context.Context, item string) error) *model.BulkResult {
	jobs := make(chan string)

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		updated int
		failed  []string
	)

	workers := s.bulkWorkers
	if workers > len(items) {
		workers = len(items)
	}

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range jobs {
				err := fn(ctx, item)

				mu.Lock()
				if err != nil {
					s.lg.Errorf("bulk update %q error: %v", item, err)
					failed = append(failed, item)
				} else {
					updated++
				}
				mu.Unlock()
			}
		}()
	}

	for _, item := range items {
		select {
		case jobs <- item:
		case <-ctx.Done():
			mu.Lock()
			failed = append(failed, item)
			mu.Unlock()
		}
	}
	close(jobs)

	wg.Wait()

	return &model.BulkResult{
		Requested: len(items),
		Updated:   updated,
		Failed:    failed,
	}
}
