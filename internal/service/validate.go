package service

import (
	"net/http"
	"time"

	"github.com/gorushbn/pharmacydash/internal/model"
)

const (
	collectionDateLayout = "2006-01-02"
	upstreamDateLayout   = "02-01-2006"
)

// validateCollectionDate checks the ISO date the API accepts. Validation
// happens here, before any upstream request goes out.
func validateCollectionDate(date string) *model.APIError {
	if _, err := time.Parse(collectionDateLayout, date); err != nil {
		return &model.APIError{
			Code:    http.StatusBadRequest,
			Message: model.ErrInvalidDateMessage,
		}
	}
	return nil
}

// upstreamDateFormat converts a validated ISO date to the DD-MM-YYYY form
// the orders API stores.
func upstreamDateFormat(date string) string {
	t, err := time.Parse(collectionDateLayout, date)
	if err != nil {
		return date
	}
	return t.Format(upstreamDateLayout)
}
