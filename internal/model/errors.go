package model

import "errors"

type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	ErrInternalServerMessage      = "internal server error"
	ErrUpstreamUnavailableMessage = "orders service unavailable"
	ErrPermissionDeniedMessage    = "you do not have permission to update this status"
	ErrOrdersNotFoundMessage      = "no orders found"
	ErrFormNotFoundMessage        = "form not found"
	ErrInvalidAccessKeyMessage    = "invalid role or access key"
	ErrInvalidDateMessage         = "invalid date format, expected YYYY-MM-DD"
	ErrEmptySelectionMessage      = "at least one order must be selected"
	ErrFormAlreadySavedMessage    = "form already saved, numbering and date edits are disabled"
)

var ErrFormNotFound = errors.New(ErrFormNotFoundMessage)
