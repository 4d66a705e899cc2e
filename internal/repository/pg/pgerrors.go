package pg

import (
	"errors"

	"github.com/lib/pq"
)

type ErrorClassification int

const (
	NonRetriable ErrorClassification = iota
	Retriable

	ErrIsExistCode = "23505"
)

type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify decides whether an error is worth retrying. Only pq errors in
// the connection, transaction-rollback and cannot-connect-now classes
// count as transient; everything else is final.
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return NonRetriable
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return classifyPgError(pqErr)
	}

	return NonRetriable
}

func classifyPgError(pqErr *pq.Error) ErrorClassification {
	// https://www.postgresql.org/docs/current/errcodes-appendix.html
	switch pqErr.Code {
	case "08000", "08001", "08003", "08004", "08006", "08007": // connection
		return Retriable
	case "40000", "40001", "40P01": // transaction rollback, deadlock
		return Retriable
	case "57P03": // cannot_connect_now
		return Retriable
	}

	return NonRetriable
}

// IsDuplicate reports a unique-constraint violation.
func IsDuplicate(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == ErrIsExistCode
}
