package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/lib/pq"

	"github.com/gorushbn/pharmacydash/internal/model"
)

const formColumns = `id, form_name, form_date, batch_no, start_no, end_no,
	moh_form, number_of_forms, form_creator, order_ids, preview_data, creation_date`

// CreateForm inserts a saved manifest and returns its generated id.
func (r *Repository) CreateForm(ctx context.Context, form model.Form) (string, error) {
	preview, err := json.Marshal(form.PreviewData)
	if err != nil {
		return "", fmt.Errorf("marshal preview data: %w", err)
	}

	var id int64
	err = r.executeWithRetryConnection(func(db *sql.DB) error {
		query := `INSERT INTO forms
			(form_name, form_date, batch_no, start_no, end_no, moh_form, number_of_forms, form_creator, order_ids, preview_data)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id`

		return db.QueryRowContext(ctx, query,
			form.FormName,
			form.FormDate,
			form.BatchNo,
			form.StartNo,
			form.EndNo,
			form.MohForm,
			form.NumberOfForms,
			form.FormCreator,
			pq.Array(form.OrderIDs),
			preview,
		).Scan(&id)
	})
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(id, 10), nil
}

// GetForms returns every saved form, newest first.
func (r *Repository) GetForms(ctx context.Context) ([]model.Form, error) {
	forms := make([]model.Form, 0)

	err := r.executeWithRetryConnection(func(db *sql.DB) error {
		query := `SELECT ` + formColumns + ` FROM forms ORDER BY creation_date DESC`

		rows, err := db.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		forms = forms[:0]
		for rows.Next() {
			form, err := scanForm(rows)
			if err != nil {
				return err
			}
			forms = append(forms, form)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return forms, nil
}

func (r *Repository) GetFormByID(ctx context.Context, id string) (*model.Form, error) {
	var form model.Form

	err := r.executeWithRetryConnection(func(db *sql.DB) error {
		query := `SELECT ` + formColumns + ` FROM forms WHERE id = $1`

		f, err := scanForm(db.QueryRowContext(ctx, query, id))
		if err != nil {
			return err
		}
		form = f
		return nil
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrFormNotFound
	}
	if err != nil {
		return nil, err
	}

	return &form, nil
}

// GetFormByOrderID finds the form whose manifest contains the order, or
// ErrFormNotFound when the order was never saved to a form.
func (r *Repository) GetFormByOrderID(ctx context.Context, orderID string) (*model.Form, error) {
	var form model.Form

	err := r.executeWithRetryConnection(func(db *sql.DB) error {
		query := `SELECT ` + formColumns + ` FROM forms WHERE $1 = ANY(order_ids)
			ORDER BY creation_date DESC LIMIT 1`

		f, err := scanForm(db.QueryRowContext(ctx, query, orderID))
		if err != nil {
			return err
		}
		form = f
		return nil
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrFormNotFound
	}
	if err != nil {
		return nil, err
	}

	return &form, nil
}

// GetSavedOrderIDs returns the distinct order ids across all saved forms.
// The aggregation pass uses this set for the noFormCreated counters.
func (r *Repository) GetSavedOrderIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)

	err := r.executeWithRetryConnection(func(db *sql.DB) error {
		query := `SELECT DISTINCT unnest(order_ids) FROM forms`

		rows, err := db.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		ids = ids[:0]
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return err
			}
			ids = append(ids, id)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForm(row rowScanner) (model.Form, error) {
	var (
		form    model.Form
		id      int64
		preview []byte
	)

	err := row.Scan(
		&id,
		&form.FormName,
		&form.FormDate,
		&form.BatchNo,
		&form.StartNo,
		&form.EndNo,
		&form.MohForm,
		&form.NumberOfForms,
		&form.FormCreator,
		pq.Array(&form.OrderIDs),
		&preview,
		&form.CreationDate,
	)
	if err != nil {
		return model.Form{}, err
	}

	form.ID = strconv.FormatInt(id, 10)
	if len(preview) > 0 {
		if err := json.Unmarshal(preview, &form.PreviewData); err != nil {
			return model.Form{}, fmt.Errorf("unmarshal preview data: %w", err)
		}
	}

	return form, nil
}
