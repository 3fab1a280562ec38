package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ludotheque/internal/services"
)

// Scanner is the subset of *sql.Row and *sql.Rows used by descriptors.
type Scanner interface {
	Scan(dest ...any) error
}

// Overlay pairs a base column with the column holding its translation.
type Overlay struct {
	Base       string
	Translated string
}

// Descriptor describes how one entity type maps onto one table.
//
// Columns lists every column in scan order, key first. Values returns the
// arguments for Columns in the same order. Overlays lists translatable
// columns; TranslatedValues returns the arguments for their Translated
// columns in Overlays order.
type Descriptor[T any] struct {
	Table            string
	Key              string
	Columns          []string
	Overlays         []Overlay
	KeyOf            func(*T) any
	Values           func(*T) []any
	TranslatedValues func(*T) []any
	Scan             func(Scanner, *T) error
}

// Repository implements the persistence protocol for one descriptor.
type Repository[T any] struct {
	d Descriptor[T]
	q Querier

	existsSQL         string
	loadSQL           string
	loadTranslatedSQL string
	insertSQL         string
	upsertSQL         string
	deleteSQL         string
	translateSQL      string
	allSQL            string
}

// NewRepository prepares the statement text for d and binds it to q.
func NewRepository[T any](q Querier, d Descriptor[T]) *Repository[T] {
	cols := strings.Join(d.Columns, ", ")
	placeholders := makePlaceholders(len(d.Columns))

	r := &Repository[T]{
		d:                 d,
		q:                 q,
		existsSQL:         fmt.Sprintf("SELECT 1 FROM %s WHERE %s = ? LIMIT 1", d.Table, d.Key),
		loadSQL:           fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", cols, d.Table, d.Key),
		loadTranslatedSQL: fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", strings.Join(overlaySelect(d), ", "), d.Table, d.Key),
		insertSQL:         fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO NOTHING", d.Table, cols, placeholders, d.Key),
		upsertSQL:         fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO UPDATE SET %s", d.Table, cols, placeholders, d.Key, strings.Join(upsertAssignments(d), ", ")),
		deleteSQL:         fmt.Sprintf("DELETE FROM %s WHERE %s = ?", d.Table, d.Key),
		allSQL:            fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", cols, d.Table, d.Key),
	}
	if len(d.Overlays) > 0 {
		sets := make([]string, 0, len(d.Overlays))
		for _, o := range d.Overlays {
			sets = append(sets, o.Translated+" = ?")
		}
		r.translateSQL = fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", d.Table, strings.Join(sets, ", "), d.Key)
	}
	return r
}

// With returns a copy of the repository bound to another querier (usually a transaction).
func (r *Repository[T]) With(q Querier) *Repository[T] {
	clone := *r
	clone.q = q
	return &clone
}

// Table returns the backing table name.
func (r *Repository[T]) Table() string {
	return r.d.Table
}

// Exists reports whether a row with key is present.
func (r *Repository[T]) Exists(ctx context.Context, key any) (bool, error) {
	var one int
	err := r.q.QueryRowContext(ctx, r.existsSQL, key).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, services.Wrap(services.ErrStoreRead, r.d.Table, "exists", fmt.Sprint(key), err)
	}
	return true, nil
}

// Load returns the base variant of the row, or nil when absent.
func (r *Repository[T]) Load(ctx context.Context, key any) (*T, error) {
	return r.load(ctx, r.loadSQL, "load", key)
}

// LoadTranslated returns the row with every translatable column replaced by
// its translation when one is stored. Nil when absent.
func (r *Repository[T]) LoadTranslated(ctx context.Context, key any) (*T, error) {
	return r.load(ctx, r.loadTranslatedSQL, "load translated", key)
}

func (r *Repository[T]) load(ctx context.Context, query, op string, key any) (*T, error) {
	var entity T
	err := r.d.Scan(r.q.QueryRowContext(ctx, query, key), &entity)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, services.Wrap(services.ErrStoreRead, r.d.Table, op, fmt.Sprint(key), err)
	}
	return &entity, nil
}

// Save inserts the entity unless its key already exists. Existing rows are
// never overwritten.
func (r *Repository[T]) Save(ctx context.Context, entity *T) error {
	if entity == nil {
		return nil
	}
	return r.exec(ctx, "save", r.d.KeyOf(entity), r.insertSQL, r.d.Values(entity)...)
}

// Upsert inserts the entity or updates every non-key, non-translated column.
func (r *Repository[T]) Upsert(ctx context.Context, entity *T) error {
	if entity == nil {
		return nil
	}
	return r.exec(ctx, "upsert", r.d.KeyOf(entity), r.upsertSQL, r.d.Values(entity)...)
}

// Delete removes the row with key. Missing rows are not an error.
func (r *Repository[T]) Delete(ctx context.Context, key any) error {
	return r.exec(ctx, "delete", key, r.deleteSQL, key)
}

// Translate writes only the translated columns of the entity's row.
func (r *Repository[T]) Translate(ctx context.Context, entity *T) error {
	if entity == nil {
		return nil
	}
	key := r.d.KeyOf(entity)
	if r.translateSQL == "" {
		return services.Wrap(services.ErrValidation, r.d.Table, "translate", "entity has no translatable fields", nil)
	}
	args := append(r.d.TranslatedValues(entity), key)
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = r.q.ExecContext(ctx, r.translateSQL, args...)
		return execErr
	})
	if err != nil {
		return services.Wrap(services.ErrStoreWrite, r.d.Table, "translate", fmt.Sprint(key), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return services.Wrap(services.ErrNotFound, r.d.Table, "translate", fmt.Sprint(key), nil)
	}
	return nil
}

// All returns every row ordered by key.
func (r *Repository[T]) All(ctx context.Context) ([]T, error) {
	rows, err := r.q.QueryContext(ctx, r.allSQL)
	if err != nil {
		return nil, services.Wrap(services.ErrStoreRead, r.d.Table, "list", "", err)
	}
	defer rows.Close()
	var out []T
	for rows.Next() {
		var entity T
		if err := r.d.Scan(rows, &entity); err != nil {
			return nil, services.Wrap(services.ErrStoreRead, r.d.Table, "list", "scan", err)
		}
		out = append(out, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrStoreRead, r.d.Table, "list", "", err)
	}
	return out, nil
}

func (r *Repository[T]) exec(ctx context.Context, op string, key any, query string, args ...any) error {
	err := retryOnBusy(ctx, func() error {
		_, execErr := r.q.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		return services.Wrap(services.ErrStoreWrite, r.d.Table, op, fmt.Sprint(key), err)
	}
	return nil
}

func overlaySelect[T any](d Descriptor[T]) []string {
	translated := make(map[string]string, len(d.Overlays))
	for _, o := range d.Overlays {
		translated[o.Base] = o.Translated
	}
	out := make([]string, 0, len(d.Columns))
	for _, col := range d.Columns {
		if tr, ok := translated[col]; ok {
			out = append(out, fmt.Sprintf("COALESCE(NULLIF(%s, ''), %s)", tr, col))
			continue
		}
		out = append(out, col)
	}
	return out
}

func upsertAssignments[T any](d Descriptor[T]) []string {
	skip := map[string]struct{}{d.Key: {}}
	for _, o := range d.Overlays {
		skip[o.Translated] = struct{}{}
	}
	out := make([]string, 0, len(d.Columns))
	for _, col := range d.Columns {
		if _, ok := skip[col]; ok {
			continue
		}
		out = append(out, fmt.Sprintf("%s = excluded.%s", col, col))
	}
	return out
}
