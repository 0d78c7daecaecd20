package repos

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// DocumentCollection stores JSON documents in the shared documents table,
// partitioned by collection name and ordered by the seq column.
type DocumentCollection[T any] struct {
	db   *sqlx.DB
	name string
	key  KeyFunc[T]
}

func NewDocumentCollection[T any](db *sqlx.DB, name string, key KeyFunc[T]) *DocumentCollection[T] {
	return &DocumentCollection[T]{db: db, name: name, key: key}
}

func (d *DocumentCollection[T]) Insert(ctx context.Context, doc T) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s document: %w", d.name, err)
	}
	_, err = d.db.ExecContext(ctx, d.db.Rebind(`
		INSERT INTO documents(collection, doc_key, body)
		VALUES(?, ?, ?)
	`), d.name, d.key(doc), string(body))
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (d *DocumentCollection[T]) List(ctx context.Context) ([]T, error) {
	var bodies []string
	if err := d.db.SelectContext(ctx, &bodies, d.db.Rebind(`
		SELECT body FROM documents
		WHERE collection = ?
		ORDER BY seq
	`), d.name); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(bodies))
	for _, b := range bodies {
		var doc T
		if err := json.Unmarshal([]byte(b), &doc); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", d.name, err)
		}
		out = append(out, doc)
	}
	return out, nil
}

func (d *DocumentCollection[T]) Count(ctx context.Context) (int, error) {
	var n int
	err := d.db.GetContext(ctx, &n, d.db.Rebind(`SELECT COUNT(*) FROM documents WHERE collection = ?`), d.name)
	return n, err
}

func (d *DocumentCollection[T]) Get(ctx context.Context, key string) (T, error) {
	var doc T
	var body string
	err := d.db.GetContext(ctx, &body, d.db.Rebind(`
		SELECT body FROM documents WHERE collection = ? AND doc_key = ?
	`), d.name, key)
	if errors.Is(err, sql.ErrNoRows) {
		return doc, ErrNotFound
	}
	if err != nil {
		return doc, err
	}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return doc, fmt.Errorf("decode %s document: %w", d.name, err)
	}
	return doc, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
