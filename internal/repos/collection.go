package repos

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("document key already exists")
)

// Collection is an insertion-ordered set of documents with a unique key.
// Every backend presents the same operations so callers never branch on kind.
type Collection[T any] interface {
	// Insert appends doc, returning ErrDuplicate if its key is taken.
	Insert(ctx context.Context, doc T) error
	// List returns every document in insertion order.
	List(ctx context.Context) ([]T, error)
	Count(ctx context.Context) (int, error)
	// Get returns the document stored under key or ErrNotFound.
	Get(ctx context.Context, key string) (T, error)
}

// KeyFunc extracts the unique key of a document.
type KeyFunc[T any] func(T) string
