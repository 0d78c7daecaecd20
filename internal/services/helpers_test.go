package services_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"artisanhub/internal/blob"
	"artisanhub/internal/repos"
	"artisanhub/internal/services"
	"artisanhub/internal/story"
)

// memBlobs records puts and can be told to fail the n-th put.
type memBlobs struct {
	mu     sync.Mutex
	data   map[string][]byte
	puts   int
	failAt int
}

func newMemBlobs() *memBlobs { return &memBlobs{data: map[string][]byte{}} }

func (m *memBlobs) Put(_ context.Context, key string, r io.Reader) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.failAt != 0 && m.puts == m.failAt {
		return errors.New("disk full")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

func (m *memBlobs) Open(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return nil, blob.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(string(b))), nil
}

func (m *memBlobs) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memBlobs) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

type staticStory string

func (s staticStory) Generate(context.Context, string) string { return string(s) }

type fixture struct {
	stores  *repos.Stores
	blobs   *memBlobs
	auth    *services.AuthService
	catalog *services.CatalogService
}

func newFixture(t *testing.T, gen story.Generator) *fixture {
	t.Helper()
	st := repos.NewMemoryStores()
	b := newMemBlobs()
	up := services.NewUploadService(b)
	auth := services.NewAuthService(st, up)
	auth.HashCost = 4
	if gen == nil {
		gen = story.Template{}
	}
	return &fixture{
		stores:  st,
		blobs:   b,
		auth:    auth,
		catalog: services.NewCatalogService(st.Products, up, gen),
	}
}

func file(name, body string) *services.File {
	return &services.File{Name: name, Body: strings.NewReader(body)}
}

func requireField(t *testing.T, err error, field string) {
	t.Helper()
	var fe *services.FieldError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, field, fe.Field)
}
