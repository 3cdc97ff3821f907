package autoview_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tomselect"
	"github.com/dmitrymomot/tomselect/autoview"
	"github.com/dmitrymomot/tomselect/registry"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	store := registry.NewMemory(registry.WithCleanupInterval(0))
	t.Cleanup(func() { _ = store.Close() })
	return registry.New(store)
}

func ensure(t *testing.T, reg *registry.Registry, spec registry.Spec) {
	t.Helper()
	require.NoError(t, reg.Ensure(context.Background(), spec))
}

func get(t *testing.T, h http.Handler, term, fieldID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/?term="+term+"&field_id="+fieldID, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) tomselect.Response {
	t.Helper()
	var resp tomselect.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestView_ServeHTTP(t *testing.T) {
	t.Parallel()

	t.Run("answers a registered widget", func(t *testing.T) {
		t.Parallel()

		reg := newRegistry(t)
		ensure(t, reg, registry.Spec{UUID: "u1", Source: "cities"})

		view := autoview.New(reg, autoview.WithSource("cities", cities()))
		rec := get(t, view, "berlin", "u1")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

		resp := decode(t, rec)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "Berlin", resp.Results[0].Text)
	})

	t.Run("verifies signed field ids", func(t *testing.T) {
		t.Parallel()

		signer, err := tomselect.NewSigner(testSecret)
		require.NoError(t, err)

		reg := newRegistry(t)
		ensure(t, reg, registry.Spec{UUID: "u1", Source: "cities"})

		view := autoview.New(reg,
			autoview.WithSigner(signer),
			autoview.WithSource("cities", cities()),
		)

		rec := get(t, view, "berlin", signer.Sign("u1"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode(t, rec).Results, 1)
	})

	t.Run("rejects a forged field id", func(t *testing.T) {
		t.Parallel()

		signer, err := tomselect.NewSigner(testSecret)
		require.NoError(t, err)

		reg := newRegistry(t)
		ensure(t, reg, registry.Spec{UUID: "u1", Source: "cities"})

		view := autoview.New(reg,
			autoview.WithSigner(signer),
			autoview.WithSource("cities", cities()),
		)

		rec := get(t, view, "berlin", "u1")
		assert.Equal(t, http.StatusNotFound, rec.Code, "raw uuid must not pass signature check")

		other, err := tomselect.NewSigner("ffffffffffffffffffffffffffffffff")
		require.NoError(t, err)
		rec = get(t, view, "berlin", other.Sign("u1"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown widget is not found", func(t *testing.T) {
		t.Parallel()

		view := autoview.New(newRegistry(t), autoview.WithSource("cities", cities()))
		rec := get(t, view, "berlin", "nope")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("expired registration is not found", func(t *testing.T) {
		t.Parallel()

		store := registry.NewMemory(registry.WithCleanupInterval(0))
		t.Cleanup(func() { _ = store.Close() })
		reg := registry.New(store, registry.WithTTL(time.Millisecond))
		ensure(t, reg, registry.Spec{UUID: "u1", Source: "cities"})
		time.Sleep(5 * time.Millisecond)

		view := autoview.New(reg, autoview.WithSource("cities", cities()))
		rec := get(t, view, "berlin", "u1")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("store failure is a server error", func(t *testing.T) {
		t.Parallel()

		reg := registry.New(failingStore{})
		view := autoview.New(reg, autoview.WithSource("cities", cities()))

		rec := get(t, view, "berlin", "u1")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("widget bound to an unknown source is not found", func(t *testing.T) {
		t.Parallel()

		reg := newRegistry(t)
		ensure(t, reg, registry.Spec{UUID: "u1", Source: "gone"})

		view := autoview.New(reg)
		rec := get(t, view, "berlin", "u1")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("source failure degrades to empty results", func(t *testing.T) {
		t.Parallel()

		reg := newRegistry(t)
		ensure(t, reg, registry.Spec{UUID: "u1", Source: "broken"})

		broken := autoview.SourceFunc(func(context.Context, string, int) ([]tomselect.Result, error) {
			return nil, errors.New("db down")
		})
		view := autoview.New(reg, autoview.WithSource("broken", broken))

		rec := get(t, view, "berlin", "u1")
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode(t, rec)
		assert.NotNil(t, resp.Results)
		assert.Empty(t, resp.Results)
	})

	t.Run("labels are sanitized", func(t *testing.T) {
		t.Parallel()

		reg := newRegistry(t)
		ensure(t, reg, registry.Spec{UUID: "u1", Source: "raw"})

		raw := autoview.SourceFunc(func(context.Context, string, int) ([]tomselect.Result, error) {
			return []tomselect.Result{{ID: 1, Text: `<script>alert(1)</script>Berlin`}}, nil
		})
		view := autoview.New(reg, autoview.WithSource("raw", raw))

		rec := get(t, view, "b", "u1")
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode(t, rec)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "Berlin", resp.Results[0].Text)
	})

	t.Run("forwards dependent field values to the source", func(t *testing.T) {
		t.Parallel()

		reg := newRegistry(t)
		ensure(t, reg, registry.Spec{
			UUID:            "u1",
			Source:          "cities",
			DependentFields: map[string]string{"country": "country_id"},
		})

		src := &dependentSource{}
		view := autoview.New(reg, autoview.WithSource("cities", src))

		req := httptest.NewRequest(http.MethodGet, "/?term=a&field_id=u1&country=NL", nil)
		rec := httptest.NewRecorder()
		view.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]string{"country_id": "NL"}, src.deps)
		assert.Zero(t, src.plain, "dependent search must be preferred")
	})

	t.Run("empty parent values fall back to a plain search", func(t *testing.T) {
		t.Parallel()

		reg := newRegistry(t)
		ensure(t, reg, registry.Spec{
			UUID:            "u1",
			Source:          "cities",
			DependentFields: map[string]string{"country": "country_id"},
		})

		src := &dependentSource{}
		view := autoview.New(reg, autoview.WithSource("cities", src))

		rec := get(t, view, "a", "u1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, src.plain)
		assert.Nil(t, src.deps)
	})

	t.Run("source without dependent support still answers", func(t *testing.T) {
		t.Parallel()

		reg := newRegistry(t)
		ensure(t, reg, registry.Spec{
			UUID:            "u1",
			Source:          "cities",
			DependentFields: map[string]string{"country": "country_id"},
		})

		view := autoview.New(reg, autoview.WithSource("cities", cities()))

		req := httptest.NewRequest(http.MethodGet, "/?term=berlin&field_id=u1&country=DE", nil)
		rec := httptest.NewRecorder()
		view.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode(t, rec).Results, 1)
	})

	t.Run("caps results at the registered maximum", func(t *testing.T) {
		t.Parallel()

		reg := newRegistry(t)
		ensure(t, reg, registry.Spec{UUID: "u1", Source: "cities", MaxResults: 1})

		view := autoview.New(reg, autoview.WithSource("cities", cities()))
		rec := get(t, view, "am", "u1")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode(t, rec).Results, 1)
	})

	t.Run("rejects mutating methods", func(t *testing.T) {
		t.Parallel()

		view := autoview.New(newRegistry(t))

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		view.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
	})

	t.Run("head returns headers only", func(t *testing.T) {
		t.Parallel()

		reg := newRegistry(t)
		ensure(t, reg, registry.Spec{UUID: "u1", Source: "cities"})
		view := autoview.New(reg, autoview.WithSource("cities", cities()))

		req := httptest.NewRequest(http.MethodHead, "/?term=berlin&field_id=u1", nil)
		rec := httptest.NewRecorder()
		view.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestView_Mount(t *testing.T) {
	t.Parallel()

	reg := newRegistry(t)
	ensure(t, reg, registry.Spec{UUID: "u1", Source: "cities"})
	view := autoview.New(reg, autoview.WithSource("cities", cities()))

	r := chi.NewRouter()
	view.Mount(r, "/tomselect")

	req := httptest.NewRequest(http.MethodGet, tomselect.DefaultViewPath+"?term=berlin&field_id=u1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec).Results, 1)
}

// dependentSource records which search entry point the view chose.
type dependentSource struct {
	plain int
	deps  map[string]string
}

func (s *dependentSource) Search(context.Context, string, int) ([]tomselect.Result, error) {
	s.plain++
	return nil, nil
}

func (s *dependentSource) SearchDependent(_ context.Context, _ string, _ int, deps map[string]string) ([]tomselect.Result, error) {
	s.deps = deps
	return nil, nil
}

// failingStore simulates a backend outage.
type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) Get(context.Context, string) (registry.Spec, error) {
	return registry.Spec{}, errStoreDown
}

func (failingStore) Set(context.Context, string, registry.Spec, time.Duration) error {
	return errStoreDown
}

func (failingStore) Delete(context.Context, string) error { return errStoreDown }

func (failingStore) Has(context.Context, string) (bool, error) { return false, errStoreDown }

func (failingStore) Close() error { return nil }
