package autoview

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/microcosm-cc/bluemonday"

	"github.com/dmitrymomot/tomselect"
	"github.com/dmitrymomot/tomselect/registry"
)

// View is the central query endpoint for registered heavy widgets.
type View struct {
	reg     *registry.Registry
	signer  *tomselect.Signer
	sources *Sources
	policy  *bluemonday.Policy
	log     *slog.Logger
}

// ViewOption configures the view.
type ViewOption func(*View)

// WithSigner verifies field identifiers before registry lookup. Widgets
// must be rendered with the same signer. Without one, raw widget UUIDs
// are accepted as field identifiers.
func WithSigner(s *tomselect.Signer) ViewOption {
	return func(v *View) {
		v.signer = s
	}
}

// WithSources replaces the view's source registry, for sharing one across
// views.
func WithSources(s *Sources) ViewOption {
	return func(v *View) {
		if s != nil {
			v.sources = s
		}
	}
}

// WithSource registers a single named source.
func WithSource(name string, src Source) ViewOption {
	return func(v *View) {
		v.sources.Register(name, src)
	}
}

// WithLogger sets the structured logger. Default: discard.
func WithLogger(log *slog.Logger) ViewOption {
	return func(v *View) {
		if log != nil {
			v.log = log
		}
	}
}

// New creates a view over the given registry.
func New(reg *registry.Registry, opts ...ViewOption) *View {
	v := &View{
		reg:     reg,
		sources: NewSources(),
		policy:  bluemonday.StrictPolicy(),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Sources returns the view's source registry for late registration.
func (v *View) Sources() *Sources {
	return v.sources
}

// ServeHTTP implements http.Handler for the auto.json endpoint.
func (v *View) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	query := r.URL.Query()
	term := query.Get("term")
	fieldID := query.Get("field_id")

	uuid := fieldID
	if v.signer != nil {
		verified, err := v.signer.Verify(fieldID)
		if err != nil {
			v.log.DebugContext(ctx, "rejected field id", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		uuid = verified
	}

	spec, err := v.reg.Lookup(ctx, uuid)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			// Unknown or expired registration; the form outlived its TTL.
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		v.log.ErrorContext(ctx, "registry lookup failed", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	src, ok := v.sources.Get(spec.Source)
	if !ok {
		v.log.WarnContext(ctx, "widget references unknown source",
			slog.String("source", spec.Source))
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	limit := spec.MaxResults
	if limit <= 0 {
		limit = tomselect.DefaultMaxResults
	}

	results, err := v.search(ctx, src, spec, term, limit, query)
	if err != nil {
		// Degrade to an empty result set; the widget shows "no results".
		v.log.WarnContext(ctx, "source search failed",
			slog.String("source", spec.Source),
			slog.Any("error", err))
		results = nil
	}

	for i := range results {
		results[i].Text = v.policy.Sanitize(results[i].Text)
	}
	if results == nil {
		results = []tomselect.Result{}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(tomselect.Response{Results: results})
}

// search runs the source, forwarding dependent parent-field values when
// the spec declares them and the source can filter by them.
func (v *View) search(ctx context.Context, src Source, spec registry.Spec, term string, limit int, query url.Values) ([]tomselect.Result, error) {
	deps := make(map[string]string, len(spec.DependentFields))
	for formField, sourceField := range spec.DependentFields {
		if value := query.Get(formField); value != "" {
			deps[sourceField] = value
		}
	}

	if len(deps) > 0 {
		if ds, ok := src.(DependentSource); ok {
			return ds.SearchDependent(ctx, term, limit, deps)
		}
		v.log.DebugContext(ctx, "source cannot filter by dependent fields",
			slog.String("source", spec.Source))
	}

	return src.Search(ctx, term, limit)
}
