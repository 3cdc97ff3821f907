package binder

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/net/html"
)

// Widget is the binder's view of a live widget instance. Construction and
// reference clearing are the binder's only obligations toward it; all
// selection, rendering, and keyboard behavior stays with the widget
// library behind the Factory.
type Widget interface {
	// SetTextboxValue sets the widget's free-text search input.
	SetTextboxValue(value string)
}

// Factory constructs a widget instance bound to an element.
type Factory func(el *Element, opts Options) Widget

// Refresher is an optional partial-refresh collaborator. BeforeSwap hooks
// run synchronously before the DOM is mutated; AfterSwap hooks run once
// the new fragment is attached. A hook invoked with a nil scope means the
// affected subtree is unknown and the whole document is used.
type Refresher interface {
	OnBeforeSwap(fn func(scope *html.Node))
	OnAfterSwap(fn func(scope *html.Node))
}

// Binding associates an element with its live widget instance.
type Binding struct {
	el     *Element
	widget Widget
	seq    atomic.Uint64 // current query token; deliveries for older tokens are dropped
}

// Widget returns the bound widget instance.
func (b *Binding) Widget() Widget { return b.widget }

// Binder is the discovery and lifecycle manager. It keeps at most one
// binding per element and is safe for concurrent use.
type Binder struct {
	factory  Factory
	client   *http.Client
	log      *slog.Logger
	doc      *html.Node
	mu       sync.Mutex
	bindings map[*html.Node]*Binding
}

// BinderOption configures a Binder.
type BinderOption func(*Binder)

// WithHTTPClient sets the client heavy elements load options with.
// Default: a client with a 10 second timeout.
func WithHTTPClient(c *http.Client) BinderOption {
	return func(b *Binder) {
		if c != nil {
			b.client = c
		}
	}
}

// WithLogger sets the structured logger. Default: discard.
func WithLogger(log *slog.Logger) BinderOption {
	return func(b *Binder) {
		if log != nil {
			b.log = log
		}
	}
}

// WithDocument sets the whole-document fallback scope used when a
// lifecycle hook cannot name the affected subtree.
func WithDocument(doc *html.Node) BinderOption {
	return func(b *Binder) {
		b.doc = doc
	}
}

// New creates a Binder. The factory is required; it stands in for the
// third-party widget library's constructor.
func New(factory Factory, opts ...BinderOption) *Binder {
	if factory == nil {
		panic("binder: nil widget factory")
	}

	b := &Binder{
		factory:  factory,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		bindings: make(map[*html.Node]*Binding),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RegisterAll discovers the managed elements within scope and binds a
// widget to each. An element that is already bound gets its previous
// binding cleared first, so repeated registration never stacks instances.
// A nil scope falls back to the whole document.
func (b *Binder) RegisterAll(ctx context.Context, scope *html.Node) {
	scope = b.scopeOrDoc(scope)

	elements := FindManaged(scope)
	if len(elements) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, el := range elements {
		b.register(el)
	}

	b.log.DebugContext(ctx, "registered widgets", slog.Int("count", len(elements)))
}

// register binds one element. Caller must hold the mutex.
func (b *Binder) register(el *Element) {
	if old, ok := b.bindings[el.node]; ok {
		old.seq.Add(1) // invalidate the replaced binding's in-flight deliveries
		delete(b.bindings, el.node)
	}

	bd := &Binding{el: el}

	opts := BuildOptions(el.Config)
	if el.Config.Heavy {
		opts.OpenOnFocus = false
		opts.Load = b.newLoader(bd)
	}

	bd.widget = b.factory(el, opts)
	b.bindings[el.node] = bd
}

// UnregisterAll clears the binding references of the managed elements
// within scope. It does not call into the widget library: the elements are
// about to be removed from the document, taking their widgets with them.
// A nil scope falls back to the whole document.
func (b *Binder) UnregisterAll(scope *html.Node) {
	scope = b.scopeOrDoc(scope)

	elements := FindManaged(scope)
	if len(elements) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, el := range elements {
		if bd, ok := b.bindings[el.node]; ok {
			bd.seq.Add(1) // invalidate in-flight deliveries
			delete(b.bindings, el.node)
		}
	}
}

// Setup is the "after swap" lifecycle hook: registration scoped to the
// attached fragment.
func (b *Binder) Setup(scope *html.Node) {
	b.RegisterAll(context.Background(), scope)
}

// Teardown is the "before swap" lifecycle hook: unregistration scoped to
// the fragment about to be replaced.
func (b *Binder) Teardown(scope *html.Node) {
	b.UnregisterAll(scope)
}

// BindRefresher wires the lifecycle hooks to a partial-refresh
// collaborator. A nil refresher is silently skipped; absence of the
// collaborator is not an error.
func (b *Binder) BindRefresher(r Refresher) {
	if r == nil {
		return
	}
	r.OnBeforeSwap(b.Teardown)
	r.OnAfterSwap(b.Setup)
}

// Bound returns the widget bound to an element node, if any.
func (b *Binder) Bound(n *html.Node) (Widget, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	bd, ok := b.bindings[n]
	if !ok {
		return nil, false
	}
	return bd.widget, true
}

// Len reports the number of live bindings.
func (b *Binder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.bindings)
}

func (b *Binder) scopeOrDoc(scope *html.Node) *html.Node {
	if scope != nil {
		return scope
	}
	return b.doc
}
