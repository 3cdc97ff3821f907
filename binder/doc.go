// Package binder models the browser-side half of the Tom Select
// integration: discovering managed select controls in a document or
// swapped-in fragment, deriving per-element widget configuration, loading
// options over AJAX for heavy elements, and tearing bindings down before a
// partial page swap replaces them.
//
// Elements are nodes of a parsed HTML tree (golang.org/x/net/html)
// carrying the recognition class. The widget library itself is injected as
// a Factory, so hosts and tests decide what a "widget instance" is; the
// binder's only obligations toward it are construction and clearing the
// binding reference.
//
//	b := binder.New(factory)
//	doc, _ := binder.Parse(strings.NewReader(page))
//	b.RegisterAll(ctx, doc)
//
// Partial-refresh collaborators are optional. A host that swaps fragments
// wires the two lifecycle hooks to whatever mechanism it uses:
//
//	b.BindRefresher(refresher) // nil refresher is silently skipped
//
// or calls Teardown(scope) before a swap and Setup(scope) after it.
// Re-registering a still-bound element replaces its binding, so at most
// one live widget is attached to an element at any time.
//
// Heavy elements query their endpoint once per (throttled) keystroke.
// Responses for superseded queries are dropped via a per-binding token
// rather than delivered out of order.
package binder
