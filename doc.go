// Package tomselect wires server-rendered select and autocomplete form
// controls to the Tom Select browser widget.
//
// The package covers both halves of the integration. On the server it
// derives the data attributes the browser glue consumes, registers "heavy"
// (AJAX-backed) widgets in a shared registry, and answers their
// autocomplete queries through a central JSON view. The browser-side
// lifecycle — discovering marked elements, building widget configuration,
// loading options over AJAX, and re-initializing after partial page swaps —
// is modeled by the binder subpackage so hosts can drive and test it
// explicitly.
//
// # Widgets
//
// Widgets come in two flavors. Plain widgets render all of their options
// up front and only need the recognition class:
//
//	w := tomselect.New(tomselect.KindMultiple,
//	    tomselect.WithName("tags"),
//	    tomselect.WithChoices(
//	        tomselect.Choice{Value: "go", Label: "Go"},
//	        tomselect.Choice{Value: "rust", Label: "Rust"},
//	    ),
//	)
//
// Heavy widgets fetch options from the server as the user types. They carry
// an AJAX endpoint and a signed field identifier, and must be registered so
// the central view can resolve queries back to their configuration:
//
//	signer, _ := tomselect.NewSigner(secret)
//	w, err := tomselect.NewHeavy(tomselect.KindSelect,
//	    tomselect.WithName("city"),
//	    tomselect.WithSource("cities"),
//	    tomselect.WithSigner(signer),
//	)
//
//	// in a view:
//	w.Registered(reg).Render(ctx, out)
//
// # Query view
//
// The autoview subpackage serves GET /auto.json?term=...&field_id=... for
// registered heavy widgets, looking the widget up in the registry and
// searching the named source:
//
//	view := autoview.New(reg,
//	    autoview.WithSigner(signer),
//	    autoview.WithSource("cities", citySource),
//	)
//	r.Mount("/tomselect", view.Routes())
//
// # Registry
//
// The registry subpackage stores heavy widget specs keyed by widget UUID,
// either in memory or in Redis when widgets must resolve across multiple
// machines. Entries expire; an expired widget answers 404 until it is
// rendered (and therefore registered) again.
//
// # Partial page swaps
//
// When a host swaps DOM fragments without a full navigation, widget
// bindings in the affected subtree must be torn down before the swap and
// recreated after it. The binder subpackage exposes Teardown and Setup
// hooks for exactly that, and this package provides the matching
// HX-Trigger helpers for htmx-style collaborators.
package tomselect
