// Package autoview serves autocomplete queries for registered heavy
// widgets from one central endpoint, so individual widgets do not need
// hand-written views.
//
// The view answers GET /auto.json?term=<query>&field_id=<token>. The field
// identifier is verified against the configured signer, resolved to a
// widget spec through the registry, and the spec's named source is
// searched with the query term:
//
//	view := autoview.New(reg,
//	    autoview.WithSigner(signer),
//	    autoview.WithSource("cities", autoview.NewStaticSource(cities...)),
//	)
//
//	r := chi.NewRouter()
//	r.Mount("/tomselect", view.Routes())
//
// Unknown, forged, or expired field identifiers answer 404 — a widget is
// only resolvable while its registration lives, which bounds how long a
// rendered form stays usable. Source failures degrade to an empty result
// set; the browser glue treats anything but a results list as "no
// results" anyway, so the view never surfaces a 500 for a bad query.
//
// Option labels pass through a strict HTML sanitizer before
// serialization, since sources may assemble labels from user-provided
// data.
package autoview
