package binder

import (
	"context"
	"time"

	"github.com/dmitrymomot/tomselect"
)

// LoadThrottle is the fixed interval the widget waits between keystrokes
// before submitting a query, bounding request frequency while typing.
const LoadThrottle = 200 * time.Millisecond

// PluginRemoveButton is the widget plugin that renders a remove control on
// each selected item. Enabled only for multi-value elements.
const PluginRemoveButton = "remove_button"

// DeliverFunc feeds query results back into the widget. A failed load
// calls it with no arguments, which the widget treats as "no results".
type DeliverFunc func(results ...tomselect.Result)

// LoadFunc is the asynchronous data source handed to heavy widgets.
type LoadFunc func(ctx context.Context, query string, deliver DeliverFunc)

// Options is the ephemeral configuration a widget instance is constructed
// with. It is rebuilt on every (re)registration and never persisted.
type Options struct {
	// Plugins lists the widget behavior plugins to enable.
	Plugins []string
	// LoadThrottle is the query submission throttle interval.
	LoadThrottle time.Duration
	// OpenOnFocus opens the dropdown as soon as the control gains focus.
	// True for plain elements; forced false for heavy elements, whose
	// results are unknown until a query is typed.
	OpenOnFocus bool
	// AllowEmptyOption mirrors the element's data-allow-empty-option flag.
	AllowEmptyOption bool
	// OnItemAdd runs after an item is committed. The default clears the
	// free-text search box so it does not retain stale query text.
	OnItemAdd func(Widget)
	// Load is the AJAX data source. Nil for plain elements.
	Load LoadFunc
}

// BuildOptions derives widget options from an element's configuration.
// Pure derivation: no network access, no error conditions.
func BuildOptions(cfg ElementConfig) Options {
	opts := Options{
		LoadThrottle:     LoadThrottle,
		OpenOnFocus:      true,
		AllowEmptyOption: cfg.AllowEmptyOption,
		OnItemAdd:        clearTextbox,
	}
	if cfg.Multiple {
		opts.Plugins = append(opts.Plugins, PluginRemoveButton)
	}
	return opts
}

func clearTextbox(w Widget) {
	w.SetTextboxValue("")
}
