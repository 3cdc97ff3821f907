package tomselect

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"
	"github.com/google/uuid"

	"github.com/dmitrymomot/tomselect/registry"
)

// Recognition markers read by the browser glue and by the binder package.
const (
	// ClassName marks a select control as managed by Tom Select.
	ClassName = "tomselect"
	// HeavyClassName additionally marks a control whose options are
	// loaded over AJAX.
	HeavyClassName = "tomselect-heavy"
)

// DefaultViewPath is where the central query view is expected to be mounted
// when a heavy widget names a source instead of carrying a full data URL.
const DefaultViewPath = "/tomselect/auto.json"

// DefaultMaxResults bounds how many options the query view returns per term.
const DefaultMaxResults = 25

// Kind selects the flavor of control a widget enhances.
type Kind string

const (
	KindSelect   Kind = "select"   // single-value select
	KindMultiple Kind = "multiple" // multi-value select
	KindTag      Kind = "tag"      // multi-value select submitting delimiter-joined tags
)

// Choice is a statically rendered option of a plain widget.
type Choice struct {
	Value string
	Label string
}

// Widget describes one enhanced select control. Plain widgets render their
// options inline; heavy widgets carry an AJAX endpoint and a signed field
// identifier resolved by the query view.
//
// A Widget is immutable after construction and safe to render concurrently.
type Widget struct {
	kind       Kind
	heavy      bool
	uuid       string
	fieldID    string
	name       string
	id         string
	dataURL    string
	source     string
	viewPath   string
	maxResults int
	create     bool
	delimiter  string
	allowEmpty bool
	classes    []string
	choices    []Choice
	dependent  map[string]string
	signer     *Signer
}

// New creates a plain widget.
func New(kind Kind, opts ...WidgetOption) *Widget {
	w := &Widget{
		kind:       kind,
		viewPath:   DefaultViewPath,
		maxResults: DefaultMaxResults,
		delimiter:  ",",
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// NewHeavy creates a heavy widget. A heavy widget must either carry a full
// data URL (WithDataURL) or name a registered source (WithSource); otherwise
// ErrNoDataSource is returned.
//
// Each heavy widget receives a fresh v4 UUID. When a signer is configured
// the field identifier exposed to the browser is the HMAC-signed UUID, so
// the query view can reject forged identifiers.
func NewHeavy(kind Kind, opts ...WidgetOption) (*Widget, error) {
	w := New(kind, opts...)
	w.heavy = true
	if w.dataURL == "" && w.source == "" {
		return nil, ErrNoDataSource
	}

	w.uuid = uuid.NewString()
	w.fieldID = w.uuid
	if w.signer != nil {
		w.fieldID = w.signer.Sign(w.uuid)
	}
	return w, nil
}

// UUID returns the widget's UUID. Empty for plain widgets.
func (w *Widget) UUID() string { return w.uuid }

// FieldID returns the (signed) field identifier. Empty for plain widgets.
func (w *Widget) FieldID() string { return w.fieldID }

// Heavy reports whether the widget loads its options over AJAX.
func (w *Widget) Heavy() bool { return w.heavy }

// Multiple reports whether the widget accepts several values.
func (w *Widget) Multiple() bool { return w.kind != KindSelect }

// URL returns the AJAX endpoint of a heavy widget: the explicit data URL if
// one was set, the central view path otherwise.
func (w *Widget) URL() string {
	if w.dataURL != "" {
		return w.dataURL
	}
	return w.viewPath
}

// Attrs derives the data attributes consumed by the browser glue.
func (w *Widget) Attrs() templ.Attributes {
	attrs := templ.Attributes{}

	if w.name != "" {
		attrs["name"] = w.name
	}
	if w.id != "" {
		attrs["id"] = w.id
	}

	class := ClassName
	if len(w.classes) > 0 {
		class = strings.Join(w.classes, " ") + " " + ClassName
	}
	if w.heavy {
		class += " " + HeavyClassName
	}
	attrs["class"] = class

	attrs["data-create"] = boolString(w.create)

	if w.Multiple() {
		attrs["multiple"] = true
	}
	if w.kind == KindTag {
		attrs["data-delimiter"] = w.delimiter
	}
	if w.allowEmpty {
		attrs["data-allow-empty-option"] = "true"
	}

	if w.heavy {
		attrs["data-ajax--url"] = w.URL()
		attrs["data-ajax--type"] = "GET"
		attrs["data-ajax--cache"] = "true"
		attrs["data-field_id"] = w.fieldID
		if len(w.dependent) > 0 {
			names := make([]string, 0, len(w.dependent))
			for name := range w.dependent {
				names = append(names, name)
			}
			sort.Strings(names)
			attrs["data-tom-select-dependent-fields"] = strings.Join(names, " ")
		}
	}

	return attrs
}

// Component renders the widget as a <select> element. The given values are
// marked selected when they match a choice.
func (w *Widget) Component(selected ...string) templ.Component {
	chosen := make(map[string]bool, len(selected))
	for _, v := range selected {
		chosen[v] = true
	}

	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		if _, err := io.WriteString(out, "<select"); err != nil {
			return err
		}
		if err := templ.RenderAttributes(ctx, out, w.Attrs()); err != nil {
			return err
		}
		if _, err := io.WriteString(out, ">"); err != nil {
			return err
		}

		if w.allowEmpty {
			if _, err := io.WriteString(out, `<option value=""></option>`); err != nil {
				return err
			}
		}

		for _, c := range w.choices {
			if err := writeOption(out, c, chosen[c.Value]); err != nil {
				return err
			}
		}

		_, err := io.WriteString(out, "</select>")
		return err
	})
}

// Register stores the widget's spec in the registry so the query view can
// resolve its queries. A no-op for plain widgets.
func (w *Widget) Register(ctx context.Context, reg *registry.Registry) error {
	if !w.heavy {
		return nil
	}
	return reg.Ensure(ctx, registry.Spec{
		UUID:            w.uuid,
		URL:             w.URL(),
		Source:          w.source,
		MaxResults:      w.maxResults,
		DependentFields: w.dependent,
	})
}

// Registered returns a component that registers the widget and then renders
// it, mirroring the render-time registration of heavy widgets. Rendering
// fails if the registry write fails.
func (w *Widget) Registered(reg *registry.Registry, selected ...string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		if err := w.Register(ctx, reg); err != nil {
			return err
		}
		return w.Component(selected...).Render(ctx, out)
	})
}

func writeOption(out io.Writer, c Choice, selected bool) error {
	if _, err := io.WriteString(out, `<option value="`+templ.EscapeString(c.Value)+`"`); err != nil {
		return err
	}
	if selected {
		if _, err := io.WriteString(out, " selected"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(out, ">"+templ.EscapeString(c.Label)+"</option>")
	return err
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
