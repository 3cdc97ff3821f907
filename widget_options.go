package tomselect

// WidgetOption configures a widget at construction time.
type WidgetOption func(*Widget)

// WithName sets the form control name attribute.
func WithName(name string) WidgetOption {
	return func(w *Widget) {
		w.name = name
	}
}

// WithID sets the element id attribute.
func WithID(id string) WidgetOption {
	return func(w *Widget) {
		w.id = id
	}
}

// WithChoices sets the statically rendered options of a plain widget.
func WithChoices(choices ...Choice) WidgetOption {
	return func(w *Widget) {
		w.choices = choices
	}
}

// WithDataURL points a heavy widget at an explicit AJAX endpoint instead of
// the central query view.
func WithDataURL(url string) WidgetOption {
	return func(w *Widget) {
		w.dataURL = url
	}
}

// WithSource names the query-view source a heavy widget searches.
func WithSource(name string) WidgetOption {
	return func(w *Widget) {
		w.source = name
	}
}

// WithViewPath overrides where the central query view is mounted.
// Default: DefaultViewPath.
func WithViewPath(path string) WidgetOption {
	return func(w *Widget) {
		w.viewPath = path
	}
}

// WithDependentFields restricts a heavy widget's search by the current
// values of other form fields. Keys name form fields whose values are
// forwarded with every query; values name the source-side fields they
// filter. A city widget can depend on a country field this way.
func WithDependentFields(fields map[string]string) WidgetOption {
	return func(w *Widget) {
		w.dependent = fields
	}
}

// WithSigner signs the field identifier exposed to the browser.
// Without a signer the raw widget UUID is used.
func WithSigner(s *Signer) WidgetOption {
	return func(w *Widget) {
		w.signer = s
	}
}

// WithMaxResults bounds how many options the query view returns for this
// widget. Default: DefaultMaxResults.
func WithMaxResults(n int) WidgetOption {
	return func(w *Widget) {
		if n > 0 {
			w.maxResults = n
		}
	}
}

// WithCreate lets the user create options that are not in the result set.
// Rendered as data-create="true". Default: false.
func WithCreate() WidgetOption {
	return func(w *Widget) {
		w.create = true
	}
}

// WithDelimiter sets the tag join delimiter of a KindTag widget.
// Default: ",".
func WithDelimiter(d string) WidgetOption {
	return func(w *Widget) {
		if d != "" {
			w.delimiter = d
		}
	}
}

// WithAllowEmptyOption renders an empty option so single selects can be
// cleared. Rendered as data-allow-empty-option="true". Default: false.
func WithAllowEmptyOption() WidgetOption {
	return func(w *Widget) {
		w.allowEmpty = true
	}
}

// WithClasses adds extra css classes in front of the recognition class.
func WithClasses(classes ...string) WidgetOption {
	return func(w *Widget) {
		w.classes = classes
	}
}
