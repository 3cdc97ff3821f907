package binder

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/dmitrymomot/tomselect"
)

// ElementConfig is the typed widget configuration derived from a managed
// element's attributes. Absent or unrecognized attributes fall back to the
// zero-value defaults documented per field.
type ElementConfig struct {
	// Multiple is true when the native `multiple` attribute is present.
	Multiple bool
	// Heavy is true when the element carries the heavy marker class and
	// therefore loads its options over AJAX.
	Heavy bool
	// AjaxURL is the endpoint base from data-ajax--url. Empty for plain
	// elements.
	AjaxURL string
	// FieldID is the opaque identifier from data-field_id, forwarded as a
	// query parameter on every AJAX load.
	FieldID string
	// AllowEmptyOption mirrors data-allow-empty-option; only the literal
	// string "true" enables it.
	AllowEmptyOption bool
	// DependentFields lists the form fields whose current values are
	// forwarded with every AJAX load, from
	// data-tom-select-dependent-fields (space separated).
	DependentFields []string
}

// ParseElementConfig derives an ElementConfig from raw element attributes.
// It is a pure function of its input and never fails; malformed values
// degrade to defaults.
func ParseElementConfig(attrs map[string]string) ElementConfig {
	_, multiple := attrs["multiple"]
	return ElementConfig{
		Multiple:         multiple,
		Heavy:            hasClass(attrs["class"], tomselect.HeavyClassName),
		AjaxURL:          attrs["data-ajax--url"],
		FieldID:          attrs["data-field_id"],
		AllowEmptyOption: attrs["data-allow-empty-option"] == "true",
		DependentFields:  strings.Fields(attrs["data-tom-select-dependent-fields"]),
	}
}

// Element is a managed form control: an HTML node carrying the recognition
// class, paired with its parsed configuration.
type Element struct {
	Config ElementConfig
	node   *html.Node
}

// Node returns the underlying HTML node. Node identity keys the binding.
func (e *Element) Node() *html.Node { return e.node }

// Parse reads an HTML document or fragment into a tree the binder can
// operate on.
func Parse(r io.Reader) (*html.Node, error) {
	return html.Parse(r)
}

// FindManaged enumerates the managed elements within scope, in document
// order. A nil scope yields nothing.
func FindManaged(scope *html.Node) []*Element {
	var out []*Element
	walk(scope, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		attrs := attrMap(n)
		if !hasClass(attrs["class"], tomselect.ClassName) {
			return
		}
		out = append(out, &Element{
			Config: ParseElementConfig(attrs),
			node:   n,
		})
	})
	return out
}

// FormScope returns the element's enclosing form, or the tree root when
// the element is not inside one. Dependent field values are resolved
// within this scope.
func (e *Element) FormScope() *html.Node {
	for n := e.node; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && n.Data == "form" {
			return n
		}
	}
	root := e.node
	for root != nil && root.Parent != nil {
		root = root.Parent
	}
	return root
}

// FieldValue resolves the current value of the named form control within
// scope: the value attribute of an input, or the selected option of a
// select. The second return is false when the control is absent or has no
// value.
func FieldValue(scope *html.Node, name string) (string, bool) {
	var (
		value string
		found bool
	)
	walk(scope, func(n *html.Node) {
		if found || n.Type != html.ElementNode {
			return
		}
		attrs := attrMap(n)
		if attrs["name"] != name {
			return
		}
		switch n.Data {
		case "input":
			value, found = attrs["value"], true
		case "select":
			value, found = selectedValue(n)
		}
	})
	return value, found
}

// selectedValue returns the value of the first selected option.
func selectedValue(sel *html.Node) (string, bool) {
	for c := sel.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "option" {
			continue
		}
		attrs := attrMap(c)
		if _, ok := attrs["selected"]; !ok {
			continue
		}
		return attrs["value"], true
	}
	return "", false
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n == nil {
		return
	}
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attrMap(n *html.Node) map[string]string {
	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		attrs[a.Key] = a.Val
	}
	return attrs
}

func hasClass(classAttr, name string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == name {
			return true
		}
	}
	return false
}
