package tomselect

// Result is a single selectable option as delivered to the widget.
// ID is left untyped because servers key options by integers, strings,
// or UUIDs depending on the backing source.
type Result struct {
	ID   any    `json:"id"`
	Text string `json:"text"`
}

// Response is the envelope returned by the query view and expected by the
// widget's AJAX loader.
type Response struct {
	Results []Result `json:"results"`
	More    bool     `json:"more"`
}
