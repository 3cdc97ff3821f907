package tomselect

import "net/http"

// Headers exchanged with an htmx-style partial-refresh collaborator.
const (
	HeaderRequest            = "HX-Request"
	HeaderTriggerAfterSettle = "HX-Trigger-After-Settle"
)

// Lifecycle event names the browser glue listens for. A collaborator that
// swaps DOM fragments fires EventTeardown on the affected subtree before
// the swap and EventSetup after the new fragment settles.
const (
	EventSetup    = "tomselect:setup"
	EventTeardown = "tomselect:teardown"
)

// IsPartial reports whether the request was issued by a partial-refresh
// collaborator rather than a full navigation.
func IsPartial(r *http.Request) bool {
	return r.Header.Get(HeaderRequest) == "true"
}

// TriggerSetup asks the collaborator to re-run widget discovery once the
// swapped-in fragment has settled. Call it on responses that contain
// managed select controls.
func TriggerSetup(w http.ResponseWriter) {
	w.Header().Set(HeaderTriggerAfterSettle, EventSetup)
}
