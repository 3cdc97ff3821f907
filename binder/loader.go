package binder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/tomselect"
)

// newLoader builds the AJAX data source for a heavy binding. One fetch per
// invocation: GET <AjaxURL>?term=<query>&field_id=<FieldID>, plus the
// current value of each dependent form field. Any failure
// (transport error, non-200 status, invalid body) delivers an empty result
// set; the widget shows "no results" instead of an error.
//
// Each invocation claims a fresh query token on the binding. A delivery
// whose token has been superseded (by a newer query or by unregistration)
// is dropped so stale responses never reach the widget.
func (b *Binder) newLoader(bd *Binding) LoadFunc {
	return func(ctx context.Context, query string, deliver DeliverFunc) {
		token := bd.seq.Add(1)

		guarded := func(results ...tomselect.Result) {
			if bd.seq.Load() != token {
				return
			}
			deliver(results...)
		}

		u, err := url.Parse(bd.el.Config.AjaxURL)
		if err != nil {
			b.log.DebugContext(ctx, "bad ajax url",
				slog.String("url", bd.el.Config.AjaxURL),
				slog.Any("error", err))
			guarded()
			return
		}

		q := u.Query()
		q.Set("term", query)
		q.Set("field_id", bd.el.Config.FieldID)
		if len(bd.el.Config.DependentFields) > 0 {
			scope := bd.el.FormScope()
			for _, name := range bd.el.Config.DependentFields {
				if v, ok := FieldValue(scope, name); ok {
					q.Set(name, v)
				}
			}
		}
		u.RawQuery = q.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			guarded()
			return
		}

		resp, err := b.client.Do(req)
		if err != nil {
			b.log.DebugContext(ctx, "option load failed", slog.Any("error", err))
			guarded()
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			b.log.DebugContext(ctx, "option load failed",
				slog.Int("status", resp.StatusCode))
			guarded()
			return
		}

		var payload tomselect.Response
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			b.log.DebugContext(ctx, "invalid option payload", slog.Any("error", err))
			guarded()
			return
		}

		guarded(payload.Results...)
	}
}
