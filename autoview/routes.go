package autoview

import (
	"github.com/go-chi/chi/v5"
)

// RoutePath is the view's route within its mount point. With the default
// mount base the full endpoint matches tomselect.DefaultViewPath.
const RoutePath = "/auto.json"

// Routes returns a router serving the query endpoint, ready to mount:
//
//	r.Mount("/tomselect", view.Routes())
func (v *View) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get(RoutePath, v.ServeHTTP)
	r.Head(RoutePath, v.ServeHTTP)
	return r
}

// Mount attaches the view under base on the given router.
func (v *View) Mount(r chi.Router, base string) {
	r.Mount(base, v.Routes())
}
