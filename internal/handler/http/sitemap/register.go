package sitemap

import (
	"net/http"

	"catchup-sitemap/internal/handler/http/auth"
)

// Register mounts the sitemap routes on mux. The ping trigger is mounted
// only when notifier is non-nil and requires an admin token signed with
// secret.
func Register(mux *http.ServeMux, svc Renderer, baseURL string, notifier Notifier, secret []byte) {
	mux.Handle("GET "+IndexPath, IndexHandler{Svc: svc, BaseURL: baseURL})
	mux.Handle("GET /{file}", SectionHandler{Svc: svc, BaseURL: baseURL})

	if notifier != nil {
		mux.Handle("POST /admin/ping", auth.RequireRole(secret, auth.RoleAdmin)(PingHandler{Notifier: notifier, BaseURL: baseURL}))
	}
}
