// internal/app/features/authentication/routes.go
package authentication

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the login/logout endpoints; mounted
// under /auth.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.ServeLogin)
	r.Post("/logout", h.ServeLogout)
	return r
}
