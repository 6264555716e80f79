// internal/app/features/banking/routes.go
package banking

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the balance and ledger endpoints;
// mounted under /accounts.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Route("/{accountID}", func(r chi.Router) {
		r.Get("/balance", h.ServeBalance)
		r.Post("/deposit", h.ServeDeposit)
		r.Post("/withdraw", h.ServeWithdraw)
		r.Get("/transactions", h.ServeTransactions)
	})
	return r
}
