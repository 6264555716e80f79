// internal/app/features/banking/handler.go
package banking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	ledgerstore "github.com/dalemusser/ledgerhub/internal/app/store/ledger"
	"github.com/dalemusser/ledgerhub/internal/app/system/respond"
	"github.com/dalemusser/ledgerhub/internal/app/system/timeouts"
	"github.com/dalemusser/ledgerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Ledger is the balance surface the handlers need. The production
// implementation is the ledger store; tests substitute a stub.
type Ledger interface {
	Balance(ctx context.Context, id primitive.ObjectID) (int64, error)
	Deposit(ctx context.Context, id primitive.ObjectID, amount int64) (int64, error)
	Withdraw(ctx context.Context, id primitive.ObjectID, amount int64) (int64, error)
	History(ctx context.Context, id primitive.ObjectID) ([]models.TransactionEntry, error)
}

type Handler struct {
	Ledger Ledger
	Log    *zap.Logger
}

func NewHandler(ledger Ledger, logger *zap.Logger) *Handler {
	return &Handler{
		Ledger: ledger,
		Log:    logger,
	}
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

// ServeBalance handles GET /accounts/{accountID}/balance.
func (h *Handler) ServeBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	bal, err := h.Ledger.Balance(ctx, id)
	if err != nil {
		h.writeError(w, "read balance", err)
		return
	}
	respond.JSON(w, http.StatusOK, balanceResponse{Balance: bal})
}

type amountRequest struct {
	Amount int64 `json:"amount"`
}

// ServeDeposit handles POST /accounts/{accountID}/deposit.
func (h *Handler) ServeDeposit(w http.ResponseWriter, r *http.Request) {
	h.serveMutation(w, r, h.Ledger.Deposit, "deposit")
}

// ServeWithdraw handles POST /accounts/{accountID}/withdraw.
func (h *Handler) ServeWithdraw(w http.ResponseWriter, r *http.Request) {
	h.serveMutation(w, r, h.Ledger.Withdraw, "withdraw")
}

func (h *Handler) serveMutation(w http.ResponseWriter, r *http.Request,
	op func(context.Context, primitive.ObjectID, int64) (int64, error), name string) {

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	bal, err := op(ctx, id, req.Amount)
	if err != nil {
		h.writeError(w, name, err)
		return
	}
	respond.JSON(w, http.StatusOK, balanceResponse{Balance: bal})
}

type transactionResponse struct {
	Kind   string `json:"kind"`
	Amount int64  `json:"amount"`
	At     string `json:"at"`
}

// ServeTransactions handles GET /accounts/{accountID}/transactions,
// returning the full ledger oldest first.
func (h *Handler) ServeTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	history, err := h.Ledger.History(ctx, id)
	if err != nil {
		h.writeError(w, "read transactions", err)
		return
	}

	out := make([]transactionResponse, 0, len(history))
	for _, e := range history {
		out = append(out, transactionResponse{
			Kind:   e.Kind,
			Amount: e.Amount,
			At:     e.At.UTC().Format(time.RFC3339),
		})
	}
	respond.JSON(w, http.StatusOK, map[string]any{"transactions": out})
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ledgerstore.ErrInvalidAmount):
		respond.Error(w, http.StatusBadRequest, "amount must be positive")
	case errors.Is(err, ledgerstore.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "account not found")
	case errors.Is(err, ledgerstore.ErrInsufficientFunds):
		respond.Error(w, http.StatusPaymentRequired, "insufficient funds")
	default:
		h.Log.Error(op+" failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "accountID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid account id")
		return primitive.NilObjectID, false
	}
	return id, true
}
