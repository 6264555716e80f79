// internal/domain/models/transaction.go
package models

import "time"

// Transaction kinds.
const (
	TxDeposit  = "deposit"
	TxWithdraw = "withdraw"
)

// TransactionEntry is one movement on a user's balance. Entries are
// immutable once appended; slice order is commit order.
type TransactionEntry struct {
	Kind   string    `bson:"kind" json:"kind"` // deposit | withdraw
	Amount int64     `bson:"amount" json:"amount"`
	At     time.Time `bson:"at" json:"at"`
}
