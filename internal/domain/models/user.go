// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered account. The banking ledger lives on the same
// document: Balance and Transactions are always mutated together in a
// single update so they cannot drift apart.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`

	// Ledger. Balance is in minor units (cents) and never goes negative.
	// Transactions is append-only; entries are never rewritten.
	Balance      int64              `bson:"balance" json:"balance"`
	Transactions []TransactionEntry `bson:"transactions" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
