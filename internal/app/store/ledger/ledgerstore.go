// internal/app/store/ledger/ledgerstore.go
package ledgerstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/ledgerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when the account's user document does not exist.
	ErrNotFound = errors.New("account not found")
	// ErrInvalidAmount is returned for zero or negative amounts.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInsufficientFunds is returned when a withdrawal would drive the
	// balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Store reads and mutates account balances. Balance and transaction
// history live on the user document, so every mutation is a single
// atomic update: the balance change and its ledger entry land together
// or not at all.
type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used to stamp ledger entries.
// For tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(db *mongo.Database, opts ...Option) *Store {
	s := &Store{c: db.Collection("users"), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// balanceDoc is the projection used by balance reads and mutations.
type balanceDoc struct {
	Balance int64 `bson:"balance"`
}

// Balance returns the current balance for the account.
func (s *Store) Balance(ctx context.Context, id primitive.ObjectID) (int64, error) {
	var doc balanceDoc
	err := s.c.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"balance": 1})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return doc.Balance, nil
}

// Deposit credits the account and appends a ledger entry, returning the
// new balance.
func (s *Store) Deposit(ctx context.Context, id primitive.ObjectID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	entry := models.TransactionEntry{
		Kind:   models.TxDeposit,
		Amount: amount,
		At:     s.now().UTC(),
	}

	var doc balanceDoc
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc":  bson.M{"balance": amount},
			"$push": bson.M{"transactions": entry},
			"$set":  bson.M{"updated_at": entry.At},
		},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"balance": 1}),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return doc.Balance, nil
}

// Withdraw debits the account and appends a ledger entry, returning the
// new balance. The filter requires balance >= amount, so two concurrent
// withdrawals can never overdraw: the server applies them one at a time
// and the second sees the already-debited balance.
func (s *Store) Withdraw(ctx context.Context, id primitive.ObjectID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	entry := models.TransactionEntry{
		Kind:   models.TxWithdraw,
		Amount: amount,
		At:     s.now().UTC(),
	}

	var doc balanceDoc
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "balance": bson.M{"$gte": amount}},
		bson.M{
			"$inc":  bson.M{"balance": -amount},
			"$push": bson.M{"transactions": entry},
			"$set":  bson.M{"updated_at": entry.At},
		},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"balance": 1}),
	).Decode(&doc)
	if err == nil {
		return doc.Balance, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, err
	}

	// The guarded update matched nothing: either the account is missing
	// or the balance is too low. A follow-up existence check classifies
	// the failure; the mutation itself stays a single atomic step.
	exists, xerr := s.exists(ctx, id)
	if xerr != nil {
		return 0, xerr
	}
	if !exists {
		return 0, ErrNotFound
	}
	return 0, ErrInsufficientFunds
}

// History returns the account's transaction entries, oldest first.
func (s *Store) History(ctx context.Context, id primitive.ObjectID) ([]models.TransactionEntry, error) {
	var doc struct {
		Transactions []models.TransactionEntry `bson:"transactions"`
	}
	err := s.c.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"transactions": 1})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if doc.Transactions == nil {
		doc.Transactions = []models.TransactionEntry{}
	}
	return doc.Transactions, nil
}

func (s *Store) exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}
