// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/ledgerhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a test user with a zero balance. The password hash
// is stored as given; pass a real bcrypt hash when the test exercises
// login.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, passwordHash string) models.User {
	f.t.Helper()
	return f.CreateUserWithBalance(ctx, name, email, passwordHash, 0)
}

// CreateUserWithBalance inserts a test user with the given starting
// balance and an empty transaction history.
func (f *Fixtures) CreateUserWithBalance(ctx context.Context, name, email, passwordHash string, balance int64) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Email:        email,
		PasswordHash: passwordHash,
		Balance:      balance,
		Transactions: []models.TransactionEntry{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}
