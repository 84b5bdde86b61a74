package storage

import (
	"context"

	"github.com/mcoot/accountsvc/internal/model"
)

// Store defines the interface for account persistence.
//
// Every backend enforces username and email uniqueness itself, so a
// concurrent duplicate registration is rejected atomically regardless of
// any pre-check done above the storage layer.
type Store interface {
	// CreateAccount inserts a new account and assigns its ID.
	// Returns model.ErrDuplicateCredential if the username or email is taken.
	CreateAccount(ctx context.Context, account *model.Account) error

	// GetAccount retrieves an account by id.
	// Returns model.ErrAccountNotFound if it does not exist.
	GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error)

	// GetAccountByUsername retrieves an account by its username.
	// Returns model.ErrAccountNotFound if it does not exist.
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)

	// UpdateAccount persists changes to an existing account's email and
	// password hash. The username is immutable and is ignored on update.
	// Returns model.ErrAccountNotFound if the account does not exist and
	// model.ErrDuplicateCredential if the email belongs to another account.
	UpdateAccount(ctx context.Context, account *model.Account) error

	// DeleteAccount removes an account.
	// Returns model.ErrAccountNotFound if it does not exist.
	DeleteAccount(ctx context.Context, id model.AccountID) error

	// ListAccounts returns all accounts ordered by id.
	ListAccounts(ctx context.Context) ([]*model.Account, error)

	// Close releases any resources held by the store.
	Close() error
}
