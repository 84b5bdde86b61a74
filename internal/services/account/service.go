package account

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/accountsvc/internal/dependencies/clock"
	"github.com/mcoot/accountsvc/internal/model"
	"github.com/mcoot/accountsvc/internal/storage"
)

// Errors
var (
	// ErrInvalidCredentials is returned for an unknown username and for a
	// wrong password alike, so a caller cannot tell whether the username
	// exists
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmptyPassword is returned when an empty password reaches a hashing
	// operation. The profile flow treats an empty password as "leave
	// unchanged" and never calls UpdatePassword with one.
	ErrEmptyPassword = errors.New("password must not be empty")
)

// Service is the credential store: it owns account persistence and password
// verification. Passwords are hashed with bcrypt, which salts every call, so
// two registrations of the same password produce different stored hashes.
type Service struct {
	store  storage.Store
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new account service
func New(store storage.Store, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Register creates a new account with a freshly hashed password.
// Returns model.ErrDuplicateCredential if the username or email is taken;
// the storage layer's own uniqueness guard makes this safe under concurrent
// duplicate registrations.
func (s *Service) Register(ctx context.Context, username, password, email string) (*model.Account, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	account := &model.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account registered",
		slog.Int64("account_id", int64(account.ID)),
		slog.String("username", account.Username),
	)
	return account, nil
}

// Verify checks a username/password pair against the store.
// An unknown username and a wrong password both return ErrInvalidCredentials
// with identical content.
func (s *Service) Verify(ctx context.Context, username, password string) (*model.Account, error) {
	account, err := s.store.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}

// Get returns the account with the given id
func (s *Service) Get(ctx context.Context, id model.AccountID) (*model.Account, error) {
	return s.store.GetAccount(ctx, id)
}

// List returns all accounts ordered by id
func (s *Service) List(ctx context.Context) ([]*model.Account, error) {
	return s.store.ListAccounts(ctx)
}

// UpdateEmail changes an account's email address.
// Returns model.ErrDuplicateCredential if the email belongs to another
// account.
func (s *Service) UpdateEmail(ctx context.Context, id model.AccountID, email string) error {
	account, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return err
	}

	account.Email = email
	account.UpdatedAt = s.clock.Now()
	return s.store.UpdateAccount(ctx, account)
}

// UpdatePassword replaces an account's password hash with a fresh one.
// An empty password is rejected, never treated as a change.
func (s *Service) UpdatePassword(ctx context.Context, id model.AccountID, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	account, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return err
	}

	account.PasswordHash = hash
	account.UpdatedAt = s.clock.Now()
	return s.store.UpdateAccount(ctx, account)
}

// UpdateProfile applies the self-service profile change: an empty email or
// password means "leave unchanged"
func (s *Service) UpdateProfile(ctx context.Context, id model.AccountID, email, password string) error {
	account, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return err
	}

	if email != "" {
		account.Email = email
	}
	if password != "" {
		hash, err := hashPassword(password)
		if err != nil {
			return err
		}
		account.PasswordHash = hash
	}

	account.UpdatedAt = s.clock.Now()
	return s.store.UpdateAccount(ctx, account)
}

// Delete removes an account.
// Returns model.ErrAccountNotFound if it does not exist.
func (s *Service) Delete(ctx context.Context, id model.AccountID) error {
	if err := s.store.DeleteAccount(ctx, id); err != nil {
		return err
	}

	s.logger.Info("account deleted", slog.Int64("account_id", int64(id)))
	return nil
}

func hashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
