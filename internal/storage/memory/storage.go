package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/accountsvc/internal/model"
	"github.com/mcoot/accountsvc/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	accounts      map[model.AccountID]*model.Account
	usernameIndex map[string]model.AccountID
	emailIndex    map[string]model.AccountID

	// nextID only ever increases, so deleted ids are never reused
	nextID model.AccountID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		accounts:      make(map[model.AccountID]*model.Account),
		usernameIndex: make(map[string]model.AccountID),
		emailIndex:    make(map[string]model.AccountID),
		nextID:        1,
	}
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.usernameIndex[account.Username]; taken {
		return model.ErrDuplicateCredential
	}
	if _, taken := s.emailIndex[account.Email]; taken {
		return model.ErrDuplicateCredential
	}

	account.ID = s.nextID
	s.nextID++

	stored := *account
	s.accounts[stored.ID] = &stored
	s.usernameIndex[stored.Username] = stored.ID
	s.emailIndex[stored.Email] = stored.ID
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (s *Storage) UpdateAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.accounts[account.ID]
	if !ok {
		return model.ErrAccountNotFound
	}

	if other, taken := s.emailIndex[account.Email]; taken && other != account.ID {
		return model.ErrDuplicateCredential
	}

	delete(s.emailIndex, existing.Email)

	existing.Email = account.Email
	existing.PasswordHash = account.PasswordHash
	existing.UpdatedAt = account.UpdatedAt

	s.emailIndex[existing.Email] = existing.ID
	return nil
}

func (s *Storage) DeleteAccount(ctx context.Context, id model.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return model.ErrAccountNotFound
	}

	delete(s.usernameIndex, account.Username)
	delete(s.emailIndex, account.Email)
	delete(s.accounts, id)
	return nil
}

func (s *Storage) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]*model.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		copied := *account
		accounts = append(accounts, &copied)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].ID < accounts[j].ID
	})
	return accounts, nil
}

func (s *Storage) Close() error {
	return nil
}
