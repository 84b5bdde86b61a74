package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/accountsvc/internal/model"
	"github.com/mcoot/accountsvc/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Username and email uniqueness is enforced with SETNX claims on the index
// keys, so a concurrent duplicate registration loses atomically.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	id, err := s.client.Incr(ctx, idSequenceKey()).Result()
	if err != nil {
		return err
	}
	account.ID = model.AccountID(id)
	idStr := strconv.FormatInt(id, 10)

	// Claim the username index; an existing claim means a duplicate
	claimed, err := s.client.SetNX(ctx, usernameIndexKey(account.Username), idStr, 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return model.ErrDuplicateCredential
	}

	claimed, err = s.client.SetNX(ctx, emailIndexKey(account.Email), idStr, 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		// Release the username claim so the name stays available
		_ = s.client.Del(ctx, usernameIndexKey(account.Username)).Err()
		return model.ErrDuplicateCredential
	}

	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, accountKey(account.ID), data, 0)
	pipe.SAdd(ctx, accountSetKey(), idStr)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	idStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, err
	}
	return s.GetAccount(ctx, model.AccountID(id))
}

func (s *Storage) UpdateAccount(ctx context.Context, account *model.Account) error {
	existing, err := s.GetAccount(ctx, account.ID)
	if err != nil {
		return err
	}

	idStr := strconv.FormatInt(int64(account.ID), 10)

	if account.Email != existing.Email {
		claimed, err := s.client.SetNX(ctx, emailIndexKey(account.Email), idStr, 0).Result()
		if err != nil {
			return err
		}
		if !claimed {
			return model.ErrDuplicateCredential
		}
	}

	updated := *existing
	updated.Email = account.Email
	updated.PasswordHash = account.PasswordHash
	updated.UpdatedAt = account.UpdatedAt

	data, err := json.Marshal(&updated)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, accountKey(account.ID), data, 0)
	if account.Email != existing.Email {
		pipe.Del(ctx, emailIndexKey(existing.Email))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) DeleteAccount(ctx context.Context, id model.AccountID) error {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, accountKey(id))
	pipe.Del(ctx, usernameIndexKey(account.Username))
	pipe.Del(ctx, emailIndexKey(account.Email))
	pipe.SRem(ctx, accountSetKey(), strconv.FormatInt(int64(id), 10))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	idStrs, err := s.client.SMembers(ctx, accountSetKey()).Result()
	if err != nil {
		return nil, err
	}

	if len(idStrs) == 0 {
		return []*model.Account{}, nil
	}

	keys := make([]string, 0, len(idStrs))
	for _, idStr := range idStrs {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			continue
		}
		keys = append(keys, accountKey(model.AccountID(id)))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	accounts := make([]*model.Account, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var account model.Account
		if err := json.Unmarshal([]byte(val.(string)), &account); err != nil {
			continue
		}
		accounts = append(accounts, &account)
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].ID < accounts[j].ID
	})
	return accounts, nil
}
