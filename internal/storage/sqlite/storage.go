package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mcoot/accountsvc/internal/model"
	"github.com/mcoot/accountsvc/internal/storage"
)

// Config holds SQLite connection settings
type Config struct {
	// Path is the filesystem path to the database file.
	// ":memory:" gives a private in-memory database.
	Path string
}

// DefaultConfig returns sensible defaults for SQLite configuration
func DefaultConfig() Config {
	return Config{
		Path: "var/accountsvc.db",
	}
}

// Storage is a SQLite-backed implementation of the storage interface.
// The UNIQUE constraints on username and email are the authoritative guard
// against duplicate registration under concurrency.
type Storage struct {
	db  *sql.DB
	cfg Config

	// modernc sqlite does not support concurrent writers
	writeMu sync.Mutex
}

// New creates a new SQLite storage instance, bootstrapping the schema
func New(cfg Config) (*Storage, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := initSchema(db); err != nil {
		return nil, fmt.Errorf("initialize db: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)

	return &Storage{db: db, cfg: cfg}, nil
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS accounts (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			username      TEXT    UNIQUE NOT NULL,
			email         TEXT    UNIQUE NOT NULL,
			password_hash TEXT    NOT NULL,
			created_at    INTEGER NOT NULL,
			updated_at    INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO accounts (username, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		account.Username,
		account.Email,
		account.PasswordHash,
		account.CreatedAt.Unix(),
		account.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", mapConstraintErr(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	account.ID = model.AccountID(id)
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	return s.scanAccount(s.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, created_at, updated_at FROM accounts WHERE id = ?",
		int64(id),
	))
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	return s.scanAccount(s.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, created_at, updated_at FROM accounts WHERE username = ?",
		username,
	))
}

func (s *Storage) UpdateAccount(ctx context.Context, account *model.Account) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE accounts SET email = ?, password_hash = ?, updated_at = ? WHERE id = ?",
		account.Email,
		account.PasswordHash,
		account.UpdatedAt.Unix(),
		int64(account.ID),
	)
	if err != nil {
		return fmt.Errorf("update account: %w", mapConstraintErr(err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}

func (s *Storage) DeleteAccount(ctx context.Context, id model.AccountID) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", int64(id))
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}

func (s *Storage) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, username, email, password_hash, created_at, updated_at FROM accounts ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []*model.Account
	for rows.Next() {
		account, err := s.scanAccountRow(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Storage) scanAccount(row *sql.Row) (*model.Account, error) {
	account, err := s.scanAccountRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *Storage) scanAccountRow(row rowScanner) (*model.Account, error) {
	var (
		account            model.Account
		createdAt, updated int64
	)
	if err := row.Scan(&account.ID, &account.Username, &account.Email, &account.PasswordHash, &createdAt, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	account.CreatedAt = time.Unix(createdAt, 0).UTC()
	account.UpdatedAt = time.Unix(updated, 0).UTC()
	return &account, nil
}

// mapConstraintErr translates sqlite uniqueness violations into the
// domain-level duplicate error
func mapConstraintErr(err error) error {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return errors.Join(model.ErrDuplicateCredential, err)
		}
	}
	return err
}
