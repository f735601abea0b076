package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/hostboard/internal/repository"
)

// Account is a stored account row.
type Account struct {
	ID        string
	Slug      string
	Name      string
	Type      string
	ImageURL  string
	Currency  string
	ParentID  string
	CreatedAt time.Time
}

// AccountRepository stores accounts.
type AccountRepository struct {
	db *DB
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts an account, generating its ID and creation time when unset.
func (r *AccountRepository) Create(ctx context.Context, acc *Account) error {
	if strings.TrimSpace(acc.Slug) == "" || strings.TrimSpace(acc.Type) == "" {
		return repository.ErrInvalidInput
	}
	if acc.ID == "" {
		acc.ID = uuid.NewString()
	}
	if acc.CreatedAt.IsZero() {
		acc.CreatedAt = time.Now()
	}
	if acc.Currency == "" {
		acc.Currency = "USD"
	}
	if acc.Name == "" {
		acc.Name = acc.Slug
	}

	var parentID sql.NullString
	if acc.ParentID != "" {
		parentID = sql.NullString{String: acc.ParentID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, slug, name, type, image_url, currency, parent_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, acc.ID, acc.Slug, acc.Name, acc.Type, acc.ImageURL, acc.Currency, parentID, formatTime(acc.CreatedAt))
	if err != nil {
		return mapWriteError("create account", err)
	}
	return nil
}

// GetBySlug returns the account with the given slug.
func (r *AccountRepository) GetBySlug(ctx context.Context, slug string) (*Account, error) {
	return getAccount(ctx, r.db, "slug", slug)
}

func getAccount(ctx context.Context, db *DB, column, value string) (*Account, error) {
	var (
		acc       Account
		parentID  sql.NullString
		createdAt string
	)
	err := db.QueryRowContext(ctx, `
		SELECT id, slug, name, type, image_url, currency, parent_id, created_at
		FROM accounts WHERE `+column+` = ?
	`, value).Scan(&acc.ID, &acc.Slug, &acc.Name, &acc.Type, &acc.ImageURL, &acc.Currency, &parentID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if parentID.Valid {
		acc.ParentID = parentID.String
	}
	if acc.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &acc, nil
}
