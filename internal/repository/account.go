package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"socialfeed/internal/model"
)

type accountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	query := `
		INSERT INTO accounts (uid, email, password_hashed, display_name, photo_url, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.ExecContext(ctx, query,
		account.UID, account.Email, account.PasswordHashed, account.DisplayName, account.PhotoURL)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	query := `
		SELECT uid, email, password_hashed, display_name, photo_url
		FROM accounts
		WHERE email = $1
	`
	err := r.db.GetContext(ctx, &account, query, email)
	if err == sql.ErrNoRows {
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) GetByUID(ctx context.Context, uid string) (*model.Account, error) {
	var account model.Account
	query := `
		SELECT uid, email, password_hashed, display_name, photo_url
		FROM accounts
		WHERE uid = $1
	`
	err := r.db.GetContext(ctx, &account, query, uid)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotSignedIn
	}
	if err != nil {
		return nil, fmt.Errorf("get account by uid: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1)`, email)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (r *accountRepository) UpdateDisplayName(ctx context.Context, uid, displayName string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET display_name = $1 WHERE uid = $2`, displayName, uid)
	if err != nil {
		return fmt.Errorf("update display name: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotSignedIn
	}
	return nil
}
