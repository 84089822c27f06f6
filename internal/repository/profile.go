package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"socialfeed/internal/model"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Create writes the profile document for a new account into the users
// collection. This is the last step of the signup sequence; a failure here
// leaves an account with no profile, which the caller surfaces but does not
// repair.
func (r *profileRepository) Create(ctx context.Context, profile model.Profile) error {
	query := `
		INSERT INTO users (uid, email, display_name, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err := r.db.ExecContext(ctx, query, profile.UID, profile.Email, profile.DisplayName)
	if err != nil {
		return &model.RepositoryError{Op: "create profile", Err: err}
	}
	return nil
}
