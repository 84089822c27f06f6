package repository

import (
	"context"

	"socialfeed/internal/model"
)

type PostRepository interface {
	// Create inserts one post document and returns its id. The store
	// stamps created_at itself; the caller's hint is ignored.
	Create(ctx context.Context, post model.NewPost) (string, error)
	// GetAll returns every post, newest-created first.
	GetAll(ctx context.Context) ([]model.Post, error)
	// GetByAuthor returns one author's posts, newest-created first.
	GetByAuthor(ctx context.Context, authorID string) ([]model.Post, error)
	// GetByID returns (nil, nil) when the id does not resolve.
	GetByID(ctx context.Context, id string) (*model.Post, error)
	// Update merges only the supplied fields and always stamps a fresh
	// server-side updated_at.
	Update(ctx context.Context, id string, upd model.PostUpdate) error
	// Delete is idempotent; deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}

type ProfileRepository interface {
	// Create writes the user document for a freshly created account.
	Create(ctx context.Context, profile model.Profile) error
}

type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	GetByUID(ctx context.Context, uid string) (*model.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateDisplayName(ctx context.Context, uid, displayName string) error
}
