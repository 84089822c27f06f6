package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"socialfeed/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// postRow is the scan target for the posts collection. Timestamp columns go
// through docTimestamp so the native-vs-string union is decoded in exactly
// one place.
type postRow struct {
	ID         string       `db:"id"`
	Content    string       `db:"content"`
	ImageURL   *string      `db:"image_url"`
	AuthorID   string       `db:"author_id"`
	AuthorName string       `db:"author_name"`
	CreatedAt  docTimestamp `db:"created_at"`
	UpdatedAt  docTimestamp `db:"updated_at"`
}

func (r postRow) toPost() model.Post {
	return model.Post{
		ID:         r.ID,
		Content:    r.Content,
		ImageURL:   r.ImageURL,
		AuthorID:   r.AuthorID,
		AuthorName: r.AuthorName,
		CreatedAt:  r.CreatedAt.String(),
		UpdatedAt:  r.UpdatedAt.Ptr(),
	}
}

// Create inserts a new post document. The caller's createdAt hint is
// discarded in favor of the store's own clock.
func (r *postRepository) Create(ctx context.Context, post model.NewPost) (string, error) {
	id := uuid.NewString()
	query := `
		INSERT INTO posts (id, content, image_url, author_id, author_name, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.ExecContext(ctx, query, id, post.Content, post.ImageURL, post.AuthorID, post.AuthorName)
	if err != nil {
		return "", &model.RepositoryError{Op: "create post", Err: err}
	}
	return id, nil
}

// GetAll returns every post ordered by created_at descending.
func (r *postRepository) GetAll(ctx context.Context) ([]model.Post, error) {
	query := `
		SELECT id, content, image_url, author_id, author_name, created_at, updated_at
		FROM posts
		ORDER BY created_at DESC, id DESC
	`
	var rows []postRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, &model.RepositoryError{Op: "get all posts", Err: err}
	}

	posts := make([]model.Post, len(rows))
	for i, row := range rows {
		posts[i] = row.toPost()
	}
	return posts, nil
}

// GetByAuthor returns one author's posts with the same ordering and
// normalization as GetAll.
func (r *postRepository) GetByAuthor(ctx context.Context, authorID string) ([]model.Post, error) {
	query := `
		SELECT id, content, image_url, author_id, author_name, created_at, updated_at
		FROM posts
		WHERE author_id = $1
		ORDER BY created_at DESC, id DESC
	`
	var rows []postRow
	if err := r.db.SelectContext(ctx, &rows, query, authorID); err != nil {
		return nil, &model.RepositoryError{Op: "get user posts", Err: err}
	}

	posts := make([]model.Post, len(rows))
	for i, row := range rows {
		posts[i] = row.toPost()
	}
	return posts, nil
}

// GetByID returns (nil, nil) when the id does not resolve to a document.
func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	query := `
		SELECT id, content, image_url, author_id, author_name, created_at, updated_at
		FROM posts
		WHERE id = $1
	`
	var row postRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &model.RepositoryError{Op: "get post", Err: err}
	}

	post := row.toPost()
	return &post, nil
}

// Update merges only the supplied fields into the document. updated_at is
// always stamped fresh, overriding anything the caller sent.
func (r *postRepository) Update(ctx context.Context, id string, upd model.PostUpdate) error {
	query, args := buildPostUpdate(id, upd)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return &model.RepositoryError{Op: "update post", Err: err}
	}
	return nil
}

// Delete removes the document. A missing id is indistinguishable from a
// successful delete.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return &model.RepositoryError{Op: "delete post", Err: err}
	}
	return nil
}

// buildPostUpdate assembles the SET clause from the fields present in the
// partial. Content set to null is treated as omitted; image_url set to null
// clears the image.
func buildPostUpdate(id string, upd model.PostUpdate) (string, []interface{}) {
	set := []string{"updated_at = NOW()"}
	args := []interface{}{}
	arg := 1

	if upd.Content.Set && upd.Content.Value != nil {
		set = append(set, fmt.Sprintf("content = $%d", arg))
		args = append(args, *upd.Content.Value)
		arg++
	}
	if upd.ImageURL.Set {
		set = append(set, fmt.Sprintf("image_url = $%d", arg))
		args = append(args, upd.ImageURL.Value)
		arg++
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE posts SET %s WHERE id = $%d", strings.Join(set, ", "), arg)
	return query, args
}
