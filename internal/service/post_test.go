package service

import (
	"context"
	"errors"
	"testing"

	"socialfeed/internal/model"
)

type mockPostRepository struct {
	createFn      func(ctx context.Context, post model.NewPost) (string, error)
	getAllFn      func(ctx context.Context) ([]model.Post, error)
	getByAuthorFn func(ctx context.Context, authorID string) ([]model.Post, error)
	getByIDFn     func(ctx context.Context, id string) (*model.Post, error)
	updateFn      func(ctx context.Context, id string, upd model.PostUpdate) error
	deleteFn      func(ctx context.Context, id string) error
}

func (m *mockPostRepository) Create(ctx context.Context, post model.NewPost) (string, error) {
	return m.createFn(ctx, post)
}

func (m *mockPostRepository) GetAll(ctx context.Context) ([]model.Post, error) {
	return m.getAllFn(ctx)
}

func (m *mockPostRepository) GetByAuthor(ctx context.Context, authorID string) ([]model.Post, error) {
	return m.getByAuthorFn(ctx, authorID)
}

func (m *mockPostRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockPostRepository) Update(ctx context.Context, id string, upd model.PostUpdate) error {
	return m.updateFn(ctx, id, upd)
}

func (m *mockPostRepository) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func strPtr(s string) *string { return &s }

var alice = &model.SessionUser{UID: "u1", Email: "a@x.com", DisplayName: "Alice"}

func TestPostService_Create(t *testing.T) {
	tests := []struct {
		name    string
		author  *model.SessionUser
		content string
		wantErr error
	}{
		{
			name:    "success",
			author:  alice,
			content: "hello world",
			wantErr: nil,
		},
		{
			name:    "not signed in",
			author:  nil,
			content: "hello world",
			wantErr: model.ErrNotSignedIn,
		},
		{
			name:    "empty content",
			author:  alice,
			content: "",
			wantErr: model.ErrEmptyContent,
		},
		{
			name:    "whitespace only content",
			author:  alice,
			content: "   \n\t ",
			wantErr: model.ErrEmptyContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockPostRepository{
				createFn: func(ctx context.Context, post model.NewPost) (string, error) {
					return "p1", nil
				},
			}
			svc := NewPostService(repo)

			id, err := svc.Create(context.Background(), tt.author, tt.content, nil)

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && id != "p1" {
				t.Errorf("id = %q, want p1", id)
			}
		})
	}
}

func TestPostService_Create_AuthorSnapshot(t *testing.T) {
	var got model.NewPost
	repo := &mockPostRepository{
		createFn: func(ctx context.Context, post model.NewPost) (string, error) {
			got = post
			return "p1", nil
		},
	}
	svc := NewPostService(repo)

	img := strPtr("https://cdn.example.com/posts/u1/1.jpg")
	if _, err := svc.Create(context.Background(), alice, "hello", img); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.AuthorID != "u1" || got.AuthorName != "Alice" {
		t.Errorf("author snapshot = %q/%q, want u1/Alice", got.AuthorID, got.AuthorName)
	}
	if got.ImageURL == nil || *got.ImageURL != *img {
		t.Errorf("imageURL = %v, want %q", got.ImageURL, *img)
	}
	if got.CreatedAt == "" {
		t.Error("createdAt hint should be set")
	}
}

func TestPostService_Create_AnonymousFallback(t *testing.T) {
	var got model.NewPost
	repo := &mockPostRepository{
		createFn: func(ctx context.Context, post model.NewPost) (string, error) {
			got = post
			return "p1", nil
		},
	}
	svc := NewPostService(repo)

	noName := &model.SessionUser{UID: "u2", Email: "b@x.com"}
	if _, err := svc.Create(context.Background(), noName, "hello", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.AuthorName != "Anonymous" {
		t.Errorf("authorName = %q, want Anonymous", got.AuthorName)
	}
}

func TestPostService_Get_Absent(t *testing.T) {
	repo := &mockPostRepository{
		getByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			return nil, nil
		},
	}
	svc := NewPostService(repo)

	post, err := svc.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post != nil {
		t.Errorf("post = %+v, want nil for an absent document", post)
	}
}

func TestPostService_Update(t *testing.T) {
	owned := &model.Post{ID: "p1", Content: "old", AuthorID: "u1", AuthorName: "Alice"}
	foreign := &model.Post{ID: "p2", Content: "old", AuthorID: "u9", AuthorName: "Bob"}

	tests := []struct {
		name    string
		actor   *model.SessionUser
		stored  *model.Post
		upd     model.PostUpdate
		wantErr error
	}{
		{
			name:    "success",
			actor:   alice,
			stored:  owned,
			upd:     model.PostUpdate{Content: model.UpdateField{Set: true, Value: strPtr("new")}},
			wantErr: nil,
		},
		{
			name:    "not signed in",
			actor:   nil,
			stored:  owned,
			upd:     model.PostUpdate{},
			wantErr: model.ErrNotSignedIn,
		},
		{
			name:    "empty content",
			actor:   alice,
			stored:  owned,
			upd:     model.PostUpdate{Content: model.UpdateField{Set: true, Value: strPtr("  ")}},
			wantErr: model.ErrEmptyContent,
		},
		{
			name:    "content explicit null",
			actor:   alice,
			stored:  owned,
			upd:     model.PostUpdate{Content: model.UpdateField{Set: true, Value: nil}},
			wantErr: model.ErrEmptyContent,
		},
		{
			name:    "post missing",
			actor:   alice,
			stored:  nil,
			upd:     model.PostUpdate{Content: model.UpdateField{Set: true, Value: strPtr("new")}},
			wantErr: model.ErrPostNotFound,
		},
		{
			name:    "not the owner",
			actor:   alice,
			stored:  foreign,
			upd:     model.PostUpdate{Content: model.UpdateField{Set: true, Value: strPtr("new")}},
			wantErr: model.ErrNotPostOwner,
		},
		{
			name:    "image clear only",
			actor:   alice,
			stored:  owned,
			upd:     model.PostUpdate{ImageURL: model.UpdateField{Set: true, Value: nil}},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated := false
			repo := &mockPostRepository{
				getByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
					return tt.stored, nil
				},
				updateFn: func(ctx context.Context, id string, upd model.PostUpdate) error {
					updated = true
					return nil
				},
			}
			svc := NewPostService(repo)

			err := svc.Update(context.Background(), tt.actor, "p1", tt.upd)

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil && updated {
				t.Error("repository update should not run after a failed check")
			}
			if tt.wantErr == nil && !updated {
				t.Error("repository update should run")
			}
		})
	}
}

func TestPostService_Delete(t *testing.T) {
	owned := &model.Post{ID: "p1", AuthorID: "u1"}
	foreign := &model.Post{ID: "p2", AuthorID: "u9"}

	tests := []struct {
		name       string
		actor      *model.SessionUser
		stored     *model.Post
		wantErr    error
		wantDelete bool
	}{
		{
			name:       "success",
			actor:      alice,
			stored:     owned,
			wantErr:    nil,
			wantDelete: true,
		},
		{
			name:       "not signed in",
			actor:      nil,
			stored:     owned,
			wantErr:    model.ErrNotSignedIn,
			wantDelete: false,
		},
		{
			name:       "already gone is success",
			actor:      alice,
			stored:     nil,
			wantErr:    nil,
			wantDelete: false,
		},
		{
			name:       "not the owner",
			actor:      alice,
			stored:     foreign,
			wantErr:    model.ErrNotPostOwner,
			wantDelete: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deleted := false
			repo := &mockPostRepository{
				getByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
					return tt.stored, nil
				},
				deleteFn: func(ctx context.Context, id string) error {
					deleted = true
					return nil
				},
			}
			svc := NewPostService(repo)

			err := svc.Delete(context.Background(), tt.actor, "p1")

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if deleted != tt.wantDelete {
				t.Errorf("deleted = %v, want %v", deleted, tt.wantDelete)
			}
		})
	}
}

func TestPostService_Delete_RepositoryFailure(t *testing.T) {
	repo := &mockPostRepository{
		getByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			return nil, &model.RepositoryError{Op: "get post", Err: errors.New("connection refused")}
		},
	}
	svc := NewPostService(repo)

	err := svc.Delete(context.Background(), alice, "p1")

	var repoErr *model.RepositoryError
	if !errors.As(err, &repoErr) {
		t.Errorf("error = %v, want RepositoryError", err)
	}
}
