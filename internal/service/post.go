package service

import (
	"context"
	"strings"
	"time"

	"socialfeed/internal/model"
	"socialfeed/internal/repository"
)

// PostService handles post operations for the signed-in user. Ownership is
// enforced here, at the application boundary: the document store itself is
// trusted not to check it.
type PostService struct {
	posts repository.PostRepository
}

func NewPostService(posts repository.PostRepository) *PostService {
	return &PostService{posts: posts}
}

// Create validates the content and writes one post document. The author
// name is captured as a snapshot; later profile renames do not touch it.
func (s *PostService) Create(ctx context.Context, author *model.SessionUser, content string, imageURL *string) (string, error) {
	if author == nil {
		return "", model.ErrNotSignedIn
	}
	if strings.TrimSpace(content) == "" {
		return "", model.ErrEmptyContent
	}

	authorName := author.DisplayName
	if authorName == "" {
		authorName = "Anonymous"
	}

	post := model.NewPost{
		Content:    content,
		ImageURL:   imageURL,
		AuthorID:   author.UID,
		AuthorName: authorName,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	return s.posts.Create(ctx, post)
}

// Feed returns every post, newest first.
func (s *PostService) Feed(ctx context.Context) ([]model.Post, error) {
	return s.posts.GetAll(ctx)
}

// UserPosts returns one author's posts, newest first.
func (s *PostService) UserPosts(ctx context.Context, authorID string) ([]model.Post, error) {
	return s.posts.GetByAuthor(ctx, authorID)
}

// Get returns (nil, nil) when the post does not exist.
func (s *PostService) Get(ctx context.Context, id string) (*model.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// Update applies a partial edit after checking the actor owns the post.
func (s *PostService) Update(ctx context.Context, actor *model.SessionUser, id string, upd model.PostUpdate) error {
	if actor == nil {
		return model.ErrNotSignedIn
	}
	if upd.Content.Set && (upd.Content.Value == nil || strings.TrimSpace(*upd.Content.Value) == "") {
		return model.ErrEmptyContent
	}

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return model.ErrPostNotFound
	}
	if post.AuthorID != actor.UID {
		return model.ErrNotPostOwner
	}

	return s.posts.Update(ctx, id, upd)
}

// Delete removes the actor's post. Deleting a post that no longer exists
// succeeds; only an ownership mismatch or a transport failure is an error.
func (s *PostService) Delete(ctx context.Context, actor *model.SessionUser, id string) error {
	if actor == nil {
		return model.ErrNotSignedIn
	}

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return nil
	}
	if post.AuthorID != actor.UID {
		return model.ErrNotPostOwner
	}

	return s.posts.Delete(ctx, id)
}
