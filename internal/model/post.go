package model

import (
	"encoding/json"
	"errors"
)

// Post represents a single feed entry. Timestamps are carried as RFC 3339
// strings; the repository normalizes the store's native timestamp type once
// at read time.
type Post struct {
	ID         string  `json:"id"`
	Content    string  `json:"content"`
	ImageURL   *string `json:"imageUrl"`
	AuthorID   string  `json:"authorId"`
	AuthorName string  `json:"authorName"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  *string `json:"updatedAt"`
}

// NewPost is the input for creating a post. CreatedAt is a hint only; the
// store stamps its own timestamp on insert.
type NewPost struct {
	Content    string  `json:"content"`
	ImageURL   *string `json:"imageUrl"`
	AuthorID   string  `json:"authorId"`
	AuthorName string  `json:"authorName"`
	CreatedAt  string  `json:"createdAt"`
}

// PostUpdate is a partial update. Fields left unset are not touched;
// ImageURL set to an explicit null clears the image. UpdatedAt is always
// stamped server-side regardless of what the caller sends.
type PostUpdate struct {
	Content  UpdateField `json:"content"`
	ImageURL UpdateField `json:"imageUrl"`
}

// UpdateField distinguishes a field omitted from a partial update from one
// explicitly set to null.
type UpdateField struct {
	Set   bool
	Value *string
}

func (f *UpdateField) UnmarshalJSON(b []byte) error {
	f.Set = true
	if string(b) == "null" {
		f.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	f.Value = &s
	return nil
}

func (f UpdateField) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.Value)
}

// Post errors
var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotPostOwner = errors.New("not the owner of this post")
	ErrEmptyContent = errors.New("post content cannot be empty")
)
