package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"socialfeed/internal/httputil"
	"socialfeed/internal/model"
	"socialfeed/internal/service"
	"socialfeed/internal/transport/http/middleware"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// CreatePostRequest is the request body for creating a post.
type CreatePostRequest struct {
	Content  string  `json:"content"`
	ImageURL *string `json:"imageUrl"`
}

// Feed handles GET /feed
// Returns every post, newest first.
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.Feed(r.Context())
	if err != nil {
		log.Printf("[ERROR] Feed handler: %v", err)
		httputil.WriteInternalError(w, "Failed to get posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, posts)
}

// UserPosts handles GET /users/{id}/posts
func (h *PostHandler) UserPosts(w http.ResponseWriter, r *http.Request) {
	authorID := chi.URLParam(r, "id")
	if authorID == "" {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	posts, err := h.postService.UserPosts(r.Context(), authorID)
	if err != nil {
		log.Printf("[ERROR] User posts handler: author=%s err=%v", authorID, err)
		httputil.WriteInternalError(w, "Failed to get user posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, posts)
}

// GetByID handles GET /posts/{id}
func (h *PostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	post, err := h.postService.Get(r.Context(), postID)
	if err != nil {
		log.Printf("[ERROR] Get post handler: post=%s err=%v", postID, err)
		httputil.WriteInternalError(w, "Failed to get post")
		return
	}
	if post == nil {
		httputil.WriteNotFound(w, "Post not found")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

// Create handles POST /posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	id, err := h.postService.Create(r.Context(), user, req.Content, req.ImageURL)
	if err != nil {
		if errors.Is(err, model.ErrEmptyContent) {
			httputil.WriteBadRequest(w, "Post content cannot be empty")
			return
		}
		log.Printf("[ERROR] Create post handler: user=%s err=%v", user.UID, err)
		httputil.WriteInternalError(w, "Failed to create post")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Update handles PATCH /posts/{id}
// Merges only the supplied fields; editing someone else's post is refused.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID := chi.URLParam(r, "id")

	var upd model.PostUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	err := h.postService.Update(r.Context(), user, postID, upd)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmptyContent):
			httputil.WriteBadRequest(w, "Post content cannot be empty")
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrNotPostOwner):
			httputil.WriteForbidden(w, "You can only edit your own posts")
		default:
			log.Printf("[ERROR] Update post handler: user=%s post=%s err=%v", user.UID, postID, err)
			httputil.WriteInternalError(w, "Failed to update post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Post updated successfully",
	})
}

// Delete handles DELETE /posts/{id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID := chi.URLParam(r, "id")

	err := h.postService.Delete(r.Context(), user, postID)
	if err != nil {
		if errors.Is(err, model.ErrNotPostOwner) {
			httputil.WriteForbidden(w, "You can only delete your own posts")
			return
		}
		log.Printf("[ERROR] Delete post handler: user=%s post=%s err=%v", user.UID, postID, err)
		httputil.WriteInternalError(w, "Failed to delete post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Post deleted successfully",
	})
}
