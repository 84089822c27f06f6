package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"socialfeed/internal/httputil"
	"socialfeed/internal/model"
	"socialfeed/internal/storage"
	"socialfeed/internal/transport/http/middleware"
)

// UploadHandler stores post images and returns their public URLs.
type UploadHandler struct {
	objects storage.ObjectStore
}

func NewUploadHandler(objects storage.ObjectStore) *UploadHandler {
	return &UploadHandler{objects: objects}
}

// Upload handles POST /uploads
// Accepts any image/* MIME type with no explicit size cap; the adapter
// itself does no validation.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.WriteBadRequest(w, "An image file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		httputil.WriteBadRequest(w, "Only image uploads are accepted")
		return
	}

	path := fmt.Sprintf("posts/%s/%d", user.UID, time.Now().UnixMilli())

	url, err := h.objects.Upload(r.Context(), file, path, contentType)
	if err != nil {
		var uploadErr *model.UploadError
		if errors.As(err, &uploadErr) {
			log.Printf("[ERROR] Upload handler: user=%s path=%s err=%v", user.UID, path, err)
		}
		httputil.WriteInternalError(w, "Failed to upload image")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"url": url})
}
