package transport

import (
	"net/http"

	"nextshop/internal/middleware"
	"nextshop/internal/storage"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxUploadMemory is the in-memory buffer for multipart parsing; larger
// files spill to disk
const maxUploadMemory = 32 << 20

// UploadResponse carries the public URL of a stored image
type UploadResponse struct {
	URL string `json:"url"`
}

// UploadHandler handles admin image uploads
type UploadHandler struct {
	store  *storage.UploadStore
	logger *zap.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(store *storage.UploadStore, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{store: store, logger: logger}
}

// RegisterRoutes registers the upload route behind admin auth
func (h *UploadHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/admin/uploads", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)
		r.Post("/", h.Upload)
	})
}

// Upload accepts a multipart "image" field, stores it, and returns the
// resulting public URL
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.logger.Debug("Failed to parse multipart form", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "Missing image file")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "Missing image file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")

	url, err := h.store.Save(header.Filename, contentType, file)
	if err != nil {
		if err == storage.ErrUnsupportedType {
			middleware.RespondWithError(w, http.StatusBadRequest, "Unsupported image type")
			return
		}

		h.logger.Error("Failed to store upload", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Unable to store upload")
		return
	}

	h.logger.Info("Image uploaded", zap.String("url", url))
	middleware.RespondWithJSON(w, http.StatusCreated, UploadResponse{URL: url})
}
