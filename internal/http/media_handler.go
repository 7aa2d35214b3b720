package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/wedding-planner/internal/media"
)

// maxUploadBytes caps multipart uploads at 10 MiB.
const maxUploadBytes = 10 << 20

type MediaHandler struct {
	store     *media.Store
	responder responder
	logger    *slog.Logger
}

func NewMediaHandler(store *media.Store, logger *slog.Logger) *MediaHandler {
	base := defaultLogger(logger)
	return &MediaHandler{store: store, responder: newResponder(base), logger: base}
}

func (h *MediaHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "MediaHandler", operation, attrs...)
}

// Upload accepts a multipart form with a single "file" field and stores it
// under the bucket named in the request path.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bucket, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bucket) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	logger := h.log(r.Context(), "Upload", "bucket", bucket)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		logger.ErrorContext(r.Context(), "failed to parse multipart form", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		logger.ErrorContext(r.Context(), "missing file field", "error", err)
		h.responder.writeJSON(r.Context(), w, http.StatusUnprocessableEntity, errorResponse{
			Message: "the submitted input is invalid",
			Errors:  map[string]string{"file": "a file field is required"},
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to read upload", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	url, err := h.store.Upload(bucket, header.Filename, data)
	if err != nil {
		if errors.Is(err, media.ErrInvalidPath) {
			h.responder.writeJSON(r.Context(), w, http.StatusUnprocessableEntity, errorResponse{
				Message: "the submitted input is invalid",
				Errors:  map[string]string{"file": "the file name is not allowed"},
			})
			return
		}
		logger.ErrorContext(r.Context(), "upload failed", "error", err)
		h.responder.writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{Message: "an internal error occurred"})
		return
	}

	logger.With("url", url, "size", len(data)).InfoContext(r.Context(), "file uploaded")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, uploadResponse{URL: url})
}

type uploadResponse struct {
	URL string `json:"url"`
}
