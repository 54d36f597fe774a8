package handler

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "socialnet/internal/errors"
	"socialnet/internal/storage"
)

// MaxUploadSize is the largest accepted upload.
const MaxUploadSize = 10 << 20

var allowedUploadPrefixes = []string{"image/", "video/", "audio/", "application/pdf"}

// UploadHandler stores uploaded media.
type UploadHandler struct {
	store  storage.FileStore
	logger *slog.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(store storage.FileStore, logger *slog.Logger) *UploadHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadHandler{store: store, logger: logger}
}

// UploadResponse is the stored file's relative path.
type UploadResponse struct {
	Path string `json:"path"`
}

// Upload godoc
// @Summary Upload a file
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to upload"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /uploads [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return apperrors.Validation("You must select a file to upload")
	}
	if fh.Size > MaxUploadSize {
		return apperrors.Validation("The file size is so big")
	}

	src, err := fh.Open()
	if err != nil {
		return apperrors.Internal("open upload", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return apperrors.Internal("read upload", err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !allowedUpload(contentType) {
		return apperrors.Validation("The file type is not valid or not supported")
	}

	body := io.MultiReader(bytes.NewReader(head), io.LimitReader(src, MaxUploadSize-int64(n)))
	path, err := h.store.Save(c.Request().Context(), contentType, body)
	if err != nil {
		return apperrors.Internal("save upload", err)
	}

	h.logger.InfoContext(c.Request().Context(), "file uploaded", "user_id", userID, "filename", fh.Filename, "path", path, "content_type", contentType)
	return c.JSON(http.StatusOK, UploadResponse{Path: path})
}

func allowedUpload(contentType string) bool {
	for _, prefix := range allowedUploadPrefixes {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}
