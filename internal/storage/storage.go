// Package storage persists uploaded files and hands back stable relative paths.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"time"

	"github.com/google/uuid"

	"socialnet/internal/config"
)

// FileStore saves an upload and returns its relative path. The stored
// extension follows contentType, never the client's file name.
type FileStore interface {
	Save(ctx context.Context, contentType string, r io.Reader) (string, error)
}

// New returns the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.UploadsConfig) (FileStore, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg.LocalDir), nil
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown uploads driver %q", cfg.Driver)
	}
}

// preferredExt pins the extension for content types whose system mime
// table entry lists several candidates.
var preferredExt = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/bmp":       ".bmp",
	"image/x-icon":    ".ico",
	"image/avif":      ".avif",
	"audio/mpeg":      ".mp3",
	"audio/wave":      ".wav",
	"audio/aiff":      ".aiff",
	"audio/basic":     ".au",
	"audio/midi":      ".mid",
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"video/avi":       ".avi",
	"application/pdf": ".pdf",
}

// extensionFor maps a detected content type to a file extension, or "" when
// the type is unknown.
func extensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	if ext, ok := preferredExt[mediaType]; ok {
		return ext
	}
	exts, err := mime.ExtensionsByType(mediaType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}

// objectPath builds uploads/YYYY/MM/<uuid><ext> with ext derived from contentType.
func objectPath(contentType string, now time.Time) string {
	return fmt.Sprintf("uploads/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.NewString(), extensionFor(contentType))
}
