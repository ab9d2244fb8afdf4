package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrUnsupportedType = errors.New("storage: unsupported image type")

type PutInput struct {
	Folder      string // e.g. "cookies"
	Filename    string
	ContentType string
	Size        int64
}

type PutResult struct {
	Key string
	URL string
}

type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, key string) error
}

var imageExt = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// imageExtension returns the lowercased extension when filename is an accepted image.
func imageExtension(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := imageExt[ext]; !ok {
		return "", ErrUnsupportedType
	}
	return ext, nil
}

// ContentTypeFor falls back to the extension when the client sent no type.
func ContentTypeFor(in PutInput) string {
	if in.ContentType != "" && in.ContentType != "application/octet-stream" {
		return in.ContentType
	}
	return imageExt[strings.ToLower(filepath.Ext(in.Filename))]
}

// newKey builds "<folder>/<uuid><ext>"; folder is reduced to a single safe segment.
func newKey(folder, ext string) string {
	folder = strings.Trim(filepath.Base("/"+folder), "/.")
	if folder == "" {
		return uuid.NewString() + ext
	}
	return folder + "/" + uuid.NewString() + ext
}
