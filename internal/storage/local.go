package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type Local struct {
	BaseDir   string
	URLPrefix string
}

func NewLocal(baseDir, urlPrefix string) *Local {
	return &Local{BaseDir: baseDir, URLPrefix: urlPrefix}
}

func (l *Local) Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error) {
	if err := ctx.Err(); err != nil {
		return PutResult{}, err
	}
	ext, err := imageExtension(in.Filename)
	if err != nil {
		return PutResult{}, err
	}

	key := newKey(in.Folder, ext)
	dstPath := filepath.Join(l.BaseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return PutResult{}, err
	}

	f, err := os.OpenFile(dstPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return PutResult{}, err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(dstPath)
		return PutResult{}, err
	}
	if err := f.Close(); err != nil {
		return PutResult{}, err
	}

	return PutResult{Key: key, URL: strings.TrimRight(l.URLPrefix, "/") + "/" + key}, nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	return os.Remove(filepath.Join(l.BaseDir, clean))
}

func (l *Local) String() string { return fmt.Sprintf("local(%s)", l.BaseDir) }
