// Package upload stores menu images and hands back the URL they are served from.
package upload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const SniffLen = 512

var imageExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

// Sniff reports the file extension for a PNG or JPEG header.
func Sniff(head []byte) (string, bool) {
	ext, ok := imageExt[http.DetectContentType(head)]
	return ext, ok
}

type Store interface {
	Save(ctx context.Context, name string, r io.Reader) (url string, err error)
}

// DiskStore writes files under Dir; they are served at BaseURL + "/uploads/".
type DiskStore struct {
	Dir     string
	BaseURL string
}

func (s *DiskStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	path := filepath.Join(s.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close file: %w", err)
	}

	return strings.TrimRight(s.BaseURL, "/") + "/uploads/" + name, nil
}
