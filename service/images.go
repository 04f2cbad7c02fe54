package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImagePathPrefix is the URL path under which stored images are served.
const ImagePathPrefix = "/book_imgs/"

// ImageStore persists uploaded cover images. Open returns an error
// matching fs.ErrNotExist for unknown names.
type ImageStore interface {
	Save(ctx context.Context, name, contentType string, body io.Reader) error
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, name string) error
}

// NewImageName returns a collision-free file name that keeps the upload's
// extension.
func NewImageName(original string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(original))
}

// ImageURL is the catalog imageUrl for a stored image name.
func ImageURL(name string) string {
	return ImagePathPrefix + name
}

// LocalImages stores images as files in Dir.
type LocalImages struct {
	Dir string
}

func (l *LocalImages) Save(_ context.Context, name, _ string, body io.Reader) error {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}
	f, err := os.Create(l.path(name))
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (l *LocalImages) Open(_ context.Context, name string) (io.ReadCloser, string, error) {
	f, err := os.Open(l.path(name))
	if err != nil {
		return nil, "", err
	}
	if st, err := f.Stat(); err == nil && st.IsDir() {
		f.Close()
		return nil, "", fs.ErrNotExist
	}
	return f, mime.TypeByExtension(filepath.Ext(name)), nil
}

// Delete removes the image. Deleting a missing image is not an error.
func (l *LocalImages) Delete(_ context.Context, name string) error {
	err := os.Remove(l.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// path confines name to Dir.
func (l *LocalImages) path(name string) string {
	return filepath.Join(l.Dir, filepath.Base(filepath.Clean("/"+name)))
}
