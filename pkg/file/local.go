package file

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes blobs under a single root directory on the local
// filesystem. Every operation resolves its path against the root and refuses
// anything that would land outside it.
type LocalStorage struct {
	root    string // absolute
	baseURL string // trailing slash
}

// NewLocalStorage creates the root directory if needed and returns a storage
// confined to it. baseURL is prepended to relative paths by URL.
func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: empty root directory", ErrInvalidConfig)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("file: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("file: create root: %w", err)
	}
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalStorage{root: abs, baseURL: baseURL}, nil
}

// Save streams the upload to disk under path, creating parent directories as
// needed. The copy checks ctx between chunks and removes the partial file when
// the write is aborted.
func (s *LocalStorage) Save(ctx context.Context, fh *multipart.FileHeader, path string) (*File, error) {
	if fh == nil {
		return nil, ErrNilFileHeader
	}
	abs, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("file: create directory: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("file: open upload: %w", err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("file: create file: %w", err)
	}
	defer func() { _ = dst.Close() }()

	written, err := copyWithContext(ctx, dst, src)
	if err != nil {
		_ = dst.Close()
		_ = os.Remove(abs)
		return nil, err
	}

	mimeType, err := detectMIME(fh)
	if err != nil {
		mimeType = "application/octet-stream"
	}

	rel, err := filepath.Rel(s.root, abs)
	if err != nil {
		rel = path
	}
	return &File{
		Filename:  SanitizeFilename(fh.Filename),
		Size:      written,
		MIMEType:  mimeType,
		Extension: GetExtension(fh),
		Path:      filepath.ToSlash(rel),
	}, nil
}

// Delete removes a stored file. Directories are never removed.
func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	abs, err := s.resolve(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("file: stat: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidPath, path)
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("file: delete: %w", err)
	}
	return nil
}

// URL returns the public URL for a stored file.
func (s *LocalStorage) URL(path string) string {
	return s.baseURL + strings.TrimPrefix(filepath.ToSlash(path), "/")
}

// resolve joins path onto the root and verifies the result stays inside it.
func (s *LocalStorage) resolve(path string) (string, error) {
	clean, err := cleanObjectPath(path)
	if err != nil {
		return "", err
	}
	abs := filepath.Join(s.root, filepath.FromSlash(clean))
	rel, err := filepath.Rel(s.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return abs, nil
}

// copyWithContext copies src to dst in 32KB chunks, aborting as soon as ctx
// is done so a slow client cannot hold a file handle open indefinitely.
func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	var written int64
	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, readErr := src.Read(buf)
		if n > 0 {
			nw, writeErr := dst.Write(buf[:n])
			written += int64(nw)
			if writeErr != nil {
				return written, fmt.Errorf("file: write: %w", writeErr)
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, fmt.Errorf("file: read upload: %w", readErr)
		}
	}
}
