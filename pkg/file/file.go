// Package file stores uploaded attachment blobs (unit documents, booking
// receipts, community images) behind a Storage interface with two backends:
// LocalStorage for development and S3Storage for production. Attachment
// metadata lives in the tenant database; only the bytes go through here.
// Every path is validated against traversal before a backend is touched.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

var (
	ErrNilFileHeader = errors.New("file: nil file header")
	ErrInvalidPath   = errors.New("file: path escapes storage root")
	ErrNotFound      = errors.New("file: not found")
	ErrFileTooLarge  = errors.New("file: size limit exceeded")
	ErrInvalidConfig = errors.New("file: invalid storage configuration")
	ErrAccessDenied  = errors.New("file: access denied")
)

// File describes a stored blob as reported by a Storage backend.
// Path is relative to the backend root and is what Delete and URL expect.
type File struct {
	Filename  string
	Size      int64
	MIMEType  string
	Extension string
	Path      string
}

// Storage is the blob backend used by the attachment module.
type Storage interface {
	// Save writes the upload under path and returns its metadata.
	Save(ctx context.Context, fh *multipart.FileHeader, path string) (*File, error)
	// Delete removes a previously saved blob.
	Delete(ctx context.Context, path string) error
	// URL returns the public URL for a stored blob.
	URL(path string) string
}

// GetExtension returns the upload's extension including the leading dot,
// or "" when the filename has none.
func GetExtension(fh *multipart.FileHeader) string {
	if fh == nil {
		return ""
	}
	return filepath.Ext(fh.Filename)
}

// ValidateSize rejects uploads whose declared size exceeds maxBytes.
func ValidateSize(fh *multipart.FileHeader, maxBytes int64) error {
	if fh == nil {
		return ErrNilFileHeader
	}
	if fh.Size > maxBytes {
		return fmt.Errorf("%w: %d bytes over %d limit", ErrFileTooLarge, fh.Size, maxBytes)
	}
	return nil
}

// SanitizeFilename strips directory components and NUL bytes from a
// client-supplied filename. An empty or directory-only name becomes "unnamed".
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "\x00", "")
	if filename == "" || filename == "." || filename == ".." || filename == "/" {
		return "unnamed"
	}
	return filename
}

// detectMIME sniffs the content type from the first 512 bytes of the upload.
// Extensions are never trusted. The reader position is rewound afterwards so
// the backend can still stream the full body.
func detectMIME(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("file: open upload: %w", err)
	}
	defer func() { _ = src.Close() }()

	buf := make([]byte, 512)
	n, err := src.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("file: read upload: %w", err)
	}
	if seeker, ok := src.(io.Seeker); ok {
		_, _ = seeker.Seek(0, io.SeekStart)
	}
	return http.DetectContentType(buf[:n]), nil
}

// cleanObjectPath normalizes a storage path and rejects traversal attempts.
func cleanObjectPath(path string) (string, error) {
	path = strings.TrimPrefix(path, "/")
	if path == "" || strings.Contains(path, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return path, nil
}
