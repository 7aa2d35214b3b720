// Package media implements the file object store used by avatar, gallery,
// and story uploads: upload bytes under a bucket/path, get back a publicly
// resolvable URL.
package media

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrInvalidPath is returned when a bucket or object path would escape the
// store root.
var ErrInvalidPath = errors.New("media: invalid bucket or path")

// Store writes objects to a local directory and serves them under baseURL.
type Store struct {
	root    string
	baseURL string
}

// NewStore creates the root directory if needed. baseURL is the public
// prefix uploads resolve under, e.g. "/media".
func NewStore(root, baseURL string) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("media: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media root: %w", err)
	}
	return &Store{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload stores data under bucket/objectPath and returns its public URL.
// Existing objects at the same path are overwritten.
func (s *Store) Upload(bucket, objectPath string, data []byte) (string, error) {
	cleanBucket, err := cleanSegment(bucket)
	if err != nil {
		return "", err
	}
	cleanPath, err := cleanObjectPath(objectPath)
	if err != nil {
		return "", err
	}

	target := filepath.Join(s.root, cleanBucket, filepath.FromSlash(cleanPath))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}

	return s.baseURL + "/" + cleanBucket + "/" + escapePath(cleanPath), nil
}

// Root returns the directory backing the store, for serving via a file
// server.
func (s *Store) Root() string {
	return s.root
}

func cleanSegment(segment string) (string, error) {
	segment = strings.TrimSpace(segment)
	if segment == "" || segment != path.Clean(segment) || strings.ContainsAny(segment, "/\\") || segment == "." || segment == ".." {
		return "", ErrInvalidPath
	}
	return segment, nil
}

func cleanObjectPath(objectPath string) (string, error) {
	objectPath = strings.Trim(strings.TrimSpace(objectPath), "/")
	if objectPath == "" {
		return "", ErrInvalidPath
	}
	cleaned := path.Clean(objectPath)
	if cleaned != objectPath || cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") || strings.Contains(cleaned, "\\") {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}

func escapePath(objectPath string) string {
	segments := strings.Split(objectPath, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
