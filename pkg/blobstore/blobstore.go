package blobstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Store persists course material blobs as flat files under category
// directories below a single root. Keys have the form
// {category}/{slug}_{timestamp}.pdf and are stored relative to the root so
// database rows stay portable across hosts.
type Store struct {
	root   string
	logger zerolog.Logger
	now    func() time.Time
}

// New constructs a Store rooted at dir, creating it if absent.
func New(dir string, logger zerolog.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage dir must not be empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}

	return &Store{
		root:   dir,
		logger: logger.With().Str("component", "blobstore").Logger(),
		now:    time.Now,
	}, nil
}

// Store writes the blob and returns its key. Category directories are
// created lazily. Title collisions resolve through the timestamp suffix
// rather than being rejected.
func (s *Store) Store(ctx context.Context, category, title string, reader io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	category = strings.Trim(category, "/")
	if category == "" {
		return "", fmt.Errorf("category must not be empty")
	}

	dir := filepath.Join(s.root, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create category dir: %w", err)
	}

	name := fmt.Sprintf("%s_%d.pdf", slugify(title), s.now().Unix())
	key := category + "/" + name

	file, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create blob file: %w", err)
	}

	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to write blob: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to close blob file: %w", err)
	}

	s.logger.Info().Str("key", key).Msg("blob stored")

	return key, nil
}

// Open returns a reader over a previously stored blob. Keys containing path
// traversal are rejected.
func (s *Store) Open(key string) (io.ReadCloser, error) {
	clean := filepath.Clean(key)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid blob key")
	}

	file, err := os.Open(filepath.Join(s.root, clean))
	if err != nil {
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}

	return file, nil
}

func slugify(title string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, title)

	slug = strings.Trim(slug, "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	if slug == "" {
		slug = "material"
	}

	return slug
}
