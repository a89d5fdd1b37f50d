// Package store persists the navigation document on disk.
package store

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/iw2rmb/navedit/internal/logging"
	"github.com/iw2rmb/navedit/jsondoc"
)

// ErrNotFound is returned by Load when the document does not exist.
var ErrNotFound = errors.New("document not found")

// Options configures a Store.
type Options struct {
	// ExportDir receives Export copies. Defaults to "exports" next to the document.
	ExportDir string
	// Compact writes exports without indentation when the text parses.
	Compact bool
	// Now overrides the clock used for export names.
	Now func() time.Time
	// Entropy overrides the randomness used for export names.
	Entropy io.Reader
}

// Store reads and writes one document file. It is safe for concurrent use.
type Store struct {
	path      string
	exportDir string
	compact   bool
	now       func() time.Time

	mu      sync.Mutex
	entropy io.Reader
}

// New returns a Store for the document at path.
func New(path string, opts Options) *Store {
	s := &Store{
		path:      path,
		exportDir: opts.ExportDir,
		compact:   opts.Compact,
		now:       opts.Now,
		entropy:   opts.Entropy,
	}
	if s.exportDir == "" {
		s.exportDir = filepath.Join(filepath.Dir(path), "exports")
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.entropy == nil {
		s.entropy = ulid.Monotonic(rand.Reader, 0)
	}
	return s
}

// Path returns the document path.
func (s *Store) Path() string { return s.path }

// ExportDir returns the export directory.
func (s *Store) ExportDir() string { return s.exportDir }

// Load reads the document text.
func (s *Store) Load(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("load document: %w", err)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("load %s: %w", s.path, ErrNotFound)
		}
		return "", fmt.Errorf("load %s: %w", s.path, err)
	}
	logging.FromContext(ctx).Debug("document loaded", logging.FieldPath, s.path, logging.FieldBytes, len(data))
	return string(data), nil
}

// Save replaces the document atomically, creating parent directories.
func (s *Store) Save(ctx context.Context, text string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	if err := writeAtomic(ctx, s.path, []byte(text)); err != nil {
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	logging.FromContext(ctx).Info("document saved", logging.FieldPath, s.path, logging.FieldBytes, len(text))
	return nil
}

// Export writes a copy of text into the export directory under a unique,
// time-ordered name and returns its path.
func (s *Store) Export(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("export document: %w", err)
	}
	if s.compact {
		if compact, err := jsondoc.Compact(text); err == nil {
			text = compact
		}
	}
	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("export document: %w", err)
	}

	path := filepath.Join(s.exportDir, s.exportName())
	if err := writeAtomic(ctx, path, []byte(text)); err != nil {
		return "", fmt.Errorf("export document: %w", err)
	}
	logging.FromContext(ctx).Info("document exported", logging.FieldPath, path, logging.FieldBytes, len(text))
	return path, nil
}

func (s *Store) exportName() string {
	base := filepath.Base(s.path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = ".json"
	}

	s.mu.Lock()
	id := ulid.MustNew(ulid.Timestamp(s.now()), s.entropy)
	s.mu.Unlock()

	return stem + "-" + strings.ToLower(id.String()) + ext
}
