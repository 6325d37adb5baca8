package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vimleague/hub/internal/league"
)

// FileStore keeps the document as an indented JSON file.
type FileStore struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
	now    func() time.Time
}

func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger, now: time.Now}
}

func (s *FileStore) Load(_ context.Context) (*league.Document, error) {
	doc, _, err := s.read()
	return doc, err
}

func (s *FileStore) Update(ctx context.Context, fn func(*league.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	doc, recovered, err := s.read()
	if err != nil {
		return err
	}
	doc.AssignIDs()

	if err := fn(doc); err != nil {
		return err
	}

	if recovered {
		// Keep the unreadable file around instead of silently overwriting it.
		backup := fmt.Sprintf("%s.corrupt-%d", s.path, s.now().Unix())
		if err := os.Rename(s.path, backup); err != nil {
			return fmt.Errorf("backing up unreadable document: %w", err)
		}
		s.logger.Warn("unreadable document moved aside", "path", s.path, "backup", backup)
	}

	return s.write(doc)
}

func (s *FileStore) Ping(_ context.Context) error {
	_, err := os.Stat(filepath.Dir(s.path))
	return err
}

func (s *FileStore) Close() error { return nil }

// read loads the document. recovered reports that the file existed but could
// not be parsed and defaults were substituted.
func (s *FileStore) read() (doc *league.Document, recovered bool, err error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return league.New(), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading document: %w", err)
	}

	doc, err = league.Decode(data)
	if err != nil {
		s.logger.Warn("document unreadable, using defaults", "path", s.path, "error", err)
		return league.New(), true, nil
	}
	return doc, false, nil
}

// write replaces the file through a rename so readers never see a partial document.
func (s *FileStore) write(doc *league.Document) error {
	data, err := league.Encode(doc)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".league-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing document: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing document: %w", err)
	}
	return nil
}
