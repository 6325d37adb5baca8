package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vimleague/hub/internal/league"
)

const documentID = "league"

// SQLStore keeps the document as a single JSONB row in the documents table.
// The schema comes from the migrations package.
type SQLStore struct {
	db     *sql.DB
	logger *slog.Logger
	mu     sync.Mutex
	now    func() time.Time
}

func NewSQLStore(db *sql.DB, logger *slog.Logger) *SQLStore {
	return &SQLStore{db: db, logger: logger, now: time.Now}
}

func (s *SQLStore) Load(ctx context.Context) (*league.Document, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM documents WHERE id = ?`, documentID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return league.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}
	doc, _ := s.decode(data)
	return doc, nil
}

// Update runs the read-modify-write inside one transaction. The mutex keeps
// SQLite from rejecting a second writer with SQLITE_BUSY.
func (s *SQLStore) Update(ctx context.Context, fn func(*league.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var data string
	err = tx.QueryRowContext(ctx,
		`SELECT json(data) FROM documents WHERE id = ?`, documentID,
	).Scan(&data)

	var doc *league.Document
	switch {
	case errors.Is(err, sql.ErrNoRows):
		doc = league.New()
	case err != nil:
		return fmt.Errorf("loading document: %w", err)
	default:
		var recovered bool
		doc, recovered = s.decode(data)
		if recovered {
			backup := fmt.Sprintf("%s.corrupt-%d", documentID, s.now().Unix())
			_, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO documents (id, data) SELECT ?, data FROM documents WHERE id = ?`,
				backup, documentID,
			)
			if err != nil {
				return fmt.Errorf("backing up unreadable document: %w", err)
			}
			s.logger.Warn("unreadable document moved aside", "backup", backup)
		}
	}
	doc.AssignIDs()

	if err := fn(doc); err != nil {
		return err
	}

	encoded, err := league.Encode(doc)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, data, updated_at) VALUES (?, jsonb(?), ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		documentID, string(encoded), s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	return tx.Commit()
}

func (s *SQLStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLStore) Close() error { return s.db.Close() }

// decode parses a stored row. recovered reports that defaults replaced an
// unreadable document.
func (s *SQLStore) decode(data string) (doc *league.Document, recovered bool) {
	doc, err := league.Decode([]byte(data))
	if err != nil {
		s.logger.Warn("document unreadable, using defaults", "error", err)
		return league.New(), true
	}
	return doc, false
}
