// Package store persists the league document.
//
// Every mutation goes through Update, which loads the whole document, applies
// the change and writes the whole document back. Updates are serialized, so
// two concurrent requests can no longer overwrite each other's changes.
package store

import (
	"context"

	"github.com/vimleague/hub/internal/league"
)

type Store interface {
	// Load returns the current document. An unreadable document is replaced
	// by an empty one and reported in the log, not as an error.
	Load(ctx context.Context) (*league.Document, error)

	// Update runs fn against the current document and persists the result.
	// Nothing is written when fn returns an error.
	Update(ctx context.Context, fn func(*league.Document) error) error

	Ping(ctx context.Context) error
	Close() error
}
