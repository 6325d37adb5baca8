package store_test

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/vimleague/hub/internal/database"
	"github.com/vimleague/hub/internal/league"
	"github.com/vimleague/hub/internal/migrations"
	"github.com/vimleague/hub/internal/store"
)

func newSQLStore(t *testing.T) (*store.SQLStore, *sql.DB, *bytes.Buffer) {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if _, err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	var logs bytes.Buffer
	s := store.NewSQLStore(db, slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { s.Close() })
	return s, db, &logs
}

func TestSQLStoreUpdateAndLoad(t *testing.T) {
	s, _, _ := newSQLStore(t)
	ctx := context.Background()

	doc, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if len(doc.Players) != 0 {
		t.Fatalf("doc = %+v, want defaults", doc)
	}

	err = s.Update(ctx, func(d *league.Document) error {
		g := d.AddGroup("A", time.Now())
		_, err := d.UpsertTeam(g.ID, "", "Lions", "", league.Standing{})
		return err
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	err = s.Update(ctx, func(d *league.Document) error {
		return d.UpdateStat(league.Saves, "", "Al", 4)
	})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}

	doc, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Groups) != 1 || len(doc.Groups[0].Teams) != 1 || doc.Groups[0].Teams[0].ID == "" {
		t.Fatalf("groups = %+v", doc.Groups)
	}
	if got := doc.Leaderboards[league.Saves]; len(got) != 1 || got[0].Value != 4 {
		t.Errorf("saves = %+v", got)
	}
	if err := s.Ping(ctx); err != nil {
		t.Errorf("ping: %v", err)
	}
}

func TestSQLStoreWrongShapeRecovers(t *testing.T) {
	s, db, logs := newSQLStore(t)
	ctx := context.Background()

	// Valid JSON, wrong shape: players must be a list.
	err := s.Update(ctx, func(d *league.Document) error {
		d.Extra = map[string]any{"marker": true}
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := db.ExecContext(ctx, `UPDATE documents SET data = jsonb('{"players": 5}') WHERE id = 'league'`); err != nil {
		t.Fatalf("corrupt: %v", err)
	}

	doc, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Players) != 0 {
		t.Fatalf("doc = %+v, want defaults", doc)
	}
	if !strings.Contains(logs.String(), "document unreadable") {
		t.Errorf("expected warning, got %q", logs.String())
	}

	if err := s.Update(ctx, func(d *league.Document) error { d.SetLiveLink("x"); return nil }); err != nil {
		t.Fatalf("update after corruption: %v", err)
	}
	if !strings.Contains(logs.String(), "moved aside") {
		t.Errorf("expected backup log, got %q", logs.String())
	}
}
