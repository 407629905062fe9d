package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cooliehub/pkg/platform/sentinel"
)

const (
	createSnapshotTable = `CREATE TABLE IF NOT EXISTS ledger_snapshots (
	slot       TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	selectSnapshot = `SELECT payload FROM ledger_snapshots WHERE slot = $1`
	upsertSnapshot = `INSERT INTO ledger_snapshots (slot, payload, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (slot) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
)

// Postgres stores the payload in one row of ledger_snapshots.
type Postgres struct {
	db   *sql.DB
	slot string
}

func NewPostgres(db *sql.DB, slot string) *Postgres {
	return &Postgres{db: db, slot: slot}
}

// EnsureSchema creates the snapshot table if it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createSnapshotTable); err != nil {
		return fmt.Errorf("create ledger_snapshots: %w", err)
	}
	return nil
}

func (p *Postgres) Read(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := p.db.QueryRowContext(ctx, selectSnapshot, p.slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select snapshot %s: %w", p.slot, err)
	}
	return payload, nil
}

func (p *Postgres) Write(ctx context.Context, payload []byte) error {
	if _, err := p.db.ExecContext(ctx, upsertSnapshot, p.slot, string(payload)); err != nil {
		return fmt.Errorf("upsert snapshot %s: %w", p.slot, err)
	}
	return nil
}
