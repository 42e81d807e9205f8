package passport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wanderlens/internal/models"
)

// PostgresStore persists the passport as one JSONB row per key, so several
// travellers or devices can keep separate passports in one database.
type PostgresStore struct {
	db  *pgxpool.Pool
	key string
}

// NewPostgresStore creates a store over the given pool and key.
func NewPostgresStore(db *pgxpool.Pool, key string) *PostgresStore {
	return &PostgresStore{db: db, key: key}
}

// EnsureSchema creates the passport table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS passport_store (
			key TEXT PRIMARY KEY,
			entries JSONB NOT NULL DEFAULT '[]'::jsonb,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("passport: failed to create passport_store table: %w", err)
	}
	return nil
}

// Load reads the row for the key. A missing row yields an empty list.
func (s *PostgresStore) Load(ctx context.Context) ([]models.SavedEntry, error) {
	var data []byte
	err := s.db.QueryRow(ctx,
		`SELECT entries FROM passport_store WHERE key = $1`, s.key,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("passport: failed to load entries for key %q: %w", s.key, err)
	}

	var entries []models.SavedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("passport: failed to decode entries for key %q: %w", s.key, err)
	}
	return entries, nil
}

// Save upserts the whole list into the key's row.
func (s *PostgresStore) Save(ctx context.Context, entries []models.SavedEntry) error {
	if entries == nil {
		entries = []models.SavedEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("passport: failed to encode entries: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO passport_store (key, entries, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET entries = EXCLUDED.entries, updated_at = now()
	`, s.key, data)
	if err != nil {
		return fmt.Errorf("passport: failed to upsert entries for key %q: %w", s.key, err)
	}
	return nil
}
