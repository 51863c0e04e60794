package db

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// schemaStatements is the idempotent schema bootstrap. Identity invariants
// live here as constraints, not application checks: (owner_id, channel_id)
// and (owner_id, name) uniqueness are enforced by the database so concurrent
// requests cannot race a duplicate past a check-then-insert.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS channel_records (
		id               BIGSERIAL PRIMARY KEY,
		owner_id         TEXT NOT NULL,
		channel_id       TEXT NOT NULL,
		channel_name     TEXT NOT NULL,
		channel_url      TEXT NOT NULL DEFAULT '',
		thumbnail_url    TEXT NOT NULL DEFAULT '',
		subscriber_count BIGINT,
		video_count      BIGINT,
		is_active        BOOLEAN NOT NULL DEFAULT FALSE,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_checked_at  TIMESTAMPTZ,
		CONSTRAINT channel_records_owner_channel_key UNIQUE (owner_id, channel_id)
	)`,

	`CREATE INDEX IF NOT EXISTS channel_records_owner_created_idx
		ON channel_records (owner_id, created_at DESC, id DESC)`,

	`CREATE TABLE IF NOT EXISTS user_preferences (
		owner_id       TEXT PRIMARY KEY,
		strict_mode    BOOLEAN NOT NULL DEFAULT FALSE,
		auto_sync      BOOLEAN NOT NULL DEFAULT TRUE,
		default_view   TEXT NOT NULL DEFAULT 'grid' CHECK (default_view IN ('grid', 'list')),
		theme          TEXT NOT NULL DEFAULT 'auto' CHECK (theme IN ('auto', 'dark', 'light')),
		total_channels INTEGER NOT NULL DEFAULT 0 CHECK (total_channels >= 0),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS categories (
		id         BIGSERIAL PRIMARY KEY,
		owner_id   TEXT NOT NULL,
		name       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT categories_owner_name_key UNIQUE (owner_id, name)
	)`,

	// Membership edges cascade in both directions: dropping a category drops
	// only its edges, dropping a record detaches it from every category.
	`CREATE TABLE IF NOT EXISTS category_members (
		category_id BIGINT NOT NULL REFERENCES categories (id) ON DELETE CASCADE,
		record_id   BIGINT NOT NULL REFERENCES channel_records (id) ON DELETE CASCADE,
		added_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (category_id, record_id)
	)`,

	`CREATE TABLE IF NOT EXISTS sync_logs (
		id           UUID PRIMARY KEY,
		owner_id     TEXT NOT NULL,
		sync_kind    TEXT NOT NULL CHECK (sync_kind IN
			('full', 'partial', 'pull-from-client', 'push-to-client', 'metadata-refresh')),
		status       TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'success', 'failed')),
		synced       INTEGER NOT NULL DEFAULT 0 CHECK (synced >= 0),
		added        INTEGER NOT NULL DEFAULT 0 CHECK (added >= 0),
		deleted      INTEGER NOT NULL DEFAULT 0 CHECK (deleted >= 0),
		error_detail TEXT,
		ip_hash      TEXT,
		user_agent   TEXT,
		occurred_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		resolved_at  TIMESTAMPTZ
	)`,

	`CREATE INDEX IF NOT EXISTS sync_logs_owner_occurred_idx
		ON sync_logs (owner_id, occurred_at DESC)`,

	// Activation-state changes NOTIFY the recount worker with the owner id,
	// so the cached total converges even when a synchronous recount raced a
	// concurrent mutation or was skipped by a crashed request.
	`CREATE OR REPLACE FUNCTION notify_whitelist_change() RETURNS trigger AS $$
	BEGIN
		IF TG_OP = 'DELETE' THEN
			PERFORM pg_notify('whitelist_changes', OLD.owner_id);
			RETURN OLD;
		END IF;
		PERFORM pg_notify('whitelist_changes', NEW.owner_id);
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql`,

	`DROP TRIGGER IF EXISTS channel_records_notify ON channel_records`,

	`CREATE TRIGGER channel_records_notify
		AFTER INSERT OR DELETE OR UPDATE OF is_active ON channel_records
		FOR EACH ROW EXECUTE FUNCTION notify_whitelist_change()`,
}

// ApplySchema creates tables, indexes and triggers if they do not exist.
// Called once at startup, and by the repository test harness.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return errors.Wrap(err, "db.ApplySchema")
		}
	}
	log.Println("database schema applied")
	return nil
}
