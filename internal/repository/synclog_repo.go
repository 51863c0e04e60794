package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/MukkuChemjong/youtube-api/internal/model"
	"github.com/MukkuChemjong/youtube-api/pkg/apperr"
)

// SyncLogRepo is an append-only store. A log is inserted pending and updated
// exactly once to a terminal status; nothing here deletes rows.
type SyncLogRepo struct {
	pool *pgxpool.Pool
}

func NewSyncLogRepo(pool *pgxpool.Pool) *SyncLogRepo {
	return &SyncLogRepo{pool: pool}
}

const syncLogColumns = `id, owner_id, sync_kind, status, synced, added, deleted,
	error_detail, ip_hash, user_agent, occurred_at, resolved_at`

func scanSyncLog(row pgx.Row) (*model.SyncLog, error) {
	var l model.SyncLog
	err := row.Scan(
		&l.ID, &l.OwnerID, &l.Kind, &l.Status,
		&l.Counters.Synced, &l.Counters.Added, &l.Counters.Deleted,
		&l.ErrorDetail, &l.IPHash, &l.UserAgent, &l.OccurredAt, &l.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Begin records the start of a synchronization attempt in pending state.
func (r *SyncLogRepo) Begin(ctx context.Context, owner string, kind model.SyncKind, meta *model.ClientMeta) (*model.SyncLog, error) {
	if !model.ValidSyncKinds[kind] {
		return nil, apperr.ErrInvalidSyncKind
	}

	var ipHash, userAgent *string
	if meta != nil {
		if meta.IPHash != "" {
			ipHash = &meta.IPHash
		}
		if meta.UserAgent != "" {
			userAgent = &meta.UserAgent
		}
	}

	entry, err := scanSyncLog(r.pool.QueryRow(ctx, `
		INSERT INTO sync_logs (id, owner_id, sync_kind, ip_hash, user_agent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+syncLogColumns,
		uuid.New(), owner, kind, ipHash, userAgent))
	if err != nil {
		return nil, errors.Wrap(err, "syncLogRepo.Begin")
	}
	return entry, nil
}

// Complete transitions a pending log to success with its counters. The
// terminal guard is the status predicate in the UPDATE itself: once a log
// has left pending, the statement matches zero rows and the outcome stays
// exactly as first written, whatever the interleaving.
func (r *SyncLogRepo) Complete(ctx context.Context, id uuid.UUID, counters model.SyncCounters) (*model.SyncLog, error) {
	if counters.Synced < 0 || counters.Added < 0 || counters.Deleted < 0 {
		return nil, apperr.InvalidValue("sync counters must be non-negative")
	}

	entry, err := scanSyncLog(r.pool.QueryRow(ctx, `
		UPDATE sync_logs SET
			status = 'success', synced = $2, added = $3, deleted = $4, resolved_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+syncLogColumns,
		id, counters.Synced, counters.Added, counters.Deleted))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyMiss(ctx, id)
		}
		return nil, errors.Wrap(err, "syncLogRepo.Complete")
	}
	return entry, nil
}

// Fail transitions a pending log to failed with an error description.
func (r *SyncLogRepo) Fail(ctx context.Context, id uuid.UUID, errorDetail string) (*model.SyncLog, error) {
	entry, err := scanSyncLog(r.pool.QueryRow(ctx, `
		UPDATE sync_logs SET
			status = 'failed', error_detail = $2, resolved_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+syncLogColumns,
		id, errorDetail))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyMiss(ctx, id)
		}
		return nil, errors.Wrap(err, "syncLogRepo.Fail")
	}
	return entry, nil
}

// classifyMiss distinguishes a missing log from one already resolved.
func (r *SyncLogRepo) classifyMiss(ctx context.Context, id uuid.UUID) error {
	var status model.SyncStatus
	err := r.pool.QueryRow(ctx, `
		SELECT status FROM sync_logs WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.ErrSyncLogNotFound
		}
		return errors.Wrap(err, "syncLogRepo.classifyMiss")
	}
	return apperr.ErrSyncLogResolved
}

// Find returns one log entry by id.
func (r *SyncLogRepo) Find(ctx context.Context, id uuid.UUID) (*model.SyncLog, error) {
	entry, err := scanSyncLog(r.pool.QueryRow(ctx, `
		SELECT `+syncLogColumns+`
		FROM sync_logs
		WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrSyncLogNotFound
		}
		return nil, errors.Wrap(err, "syncLogRepo.Find")
	}
	return entry, nil
}

// ListByOwner returns a user's most recent sync attempts, newest first.
func (r *SyncLogRepo) ListByOwner(ctx context.Context, owner string, limit int) ([]model.SyncLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+syncLogColumns+`
		FROM sync_logs
		WHERE owner_id = $1
		ORDER BY occurred_at DESC, id DESC
		LIMIT $2`, owner, limit)
	if err != nil {
		return nil, errors.Wrap(err, "syncLogRepo.ListByOwner")
	}
	defer rows.Close()

	var logs []model.SyncLog
	for rows.Next() {
		entry, err := scanSyncLog(rows)
		if err != nil {
			return nil, errors.Wrap(err, "syncLogRepo.ListByOwner.scan")
		}
		logs = append(logs, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "syncLogRepo.ListByOwner.rows")
	}
	return logs, nil
}
