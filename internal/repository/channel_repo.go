package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/MukkuChemjong/youtube-api/internal/model"
	"github.com/MukkuChemjong/youtube-api/pkg/apperr"
)

type ChannelRepo struct {
	pool *pgxpool.Pool
}

func NewChannelRepo(pool *pgxpool.Pool) *ChannelRepo {
	return &ChannelRepo{pool: pool}
}

const channelColumns = `id, owner_id, channel_id, channel_name, channel_url, thumbnail_url,
	subscriber_count, video_count, is_active, created_at, updated_at, last_checked_at`

func scanChannel(row pgx.Row) (*model.ChannelRecord, error) {
	var rec model.ChannelRecord
	err := row.Scan(
		&rec.ID, &rec.OwnerID, &rec.ChannelID, &rec.ChannelName, &rec.ChannelURL,
		&rec.ThumbnailURL, &rec.SubscriberCount, &rec.VideoCount, &rec.IsActive,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.LastCheckedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Add whitelists a channel for a user. The (owner_id, channel_id) unique
// constraint decides duplicates atomically; two extension tabs adding the
// same channel concurrently resolve to one DuplicateEntry, never two rows.
func (r *ChannelRepo) Add(ctx context.Context, owner string, req model.AddChannelRequest) (*model.ChannelRecord, error) {
	query := `
		INSERT INTO channel_records
			(owner_id, channel_id, channel_name, channel_url, thumbnail_url,
			 subscriber_count, video_count, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + channelColumns

	rec, err := scanChannel(r.pool.QueryRow(ctx, query,
		owner, req.ChannelID, req.ChannelName, req.ChannelURL, req.ThumbnailURL,
		req.SubscriberCount, req.VideoCount, req.IsActive,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.ErrDuplicateChannel
		}
		return nil, errors.Wrap(err, "channelRepo.Add")
	}
	return rec, nil
}

// FindByChannelID returns a single record scoped to its owner.
func (r *ChannelRepo) FindByChannelID(ctx context.Context, owner, channelID string) (*model.ChannelRecord, error) {
	query := `SELECT ` + channelColumns + `
		FROM channel_records
		WHERE owner_id = $1 AND channel_id = $2`

	rec, err := scanChannel(r.pool.QueryRow(ctx, query, owner, channelID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrChannelNotFound
		}
		return nil, errors.Wrap(err, "channelRepo.FindByChannelID")
	}
	return rec, nil
}

// Update applies a partial patch and refreshes updated_at. nil patch fields
// keep their current value via COALESCE, so the statement is one atomic
// read-modify-write. channel_name is mandatory; a patch cannot blank it.
func (r *ChannelRepo) Update(ctx context.Context, owner, channelID string, patch model.ChannelPatch) (*model.ChannelRecord, error) {
	if patch.ChannelName != nil && strings.TrimSpace(*patch.ChannelName) == "" {
		return nil, apperr.InvalidValue("channelName must not be empty")
	}

	query := `
		UPDATE channel_records SET
			channel_name     = COALESCE($3, channel_name),
			channel_url      = COALESCE($4, channel_url),
			thumbnail_url    = COALESCE($5, thumbnail_url),
			subscriber_count = COALESCE($6, subscriber_count),
			video_count      = COALESCE($7, video_count),
			is_active        = COALESCE($8, is_active),
			updated_at       = NOW()
		WHERE owner_id = $1 AND channel_id = $2
		RETURNING ` + channelColumns

	rec, err := scanChannel(r.pool.QueryRow(ctx, query,
		owner, channelID, patch.ChannelName, patch.ChannelURL, patch.ThumbnailURL,
		patch.SubscriberCount, patch.VideoCount, patch.IsActive,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrChannelNotFound
		}
		return nil, errors.Wrap(err, "channelRepo.Update")
	}
	return rec, nil
}

// MarkChecked records that the external metadata fetcher refreshed this
// channel. Only last_checked_at moves; metadata values arrive via Update.
func (r *ChannelRepo) MarkChecked(ctx context.Context, owner, channelID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE channel_records SET last_checked_at = NOW()
		WHERE owner_id = $1 AND channel_id = $2`,
		owner, channelID)
	if err != nil {
		return errors.Wrap(err, "channelRepo.MarkChecked")
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrChannelNotFound
	}
	return nil
}

// MarkCheckedBatch stamps last_checked_at for every listed channel in one
// transaction. A missing channel rolls the whole batch back, so a failed
// metadata-refresh pass never leaves a subset of its marks behind.
func (r *ChannelRepo) MarkCheckedBatch(ctx context.Context, owner string, channelIDs []string) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "channelRepo.MarkCheckedBatch.begin")
	}
	defer tx.Rollback(ctx)

	for _, channelID := range channelIDs {
		tag, err := tx.Exec(ctx, `
			UPDATE channel_records SET last_checked_at = NOW()
			WHERE owner_id = $1 AND channel_id = $2`,
			owner, channelID)
		if err != nil {
			return 0, errors.Wrap(err, "channelRepo.MarkCheckedBatch")
		}
		if tag.RowsAffected() == 0 {
			return 0, apperr.ErrChannelNotFound
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, errors.Wrap(err, "channelRepo.MarkCheckedBatch.commit")
	}
	return len(channelIDs), nil
}

// Remove deletes a record. Removal is strict: deleting an absent record
// returns NotFound. Membership edges cascade away with the row.
func (r *ChannelRepo) Remove(ctx context.Context, owner, channelID string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM channel_records
		WHERE owner_id = $1 AND channel_id = $2`,
		owner, channelID)
	if err != nil {
		return errors.Wrap(err, "channelRepo.Remove")
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrChannelNotFound
	}
	return nil
}

// ListByOwner returns a user's records, newest first, ties broken by id for
// a deterministic order.
func (r *ChannelRepo) ListByOwner(ctx context.Context, owner string, filter model.ChannelListFilter) ([]model.ChannelRecord, error) {
	query := `SELECT ` + channelColumns + `
		FROM channel_records
		WHERE owner_id = $1 AND ($2::boolean IS NULL OR is_active = $2)
		ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, owner, filter.Active)
	if err != nil {
		return nil, errors.Wrap(err, "channelRepo.ListByOwner")
	}
	defer rows.Close()

	var records []model.ChannelRecord
	for rows.Next() {
		rec, err := scanChannel(rows)
		if err != nil {
			return nil, errors.Wrap(err, "channelRepo.ListByOwner.scan")
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "channelRepo.ListByOwner.rows")
	}
	return records, nil
}

// CountActive returns the true count of a user's active records.
func (r *ChannelRepo) CountActive(ctx context.Context, owner string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM channel_records
		WHERE owner_id = $1 AND is_active = TRUE`, owner).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "channelRepo.CountActive")
	}
	return count, nil
}

// PurgeOwner deletes a user's whitelist subtree in one transaction: channel
// records (membership edges cascade), categories and the preferences row.
// Sync logs are kept as audit trail; their retention is an external concern.
func (r *ChannelRepo) PurgeOwner(ctx context.Context, owner string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "channelRepo.PurgeOwner.begin")
	}
	defer tx.Rollback(ctx)

	for _, stmt := range []string{
		`DELETE FROM channel_records WHERE owner_id = $1`,
		`DELETE FROM categories WHERE owner_id = $1`,
		`DELETE FROM user_preferences WHERE owner_id = $1`,
	} {
		if _, err := tx.Exec(ctx, stmt, owner); err != nil {
			return errors.Wrap(err, "channelRepo.PurgeOwner.exec")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "channelRepo.PurgeOwner.commit")
	}
	return nil
}
