package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/MukkuChemjong/youtube-api/internal/config"
	"github.com/MukkuChemjong/youtube-api/internal/model"
	"github.com/MukkuChemjong/youtube-api/pkg/apperr"
)

// ReconcilePlan is the diff between server state and a client snapshot.
type ReconcilePlan struct {
	ToAdd    []model.SnapshotEntry
	ToUpdate []model.SnapshotEntry
	ToRemove []string // channel ids present on the server but not in the snapshot
}

// PlanReconcile diffs a client snapshot against server records for one
// owner. Pure logic, split out for unit testing. Output order is sorted by
// channel id so a plan is deterministic for a given input.
func PlanReconcile(server []model.ChannelRecord, snapshot []model.SnapshotEntry) ReconcilePlan {
	onServer := make(map[string]bool, len(server))
	for _, rec := range server {
		onServer[rec.ChannelID] = true
	}
	inSnapshot := make(map[string]bool, len(snapshot))

	var plan ReconcilePlan
	for _, entry := range snapshot {
		if inSnapshot[entry.ChannelID] {
			continue // duplicate snapshot entries collapse to the first
		}
		inSnapshot[entry.ChannelID] = true
		if onServer[entry.ChannelID] {
			plan.ToUpdate = append(plan.ToUpdate, entry)
		} else {
			plan.ToAdd = append(plan.ToAdd, entry)
		}
	}
	for _, rec := range server {
		if !inSnapshot[rec.ChannelID] {
			plan.ToRemove = append(plan.ToRemove, rec.ChannelID)
		}
	}

	sort.Slice(plan.ToAdd, func(i, j int) bool { return plan.ToAdd[i].ChannelID < plan.ToAdd[j].ChannelID })
	sort.Slice(plan.ToUpdate, func(i, j int) bool { return plan.ToUpdate[i].ChannelID < plan.ToUpdate[j].ChannelID })
	sort.Strings(plan.ToRemove)
	return plan
}

// Reconcile applies a full-sync snapshot for one owner inside a single
// transaction: server-only records are removed (or deactivated, per policy),
// snapshot-only records are added, records present in both are updated, and
// the cached total is recounted before commit. Any error rolls the whole
// batch back; no partial application survives.
func (r *ChannelRepo) Reconcile(ctx context.Context, owner string, snapshot []model.SnapshotEntry, policy config.DeletePolicy) (model.SyncCounters, error) {
	var counters model.SyncCounters

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return counters, errors.Wrap(err, "channelRepo.Reconcile.begin")
	}
	defer tx.Rollback(ctx)

	// Lock the owner's rows so no interleaving partial sync can observe or
	// mutate a half-applied batch.
	server, err := lockOwnerRecords(ctx, tx, owner)
	if err != nil {
		return counters, err
	}

	plan := PlanReconcile(server, snapshot)

	for _, entry := range plan.ToAdd {
		if err := insertSnapshotEntry(ctx, tx, owner, entry); err != nil {
			return counters, err
		}
	}
	for _, entry := range plan.ToUpdate {
		if err := updateSnapshotEntry(ctx, tx, owner, entry); err != nil {
			return counters, err
		}
	}
	for _, channelID := range plan.ToRemove {
		if err := removeReconciled(ctx, tx, owner, channelID, policy); err != nil {
			return counters, err
		}
	}

	if err := recountInTx(ctx, tx, owner); err != nil {
		return counters, err
	}

	if err := tx.Commit(ctx); err != nil {
		return counters, errors.Wrap(err, "channelRepo.Reconcile.commit")
	}

	counters.Added = len(plan.ToAdd)
	counters.Deleted = len(plan.ToRemove)
	counters.Synced = len(plan.ToAdd) + len(plan.ToUpdate)
	return counters, nil
}

// ApplyInstructions applies an explicit partial-sync batch: no
// reconciliation, just the listed adds, updates and removals, all-or-nothing
// under the same transaction contract as a full sync.
func (r *ChannelRepo) ApplyInstructions(ctx context.Context, owner string, instructions []model.SyncInstruction) (model.SyncCounters, error) {
	var counters model.SyncCounters

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return counters, errors.Wrap(err, "channelRepo.ApplyInstructions.begin")
	}
	defer tx.Rollback(ctx)

	if _, err := lockOwnerRecords(ctx, tx, owner); err != nil {
		return counters, err
	}

	applied := 0
	for _, ins := range instructions {
		switch ins.Op {
		case model.SyncOpAdd:
			if err := insertSnapshotEntry(ctx, tx, owner, ins.Channel); err != nil {
				return model.SyncCounters{}, err
			}
			counters.Added++
		case model.SyncOpUpdate:
			patch := model.ChannelPatch{}
			if ins.Patch != nil {
				patch = *ins.Patch
			}
			if err := patchInTx(ctx, tx, owner, ins.Channel.ChannelID, patch); err != nil {
				return model.SyncCounters{}, err
			}
		case model.SyncOpRemove:
			tag, err := tx.Exec(ctx, `
				DELETE FROM channel_records
				WHERE owner_id = $1 AND channel_id = $2`,
				owner, ins.Channel.ChannelID)
			if err != nil {
				return model.SyncCounters{}, errors.Wrap(err, "channelRepo.ApplyInstructions.remove")
			}
			if tag.RowsAffected() == 0 {
				return model.SyncCounters{}, apperr.ErrChannelNotFound
			}
			counters.Deleted++
		default:
			return model.SyncCounters{}, apperr.InvalidValue("unknown sync instruction op: " + ins.Op)
		}
		applied++
	}

	if err := recountInTx(ctx, tx, owner); err != nil {
		return model.SyncCounters{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return model.SyncCounters{}, errors.Wrap(err, "channelRepo.ApplyInstructions.commit")
	}

	counters.Synced = applied
	return counters, nil
}

func lockOwnerRecords(ctx context.Context, tx pgx.Tx, owner string) ([]model.ChannelRecord, error) {
	rows, err := tx.Query(ctx, `
		SELECT `+channelColumns+`
		FROM channel_records
		WHERE owner_id = $1
		ORDER BY id
		FOR UPDATE`, owner)
	if err != nil {
		return nil, errors.Wrap(err, "reconcile.lockOwnerRecords")
	}
	defer rows.Close()

	var records []model.ChannelRecord
	for rows.Next() {
		rec, err := scanChannel(rows)
		if err != nil {
			return nil, errors.Wrap(err, "reconcile.lockOwnerRecords.scan")
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "reconcile.lockOwnerRecords.rows")
	}
	return records, nil
}

func insertSnapshotEntry(ctx context.Context, tx pgx.Tx, owner string, entry model.SnapshotEntry) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO channel_records
			(owner_id, channel_id, channel_name, channel_url, thumbnail_url,
			 subscriber_count, video_count, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		owner, entry.ChannelID, entry.ChannelName, entry.ChannelURL, entry.ThumbnailURL,
		entry.SubscriberCount, entry.VideoCount, entry.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.ErrDuplicateChannel
		}
		return errors.Wrap(err, "reconcile.insert")
	}
	return nil
}

func updateSnapshotEntry(ctx context.Context, tx pgx.Tx, owner string, entry model.SnapshotEntry) error {
	tag, err := tx.Exec(ctx, `
		UPDATE channel_records SET
			channel_name     = $3,
			channel_url      = $4,
			thumbnail_url    = $5,
			subscriber_count = COALESCE($6, subscriber_count),
			video_count      = COALESCE($7, video_count),
			is_active        = $8,
			updated_at       = NOW()
		WHERE owner_id = $1 AND channel_id = $2`,
		owner, entry.ChannelID, entry.ChannelName, entry.ChannelURL, entry.ThumbnailURL,
		entry.SubscriberCount, entry.VideoCount, entry.IsActive)
	if err != nil {
		return errors.Wrap(err, "reconcile.update")
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrChannelNotFound
	}
	return nil
}

func removeReconciled(ctx context.Context, tx pgx.Tx, owner, channelID string, policy config.DeletePolicy) error {
	var stmt string
	if policy == config.DeletePolicyDeactivate {
		stmt = `UPDATE channel_records SET is_active = FALSE, updated_at = NOW()
			WHERE owner_id = $1 AND channel_id = $2`
	} else {
		stmt = `DELETE FROM channel_records WHERE owner_id = $1 AND channel_id = $2`
	}
	if _, err := tx.Exec(ctx, stmt, owner, channelID); err != nil {
		return errors.Wrap(err, "reconcile.remove")
	}
	return nil
}

func patchInTx(ctx context.Context, tx pgx.Tx, owner, channelID string, patch model.ChannelPatch) error {
	if patch.ChannelName != nil && strings.TrimSpace(*patch.ChannelName) == "" {
		return apperr.InvalidValue("channelName must not be empty")
	}

	tag, err := tx.Exec(ctx, `
		UPDATE channel_records SET
			channel_name     = COALESCE($3, channel_name),
			channel_url      = COALESCE($4, channel_url),
			thumbnail_url    = COALESCE($5, thumbnail_url),
			subscriber_count = COALESCE($6, subscriber_count),
			video_count      = COALESCE($7, video_count),
			is_active        = COALESCE($8, is_active),
			updated_at       = NOW()
		WHERE owner_id = $1 AND channel_id = $2`,
		owner, channelID, patch.ChannelName, patch.ChannelURL, patch.ThumbnailURL,
		patch.SubscriberCount, patch.VideoCount, patch.IsActive)
	if err != nil {
		return errors.Wrap(err, "reconcile.patch")
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrChannelNotFound
	}
	return nil
}

// recountInTx refreshes the cached total inside the batch transaction so the
// counter and the batch become visible together.
func recountInTx(ctx context.Context, tx pgx.Tx, owner string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO user_preferences (owner_id) VALUES ($1)
		ON CONFLICT (owner_id) DO NOTHING`, owner)
	if err != nil {
		return errors.Wrap(err, "reconcile.recount.ensure")
	}

	_, err = tx.Exec(ctx, `
		UPDATE user_preferences SET
			total_channels = (
				SELECT COUNT(*) FROM channel_records
				WHERE owner_id = $1 AND is_active = TRUE
			),
			updated_at = NOW()
		WHERE owner_id = $1`, owner)
	return errors.Wrap(err, "reconcile.recount")
}
