package service

import (
	"context"
	"log"

	"github.com/MukkuChemjong/youtube-api/internal/config"
	"github.com/MukkuChemjong/youtube-api/internal/model"
	"github.com/MukkuChemjong/youtube-api/internal/repository"
)

// SyncService runs synchronization attempts against the whitelist store and
// records every attempt in the append-only sync log. Each attempt is a short
// state machine: the log starts pending and resolves exactly once to success
// or failed. A retry is a new attempt with a new log entry.
type SyncService struct {
	channels *repository.ChannelRepo
	logs     *repository.SyncLogRepo
	cache    *CacheService
	policy   config.DeletePolicy
}

func NewSyncService(channels *repository.ChannelRepo, logs *repository.SyncLogRepo, cache *CacheService, policy config.DeletePolicy) *SyncService {
	return &SyncService{channels: channels, logs: logs, cache: cache, policy: policy}
}

// Reconcile performs a full sync: the server-side whitelist is diffed
// against the client snapshot and the difference applied in one atomic
// batch. The returned result carries the resolved log; the error is non-nil
// when the batch failed (and rolled back).
func (s *SyncService) Reconcile(ctx context.Context, owner string, snapshot []model.SnapshotEntry, meta *model.ClientMeta) (*model.SyncResult, error) {
	entry, err := s.logs.Begin(ctx, owner, model.SyncFull, meta)
	if err != nil {
		return nil, err
	}

	counters, batchErr := s.channels.Reconcile(ctx, owner, snapshot, s.policy)
	return s.resolve(ctx, owner, entry, counters, batchErr)
}

// ApplyPartial performs a partial sync: the explicit instruction list is
// applied without reconciliation, under the same all-or-nothing contract.
func (s *SyncService) ApplyPartial(ctx context.Context, owner string, instructions []model.SyncInstruction, meta *model.ClientMeta) (*model.SyncResult, error) {
	entry, err := s.logs.Begin(ctx, owner, model.SyncPartial, meta)
	if err != nil {
		return nil, err
	}

	counters, batchErr := s.channels.ApplyInstructions(ctx, owner, instructions)
	return s.resolve(ctx, owner, entry, counters, batchErr)
}

// RecordMetadataRefresh logs a metadata-refresh pass performed by the
// external fetcher collaborator: checked channels get their timestamp
// marked in one transaction, and the attempt is audited like any other
// sync. The marks share the all-or-nothing contract of the other batch
// kinds: a failed log never sits over a partially applied pass.
func (s *SyncService) RecordMetadataRefresh(ctx context.Context, owner string, channelIDs []string, meta *model.ClientMeta) (*model.SyncResult, error) {
	entry, err := s.logs.Begin(ctx, owner, model.SyncMetadataRefresh, meta)
	if err != nil {
		return nil, err
	}

	checked, batchErr := s.channels.MarkCheckedBatch(ctx, owner, channelIDs)
	return s.resolve(ctx, owner, entry, model.SyncCounters{Synced: checked}, batchErr)
}

// Logs returns the owner's recent sync history, newest first.
func (s *SyncService) Logs(ctx context.Context, owner string, limit int) ([]model.SyncLog, error) {
	logs, err := s.logs.ListByOwner(ctx, owner, limit)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []model.SyncLog{}
	}
	return logs, nil
}

// resolve moves the log to its terminal state and builds the result. The
// batch outcome is already durable (committed or rolled back) before the log
// resolves, so a crash between the two leaves a pending log and intact data,
// never a success log over a half-applied batch.
func (s *SyncService) resolve(ctx context.Context, owner string, entry *model.SyncLog, counters model.SyncCounters, batchErr error) (*model.SyncResult, error) {
	if batchErr != nil {
		failed, err := s.logs.Fail(ctx, entry.ID, batchErr.Error())
		if err != nil {
			log.Printf("sync: failed to resolve log %s: %v", entry.ID, err)
			return nil, err
		}
		return &model.SyncResult{Log: *failed}, batchErr
	}

	completed, err := s.logs.Complete(ctx, entry.ID, counters)
	if err != nil {
		log.Printf("sync: failed to resolve log %s: %v", entry.ID, err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateOwner(ctx, owner); err != nil {
			log.Printf("cache: invalidate owner error: %v", err)
		}
	}
	return &model.SyncResult{Log: *completed}, nil
}
