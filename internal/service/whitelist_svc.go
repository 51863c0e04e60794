package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/MukkuChemjong/youtube-api/internal/model"
	"github.com/MukkuChemjong/youtube-api/internal/repository"
	"github.com/MukkuChemjong/youtube-api/pkg/apperr"
)

// WhitelistService orchestrates channel record mutations: storage, the
// derived-count recount, and cache invalidation.
type WhitelistService struct {
	channels *repository.ChannelRepo
	prefs    *repository.PreferencesRepo
	cache    *CacheService
}

func NewWhitelistService(channels *repository.ChannelRepo, prefs *repository.PreferencesRepo, cache *CacheService) *WhitelistService {
	return &WhitelistService{channels: channels, prefs: prefs, cache: cache}
}

// Add whitelists a channel for a user and recounts the cached total.
func (s *WhitelistService) Add(ctx context.Context, owner string, req model.AddChannelRequest) (*model.ChannelRecord, error) {
	req.ChannelID = strings.TrimSpace(req.ChannelID)
	req.ChannelName = strings.TrimSpace(req.ChannelName)
	if req.ChannelID == "" {
		return nil, apperr.InvalidValue("channelId is required")
	}
	if req.ChannelName == "" {
		return nil, apperr.InvalidValue("channelName is required")
	}

	rec, err := s.channels.Add(ctx, owner, req)
	if err != nil {
		return nil, err
	}

	s.recount(ctx, owner)
	s.invalidate(ctx, owner)
	return rec, nil
}

// Update patches a record. A change to is_active triggers a recount.
func (s *WhitelistService) Update(ctx context.Context, owner, channelID string, patch model.ChannelPatch) (*model.ChannelRecord, error) {
	if patch.IsEmpty() {
		return nil, apperr.InvalidValue("patch must change at least one field")
	}
	if patch.ChannelName != nil {
		name := strings.TrimSpace(*patch.ChannelName)
		if name == "" {
			return nil, apperr.InvalidValue("channelName must not be empty")
		}
		patch.ChannelName = &name
	}

	rec, err := s.channels.Update(ctx, owner, channelID, patch)
	if err != nil {
		return nil, err
	}

	if patch.IsActive != nil {
		s.recount(ctx, owner)
	}
	s.invalidate(ctx, owner)
	return rec, nil
}

// MarkChecked records a completed metadata refresh for a channel. The fetch
// itself happens in a collaborator; only the timestamp is recorded here.
func (s *WhitelistService) MarkChecked(ctx context.Context, owner, channelID string) error {
	if err := s.channels.MarkChecked(ctx, owner, channelID); err != nil {
		return err
	}
	s.invalidate(ctx, owner)
	return nil
}

// Remove deletes a record and recounts.
func (s *WhitelistService) Remove(ctx context.Context, owner, channelID string) error {
	if err := s.channels.Remove(ctx, owner, channelID); err != nil {
		return err
	}
	s.recount(ctx, owner)
	s.invalidate(ctx, owner)
	return nil
}

// List returns a user's records, optionally filtered by active state.
// Unfiltered listings are served cache-aside.
func (s *WhitelistService) List(ctx context.Context, owner string, filter model.ChannelListFilter) ([]model.ChannelRecord, error) {
	cacheable := filter.Active == nil

	if cacheable && s.cache != nil {
		cached, err := s.cache.GetWhitelist(ctx, owner)
		if err != nil {
			log.Printf("cache: whitelist get error: %v", err)
		} else if cached != nil {
			var records []model.ChannelRecord
			if err := json.Unmarshal(cached, &records); err == nil {
				return records, nil
			}
		}
	}

	records, err := s.channels.ListByOwner(ctx, owner, filter)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.ChannelRecord{}
	}

	if cacheable && s.cache != nil {
		if err := s.cache.SetWhitelist(ctx, owner, records); err != nil {
			log.Printf("cache: whitelist set error: %v", err)
		}
	}
	return records, nil
}

// Purge deletes the owner's whitelist subtree (records, categories,
// preferences) atomically.
func (s *WhitelistService) Purge(ctx context.Context, owner string) error {
	if err := s.channels.PurgeOwner(ctx, owner); err != nil {
		return err
	}
	s.invalidate(ctx, owner)
	return nil
}

// recount refreshes the cached total synchronously. A failure here is not a
// request failure: the recount worker converges the counter from the NOTIFY
// stream.
func (s *WhitelistService) recount(ctx context.Context, owner string) {
	if _, err := s.prefs.RecomputeTotalChannels(ctx, owner); err != nil {
		log.Printf("whitelist: recount error for owner: %v", err)
	}
}

func (s *WhitelistService) invalidate(ctx context.Context, owner string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateOwner(ctx, owner); err != nil {
		log.Printf("cache: invalidate owner error: %v", err)
	}
}
