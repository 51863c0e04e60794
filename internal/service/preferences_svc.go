package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/MukkuChemjong/youtube-api/internal/model"
	"github.com/MukkuChemjong/youtube-api/internal/repository"
)

type PreferencesService struct {
	prefs *repository.PreferencesRepo
	cache *CacheService
}

func NewPreferencesService(prefs *repository.PreferencesRepo, cache *CacheService) *PreferencesService {
	return &PreferencesService{prefs: prefs, cache: cache}
}

// Get returns a user's preferences, creating defaults on first access.
// Cache-aside: check Redis first, fall back to DB, then populate cache.
func (s *PreferencesService) Get(ctx context.Context, owner string) (*model.UserPreferences, error) {
	if s.cache != nil {
		cached, err := s.cache.GetPreferences(ctx, owner)
		if err != nil {
			log.Printf("cache: preferences get error: %v", err)
		} else if cached != nil {
			var prefs model.UserPreferences
			if err := json.Unmarshal(cached, &prefs); err == nil {
				return &prefs, nil
			}
		}
	}

	prefs, err := s.prefs.Get(ctx, owner)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetPreferences(ctx, owner, prefs); err != nil {
			log.Printf("cache: preferences set error: %v", err)
		}
	}
	return prefs, nil
}

// Update patches a user's preferences and invalidates the cached copy.
func (s *PreferencesService) Update(ctx context.Context, owner string, patch model.PreferencesPatch) (*model.UserPreferences, error) {
	prefs, err := s.prefs.Update(ctx, owner, patch)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateOwner(ctx, owner); err != nil {
			log.Printf("cache: invalidate owner error: %v", err)
		}
	}
	return prefs, nil
}

// Recount forces a recompute of the cached active-channel total and returns
// the new value.
func (s *PreferencesService) Recount(ctx context.Context, owner string) (int, error) {
	total, err := s.prefs.RecomputeTotalChannels(ctx, owner)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateOwner(ctx, owner); err != nil {
			log.Printf("cache: invalidate owner error: %v", err)
		}
	}
	return total, nil
}
