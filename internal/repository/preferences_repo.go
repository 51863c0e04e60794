package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/MukkuChemjong/youtube-api/internal/model"
	"github.com/MukkuChemjong/youtube-api/pkg/apperr"
)

type PreferencesRepo struct {
	pool *pgxpool.Pool
}

func NewPreferencesRepo(pool *pgxpool.Pool) *PreferencesRepo {
	return &PreferencesRepo{pool: pool}
}

const preferencesColumns = `owner_id, strict_mode, auto_sync, default_view, theme, total_channels, updated_at`

func scanPreferences(row pgx.Row) (*model.UserPreferences, error) {
	var p model.UserPreferences
	err := row.Scan(
		&p.OwnerID, &p.StrictMode, &p.AutoSync, &p.DefaultView, &p.Theme,
		&p.TotalChannels, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ensure lazily creates the default preferences row. Every read and write
// path goes through this upsert, so creation is race-free and the
// one-record-per-user invariant holds under concurrent first access.
func (r *PreferencesRepo) ensure(ctx context.Context, owner string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_preferences (owner_id) VALUES ($1)
		ON CONFLICT (owner_id) DO NOTHING`, owner)
	return errors.Wrap(err, "preferencesRepo.ensure")
}

// Get returns a user's preferences, creating the default record on first
// access.
func (r *PreferencesRepo) Get(ctx context.Context, owner string) (*model.UserPreferences, error) {
	if err := r.ensure(ctx, owner); err != nil {
		return nil, err
	}

	prefs, err := scanPreferences(r.pool.QueryRow(ctx, `
		SELECT `+preferencesColumns+`
		FROM user_preferences
		WHERE owner_id = $1`, owner))
	if err != nil {
		return nil, errors.Wrap(err, "preferencesRepo.Get")
	}
	return prefs, nil
}

// Update applies a partial patch after validating enum fields against the
// fixed allowed sets.
func (r *PreferencesRepo) Update(ctx context.Context, owner string, patch model.PreferencesPatch) (*model.UserPreferences, error) {
	if patch.DefaultView != nil && !model.ValidDefaultViews[*patch.DefaultView] {
		return nil, apperr.ErrInvalidDefaultView
	}
	if patch.Theme != nil && !model.ValidThemes[*patch.Theme] {
		return nil, apperr.ErrInvalidTheme
	}

	if err := r.ensure(ctx, owner); err != nil {
		return nil, err
	}

	prefs, err := scanPreferences(r.pool.QueryRow(ctx, `
		UPDATE user_preferences SET
			strict_mode  = COALESCE($2, strict_mode),
			auto_sync    = COALESCE($3, auto_sync),
			default_view = COALESCE($4, default_view),
			theme        = COALESCE($5, theme),
			updated_at   = NOW()
		WHERE owner_id = $1
		RETURNING `+preferencesColumns,
		owner, patch.StrictMode, patch.AutoSync, patch.DefaultView, patch.Theme))
	if err != nil {
		return nil, errors.Wrap(err, "preferencesRepo.Update")
	}
	return prefs, nil
}

// RecomputeTotalChannels recounts the user's active records and persists the
// result. A full recount instead of an incremental counter: retried or
// partially-failed operations cannot make a recount drift, only go stale
// until the next one runs.
func (r *PreferencesRepo) RecomputeTotalChannels(ctx context.Context, owner string) (int, error) {
	if err := r.ensure(ctx, owner); err != nil {
		return 0, err
	}

	var total int
	err := r.pool.QueryRow(ctx, `
		UPDATE user_preferences SET
			total_channels = (
				SELECT COUNT(*) FROM channel_records
				WHERE owner_id = $1 AND is_active = TRUE
			),
			updated_at = NOW()
		WHERE owner_id = $1
		RETURNING total_channels`, owner).Scan(&total)
	if err != nil {
		return 0, errors.Wrap(err, "preferencesRepo.RecomputeTotalChannels")
	}
	return total, nil
}
