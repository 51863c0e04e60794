package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/MukkuChemjong/youtube-api/internal/model"
	"github.com/MukkuChemjong/youtube-api/pkg/apperr"
)

type CategoryRepo struct {
	pool *pgxpool.Pool
}

func NewCategoryRepo(pool *pgxpool.Pool) *CategoryRepo {
	return &CategoryRepo{pool: pool}
}

// Create adds a category. (owner_id, name) uniqueness is decided by the
// database constraint.
func (r *CategoryRepo) Create(ctx context.Context, owner, name string) (*model.Category, error) {
	var cat model.Category
	err := r.pool.QueryRow(ctx, `
		INSERT INTO categories (owner_id, name)
		VALUES ($1, $2)
		RETURNING id, owner_id, name, created_at`,
		owner, name).Scan(&cat.ID, &cat.OwnerID, &cat.Name, &cat.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.ErrDuplicateCategory
		}
		return nil, errors.Wrap(err, "categoryRepo.Create")
	}
	return &cat, nil
}

// FindByID returns a category regardless of owner. Ownership checks happen
// at the call site so cross-owner references can be classified as
// OwnershipMismatch rather than flattened into NotFound.
func (r *CategoryRepo) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	var cat model.Category
	err := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, name, created_at
		FROM categories
		WHERE id = $1`, id).Scan(&cat.ID, &cat.OwnerID, &cat.Name, &cat.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrCategoryNotFound
		}
		return nil, errors.Wrap(err, "categoryRepo.FindByID")
	}
	return &cat, nil
}

// ListByOwner returns a user's categories ordered by name.
func (r *CategoryRepo) ListByOwner(ctx context.Context, owner string) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_id, name, created_at
		FROM categories
		WHERE owner_id = $1
		ORDER BY name, id`, owner)
	if err != nil {
		return nil, errors.Wrap(err, "categoryRepo.ListByOwner")
	}
	defer rows.Close()

	var cats []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.OwnerID, &cat.Name, &cat.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "categoryRepo.ListByOwner.scan")
		}
		cats = append(cats, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "categoryRepo.ListByOwner.rows")
	}
	return cats, nil
}

// Rename changes a category's name for its owner.
func (r *CategoryRepo) Rename(ctx context.Context, owner string, id int64, name string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE categories SET name = $3
		WHERE id = $2 AND owner_id = $1`, owner, id, name)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.ErrDuplicateCategory
		}
		return errors.Wrap(err, "categoryRepo.Rename")
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrCategoryNotFound
	}
	return nil
}

// Delete removes the category and its membership edges only; member records
// are untouched.
func (r *CategoryRepo) Delete(ctx context.Context, owner string, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM categories
		WHERE id = $2 AND owner_id = $1`, owner, id)
	if err != nil {
		return errors.Wrap(err, "categoryRepo.Delete")
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrCategoryNotFound
	}
	return nil
}

// AddMember attaches a record to a category. A record owned by a different
// user than the category is an integrity violation, checked here inside one
// transaction so the edge can never be written cross-owner.
func (r *CategoryRepo) AddMember(ctx context.Context, categoryID, recordID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "categoryRepo.AddMember.begin")
	}
	defer tx.Rollback(ctx)

	catOwner, recOwner, err := memberOwners(ctx, tx, categoryID, recordID)
	if err != nil {
		return err
	}
	if catOwner != recOwner {
		return apperr.ErrOwnerMismatch
	}

	// Re-attaching an existing member is a no-op.
	_, err = tx.Exec(ctx, `
		INSERT INTO category_members (category_id, record_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, categoryID, recordID)
	if err != nil {
		return errors.Wrap(err, "categoryRepo.AddMember.insert")
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "categoryRepo.AddMember.commit")
	}
	return nil
}

// RemoveMember detaches a record from a category. Detaching an absent edge
// is a no-op, but cross-owner references are still rejected.
func (r *CategoryRepo) RemoveMember(ctx context.Context, categoryID, recordID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "categoryRepo.RemoveMember.begin")
	}
	defer tx.Rollback(ctx)

	catOwner, recOwner, err := memberOwners(ctx, tx, categoryID, recordID)
	if err != nil {
		return err
	}
	if catOwner != recOwner {
		return apperr.ErrOwnerMismatch
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM category_members
		WHERE category_id = $1 AND record_id = $2`, categoryID, recordID)
	if err != nil {
		return errors.Wrap(err, "categoryRepo.RemoveMember.delete")
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "categoryRepo.RemoveMember.commit")
	}
	return nil
}

func memberOwners(ctx context.Context, tx pgx.Tx, categoryID, recordID int64) (catOwner, recOwner string, err error) {
	err = tx.QueryRow(ctx, `
		SELECT owner_id FROM categories WHERE id = $1`, categoryID).Scan(&catOwner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", apperr.ErrCategoryNotFound
		}
		return "", "", errors.Wrap(err, "categoryRepo.memberOwners.category")
	}

	err = tx.QueryRow(ctx, `
		SELECT owner_id FROM channel_records WHERE id = $1`, recordID).Scan(&recOwner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", apperr.ErrChannelNotFound
		}
		return "", "", errors.Wrap(err, "categoryRepo.memberOwners.record")
	}
	return catOwner, recOwner, nil
}

// ListMembers returns the category's member records, newest first.
func (r *CategoryRepo) ListMembers(ctx context.Context, categoryID int64) ([]model.ChannelRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+channelColumns+`
		FROM channel_records
		JOIN category_members cm ON cm.record_id = channel_records.id
		WHERE cm.category_id = $1
		ORDER BY created_at DESC, id DESC`, categoryID)
	if err != nil {
		return nil, errors.Wrap(err, "categoryRepo.ListMembers")
	}
	defer rows.Close()

	var records []model.ChannelRecord
	for rows.Next() {
		rec, err := scanChannel(rows)
		if err != nil {
			return nil, errors.Wrap(err, "categoryRepo.ListMembers.scan")
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "categoryRepo.ListMembers.rows")
	}
	return records, nil
}

// TotalActiveChannels counts member records with is_active = true, computed
// on demand rather than cached.
func (r *CategoryRepo) TotalActiveChannels(ctx context.Context, categoryID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM category_members cm
		JOIN channel_records r ON r.id = cm.record_id
		WHERE cm.category_id = $1 AND r.is_active = TRUE`, categoryID).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "categoryRepo.TotalActiveChannels")
	}
	return count, nil
}
