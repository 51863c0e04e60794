package service

import (
	"context"
	"strings"

	"github.com/MukkuChemjong/youtube-api/internal/model"
	"github.com/MukkuChemjong/youtube-api/internal/repository"
	"github.com/MukkuChemjong/youtube-api/pkg/apperr"
)

// CategoryService manages a user's named channel groupings. Categories
// reference channel records but never own their lifecycle.
type CategoryService struct {
	categories *repository.CategoryRepo
	channels   *repository.ChannelRepo
}

func NewCategoryService(categories *repository.CategoryRepo, channels *repository.ChannelRepo) *CategoryService {
	return &CategoryService{categories: categories, channels: channels}
}

func (s *CategoryService) Create(ctx context.Context, owner, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.InvalidValue("category name is required")
	}
	return s.categories.Create(ctx, owner, name)
}

func (s *CategoryService) List(ctx context.Context, owner string) ([]model.Category, error) {
	cats, err := s.categories.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []model.Category{}
	}
	return cats, nil
}

func (s *CategoryService) Rename(ctx context.Context, owner string, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.InvalidValue("category name is required")
	}
	return s.categories.Rename(ctx, owner, id, name)
}

func (s *CategoryService) Delete(ctx context.Context, owner string, id int64) error {
	return s.categories.Delete(ctx, owner, id)
}

// AddMember attaches one of the owner's records to one of the owner's
// categories. The record is resolved owner-scoped by channel id; the
// repository re-checks both owners inside the transaction, so a cross-owner
// edge cannot be written even by a caller bypassing this resolution.
func (s *CategoryService) AddMember(ctx context.Context, owner string, categoryID int64, channelID string) error {
	cat, rec, err := s.resolve(ctx, owner, categoryID, channelID)
	if err != nil {
		return err
	}
	return s.categories.AddMember(ctx, cat.ID, rec.ID)
}

// RemoveMember detaches a record from a category.
func (s *CategoryService) RemoveMember(ctx context.Context, owner string, categoryID int64, channelID string) error {
	cat, rec, err := s.resolve(ctx, owner, categoryID, channelID)
	if err != nil {
		return err
	}
	return s.categories.RemoveMember(ctx, cat.ID, rec.ID)
}

// Members lists a category's member records.
func (s *CategoryService) Members(ctx context.Context, owner string, categoryID int64) ([]model.ChannelRecord, error) {
	cat, err := s.ownedCategory(ctx, owner, categoryID)
	if err != nil {
		return nil, err
	}

	records, err := s.categories.ListMembers(ctx, cat.ID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.ChannelRecord{}
	}
	return records, nil
}

// TotalActiveChannels counts the category's active members on demand.
func (s *CategoryService) TotalActiveChannels(ctx context.Context, owner string, categoryID int64) (int, error) {
	cat, err := s.ownedCategory(ctx, owner, categoryID)
	if err != nil {
		return 0, err
	}
	return s.categories.TotalActiveChannels(ctx, cat.ID)
}

// ownedCategory fetches a category and hides other users' categories behind
// NotFound.
func (s *CategoryService) ownedCategory(ctx context.Context, owner string, categoryID int64) (*model.Category, error) {
	cat, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if cat.OwnerID != owner {
		return nil, apperr.ErrCategoryNotFound
	}
	return cat, nil
}

func (s *CategoryService) resolve(ctx context.Context, owner string, categoryID int64, channelID string) (*model.Category, *model.ChannelRecord, error) {
	cat, err := s.ownedCategory(ctx, owner, categoryID)
	if err != nil {
		return nil, nil, err
	}

	rec, err := s.channels.FindByChannelID(ctx, owner, channelID)
	if err != nil {
		return nil, nil, err
	}
	return cat, rec, nil
}
