package service

import (
	"context"

	"gorm.io/datatypes"

	"Alumni_Network/internal/model"
	"Alumni_Network/internal/repository/store"
)

type SearchResult struct {
	Items []*ProfileView `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

type SavedSearchInput struct {
	Name    string         `json:"name" validate:"required,max=100"`
	Filters map[string]any `json:"filters" validate:"required"`
}

type SearchService struct {
	profiles *store.ProfileRepository
	saved    *store.SavedSearchRepository
}

func NewSearchService(profiles *store.ProfileRepository, saved *store.SavedSearchRepository) *SearchService {
	return &SearchService{profiles: profiles, saved: saved}
}

func (s *SearchService) Profiles(ctx context.Context, f store.DirectoryFilter, page, size int) (*SearchResult, error) {
	if f.GraduationYearFrom > 0 && f.GraduationYearTo > 0 && f.GraduationYearFrom > f.GraduationYearTo {
		return nil, invalid("graduation_year_from is after graduation_year_to")
	}
	offset, limit := Page(page, size, 20, 50)
	list, total, err := s.profiles.Search(ctx, f, offset, limit)
	if err != nil {
		return nil, err
	}
	items := make([]*ProfileView, 0, len(list))
	for i := range list {
		items = append(items, view(&list[i]))
	}
	return &SearchResult{Items: items, Total: total, Page: offset/limit + 1, Size: limit}, nil
}

func (s *SearchService) Filters(ctx context.Context) (*store.FilterOptions, error) {
	return s.profiles.FilterOptions(ctx)
}

func (s *SearchService) Save(ctx context.Context, userID uint64, in SavedSearchInput) (*model.SavedSearch, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	ss := &model.SavedSearch{UserID: userID, Name: in.Name, Filters: datatypes.JSONMap(in.Filters)}
	if err := s.saved.Create(ctx, ss); err != nil {
		return nil, err
	}
	return ss, nil
}

func (s *SearchService) ListSaved(ctx context.Context, userID uint64) ([]model.SavedSearch, error) {
	return s.saved.ListByUser(ctx, userID)
}

func (s *SearchService) DeleteSaved(ctx context.Context, userID, id uint64) error {
	n, err := s.saved.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
