package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"Alumni_Network/internal/model"
)

type ProfileRepository struct {
	DB *gorm.DB
}

// DirectoryFilter narrows a directory search. Zero values are ignored.
type DirectoryFilter struct {
	Query              string
	GraduationYearFrom int
	GraduationYearTo   int
	Industry           string
	Location           string
	Company            string
	Major              string
	MentorsOnly        bool
}

// FilterOptions lists the distinct values present among visible profiles.
type FilterOptions struct {
	Industries      []string `json:"industries"`
	Locations       []string `json:"locations"`
	Majors          []string `json:"majors"`
	GraduationYears []int    `json:"graduation_years"`
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID uint64) (*model.Profile, error) {
	var p model.Profile
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	return &p, notFound(err)
}

func (r *ProfileRepository) FindByURL(ctx context.Context, url string) (*model.Profile, error) {
	var p model.Profile
	err := r.DB.WithContext(ctx).Where("profile_url = ?", url).First(&p).Error
	return &p, notFound(err)
}

// URLTaken reports whether another user already owns url.
func (r *ProfileRepository) URLTaken(ctx context.Context, url string, exceptUserID uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Profile{}).
		Where("profile_url = ? AND user_id <> ?", url, exceptUserID).
		Count(&n).Error
	return n > 0, err
}

// Save inserts or fully updates the profile keyed by user_id.
func (r *ProfileRepository) Save(ctx context.Context, p *model.Profile) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Profile
		err := tx.Where("user_id = ?", p.UserID).First(&existing).Error
		if err != nil {
			if err = notFound(err); err != ErrNotFound {
				return err
			}
			return duplicate(tx.Create(p).Error)
		}
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		return duplicate(tx.Save(p).Error)
	})
}

// Search runs a directory query over non-private profiles, ordered by name.
func (r *ProfileRepository) Search(ctx context.Context, f DirectoryFilter, offset, limit int) ([]model.Profile, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.Profile{}).
		Where("visibility <> ?", model.VisibilityPrivate).
		Where("full_name <> ?", "")
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where("(LOWER(full_name) LIKE ? OR LOWER(current_company) LIKE ? OR LOWER(job_title) LIKE ?)", like, like, like)
	}
	if f.GraduationYearFrom > 0 {
		q = q.Where("graduation_year >= ?", f.GraduationYearFrom)
	}
	if f.GraduationYearTo > 0 {
		q = q.Where("graduation_year <= ?", f.GraduationYearTo)
	}
	if f.Industry != "" {
		q = q.Where("LOWER(industry) = ?", strings.ToLower(f.Industry))
	}
	if f.Location != "" {
		q = q.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(f.Location)+"%")
	}
	if f.Company != "" {
		q = q.Where("LOWER(current_company) LIKE ?", "%"+strings.ToLower(f.Company)+"%")
	}
	if f.Major != "" {
		q = q.Where("LOWER(major) = ?", strings.ToLower(f.Major))
	}
	if f.MentorsOnly {
		q = q.Where("is_mentor = ?", true)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.Profile
	err := q.Order("full_name ASC, id ASC").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

func (r *ProfileRepository) FilterOptions(ctx context.Context) (*FilterOptions, error) {
	out := &FilterOptions{}
	base := r.DB.WithContext(ctx).Model(&model.Profile{}).
		Where("visibility <> ?", model.VisibilityPrivate).
		Session(&gorm.Session{})

	if err := base.Where("industry <> ''").Distinct().Order("industry ASC").Pluck("industry", &out.Industries).Error; err != nil {
		return nil, err
	}
	if err := base.Where("location <> ''").Distinct().Order("location ASC").Pluck("location", &out.Locations).Error; err != nil {
		return nil, err
	}
	if err := base.Where("major <> ''").Distinct().Order("major ASC").Pluck("major", &out.Majors).Error; err != nil {
		return nil, err
	}
	if err := base.Where("graduation_year > 0").Distinct().Order("graduation_year DESC").Pluck("graduation_year", &out.GraduationYears).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// All streams every profile for analytics; profiles are small rows.
func (r *ProfileRepository) All(ctx context.Context) ([]model.Profile, error) {
	var list []model.Profile
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

type SavedSearchRepository struct {
	DB *gorm.DB
}

func (r *SavedSearchRepository) Create(ctx context.Context, s *model.SavedSearch) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *SavedSearchRepository) ListByUser(ctx context.Context, userID uint64) ([]model.SavedSearch, error) {
	var list []model.SavedSearch
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").Find(&list).Error
	return list, err
}

// Delete removes the row only if it belongs to userID.
func (r *SavedSearchRepository) Delete(ctx context.Context, id, userID uint64) (int64, error) {
	tx := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.SavedSearch{})
	return tx.RowsAffected, tx.Error
}
