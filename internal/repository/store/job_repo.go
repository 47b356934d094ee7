package store

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"Alumni_Network/internal/model"
)

type JobRepository struct {
	DB *gorm.DB
}

type JobFilter struct {
	Query          string
	Location       string
	EmploymentType string
	RemoteOnly     bool
}

func (r *JobRepository) Create(ctx context.Context, job *model.Job) error {
	return r.DB.WithContext(ctx).Create(job).Error
}

func (r *JobRepository) FindByID(ctx context.Context, id uint64) (*model.Job, error) {
	var job model.Job
	err := r.DB.WithContext(ctx).First(&job, id).Error
	return &job, notFound(err)
}

// ListOpen returns open listings that have not expired, newest first.
func (r *JobRepository) ListOpen(ctx context.Context, f JobFilter, now time.Time, offset, limit int) ([]model.Job, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.Job{}).
		Where("status = ?", model.JobStatusOpen).
		Where("(expires_at IS NULL OR expires_at > ?)", now)
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(company) LIKE ? OR LOWER(description) LIKE ?)", like, like, like)
	}
	if f.Location != "" {
		q = q.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(f.Location)+"%")
	}
	if f.EmploymentType != "" {
		q = q.Where("employment_type = ?", f.EmploymentType)
	}
	if f.RemoteOnly {
		q = q.Where("is_remote = ?", true)
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.Job
	err := q.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

func (r *JobRepository) Update(ctx context.Context, id uint64, fields map[string]any) error {
	return r.DB.WithContext(ctx).Model(&model.Job{}).Where("id = ?", id).Updates(fields).Error
}

func (r *JobRepository) Close(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.Job{}).
		Where("id = ?", id).
		Update("status", model.JobStatusClosed).Error
}

// Delete is a hard delete; deleting a missing row is not an error.
func (r *JobRepository) Delete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Delete(&model.Job{}, id).Error
}
