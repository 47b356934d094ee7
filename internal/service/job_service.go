package service

import (
	"context"
	"time"

	"Alumni_Network/internal/model"
	"Alumni_Network/internal/repository/store"
)

type JobInput struct {
	Title          string     `json:"title" validate:"required,max=200"`
	Company        string     `json:"company" validate:"required,max=128"`
	Location       string     `json:"location" validate:"max=128"`
	EmploymentType string     `json:"employment_type" validate:"required,oneof=full_time part_time contract internship"`
	IsRemote       bool       `json:"is_remote"`
	Description    string     `json:"description" validate:"max=10000"`
	ApplyURL       string     `json:"apply_url" validate:"omitempty,url,max=255"`
	SalaryRange    string     `json:"salary_range" validate:"max=64"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

type JobService struct {
	repo  *store.JobRepository
	roles *RoleService
	now   func() time.Time
}

func NewJobService(repo *store.JobRepository, roles *RoleService) *JobService {
	return &JobService{repo: repo, roles: roles, now: time.Now}
}

// checkInput applies to both create and update; an edit may not push the
// expiry into the past.
func (s *JobService) checkInput(in JobInput) error {
	if err := check(in); err != nil {
		return err
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(s.now()) {
		return invalid("expires_at must be in the future")
	}
	return nil
}

func (s *JobService) Create(ctx context.Context, posterID uint64, in JobInput) (*model.Job, error) {
	if err := s.checkInput(in); err != nil {
		return nil, err
	}
	job := &model.Job{
		PosterID:       posterID,
		Title:          in.Title,
		Company:        in.Company,
		Location:       in.Location,
		EmploymentType: in.EmploymentType,
		IsRemote:       in.IsRemote,
		Description:    in.Description,
		ApplyURL:       in.ApplyURL,
		SalaryRange:    in.SalaryRange,
		Status:         model.JobStatusOpen,
		ExpiresAt:      in.ExpiresAt,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) Get(ctx context.Context, id uint64) (*model.Job, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *JobService) List(ctx context.Context, f store.JobFilter, page, size int) ([]model.Job, int64, error) {
	offset, limit := Page(page, size, 20, 50)
	return s.repo.ListOpen(ctx, f, s.now(), offset, limit)
}

// owned loads the job and checks that userID posted it or may moderate jobs.
func (s *JobService) owned(ctx context.Context, userID, id uint64) (*model.Job, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.PosterID == userID {
		return job, nil
	}
	ok, err := s.roles.HasPermission(ctx, userID, model.PermJobsModerate)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, forbidden("only the poster or a moderator may change this job")
	}
	return job, nil
}

func (s *JobService) Update(ctx context.Context, userID, id uint64, in JobInput) (*model.Job, error) {
	if err := s.checkInput(in); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	fields := map[string]any{
		"title":           in.Title,
		"company":         in.Company,
		"location":        in.Location,
		"employment_type": in.EmploymentType,
		"is_remote":       in.IsRemote,
		"description":     in.Description,
		"apply_url":       in.ApplyURL,
		"salary_range":    in.SalaryRange,
		"expires_at":      in.ExpiresAt,
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *JobService) Close(ctx context.Context, userID, id uint64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Close(ctx, id)
}

func (s *JobService) Delete(ctx context.Context, userID, id uint64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
