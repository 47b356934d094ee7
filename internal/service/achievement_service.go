package service

import (
	"context"
	"time"

	"Alumni_Network/internal/model"
	"Alumni_Network/internal/repository/store"
)

type AchievementInput struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=4000"`
	Category    string     `json:"category" validate:"max=64"`
	AchievedOn  *time.Time `json:"achieved_on"`
}

type AchievementService struct {
	repo   *store.AchievementRepository
	notify *NotificationService
}

func NewAchievementService(repo *store.AchievementRepository, notify *NotificationService) *AchievementService {
	return &AchievementService{repo: repo, notify: notify}
}

func (s *AchievementService) Create(ctx context.Context, userID uint64, in AchievementInput) (*model.Achievement, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	a := &model.Achievement{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		AchievedOn:  in.AchievedOn,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AchievementService) List(ctx context.Context, userID uint64) ([]model.Achievement, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *AchievementService) Delete(ctx context.Context, userID, id uint64) error {
	return s.repo.Delete(ctx, id, userID)
}

func (s *AchievementService) Verify(ctx context.Context, verifierID, id uint64) (*model.Achievement, error) {
	if err := s.repo.Verify(ctx, id, verifierID); err != nil {
		return nil, err
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify.Notify(ctx, a.UserID, NotifyAchievementVerify, "Achievement verified", a.Title, "/achievements", map[string]any{"achievement_id": a.ID})
	return a, nil
}
