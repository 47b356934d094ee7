package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"Alumni_Network/internal/model"
	"Alumni_Network/internal/repository/store"
)

// completionWeights sum to 100.
var completionWeights = []struct {
	weight  int
	present func(p *model.Profile) bool
}{
	{15, func(p *model.Profile) bool { return p.FullName != "" }},
	{10, func(p *model.Profile) bool { return p.URL() != "" }},
	{10, func(p *model.Profile) bool { return p.GraduationYear > 0 }},
	{5, func(p *model.Profile) bool { return p.Degree != "" }},
	{5, func(p *model.Profile) bool { return p.Major != "" }},
	{10, func(p *model.Profile) bool { return p.CurrentCompany != "" }},
	{10, func(p *model.Profile) bool { return p.JobTitle != "" }},
	{10, func(p *model.Profile) bool { return p.Industry != "" }},
	{5, func(p *model.Profile) bool { return p.Location != "" }},
	{10, func(p *model.Profile) bool { return p.Bio != "" }},
	{5, func(p *model.Profile) bool { return p.AvatarURL != "" }},
	{3, func(p *model.Profile) bool { return p.LinkedinURL != "" }},
	{2, func(p *model.Profile) bool { return p.Skills != "" }},
}

// Completion is the weighted share of filled profile fields, 0..100.
func Completion(p *model.Profile) int {
	total := 0
	for _, w := range completionWeights {
		if w.present(p) {
			total += w.weight
		}
	}
	return total
}

type ProfileInput struct {
	FullName       string   `json:"full_name" validate:"required,max=128"`
	ProfileURL     string   `json:"profile_url" validate:"omitempty,profileurl"`
	GraduationYear int      `json:"graduation_year" validate:"required"`
	Degree         string   `json:"degree" validate:"max=64"`
	Major          string   `json:"major" validate:"max=128"`
	CurrentCompany string   `json:"current_company" validate:"max=128"`
	JobTitle       string   `json:"job_title" validate:"max=128"`
	Industry       string   `json:"industry" validate:"max=64"`
	Location       string   `json:"location" validate:"max=128"`
	Bio            string   `json:"bio" validate:"max=4000"`
	AvatarURL      string   `json:"avatar_url" validate:"omitempty,url,max=255"`
	LinkedinURL    string   `json:"linkedin_url" validate:"omitempty,url,max=255"`
	Skills         []string `json:"skills" validate:"max=50"`
	Visibility     string   `json:"visibility" validate:"omitempty,oneof=public alumni private"`
}

type ProfileView struct {
	*model.Profile
	Completion int `json:"completion"`
}

type ProfileService struct {
	repo *store.ProfileRepository
	now  func() time.Time
}

func NewProfileService(repo *store.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo, now: time.Now}
}

func view(p *model.Profile) *ProfileView {
	return &ProfileView{Profile: p, Completion: Completion(p)}
}

func (s *ProfileService) Me(ctx context.Context, userID uint64) (*ProfileView, error) {
	p, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return view(p), nil
}

// GetByURL hides private profiles from everyone but the owner and alumni
// profiles from anonymous viewers (viewerID 0).
func (s *ProfileService) GetByURL(ctx context.Context, viewerID uint64, url string) (*ProfileView, error) {
	p, err := s.repo.FindByURL(ctx, strings.ToLower(url))
	if err != nil {
		return nil, err
	}
	if p.UserID != viewerID {
		switch p.Visibility {
		case model.VisibilityPrivate:
			return nil, store.ErrNotFound
		case model.VisibilityAlumni:
			if viewerID == 0 {
				return nil, store.ErrNotFound
			}
		}
	}
	return view(p), nil
}

func (s *ProfileService) Update(ctx context.Context, userID uint64, in ProfileInput) (*ProfileView, error) {
	in.ProfileURL = strings.TrimSpace(in.ProfileURL)
	if err := check(in); err != nil {
		return nil, err
	}
	maxYear := s.now().Year() + 10
	if in.GraduationYear < 1900 || in.GraduationYear > maxYear {
		return nil, invalid("graduation_year must be between 1900 and %d", maxYear)
	}

	p, err := s.repo.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if in.ProfileURL != "" && in.ProfileURL != p.URL() {
		taken, err := s.repo.URLTaken(ctx, in.ProfileURL, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, store.ErrConflict
		}
	}

	p.UserID = userID
	p.FullName = strings.TrimSpace(in.FullName)
	p.ProfileURL = nil
	if in.ProfileURL != "" {
		url := in.ProfileURL
		p.ProfileURL = &url
	}
	p.GraduationYear = in.GraduationYear
	p.Degree = in.Degree
	p.Major = in.Major
	p.CurrentCompany = in.CurrentCompany
	p.JobTitle = in.JobTitle
	p.Industry = in.Industry
	p.Location = in.Location
	p.Bio = in.Bio
	p.AvatarURL = in.AvatarURL
	p.LinkedinURL = in.LinkedinURL
	p.Skills = model.JoinList(in.Skills)
	p.Visibility = in.Visibility
	if p.Visibility == "" {
		p.Visibility = model.VisibilityAlumni
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return view(p), nil
}

// SuggestURL slugifies name and appends -2, -3, ... until the url is free
// for userID.
func (s *ProfileService) SuggestURL(ctx context.Context, userID uint64, name string) (string, error) {
	base := strings.ReplaceAll(slug.Make(name), "_", "-")
	if len(base) > 44 {
		base = strings.Trim(base[:44], "-")
	}
	if len(base) < 3 {
		base = strings.Trim("alumni-"+base, "-")
	}
	candidate := base
	for i := 2; i < 1000; i++ {
		taken, err := s.repo.URLTaken(ctx, candidate, userID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
	return "", store.ErrConflict
}
