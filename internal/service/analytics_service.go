package service

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"Alumni_Network/internal/repository/redis"
	"Alumni_Network/internal/repository/store"
)

type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Dashboard struct {
	Totals            *store.Totals  `json:"totals"`
	MeetingsByStatus  map[string]int `json:"meetings_by_status"`
	SignupsByMonth    []LabelCount   `json:"signups_by_month"`
	TopIndustries     []LabelCount   `json:"top_industries"`
	GraduationYears   []LabelCount   `json:"graduation_years"`
	AverageCompletion float64        `json:"average_completion"`
	GeneratedAt       time.Time      `json:"generated_at"`
}

type AnalyticsService struct {
	repo     *store.AnalyticsRepository
	profiles *store.ProfileRepository
	cache    *redis.AnalyticsCache
	log      *zap.Logger
	now      func() time.Time
}

func NewAnalyticsService(repo *store.AnalyticsRepository, profiles *store.ProfileRepository, cache *redis.AnalyticsCache, log *zap.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, profiles: profiles, cache: cache, log: log, now: time.Now}
}

// Dashboard serves the cached dashboard or rebuilds it.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	if b, ok, err := s.cache.Get(ctx); err == nil && ok {
		var d Dashboard
		if err := json.Unmarshal(b, &d); err == nil {
			return &d, nil
		}
	} else if err != nil {
		s.log.Warn("analytics cache read", zap.Error(err))
	}

	d, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(d); err == nil {
		if err := s.cache.Set(ctx, b); err != nil {
			s.log.Warn("analytics cache write", zap.Error(err))
		}
	}
	return d, nil
}

func (s *AnalyticsService) build(ctx context.Context) (*Dashboard, error) {
	now := s.now().UTC()
	totals, err := s.repo.Totals(ctx, now)
	if err != nil {
		return nil, err
	}
	statuses, err := s.repo.MeetingStatuses(ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := s.profiles.All(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{Totals: totals, MeetingsByStatus: map[string]int{}, GeneratedAt: now}
	for _, st := range statuses {
		d.MeetingsByStatus[st]++
	}

	// the last 12 months, oldest first, including the current one
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
	months := make([]LabelCount, 12)
	for i := range months {
		months[i].Label = start.AddDate(0, i, 0).Format("2006-01")
	}
	industries := map[string]int{}
	years := map[int]int{}
	completion := 0

	for i := range profiles {
		p := &profiles[i]
		completion += Completion(p)
		created := p.CreatedAt.UTC()
		if !created.Before(start) {
			idx := (created.Year()-start.Year())*12 + int(created.Month()) - int(start.Month())
			if idx >= 0 && idx < len(months) {
				months[idx].Count++
			}
		}
		if ind := strings.TrimSpace(p.Industry); ind != "" {
			industries[ind]++
		}
		if p.GraduationYear > 0 {
			years[p.GraduationYear]++
		}
	}
	d.SignupsByMonth = months

	d.TopIndustries = make([]LabelCount, 0, len(industries))
	for k, v := range industries {
		d.TopIndustries = append(d.TopIndustries, LabelCount{Label: k, Count: v})
	}
	sort.Slice(d.TopIndustries, func(i, j int) bool {
		if d.TopIndustries[i].Count != d.TopIndustries[j].Count {
			return d.TopIndustries[i].Count > d.TopIndustries[j].Count
		}
		return d.TopIndustries[i].Label < d.TopIndustries[j].Label
	})
	if len(d.TopIndustries) > 10 {
		d.TopIndustries = d.TopIndustries[:10]
	}

	yearKeys := make([]int, 0, len(years))
	for y := range years {
		yearKeys = append(yearKeys, y)
	}
	sort.Ints(yearKeys)
	d.GraduationYears = make([]LabelCount, 0, len(yearKeys))
	for _, y := range yearKeys {
		d.GraduationYears = append(d.GraduationYears, LabelCount{Label: strconv.Itoa(y), Count: years[y]})
	}

	if len(profiles) > 0 {
		d.AverageCompletion = math.Round(float64(completion)/float64(len(profiles))*10) / 10
	}
	return d, nil
}
