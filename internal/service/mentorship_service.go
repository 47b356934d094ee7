package service

import (
	"context"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"Alumni_Network/internal/config"
	"Alumni_Network/internal/model"
	"Alumni_Network/internal/repository/store"
)

const (
	industryWeight = 30
	topicWeight    = 25
)

// ExperienceBonus buckets years of experience into a fixed bonus.
func ExperienceBonus(years int) float64 {
	switch {
	case years >= 10:
		return 20
	case years >= 5:
		return 15
	case years >= 2:
		return 10
	default:
		return 5
	}
}

// MatchScore scores one mentor for a mentee request, without jitter.
func MatchScore(industry string, topics []string, mentor *model.MentorProfile) float64 {
	score := ExperienceBonus(mentor.YearsExperience)
	if industry != "" && strings.EqualFold(strings.TrimSpace(industry), strings.TrimSpace(mentor.Industry)) {
		score += industryWeight
	}
	if len(topics) > 0 {
		have := make(map[string]struct{})
		for _, t := range mentor.TopicList() {
			have[t] = struct{}{}
		}
		overlap := 0
		for _, t := range topics {
			if _, ok := have[t]; ok {
				overlap++
			}
		}
		score += topicWeight * float64(overlap) / float64(len(topics))
	}
	return score
}

// MentorInput is the mentor profile a user publishes. Topics are stored
// comma separated.
type MentorInput struct {
	Industry        string   `json:"industry" validate:"required,max=64"`
	Topics          []string `json:"topics" validate:"max=30"`
	YearsExperience int      `json:"years_experience" validate:"min=0,max=80"`
	MaxMentees      int      `json:"max_mentees" validate:"min=1,max=50"`
	Accepting       bool     `json:"accepting"`
	Bio             string   `json:"bio" validate:"max=4000"`
}

// MatchRequest describes what a mentee is looking for.
type MatchRequest struct {
	Industry string   `json:"industry"`
	Topics   []string `json:"topics"`
}

// Match is one ranked mentor plus their current active mentee count.
type Match struct {
	Mentor      model.MentorProfile `json:"mentor"`
	Score       float64             `json:"score"`
	ActiveCount int                 `json:"active_mentees"`
}

// RequestInput opens a pending relationship with a mentor.
type RequestInput struct {
	MentorID uint64   `json:"mentor_id" validate:"required"`
	Message  string   `json:"message" validate:"max=2000"`
	Topics   []string `json:"topics" validate:"max=30"`
}

// SlotInput is a bookable window; it must start in the future.
type SlotInput struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

// MentorshipService covers everything on the mentor side of mentorship.
type MentorshipService struct {
	repo      *store.MentorshipRepository
	notify    *NotificationService
	limit     int
	maxJitter float64
	// jitter returns a value in [0, 1); scaled by maxJitter.
	jitter func() float64
	now    func() time.Time
}

func NewMentorshipService(repo *store.MentorshipRepository, notify *NotificationService, cfg config.MentorshipConfig) *MentorshipService {
	return &MentorshipService{
		repo:      repo,
		notify:    notify,
		limit:     cfg.MatchLimit,
		maxJitter: cfg.MaxJitter,
		jitter:    rand.Float64,
		now:       time.Now,
	}
}

func (s *MentorshipService) SaveMentorProfile(ctx context.Context, userID uint64, in MentorInput) (*model.MentorProfile, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	mp := &model.MentorProfile{
		UserID:          userID,
		Industry:        strings.TrimSpace(in.Industry),
		Topics:          model.JoinList(in.Topics),
		YearsExperience: in.YearsExperience,
		MaxMentees:      in.MaxMentees,
		Accepting:       in.Accepting,
		Bio:             in.Bio,
	}
	if err := s.repo.SaveMentorProfile(ctx, mp); err != nil {
		return nil, err
	}
	return mp, nil
}

func (s *MentorshipService) ListMentors(ctx context.Context, viewerID uint64) ([]model.MentorProfile, error) {
	return s.repo.ListAccepting(ctx, viewerID)
}

// Matches ranks accepting mentors other than the caller by MatchScore plus
// jitter. Ties go to the lower mentor user id.
func (s *MentorshipService) Matches(ctx context.Context, menteeID uint64, req MatchRequest) ([]Match, error) {
	mentors, err := s.repo.ListAccepting(ctx, menteeID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(mentors))
	for _, m := range mentors {
		ids = append(ids, m.UserID)
	}
	active, err := s.repo.ActiveCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	topics := model.SplitList(strings.Join(req.Topics, ","))
	out := make([]Match, 0, len(mentors))
	for _, m := range mentors {
		score := MatchScore(req.Industry, topics, &m)
		if s.maxJitter > 0 {
			score += s.jitter() * s.maxJitter
		}
		out = append(out, Match{Mentor: m, Score: score, ActiveCount: active[m.UserID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Mentor.UserID < out[j].Mentor.UserID
	})
	if len(out) > s.limit {
		out = out[:s.limit]
	}
	return out, nil
}

func (s *MentorshipService) Request(ctx context.Context, menteeID uint64, in RequestInput) (*model.MentorshipRelationship, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	if in.MentorID == menteeID {
		return nil, invalid("cannot request yourself as mentor")
	}
	mp, err := s.repo.FindMentorProfile(ctx, in.MentorID)
	if err != nil {
		return nil, err
	}
	if !mp.Accepting {
		return nil, invalid("mentor is not accepting requests")
	}
	rel := &model.MentorshipRelationship{
		MentorID: in.MentorID,
		MenteeID: menteeID,
		Message:  in.Message,
		Topics:   model.JoinList(in.Topics),
	}
	if err := s.repo.CreateRequest(ctx, rel); err != nil {
		return nil, err
	}
	s.notify.Notify(ctx, in.MentorID, NotifyMentorshipRequest, "New mentorship request",
		in.Message, "/mentorship/requests", map[string]any{"relationship_id": rel.ID, "mentee_id": menteeID})
	return rel, nil
}

// Respond lets the mentor accept or decline a pending request.
func (s *MentorshipService) Respond(ctx context.Context, mentorID, relID uint64, accept bool) (*model.MentorshipRelationship, error) {
	rel, err := s.repo.FindRelationship(ctx, relID)
	if err != nil {
		return nil, err
	}
	if rel.MentorID != mentorID {
		return nil, forbidden("only the mentor can respond")
	}
	action, typ, title := "decline", NotifyMentorshipDeclined, "Mentorship request declined"
	if accept {
		action, typ, title = "accept", NotifyMentorshipAccepted, "Mentorship request accepted"
	}
	rel, err = s.repo.Transition(ctx, relID, action, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.notify.Notify(ctx, rel.MenteeID, typ, title, "", "/mentorship", map[string]any{"relationship_id": rel.ID})
	return rel, nil
}

// End completes an active relationship; either party may end it.
func (s *MentorshipService) End(ctx context.Context, userID, relID uint64) (*model.MentorshipRelationship, error) {
	rel, err := s.repo.FindRelationship(ctx, relID)
	if err != nil {
		return nil, err
	}
	if rel.MentorID != userID && rel.MenteeID != userID {
		return nil, forbidden("not a party to this mentorship")
	}
	rel, err = s.repo.Transition(ctx, relID, "end", s.now().UTC())
	if err != nil {
		return nil, err
	}
	other := rel.MentorID
	if other == userID {
		other = rel.MenteeID
	}
	s.notify.Notify(ctx, other, NotifyMentorshipEnded, "Mentorship ended", "", "/mentorship", map[string]any{"relationship_id": rel.ID})
	return rel, nil
}

// Relationships lists both sides of the caller's mentorships.
func (s *MentorshipService) Relationships(ctx context.Context, userID uint64, status string) (map[string][]model.MentorshipRelationship, error) {
	asMentor, err := s.repo.ListRelationships(ctx, userID, true, status)
	if err != nil {
		return nil, err
	}
	asMentee, err := s.repo.ListRelationships(ctx, userID, false, status)
	if err != nil {
		return nil, err
	}
	return map[string][]model.MentorshipRelationship{"as_mentor": asMentor, "as_mentee": asMentee}, nil
}

func (s *MentorshipService) AddSlot(ctx context.Context, mentorID uint64, in SlotInput) (*model.AvailabilitySlot, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	if !in.StartTime.After(s.now()) {
		return nil, invalid("slot must start in the future")
	}
	if _, err := s.repo.FindMentorProfile(ctx, mentorID); err != nil {
		return nil, err
	}
	slot := &model.AvailabilitySlot{MentorID: mentorID, StartTime: in.StartTime.UTC(), EndTime: in.EndTime.UTC()}
	if err := s.repo.CreateSlot(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *MentorshipService) FreeSlots(ctx context.Context, mentorID uint64) ([]model.AvailabilitySlot, error) {
	return s.repo.ListSlots(ctx, mentorID, s.now().UTC(), true)
}

func (s *MentorshipService) DeleteSlot(ctx context.Context, mentorID, slotID uint64) error {
	slot, err := s.repo.FindSlot(ctx, slotID)
	if err != nil {
		return err
	}
	if slot.MentorID != mentorID {
		return forbidden("not your slot")
	}
	return s.repo.DeleteSlot(ctx, slotID, mentorID)
}
