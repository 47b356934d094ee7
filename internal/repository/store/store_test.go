package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"Alumni_Network/internal/model"
	"Alumni_Network/internal/repository/store"
	"Alumni_Network/internal/testutil"
)

func mkUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	u := &model.User{Username: name, Password: "x", Email: name + "@example.com"}
	if err := (&store.UserRepository{DB: db}).Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func outboxCount(t *testing.T, db *gorm.DB, eventType string) int64 {
	t.Helper()
	var n int64
	db.Model(&model.Outbox{}).Where("event_type = ?", eventType).Count(&n)
	return n
}

func TestUserCreateAddsProfile(t *testing.T) {
	db := testutil.NewDB(t)
	u := mkUser(t, db, "alice")

	p, err := (&store.ProfileRepository{DB: db}).FindByUserID(context.Background(), u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if p.Visibility != model.VisibilityAlumni {
		t.Fatalf("visibility = %q", p.Visibility)
	}

	dup := &model.User{Username: "alice", Password: "x", Email: "other@example.com"}
	if err := (&store.UserRepository{DB: db}).Create(context.Background(), dup); err == nil {
		t.Fatal("duplicate username accepted")
	}
}

func TestConnectIdempotentAndCounts(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	a, b := mkUser(t, db, "a"), mkUser(t, db, "b")
	repo := &store.ConnectionRepository{DB: db}

	changed, err := repo.Connect(ctx, a.ID, b.ID)
	if err != nil || !changed {
		t.Fatalf("connect: %v %v", changed, err)
	}
	changed, err = repo.Connect(ctx, a.ID, b.ID)
	if err != nil || changed {
		t.Fatalf("second connect should be a no-op: %v %v", changed, err)
	}

	users := &store.UserRepository{DB: db}
	ua, _ := users.FindByID(ctx, a.ID)
	ub, _ := users.FindByID(ctx, b.ID)
	if ua.FollowingCount != 1 || ub.FollowerCount != 1 {
		t.Fatalf("counts: following=%d followers=%d", ua.FollowingCount, ub.FollowerCount)
	}
	if n := outboxCount(t, db, "connection.created"); n != 1 {
		t.Fatalf("outbox rows = %d", n)
	}

	changed, err = repo.Disconnect(ctx, a.ID, b.ID)
	if err != nil || !changed {
		t.Fatalf("disconnect: %v %v", changed, err)
	}
	ok, _ := repo.IsConnected(ctx, a.ID, b.ID)
	if ok {
		t.Fatal("still connected")
	}
	ua, _ = users.FindByID(ctx, a.ID)
	if ua.FollowingCount != 0 {
		t.Fatalf("following after disconnect = %d", ua.FollowingCount)
	}
}

func TestEventRSVPCapacity(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	now := time.Now().UTC()
	repo := &store.EventRepository{DB: db}

	ev := &model.Event{Title: "Meetup", StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour),
		Capacity: 1, OrganizerID: 1, Status: model.EventPublished}
	if err := repo.Create(ctx, ev); err != nil {
		t.Fatal(err)
	}

	res, err := repo.RSVP(ctx, ev.ID, 10, model.RSVPAttending, now)
	if err != nil || !res.Changed || res.Delta != 1 || res.Event.AttendeeCount != 1 {
		t.Fatalf("first rsvp: %+v %v", res, err)
	}
	if _, err := repo.RSVP(ctx, ev.ID, 11, model.RSVPAttending, now); !errors.Is(err, store.ErrCapacityReached) {
		t.Fatalf("want ErrCapacityReached, got %v", err)
	}
	if _, err := repo.RSVP(ctx, ev.ID, 11, model.RSVPMaybe, now); err != nil {
		t.Fatalf("maybe ignores capacity: %v", err)
	}

	res, err = repo.RSVP(ctx, ev.ID, 10, model.RSVPAttending, now)
	if err != nil || res.Changed {
		t.Fatalf("same status should not change: %+v %v", res, err)
	}
	res, err = repo.RSVP(ctx, ev.ID, 10, model.RSVPNotAttending, now)
	if err != nil || res.Delta != -1 || res.Event.AttendeeCount != 0 {
		t.Fatalf("leave: %+v %v", res, err)
	}
	if _, err := repo.RSVP(ctx, ev.ID, 11, model.RSVPAttending, now); err != nil {
		t.Fatalf("seat freed: %v", err)
	}

	cnt, _ := repo.GetAttendeeCount(ctx, ev.ID)
	if cnt != 1 {
		t.Fatalf("attendee_count = %d", cnt)
	}
	if _, err := repo.RSVP(ctx, ev.ID, 12, model.RSVPAttending, now.Add(3*time.Hour)); !errors.Is(err, store.ErrEventClosed) {
		t.Fatalf("ended event: %v", err)
	}
	if _, err := repo.RSVP(ctx, 999, 12, model.RSVPAttending, now); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("missing event: %v", err)
	}
}

func TestJobListOpenFilters(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	repo := &store.JobRepository{DB: db}

	jobs := []*model.Job{
		{PosterID: 1, Title: "Go Engineer", Company: "Acme", Location: "Berlin", EmploymentType: "full_time", IsRemote: true, Status: model.JobStatusOpen},
		{PosterID: 1, Title: "Designer", Company: "Acme", Location: "Paris", EmploymentType: "contract", Status: model.JobStatusOpen},
		{PosterID: 1, Title: "Old Go role", Company: "Beta", EmploymentType: "full_time", Status: model.JobStatusOpen, ExpiresAt: &past},
		{PosterID: 1, Title: "Closed Go role", Company: "Beta", EmploymentType: "full_time", Status: model.JobStatusClosed},
	}
	for _, j := range jobs {
		if err := repo.Create(ctx, j); err != nil {
			t.Fatal(err)
		}
	}

	cases := []struct {
		name string
		f    store.JobFilter
		want int64
	}{
		{"all open", store.JobFilter{}, 2},
		{"query", store.JobFilter{Query: "go"}, 1},
		{"location", store.JobFilter{Location: "par"}, 1},
		{"type", store.JobFilter{EmploymentType: "contract"}, 1},
		{"remote", store.JobFilter{RemoteOnly: true}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			list, total, err := repo.ListOpen(ctx, tc.f, now, 0, 10)
			if err != nil {
				t.Fatal(err)
			}
			if total != tc.want || int64(len(list)) != tc.want {
				t.Fatalf("total=%d len=%d want %d", total, len(list), tc.want)
			}
		})
	}
}

func TestProfileSearchAndFilters(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := &store.ProfileRepository{DB: db}

	seed := []struct {
		name, industry, visibility string
		year                       int
	}{
		{"Ada Lovelace", "Software", model.VisibilityPublic, 2010},
		{"Bob Builder", "Construction", model.VisibilityAlumni, 2015},
		{"Carl Hidden", "Software", model.VisibilityPrivate, 2012},
	}
	for i, s := range seed {
		u := mkUser(t, db, fmt.Sprintf("u%d", i))
		url := fmt.Sprintf("user-%d", i)
		p := &model.Profile{UserID: u.ID, FullName: s.name, ProfileURL: &url, Industry: s.industry,
			GraduationYear: s.year, Visibility: s.visibility}
		if err := repo.Save(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	list, total, err := repo.Search(ctx, store.DirectoryFilter{Industry: "software"}, 0, 20)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || list[0].FullName != "Ada Lovelace" {
		t.Fatalf("private profile leaked or filter broken: %d %+v", total, list)
	}
	_, total, _ = repo.Search(ctx, store.DirectoryFilter{GraduationYearFrom: 2011}, 0, 20)
	if total != 1 {
		t.Fatalf("year filter total = %d", total)
	}

	opts, err := repo.FilterOptions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(opts.Industries) != 2 || len(opts.GraduationYears) != 2 || opts.GraduationYears[0] != 2015 {
		t.Fatalf("filters: %+v", opts)
	}

	taken, _ := repo.URLTaken(ctx, "user-0", 999)
	if !taken {
		t.Fatal("url should be taken")
	}
	p, err := repo.FindByURL(ctx, "user-1")
	if err != nil || p.FullName != "Bob Builder" {
		t.Fatalf("find by url: %+v %v", p, err)
	}
}

func setupMentorship(t *testing.T, db *gorm.DB, maxMentees int) (mentor, mentee *model.User) {
	t.Helper()
	mentor, mentee = mkUser(t, db, "mentor"), mkUser(t, db, "mentee")
	repo := &store.MentorshipRepository{DB: db}
	err := repo.SaveMentorProfile(context.Background(), &model.MentorProfile{
		UserID: mentor.ID, Industry: "software", Topics: "go,career", YearsExperience: 8,
		MaxMentees: maxMentees, Accepting: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	return mentor, mentee
}

func TestMentorshipRequestLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	mentor, mentee := setupMentorship(t, db, 1)
	repo := &store.MentorshipRepository{DB: db}

	p, _ := (&store.ProfileRepository{DB: db}).FindByUserID(ctx, mentor.ID)
	if !p.IsMentor {
		t.Fatal("profile.is_mentor not mirrored")
	}

	rel := &model.MentorshipRelationship{MentorID: mentor.ID, MenteeID: mentee.ID}
	if err := repo.CreateRequest(ctx, rel); err != nil {
		t.Fatal(err)
	}
	if err := repo.CreateRequest(ctx, &model.MentorshipRelationship{MentorID: mentor.ID, MenteeID: mentee.ID}); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("duplicate open request: %v", err)
	}
	if _, err := repo.Transition(ctx, rel.ID, "end", time.Now()); !errors.Is(err, store.ErrInvalidTransition) {
		t.Fatalf("end from pending: %v", err)
	}
	got, err := repo.Transition(ctx, rel.ID, "accept", time.Now())
	if err != nil || got.Status != model.MentorshipActive || got.StartedAt == nil {
		t.Fatalf("accept: %+v %v", got, err)
	}

	other := mkUser(t, db, "other")
	rel2 := &model.MentorshipRelationship{MentorID: mentor.ID, MenteeID: other.ID}
	if err := repo.CreateRequest(ctx, rel2); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Transition(ctx, rel2.ID, "accept", time.Now()); !errors.Is(err, store.ErrMentorFull) {
		t.Fatalf("want ErrMentorFull, got %v", err)
	}

	counts, _ := repo.ActiveCounts(ctx, []uint64{mentor.ID})
	if counts[mentor.ID] != 1 {
		t.Fatalf("active count = %d", counts[mentor.ID])
	}
}

func TestSlotOverlap(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := &store.MentorshipRepository{DB: db}
	mentor, second := setupMentorship(t, db, 1)
	if err := repo.SaveMentorProfile(ctx, &model.MentorProfile{UserID: second.ID, Industry: "law", MaxMentees: 1, Accepting: true}); err != nil {
		t.Fatal(err)
	}
	start := time.Now().UTC().Add(24 * time.Hour)

	if err := repo.CreateSlot(ctx, &model.AvailabilitySlot{MentorID: mentor.ID, StartTime: start, EndTime: start.Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}
	err := repo.CreateSlot(ctx, &model.AvailabilitySlot{MentorID: mentor.ID, StartTime: start.Add(30 * time.Minute), EndTime: start.Add(90 * time.Minute)})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("overlap accepted: %v", err)
	}
	if err := repo.CreateSlot(ctx, &model.AvailabilitySlot{MentorID: mentor.ID, StartTime: start.Add(time.Hour), EndTime: start.Add(2 * time.Hour)}); err != nil {
		t.Fatalf("adjacent slot rejected: %v", err)
	}
	if err := repo.CreateSlot(ctx, &model.AvailabilitySlot{MentorID: second.ID, StartTime: start, EndTime: start.Add(time.Hour)}); err != nil {
		t.Fatalf("other mentor: %v", err)
	}
	if err := repo.CreateSlot(ctx, &model.AvailabilitySlot{MentorID: 999, StartTime: start, EndTime: start.Add(time.Hour)}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("slot without mentor profile: %v", err)
	}
	list, _ := repo.ListSlots(ctx, mentor.ID, time.Now().UTC(), true)
	if len(list) != 2 {
		t.Fatalf("slots = %d", len(list))
	}
}

func TestMeetingBookCancelIsAtomic(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	now := time.Now().UTC()
	mentor, mentee := setupMentorship(t, db, 3)
	ms := &store.MentorshipRepository{DB: db}
	meetings := &store.MeetingRepository{DB: db}

	rel := &model.MentorshipRelationship{MentorID: mentor.ID, MenteeID: mentee.ID}
	if err := ms.CreateRequest(ctx, rel); err != nil {
		t.Fatal(err)
	}
	slot := &model.AvailabilitySlot{MentorID: mentor.ID, StartTime: now.Add(time.Hour), EndTime: now.Add(90 * time.Minute)}
	if err := ms.CreateSlot(ctx, slot); err != nil {
		t.Fatal(err)
	}

	if _, err := meetings.Book(ctx, rel.ID, slot.ID, "intro", now); !errors.Is(err, store.ErrInvalidTransition) {
		t.Fatalf("booking on pending relationship: %v", err)
	}
	if _, err := ms.Transition(ctx, rel.ID, "accept", now); err != nil {
		t.Fatal(err)
	}

	m, err := meetings.Book(ctx, rel.ID, slot.ID, "intro", now)
	if err != nil {
		t.Fatal(err)
	}
	if m.DurationMinutes != 30 || m.Status != model.MeetingScheduled {
		t.Fatalf("meeting: %+v", m)
	}
	if _, err := meetings.Book(ctx, rel.ID, slot.ID, "again", now); !errors.Is(err, store.ErrSlotTaken) {
		t.Fatalf("double booking: %v", err)
	}
	if err := ms.DeleteSlot(ctx, slot.ID, mentor.ID); !errors.Is(err, store.ErrSlotTaken) {
		t.Fatalf("deleting booked slot: %v", err)
	}

	m, err = meetings.Cancel(ctx, m.ID, "sick")
	if err != nil || m.Status != model.MeetingCancelled || m.CancelReason != "sick" {
		t.Fatalf("cancel: %+v %v", m, err)
	}
	s, _ := ms.FindSlot(ctx, slot.ID)
	if s.IsBooked {
		t.Fatal("slot not freed")
	}
	if _, err := meetings.Complete(ctx, m.ID, "n/a"); !errors.Is(err, store.ErrInvalidTransition) {
		t.Fatalf("complete after cancel: %v", err)
	}
	if n := outboxCount(t, db, "meeting.cancelled"); n != 1 {
		t.Fatalf("outbox meeting.cancelled = %d", n)
	}
}

func TestOutboxRetryWindow(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := &store.OutboxRepository{DB: db}
	a, b := mkUser(t, db, "a"), mkUser(t, db, "b")
	if _, err := (&store.ConnectionRepository{DB: db}).Connect(ctx, a.ID, b.ID); err != nil {
		t.Fatal(err)
	}

	list, err := repo.List(ctx, 10, 2)
	if err != nil || len(list) != 1 {
		t.Fatalf("pending: %d %v", len(list), err)
	}
	id := list[0].ID
	for i := 0; i < 2; i++ {
		if err := repo.RetryUpdate(ctx, id); err != nil {
			t.Fatal(err)
		}
	}
	if list, _ = repo.List(ctx, 10, 2); len(list) != 0 {
		t.Fatalf("row past max retry still listed")
	}
	if list, _ = repo.List(ctx, 10, 3); len(list) != 1 {
		t.Fatalf("row under max retry not listed")
	}
	if err := repo.SuccessUpdate(ctx, id); err != nil {
		t.Fatal(err)
	}
	if list, _ = repo.List(ctx, 10, 5); len(list) != 0 {
		t.Fatal("sent row listed")
	}
}

func TestNotificationsReadState(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := &store.NotificationRepository{DB: db}
	for i := 0; i < 3; i++ {
		if err := repo.Create(ctx, &model.Notification{UserID: 1, Type: "x", Title: fmt.Sprint(i)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.Create(ctx, &model.Notification{UserID: 2, Type: "x", Title: "other"}); err != nil {
		t.Fatal(err)
	}

	list, total, _ := repo.List(ctx, 1, true, 0, 2)
	if total != 3 || len(list) != 2 || list[0].Title != "2" {
		t.Fatalf("list: total=%d %+v", total, list)
	}
	if err := repo.MarkRead(ctx, list[0].ID, 2); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("foreign mark read: %v", err)
	}
	if err := repo.MarkRead(ctx, list[0].ID, 1); err != nil {
		t.Fatal(err)
	}
	n, _ := repo.UnreadCount(ctx, 1)
	if n != 2 {
		t.Fatalf("unread = %d", n)
	}
	changed, _ := repo.MarkAllRead(ctx, 1)
	if changed != 2 {
		t.Fatalf("mark all = %d", changed)
	}
}

func TestSeedRolesIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := store.SeedRoles(ctx, db); err != nil {
			t.Fatal(err)
		}
	}
	roles := &store.RoleRepository{DB: db}
	list, _ := roles.List(ctx)
	if len(list) != 2 {
		t.Fatalf("roles = %d", len(list))
	}
	admin, err := roles.FindByName(ctx, model.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := admin.Permissions[model.PermRolesManage].(bool); v {
		t.Fatal("admin must not manage roles")
	}

	u := mkUser(t, db, "boss")
	if err := roles.Assign(ctx, u.ID, admin.ID); err != nil {
		t.Fatal(err)
	}
	if err := roles.Assign(ctx, u.ID, admin.ID); err != nil {
		t.Fatalf("assign twice: %v", err)
	}
	mine, _ := roles.RolesOf(ctx, u.ID)
	if len(mine) != 1 || mine[0].Name != model.RoleAdmin {
		t.Fatalf("roles of: %+v", mine)
	}
}
