package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"Alumni_Network/internal/config"
	"Alumni_Network/internal/model"
	"Alumni_Network/internal/repository/store"
	"Alumni_Network/internal/router"
	"Alumni_Network/internal/testutil"
)

type captureMailer struct {
	mu    sync.Mutex
	codes map[string]string
}

var codeRe = regexp.MustCompile(`>(\d{6})<`)

func (m *captureMailer) Send(to, _, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c := codeRe.FindStringSubmatch(body); c != nil {
		m.codes[to] = c[1]
	}
	return nil
}

type app struct {
	t    *testing.T
	r    *gin.Engine
	svcs *router.Services
	mail *captureMailer
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	if err := store.SeedRoles(context.Background(), db); err != nil {
		t.Fatal(err)
	}
	_, rdb := testutil.NewRedis(t)

	cfg := config.Default()
	cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret = "test-access", "test-refresh"
	cfg.Mentorship.MaxJitter = 0

	mail := &captureMailer{codes: map[string]string{}}
	svcs := router.NewServices(router.Deps{DB: db, Redis: rdb, Mail: mail, Log: zap.NewNop(), Config: cfg})
	r, err := router.InitRouter(svcs, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return &app{t: t, r: r, svcs: svcs, mail: mail}
}

func (a *app) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	out := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (a *app) expect(method, path, token string, body any, want int) map[string]any {
	a.t.Helper()
	w, out := a.do(method, path, token, body)
	if w.Code != want {
		a.t.Fatalf("%s %s: code %d, want %d: %s", method, path, w.Code, want, w.Body.String())
	}
	return out
}

// signup registers and logs in, returning the access token and user id.
func (a *app) signup(name string) (string, uint64) {
	a.t.Helper()
	email := name + "@example.com"
	a.expect(http.MethodPost, "/api/email/register/code", "", map[string]string{"email": email}, http.StatusOK)
	out := a.expect(http.MethodPost, "/api/user/register", "", map[string]string{
		"username": name, "password": "password-1", "email": email, "code": a.mail.codes[email],
	}, http.StatusOK)
	uid := uint64(out["user_id"].(float64))
	out = a.expect(http.MethodPost, "/api/user/login", "", map[string]string{"username": name, "password": "password-1"}, http.StatusOK)
	return out["access_token"].(string), uid
}

func TestAccountFlow(t *testing.T) {
	a := newApp(t)
	a.expect(http.MethodPost, "/api/email/other/code", "", map[string]string{"email": "x@example.com"}, http.StatusBadRequest)
	a.expect(http.MethodPost, "/api/user/register", "", map[string]string{
		"username": "eve", "password": "password-1", "email": "eve@example.com", "code": "123456",
	}, http.StatusBadRequest)

	token, _ := a.signup("ann")
	a.expect(http.MethodPost, "/api/user/login", "", map[string]string{"username": "ann", "password": "nope"}, http.StatusUnauthorized)
	a.expect(http.MethodGet, "/api/notifications", "", nil, http.StatusUnauthorized)
	a.expect(http.MethodGet, "/api/notifications", token, nil, http.StatusOK)

	a.expect(http.MethodPost, "/api/auth/change-password", token,
		map[string]string{"old_password": "password-1", "new_password": "password-2"}, http.StatusOK)
	a.expect(http.MethodGet, "/api/notifications", token, nil, http.StatusUnauthorized)

	out := a.expect(http.MethodPost, "/api/user/login", "", map[string]string{"username": "ann@example.com", "password": "password-2"}, http.StatusOK)
	token = out["access_token"].(string)
	used := map[string]string{"refresh_token": out["refresh_token"].(string)}
	out = a.expect(http.MethodPost, "/api/token/refresh", "", used, http.StatusOK)
	a.expect(http.MethodGet, "/api/notifications", token, nil, http.StatusUnauthorized)
	a.expect(http.MethodPost, "/api/token/refresh", "", used, http.StatusUnauthorized)

	token = out["access_token"].(string)
	latest := map[string]string{"refresh_token": out["refresh_token"].(string)}
	a.expect(http.MethodPost, "/api/auth/logout", token, nil, http.StatusOK)
	a.expect(http.MethodGet, "/api/notifications", token, nil, http.StatusUnauthorized)
	a.expect(http.MethodPost, "/api/token/refresh", "", latest, http.StatusUnauthorized)
}

func TestProfileRoutes(t *testing.T) {
	a := newApp(t)
	ann, _ := a.signup("ann")
	bob, _ := a.signup("bob")

	out := a.expect(http.MethodGet, "/api/profile/me", ann, nil, http.StatusOK)
	if out["completion"].(float64) != 0 {
		t.Fatalf("empty profile completion = %v", out["completion"])
	}
	a.expect(http.MethodPut, "/api/profile/me", ann, map[string]any{"full_name": "Ann", "profile_url": "Ann_L", "graduation_year": 2012}, http.StatusBadRequest)
	a.expect(http.MethodPut, "/api/profile/me", ann, map[string]any{"full_name": "Ann", "graduation_year": "2012"}, http.StatusBadRequest)
	out = a.expect(http.MethodPut, "/api/profile/me", ann, map[string]any{
		"full_name": "Ann Lee", "profile_url": "ann-lee", "graduation_year": 2012, "industry": "Software",
	}, http.StatusOK)
	if out["completion"].(float64) != 45 {
		t.Fatalf("completion = %v", out["completion"])
	}
	a.expect(http.MethodPut, "/api/profile/me", bob, map[string]any{"full_name": "Bob", "profile_url": "ann-lee", "graduation_year": 2012}, http.StatusConflict)

	a.expect(http.MethodGet, "/api/profile/ann-lee", "", nil, http.StatusNotFound)
	a.expect(http.MethodGet, "/api/profile/ann-lee", bob, nil, http.StatusOK)
	a.expect(http.MethodGet, "/api/profile/Not_Valid", bob, nil, http.StatusNotFound)

	out = a.expect(http.MethodGet, "/api/profile/url-suggestion?name=Ann%20Lee", bob, nil, http.StatusOK)
	if out["profile_url"] != "ann-lee-2" {
		t.Fatalf("suggestion = %v", out["profile_url"])
	}

	out = a.expect(http.MethodGet, "/api/search/profiles?q=lee&industry=software", bob, nil, http.StatusOK)
	if out["total"].(float64) != 1 {
		t.Fatalf("search = %v", out)
	}
	a.expect(http.MethodGet, "/api/search/profiles?graduation_year_from=2020&graduation_year_to=2010", bob, nil, http.StatusBadRequest)
	out = a.expect(http.MethodGet, "/api/search/filters", bob, nil, http.StatusOK)
	if inds := out["industries"].([]any); len(inds) != 1 || inds[0] != "Software" {
		t.Fatalf("filters = %v", out)
	}
}

func TestPermissionsAndEvents(t *testing.T) {
	a := newApp(t)
	org, orgID := a.signup("org")
	guest, _ := a.signup("guest")
	ctx := context.Background()

	start := time.Now().UTC().Add(24 * time.Hour)
	ev := map[string]any{"title": "Reunion", "start_time": start, "end_time": start.Add(2 * time.Hour), "capacity": 1}
	a.expect(http.MethodPost, "/api/events", org, ev, http.StatusForbidden)

	if err := a.svcs.Roles.Assign(ctx, orgID, model.RoleAdmin); err != nil {
		t.Fatal(err)
	}
	out := a.expect(http.MethodGet, "/api/auth/me/permissions", org, nil, http.StatusOK)
	if out["is_super_admin"].(bool) {
		t.Fatal("admin reported as super admin")
	}
	out = a.expect(http.MethodPost, "/api/events", org, ev, http.StatusOK)
	id := uint64(out["id"].(float64))
	path := "/api/events/" + itoa(id)

	a.expect(http.MethodPost, path+"/rsvp", guest, map[string]string{"status": "going"}, http.StatusBadRequest)
	out = a.expect(http.MethodPost, path+"/rsvp", guest, map[string]string{"status": "attending"}, http.StatusOK)
	if out["attendee_count"].(float64) != 1 {
		t.Fatalf("rsvp = %v", out)
	}
	a.expect(http.MethodPost, path+"/rsvp", org, map[string]string{"status": "attending"}, http.StatusConflict)
	out = a.expect(http.MethodGet, path+"/attendees", org, nil, http.StatusOK)
	if out["count"].(float64) != 1 {
		t.Fatalf("attendees = %v", out)
	}
	out = a.expect(http.MethodGet, path, guest, nil, http.StatusOK)
	if out["my_rsvp"] != "attending" {
		t.Fatalf("my_rsvp = %v", out["my_rsvp"])
	}
	a.expect(http.MethodGet, "/api/events/999", guest, nil, http.StatusNotFound)

	out = a.expect(http.MethodGet, "/api/notifications/unread-count", org, nil, http.StatusOK)
	if out["count"].(float64) != 1 {
		t.Fatalf("organizer unread = %v", out)
	}

	a.expect(http.MethodGet, "/api/admin/analytics", guest, nil, http.StatusForbidden)
	out = a.expect(http.MethodGet, "/api/admin/analytics", org, nil, http.StatusOK)
	if out["totals"].(map[string]any)["events"].(float64) != 1 {
		t.Fatalf("analytics = %v", out["totals"])
	}
	a.expect(http.MethodGet, "/api/admin/roles", org, nil, http.StatusForbidden)
}

func TestMentorshipRoutes(t *testing.T) {
	a := newApp(t)
	mentor, mentorID := a.signup("mentor")
	mentee, _ := a.signup("mentee")

	a.expect(http.MethodPut, "/api/mentorship/mentor", mentor, map[string]any{
		"industry": "Software", "topics": []string{"go"}, "years_experience": 12, "max_mentees": 1, "accepting": true,
	}, http.StatusOK)
	out := a.expect(http.MethodPost, "/api/mentorship/matches", mentee, map[string]any{"industry": "software", "topics": []string{"go"}}, http.StatusOK)
	list := out["list"].([]any)
	if len(list) != 1 || list[0].(map[string]any)["score"].(float64) != 75 {
		t.Fatalf("matches = %v", out)
	}

	out = a.expect(http.MethodPost, "/api/mentorship/requests", mentee, map[string]any{"mentor_id": mentorID}, http.StatusOK)
	relNum := uint64(out["id"].(float64))
	relID := itoa(relNum)
	a.expect(http.MethodPost, "/api/mentorship/requests", mentee, map[string]any{"mentor_id": mentorID}, http.StatusConflict)
	a.expect(http.MethodPost, "/api/mentorship/requests/"+relID+"/accept", mentee, nil, http.StatusForbidden)
	a.expect(http.MethodPost, "/api/mentorship/requests/"+relID+"/accept", mentor, nil, http.StatusOK)
	a.expect(http.MethodPost, "/api/mentorship/requests/"+relID+"/decline", mentor, nil, http.StatusConflict)

	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Minute)
	out = a.expect(http.MethodPost, "/api/mentorship/slots", mentor, map[string]any{"start_time": start, "end_time": start.Add(30 * time.Minute)}, http.StatusOK)
	slotID := uint64(out["id"].(float64))
	a.expect(http.MethodPost, "/api/mentorship/slots", mentor, map[string]any{"start_time": start.Add(10 * time.Minute), "end_time": start.Add(time.Hour)}, http.StatusConflict)

	out = a.expect(http.MethodPost, "/api/mentorship/meetings", mentee, map[string]any{"relationship_id": relNum, "slot_id": slotID}, http.StatusOK)
	meetingID := itoa(uint64(out["id"].(float64)))
	a.expect(http.MethodPost, "/api/mentorship/meetings", mentee, map[string]any{"relationship_id": relNum, "slot_id": slotID}, http.StatusConflict)
	a.expect(http.MethodDelete, "/api/mentorship/slots/"+itoa(slotID), mentor, nil, http.StatusConflict)

	a.expect(http.MethodPost, "/api/mentorship/meetings/"+meetingID+"/complete", mentee, nil, http.StatusForbidden)
	a.expect(http.MethodPost, "/api/mentorship/meetings/"+meetingID+"/cancel", mentee, nil, http.StatusOK)
	a.expect(http.MethodPost, "/api/mentorship/meetings/"+meetingID+"/complete", mentor, map[string]string{"notes": "x"}, http.StatusConflict)

	out = a.expect(http.MethodGet, "/api/mentorship/mentors/"+itoa(mentorID)+"/slots", mentee, nil, http.StatusOK)
	if len(out["list"].([]any)) != 1 {
		t.Fatalf("slot not released: %v", out)
	}
	a.expect(http.MethodPost, "/api/mentorship/relationships/"+relID+"/end", mentee, nil, http.StatusOK)
}

func itoa(n uint64) string { return strconv.FormatUint(n, 10) }
