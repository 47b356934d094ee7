package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"Alumni_Network/internal/pkg"
	"Alumni_Network/internal/repository/redis"
	"Alumni_Network/internal/service"
)

type fakeAuth map[string]uint64

func (f fakeAuth) Authenticate(_ context.Context, token string) (uint64, error) {
	switch token {
	case "expired":
		return 0, pkg.ErrTokenExpired
	case "replaced":
		return 0, redis.ErrTokenNotFound
	case "down":
		return 0, redis.ErrRedisUnavailable
	}
	if id, ok := f[token]; ok {
		return id, nil
	}
	return 0, pkg.ErrTokenInvalid
}

type fakeRoles map[uint64]*service.Permissions

func (f fakeRoles) ResolvePermissions(_ context.Context, userID uint64) (*service.Permissions, error) {
	if p, ok := f[userID]; ok {
		return p, nil
	}
	return &service.Permissions{}, nil
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := fakeAuth{"alice": 1, "bob": 2, "root": 3}
	roles := fakeRoles{
		1: {Permissions: []string{"events.manage"}},
		3: {IsSuperAdmin: true},
	}
	r := gin.New()
	r.GET("/private", AuthMiddleware(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint64(ContextUserIDKey)})
	})
	r.GET("/optional", OptionalAuth(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint64(ContextUserIDKey)})
	})
	r.GET("/events", AuthMiddleware(auth), RequirePermission(roles, "events.manage"), func(c *gin.Context) {
		if _, ok := c.Get(ContextPermissionsKey); !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.Status(http.StatusOK)
	})
	return r
}

func get(r *gin.Engine, path, auth string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newEngine()
	cases := []struct {
		header string
		want   int
	}{
		{"", http.StatusUnauthorized},
		{"Token alice", http.StatusUnauthorized},
		{"Bearer ", http.StatusUnauthorized},
		{"Bearer nope", http.StatusUnauthorized},
		{"Bearer expired", http.StatusUnauthorized},
		{"Bearer replaced", http.StatusUnauthorized},
		{"Bearer down", http.StatusInternalServerError},
		{"Bearer alice", http.StatusOK},
	}
	for _, tc := range cases {
		if w := get(r, "/private", tc.header); w.Code != tc.want {
			t.Errorf("%q: code %d, want %d", tc.header, w.Code, tc.want)
		}
	}
}

func TestOptionalAuth(t *testing.T) {
	r := newEngine()
	if w := get(r, "/optional", ""); w.Code != http.StatusOK || w.Body.String() != `{"user_id":0}` {
		t.Fatalf("anonymous: %d %s", w.Code, w.Body.String())
	}
	if w := get(r, "/optional", "Bearer expired"); w.Code != http.StatusOK || w.Body.String() != `{"user_id":0}` {
		t.Fatalf("bad token should fall back to anonymous: %d %s", w.Code, w.Body.String())
	}
	if w := get(r, "/optional", "Bearer bob"); w.Body.String() != `{"user_id":2}` {
		t.Fatalf("bob: %s", w.Body.String())
	}
}

func TestRequirePermission(t *testing.T) {
	r := newEngine()
	cases := map[string]int{
		"Bearer alice": http.StatusOK,
		"Bearer bob":   http.StatusForbidden,
		"Bearer root":  http.StatusOK,
		"":             http.StatusUnauthorized,
	}
	for header, want := range cases {
		if w := get(r, "/events", header); w.Code != want {
			t.Errorf("%q: code %d, want %d", header, w.Code, want)
		}
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)), Recovery(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	get(r, "/ok", "")
	if w := get(r, "/boom", ""); w.Code != http.StatusInternalServerError {
		t.Fatalf("panic code = %d", w.Code)
	}

	reqs := logs.FilterMessage("request").All()
	if len(reqs) != 2 {
		t.Fatalf("request lines = %d", len(reqs))
	}
	fields := reqs[0].ContextMap()
	if fields["path"] != "/ok" || fields["status"] != int64(http.StatusNoContent) || fields["method"] != http.MethodGet {
		t.Fatalf("fields = %v", fields)
	}
	if logs.FilterMessage("panic").Len() != 1 {
		t.Fatal("panic not logged")
	}
}
