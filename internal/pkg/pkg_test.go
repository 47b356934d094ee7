package pkg

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"Alumni_Network/internal/config"
)

func testIssuer() *TokenIssuer {
	return NewTokenIssuer(config.JWTConfig{
		AccessSecret:  "a-secret",
		RefreshSecret: "r-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
}

func TestTokenPairRoundTrip(t *testing.T) {
	iss := testIssuer()
	pair, err := iss.GeneratePair(42)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := iss.ParseAccess(pair.AccessToken)
	if err != nil || claims.UserID != 42 {
		t.Fatalf("access: %+v %v", claims, err)
	}
	claims, err = iss.ParseRefresh(pair.RefreshToken)
	if err != nil || claims.UserID != 42 {
		t.Fatalf("refresh: %+v %v", claims, err)
	}
	if pair.RefreshID == "" || claims.ID != pair.RefreshID {
		t.Fatalf("refresh jti %q, pair says %q", claims.ID, pair.RefreshID)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	iss := testIssuer()
	pair, _ := iss.GeneratePair(1)
	if _, err := iss.ParseAccess(pair.RefreshToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("refresh used as access: %v", err)
	}
	if _, err := iss.ParseRefresh(pair.AccessToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("access used as refresh: %v", err)
	}
}

func TestExpiredAccess(t *testing.T) {
	iss := testIssuer()
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }
	pair, _ := iss.GeneratePair(1)
	if _, err := iss.ParseAccess(pair.AccessToken); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired, got %v", err)
	}
	if _, err := iss.ParseRefresh(pair.RefreshToken); err != nil {
		t.Fatalf("refresh still valid: %v", err)
	}
}

func TestRandDigits(t *testing.T) {
	s, err := RandDigits(6)
	if err != nil {
		t.Fatal(err)
	}
	if len(s) != 6 || strings.Trim(s, "0123456789") != "" {
		t.Fatalf("got %q", s)
	}
}

func TestNotificationHTMLEscapes(t *testing.T) {
	got := NotificationHTML("<b>x</b>", "hi & bye", "")
	if strings.Contains(got, "<b>x</b>") || !strings.Contains(got, "hi &amp; bye") {
		t.Fatalf("not escaped: %s", got)
	}
	if strings.Contains(got, "href") {
		t.Fatal("empty link rendered")
	}
}

func TestLogSender(t *testing.T) {
	s := &LogSender{Log: zap.NewNop()}
	if err := s.Send(context.Background(), MakeKeyFromID(9), []byte("{}")); err != nil {
		t.Fatal(err)
	}
	if MakeKeyFromID(9) != "9" {
		t.Fatal("key")
	}
}
