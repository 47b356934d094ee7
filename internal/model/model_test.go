package model

import (
	"reflect"
	"testing"
)

func TestSplitList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{" , ,", nil},
		{"Go, Leadership ,go", []string{"go", "leadership"}},
		{"career-change", []string{"career-change"}},
	}
	for _, c := range cases {
		if got := SplitList(c.in); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("SplitList(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestJoinList(t *testing.T) {
	got := JoinList([]string{"Go", " go", "Startups", ""})
	if got != "go,startups" {
		t.Fatalf("JoinList = %q", got)
	}
}

func TestProfileURL(t *testing.T) {
	var p Profile
	if p.URL() != "" {
		t.Fatalf("expected empty url")
	}
	u := "jane-doe"
	p.ProfileURL = &u
	if p.URL() != "jane-doe" {
		t.Fatalf("unexpected url %q", p.URL())
	}
}
