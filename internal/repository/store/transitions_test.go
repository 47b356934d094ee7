package store

import "testing"

func TestValidMeetingTransition(t *testing.T) {
	cases := []struct {
		action string
		from   string
		valid  bool
	}{
		{"complete", "scheduled", true},
		{"complete", "cancelled", false},
		{"complete", "completed", false},
		{"cancel", "scheduled", true},
		{"cancel", "completed", false},
		{"cancel", "cancelled", false},
		{"reschedule", "scheduled", false},
	}
	for _, tt := range cases {
		if got := ValidMeetingTransition(tt.action, tt.from); got != tt.valid {
			t.Fatalf("ValidMeetingTransition(%q, %q)=%v, want %v", tt.action, tt.from, got, tt.valid)
		}
	}
}

func TestValidRelationshipTransition(t *testing.T) {
	cases := []struct {
		action string
		from   string
		valid  bool
	}{
		{"accept", "pending", true},
		{"accept", "active", false},
		{"decline", "pending", true},
		{"decline", "declined", false},
		{"end", "active", true},
		{"end", "pending", false},
		{"unknown", "pending", false},
	}
	for _, tt := range cases {
		if got := ValidRelationshipTransition(tt.action, tt.from); got != tt.valid {
			t.Fatalf("ValidRelationshipTransition(%q, %q)=%v, want %v", tt.action, tt.from, got, tt.valid)
		}
	}
}
