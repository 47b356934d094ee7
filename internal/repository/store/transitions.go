package store

import "Alumni_Network/internal/model"

// meetingTransitions maps an action to the statuses it may start from.
var meetingTransitions = map[string][]string{
	"complete": {model.MeetingScheduled},
	"cancel":   {model.MeetingScheduled},
}

var relationshipTransitions = map[string][]string{
	"accept":  {model.MentorshipPending},
	"decline": {model.MentorshipPending},
	"end":     {model.MentorshipActive},
}

func ValidMeetingTransition(action, fromStatus string) bool {
	return valid(meetingTransitions, action, fromStatus)
}

func ValidRelationshipTransition(action, fromStatus string) bool {
	return valid(relationshipTransitions, action, fromStatus)
}

func valid(m map[string][]string, action, fromStatus string) bool {
	allowed, ok := m[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == fromStatus {
			return true
		}
	}
	return false
}
