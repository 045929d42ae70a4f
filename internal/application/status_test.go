package application

import "testing"

func TestParseMeetingStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value string
		want  MeetingStatus
		ok    bool
	}{
		{"Scheduled", StatusScheduled, true},
		{"scheduled", StatusScheduled, true},
		{"INPROGRESS", StatusInProgress, true},
		{"Completed", StatusCompleted, true},
		{"Cancelled", StatusCancelled, true},
		{"canceled", StatusCancelled, true},
		{"  completed  ", StatusCompleted, true},
		{"Postponed", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := ParseMeetingStatus(tc.value)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseMeetingStatus(%q) = %q, %v; want %q, %v", tc.value, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCanTransitionTo(t *testing.T) {
	t.Parallel()

	allowed := map[MeetingStatus][]MeetingStatus{
		StatusScheduled:  {StatusScheduled, StatusInProgress, StatusCancelled},
		StatusInProgress: {StatusInProgress, StatusCompleted, StatusCancelled},
		StatusCompleted:  {StatusCompleted},
		StatusCancelled:  {StatusCancelled},
	}
	all := []MeetingStatus{StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled}

	for from, targets := range allowed {
		permitted := make(map[MeetingStatus]bool, len(targets))
		for _, target := range targets {
			permitted[target] = true
		}
		for _, to := range all {
			if got := from.CanTransitionTo(to); got != permitted[to] {
				t.Errorf("%s.CanTransitionTo(%s) = %v, want %v", from, to, got, permitted[to])
			}
		}
	}
}
