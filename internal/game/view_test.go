package game

import "testing"

func TestDeriveView(t *testing.T) {
	cases := []struct {
		name string
		snap Snapshot
		want View
	}{
		{"fresh session", Snapshot{TimeLeft: RoundSeconds}, ViewEntry},
		{"unsubmitted but running", Snapshot{Running: true, TimeLeft: 12}, ViewEntry},
		{"before first round", Snapshot{Submitted: true, TimeLeft: RoundSeconds}, ViewIdle},
		{"round running", Snapshot{Submitted: true, Running: true, TimeLeft: 17}, ViewRunning},
		{"round just started", Snapshot{Submitted: true, Running: true, TimeLeft: RoundSeconds}, ViewRunning},
		{"countdown hit zero", Snapshot{Submitted: true, TimeLeft: 0, Score: 9}, ViewGameOver},
	}
	for _, tc := range cases {
		if got := DeriveView(tc.snap); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}
