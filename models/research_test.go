package models

import "testing"

func TestIsValidTrack(t *testing.T) {
	for _, track := range AllTracks {
		if !IsValidTrack(track) {
			t.Errorf("expected %q to be valid", track)
		}
	}
	for _, track := range []string{"", "robotics", "AI"} {
		if IsValidTrack(track) {
			t.Errorf("expected %q to be invalid", track)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := []string{StatusAccepted, StatusRejected, StatusWithdrawn}
	for _, status := range terminal {
		r := Research{Status: status}
		if !r.IsTerminal() {
			t.Errorf("expected %q to be terminal", status)
		}
	}
	for _, status := range []string{StatusSubmitted, StatusUnderEvaluation, StatusRevisionsSubmitted} {
		r := Research{Status: status}
		if r.IsTerminal() {
			t.Errorf("expected %q to be non-terminal", status)
		}
	}
}
