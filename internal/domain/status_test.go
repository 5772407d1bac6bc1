package domain_test

import (
	"testing"

	"labourline/internal/domain"
)

func TestParseWorkStatus_ValidValues(t *testing.T) {
	valid := []string{"OPEN", "ACCEPTED", "IN_PROGRESS", "COMPLETED", "CANCELLED"}
	for _, s := range valid {
		got, err := domain.ParseWorkStatus(s)
		if err != nil {
			t.Errorf("ParseWorkStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseWorkStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseWorkStatus_InvalidValue(t *testing.T) {
	for _, s := range []string{"", "open", "DONE"} {
		if _, err := domain.ParseWorkStatus(s); err == nil {
			t.Errorf("ParseWorkStatus(%q) expected error, got nil", s)
		}
	}
}

func TestIsTransitionAllowed_ValidForward(t *testing.T) {
	cases := []struct {
		from domain.WorkStatus
		to   domain.WorkStatus
	}{
		{domain.StatusOpen, domain.StatusAccepted},
		{domain.StatusAccepted, domain.StatusInProgress},
		{domain.StatusAccepted, domain.StatusCompleted},
		{domain.StatusInProgress, domain.StatusCompleted},
	}
	for _, c := range cases {
		if !domain.IsTransitionAllowed(c.from, c.to) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be true", c.from, c.to)
		}
	}
}

func TestIsTransitionAllowed_Cancellation(t *testing.T) {
	// Cancellation is only reachable from OPEN and ACCEPTED.
	if !domain.IsTransitionAllowed(domain.StatusOpen, domain.StatusCancelled) {
		t.Error("IsTransitionAllowed(OPEN → CANCELLED) should be true")
	}
	if !domain.IsTransitionAllowed(domain.StatusAccepted, domain.StatusCancelled) {
		t.Error("IsTransitionAllowed(ACCEPTED → CANCELLED) should be true")
	}
	if domain.IsTransitionAllowed(domain.StatusInProgress, domain.StatusCancelled) {
		t.Error("IsTransitionAllowed(IN_PROGRESS → CANCELLED) should be false")
	}
}

func TestIsTransitionAllowed_FromTerminal(t *testing.T) {
	terminals := []domain.WorkStatus{domain.StatusCompleted, domain.StatusCancelled}
	targets := []domain.WorkStatus{
		domain.StatusOpen, domain.StatusAccepted, domain.StatusInProgress,
		domain.StatusCompleted, domain.StatusCancelled,
	}
	for _, from := range terminals {
		for _, to := range targets {
			if domain.IsTransitionAllowed(from, to) {
				t.Errorf("IsTransitionAllowed(%s → %s) should be false (terminal state)", from, to)
			}
		}
	}
}

func TestIsTransitionAllowed_SkipAndBackwards(t *testing.T) {
	cases := []struct {
		from domain.WorkStatus
		to   domain.WorkStatus
	}{
		{domain.StatusOpen, domain.StatusInProgress}, // skip ACCEPTED
		{domain.StatusOpen, domain.StatusCompleted},  // skip two
		{domain.StatusAccepted, domain.StatusOpen},   // backwards
		{domain.StatusInProgress, domain.StatusAccepted},
		{domain.StatusCompleted, domain.StatusInProgress},
	}
	for _, c := range cases {
		if domain.IsTransitionAllowed(c.from, c.to) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be false", c.from, c.to)
		}
	}
}

func TestIsTransitionAllowed_Self(t *testing.T) {
	all := []domain.WorkStatus{
		domain.StatusOpen, domain.StatusAccepted, domain.StatusInProgress,
		domain.StatusCompleted, domain.StatusCancelled,
	}
	for _, s := range all {
		if domain.IsTransitionAllowed(s, s) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be false (self)", s, s)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	if !domain.IsTerminal(domain.StatusCompleted) || !domain.IsTerminal(domain.StatusCancelled) {
		t.Error("COMPLETED and CANCELLED should be terminal")
	}
	for _, s := range []domain.WorkStatus{domain.StatusOpen, domain.StatusAccepted, domain.StatusInProgress} {
		if domain.IsTerminal(s) {
			t.Errorf("IsTerminal(%s) should be false", s)
		}
	}
}
