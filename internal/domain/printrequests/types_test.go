package printrequests

import (
	"errors"
	"testing"
)

func TestApplyQuote(t *testing.T) {
	p := &PrintRequest{Status: StatusPending}
	if err := p.ApplyQuote(12500); err != nil {
		t.Fatalf("quote pending request: %v", err)
	}
	if p.Status != StatusQuoted {
		t.Fatalf("status = %s, want quoted", p.Status)
	}
	if p.QuoteCents == nil || *p.QuoteCents != 12500 {
		t.Fatal("quote amount not stored")
	}
	if p.QuotedAt == nil {
		t.Fatal("quoted_at not stamped")
	}

	// Re-quoting a quoted request is refused.
	if err := p.ApplyQuote(999); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
}

func TestApplyQuoteRejectsNonPositive(t *testing.T) {
	p := &PrintRequest{Status: StatusPending}
	if err := p.ApplyQuote(0); err == nil {
		t.Fatal("want error for zero quote")
	}
	if err := p.ApplyQuote(-5); err == nil {
		t.Fatal("want error for negative quote")
	}
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusQuoted, true},
		{StatusPending, StatusDeclined, true},
		{StatusPending, StatusAccepted, false},
		{StatusQuoted, StatusAccepted, true},
		{StatusQuoted, StatusDeclined, true},
		{StatusQuoted, StatusPending, false},
		{StatusAccepted, StatusDeclined, false},
		{StatusDeclined, StatusQuoted, false},
	}

	for _, tt := range tests {
		p := &PrintRequest{Status: tt.from}
		err := p.Transition(tt.to)
		if tt.ok && err != nil {
			t.Errorf("%s -> %s: unexpected error %v", tt.from, tt.to, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s -> %s: want ErrInvalidTransition, got %v", tt.from, tt.to, err)
		}
	}
}

func TestTransitionUnknownStatus(t *testing.T) {
	p := &PrintRequest{Status: StatusPending}
	if err := p.Transition(Status("shipped")); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
}
