package printrequests

import (
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusQuoted   Status = "quoted"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// transitions: pending -> quoted -> accepted|declined. A customer may also
// decline while still pending (withdrawn before the quote lands).
var transitions = map[Status][]Status{
	StatusPending: {StatusQuoted, StatusDeclined},
	StatusQuoted:  {StatusAccepted, StatusDeclined},
}

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusQuoted, StatusAccepted, StatusDeclined:
		return true
	}
	return false
}

// CanTransition reports whether moving from one status to another is
// allowed. Terminal states (accepted, declined) have no exits.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PrintRequest is a custom print job submitted by a customer: artwork plus
// quantity, quoted by an admin before production.
type PrintRequest struct {
	ID           int64      `json:"id"`
	Reference    string     `json:"reference"`
	CustomerName string     `json:"customer_name"`
	Email        string     `json:"email"`
	Description  string     `json:"description"`
	ArtworkURL   *string    `json:"artwork_url,omitempty"`
	Quantity     int        `json:"quantity"`
	Status       Status     `json:"status"`
	QuoteCents   *int64     `json:"quote_cents,omitempty"`
	QuotedAt     *time.Time `json:"quoted_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ApplyQuote attaches a price to a pending request and moves it to quoted.
func (p *PrintRequest) ApplyQuote(amountCents int64) error {
	if amountCents <= 0 {
		return fmt.Errorf("quote must be positive, got %d", amountCents)
	}
	if p.Status != StatusPending {
		return fmt.Errorf("%w: cannot quote a %s request", ErrInvalidTransition, p.Status)
	}
	now := time.Now()
	p.QuoteCents = &amountCents
	p.QuotedAt = &now
	p.Status = StatusQuoted
	return nil
}

// Transition moves the request to a new status, enforcing the state machine.
func (p *PrintRequest) Transition(to Status) error {
	if !ValidStatus(to) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if !CanTransition(p.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, to)
	}
	p.Status = to
	return nil
}
