package engine

import (
	"fmt"
	"time"
)

// Status is the stored lifecycle state of an invoice. "overdue" is
// normally derived from pending + due date rather than stored.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// Editable reports whether line items may still be changed. Drafts only;
// once sent, an invoice is frozen.
func (s Status) Editable() bool {
	return s == StatusDraft
}

// EffectiveStatus is the single derivation used by every consumer
// (list views, dashboard, PDF, public page, mail). A pending invoice
// whose due date has passed is shown as overdue; draft, paid and
// cancelled are never reinterpreted.
func EffectiveStatus(stored Status, dueDate, today time.Time) Status {
	if stored != StatusPending {
		return stored
	}
	if truncateDay(dueDate).Before(truncateDay(today)) {
		return StatusOverdue
	}
	return StatusPending
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// InvalidTransitionError reports a disallowed status change. Callers
// surface it instead of silently skipping the operation.
type InvalidTransitionError struct {
	From   Status
	To     Status
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot transition invoice from %s to %s: %s", e.From, e.To, e.Reason)
	}
	return fmt.Sprintf("cannot transition invoice from %s to %s", e.From, e.To)
}

// Send checks draft → pending. An invoice needs at least one line item
// before it can go out.
func Send(current Status, lineItemCount int) error {
	if current != StatusDraft {
		return &InvalidTransitionError{From: current, To: StatusPending}
	}
	if lineItemCount == 0 {
		return &InvalidTransitionError{From: current, To: StatusPending, Reason: "invoice has no line items"}
	}
	return nil
}

// MarkPaid checks pending|overdue → paid. The derived overdue state is
// payable, so the check runs against the effective status.
func MarkPaid(current Status, dueDate, today time.Time) error {
	eff := EffectiveStatus(current, dueDate, today)
	if eff != StatusPending && eff != StatusOverdue {
		return &InvalidTransitionError{From: eff, To: StatusPaid}
	}
	return nil
}

// Cancel checks draft|pending → cancelled. Paid invoices cannot be
// cancelled; cancelling twice is also rejected.
func Cancel(current Status) error {
	switch current {
	case StatusDraft, StatusPending, StatusOverdue:
		return nil
	}
	return &InvalidTransitionError{From: current, To: StatusCancelled}
}
