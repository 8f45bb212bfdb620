package model

import (
	"fmt"
	"slices"
	"stays/shared/failure"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var transitions = map[Status][]Status{
	StatusDraft:     {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// ActiveStatuses are the statuses that hold a room's dates.
func ActiveStatuses() []string {
	return []string{string(StatusDraft), string(StatusConfirmed)}
}

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

func (s Status) IsActive() bool {
	return s == StatusDraft || s == StatusConfirmed
}

func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(transitions[s], next)
}

// Transition validates moving from s to next and returns a Conflict failure when the move is illegal.
func (s Status) Transition(next Status) error {
	if s.IsTerminal() {
		return failure.Conflict(fmt.Sprintf("booking with status %s cannot be transitioned", s)) // nolint:wrapcheck
	}

	if !s.CanTransitionTo(next) {
		return failure.Conflict(fmt.Sprintf("booking cannot transition from %s to %s", s, next)) // nolint:wrapcheck
	}

	return nil
}
