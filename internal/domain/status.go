// Package domain holds the shared records and the work lifecycle state
// machine.
//
// Valid status graph:
//
//	OPEN ──► ACCEPTED ──► IN_PROGRESS ──► COMPLETED
//	  │          │
//	  └──────────┴──► CANCELLED
//
// COMPLETED and CANCELLED are terminal states.
package domain

import "fmt"

// WorkStatus values mirror the works.status column in PostgreSQL.
type WorkStatus string

const (
	StatusOpen       WorkStatus = "OPEN"
	StatusAccepted   WorkStatus = "ACCEPTED"
	StatusInProgress WorkStatus = "IN_PROGRESS"
	StatusCompleted  WorkStatus = "COMPLETED"
	StatusCancelled  WorkStatus = "CANCELLED"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[WorkStatus][]WorkStatus{
	StatusOpen:       {StatusAccepted, StatusCancelled},
	StatusAccepted:   {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted},
	// COMPLETED and CANCELLED are terminal — no outgoing transitions
}

// ParseWorkStatus converts a raw string to a WorkStatus, returning an error
// for unknown values.
func ParseWorkStatus(s string) (WorkStatus, error) {
	st := WorkStatus(s)
	switch st {
	case StatusOpen, StatusAccepted, StatusInProgress, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown work status %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted by the
// state machine.
func IsTransitionAllowed(from, to WorkStatus) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal state
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true for COMPLETED and CANCELLED.
func IsTerminal(s WorkStatus) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// BidStatus values mirror the bids.status column.
type BidStatus string

const (
	BidPending  BidStatus = "PENDING"
	BidAccepted BidStatus = "ACCEPTED"
	BidRejected BidStatus = "REJECTED"
)

// TrackingState is the lifecycle of the proximity tracker for one work item.
// ARRIVED latches: moving back out of the geofence does not revert it.
type TrackingState string

const (
	TrackingInactive TrackingState = "INACTIVE"
	TrackingActive   TrackingState = "ACTIVE"
	TrackingArrived  TrackingState = "ARRIVED"
	TrackingStopped  TrackingState = "STOPPED"
)
