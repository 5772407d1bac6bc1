package domain

import "time"

// Event types published on the work_events topic exchange. Routing key is
// the event type itself, e.g. "work.accepted".
const (
	EventWorkCreated    = "work.created"
	EventWorkAccepted   = "work.accepted"
	EventWorkInProgress = "work.in_progress"
	EventWorkCompleted  = "work.completed"
	EventWorkCancelled  = "work.cancelled"
	EventWorkExpired    = "work.expired"
	EventWorkerArrived  = "worker.arrived"
)

// WorkEvent is the message body for every lifecycle event. WorkerID is empty
// for events with no worker attached (e.g. work.created).
type WorkEvent struct {
	Type       string    `json:"type"`
	WorkID     string    `json:"work_id"`
	EmployerID string    `json:"employer_id"`
	WorkerID   string    `json:"worker_id,omitempty"`
	Title      string    `json:"title,omitempty"`
	Budget     int64     `json:"budget,omitempty"`
	OldStatus  string    `json:"old_status,omitempty"`
	NewStatus  string    `json:"new_status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
