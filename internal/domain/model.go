package domain

import "time"

// PricingModel names the rule set used to derive a work item's budget.
type PricingModel string

const (
	PricingFixed       PricingModel = "fixed"
	PricingShift       PricingModel = "shift"
	PricingMeasurement PricingModel = "measurement"
	PricingTaskMenu    PricingModel = "task_menu"
)

// Work is a posted job, the unit of lifecycle tracking. Budget is in minor
// currency units. Latitude/Longitude are nil when the employer supplied only
// a free-text address.
type Work struct {
	ID             string       `json:"id"`
	EmployerID     string       `json:"employer_id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Category       string       `json:"category"`
	PricingModel   PricingModel `json:"pricing_model"`
	Budget         int64        `json:"budget"`
	BudgetLabel    string       `json:"budget_label,omitempty"`
	BiddingAllowed bool         `json:"bidding_allowed"`
	Status         WorkStatus   `json:"status"`
	Latitude       *float64     `json:"latitude,omitempty"`
	Longitude      *float64     `json:"longitude,omitempty"`
	Address        string       `json:"address,omitempty"`
	ImageURL       string       `json:"image_url,omitempty"`
	AudioURL       string       `json:"audio_url,omitempty"`
	AssignedWorker string       `json:"assigned_worker_id,omitempty"`
	AcceptedAt     *time.Time   `json:"accepted_at,omitempty"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Bid is a worker's offer against a work item that accepts competitive
// pricing. Amount is in minor currency units.
type Bid struct {
	ID        string    `json:"id"`
	WorkID    string    `json:"work_id"`
	WorkerID  string    `json:"worker_id"`
	Amount    int64     `json:"amount"`
	Comment   string    `json:"comment,omitempty"`
	Status    BidStatus `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocationSample is the last known position of one worker. A single sample
// per worker is retained; each ingest overwrites the previous one.
type LocationSample struct {
	WorkerID   string    `json:"worker_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recorded_at"`
}

// StatusLogEntry is one row of the append-only work status history.
type StatusLogEntry struct {
	WorkID    string     `json:"work_id"`
	Status    WorkStatus `json:"status"`
	ChangedBy string     `json:"changed_by"`
	Reason    string     `json:"reason,omitempty"`
	ChangedAt time.Time  `json:"changed_at"`
}
