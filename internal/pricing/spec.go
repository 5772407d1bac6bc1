// Package pricing converts a job-category pricing specification plus user
// input into a single budget figure in minor currency units.
package pricing

import "labourline/internal/domain"

// ShiftKind selects one of the two shift rates.
type ShiftKind string

const (
	ShiftFullDay ShiftKind = "full_day"
	ShiftHalfDay ShiftKind = "half_day"
)

// Duration labels attached to quotes. Advisory metadata only, never used in
// downstream arithmetic.
const (
	LabelFixed     = "Fixed"
	LabelFullDay   = "8 Hours"
	LabelHalfDay   = "4 Hours"
	LabelTaskBased = "Task Based"
)

// ShiftSpec holds the two fixed day rates for shift-priced categories.
type ShiftSpec struct {
	FullDayRate int64 `json:"full_day_rate"`
	HalfDayRate int64 `json:"half_day_rate"`
}

// MeasurementSpec prices by quantity of a unit with a minimum job value
// floor.
type MeasurementSpec struct {
	BaseRate    int64  `json:"base_rate"`
	MinJobValue int64  `json:"min_job_value"`
	Unit        string `json:"unit"` // e.g. "sq_ft", "acre"
}

// TaskRate is one selectable (task, price) pair on a task menu.
type TaskRate struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Price int64  `json:"price"`
}

// TaskMenuSpec prices a visit charge plus the selected tasks.
type TaskMenuSpec struct {
	VisitCharge int64      `json:"visit_charge"`
	Tasks       []TaskRate `json:"tasks"`
}

// Spec is the per-category pricing rule set. Exactly the variant named by
// Model is consulted; the others must be nil. Fixed has no payload — the
// caller supplies the amount directly in the Input.
type Spec struct {
	Model       domain.PricingModel `json:"model"`
	Shift       *ShiftSpec          `json:"shift,omitempty"`
	Measurement *MeasurementSpec    `json:"measurement,omitempty"`
	TaskMenu    *TaskMenuSpec       `json:"task_menu,omitempty"`
}

// Validate checks that the spec carries exactly the payload its Model
// requires.
func (s Spec) Validate() error {
	switch s.Model {
	case domain.PricingFixed:
		if s.Shift != nil || s.Measurement != nil || s.TaskMenu != nil {
			return domain.Validationf("fixed pricing spec must carry no variant payload")
		}
	case domain.PricingShift:
		if s.Shift == nil {
			return domain.Validationf("shift pricing spec missing rates")
		}
		if s.Shift.FullDayRate <= 0 || s.Shift.HalfDayRate <= 0 {
			return domain.Validationf("shift rates must be positive")
		}
	case domain.PricingMeasurement:
		if s.Measurement == nil {
			return domain.Validationf("measurement pricing spec missing rates")
		}
		if s.Measurement.BaseRate <= 0 {
			return domain.Validationf("measurement base rate must be positive")
		}
	case domain.PricingTaskMenu:
		if s.TaskMenu == nil {
			return domain.Validationf("task menu pricing spec missing menu")
		}
	default:
		return domain.Validationf("unknown pricing model")
	}
	return nil
}

// Input carries only the fields relevant to the spec variant it targets.
type Input struct {
	Model    domain.PricingModel `json:"model"`
	Amount   int64               `json:"amount,omitempty"`   // fixed
	Shift    ShiftKind           `json:"shift,omitempty"`    // shift
	Quantity float64             `json:"quantity,omitempty"` // measurement
	TaskIDs  []string            `json:"task_ids,omitempty"` // task menu
}

// Quote is the computed budget plus its advisory duration/unit label.
type Quote struct {
	Amount int64  `json:"amount"`
	Label  string `json:"label"`
}

// ToggleTask returns the selected-task set with id added if absent or
// removed if present. Pure set semantics: the input slice is not modified
// and duplicates collapse.
func ToggleTask(selected []string, id string) []string {
	out := make([]string, 0, len(selected)+1)
	found := false
	seen := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if s == id {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, id)
	}
	return out
}
