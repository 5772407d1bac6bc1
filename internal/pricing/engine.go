package pricing

import (
	"fmt"
	"math"

	"labourline/internal/domain"
)

// Compute derives a budget quote from a category pricing spec and the
// caller's input. The input variant must match the spec variant; inputs not
// relevant to the selected variant are ignored, never summed in.
// Computation is deterministic and idempotent: the same spec and input
// always yield the same quote.
func Compute(spec Spec, input Input) (Quote, error) {
	if err := spec.Validate(); err != nil {
		return Quote{}, err
	}
	if input.Model != spec.Model {
		return Quote{}, domain.Validationf(fmt.Sprintf(
			"pricing input variant %q does not match spec variant %q", input.Model, spec.Model))
	}

	switch spec.Model {
	case domain.PricingFixed:
		return computeFixed(input)
	case domain.PricingShift:
		return computeShift(*spec.Shift, input)
	case domain.PricingMeasurement:
		return computeMeasurement(*spec.Measurement, input)
	case domain.PricingTaskMenu:
		return computeTaskMenu(*spec.TaskMenu, input)
	}
	return Quote{}, domain.Validationf("unknown pricing model")
}

func computeFixed(input Input) (Quote, error) {
	if input.Amount <= 0 {
		return Quote{}, domain.Validationf("fixed amount must be positive")
	}
	return Quote{Amount: input.Amount, Label: LabelFixed}, nil
}

func computeShift(spec ShiftSpec, input Input) (Quote, error) {
	switch input.Shift {
	case ShiftFullDay:
		return Quote{Amount: spec.FullDayRate, Label: LabelFullDay}, nil
	case ShiftHalfDay:
		return Quote{Amount: spec.HalfDayRate, Label: LabelHalfDay}, nil
	}
	return Quote{}, domain.Validationf(fmt.Sprintf("unknown shift %q", input.Shift))
}

func computeMeasurement(spec MeasurementSpec, input Input) (Quote, error) {
	if input.Quantity <= 0 || math.IsNaN(input.Quantity) || math.IsInf(input.Quantity, 0) {
		return Quote{}, domain.Validationf("quantity must be positive")
	}
	amount := int64(math.Round(input.Quantity * float64(spec.BaseRate)))
	// The floor applies no matter how small the computed product is.
	if amount < spec.MinJobValue {
		amount = spec.MinJobValue
	}
	return Quote{Amount: amount, Label: "Per " + spec.Unit}, nil
}

func computeTaskMenu(spec TaskMenuSpec, input Input) (Quote, error) {
	prices := make(map[string]int64, len(spec.Tasks))
	for _, t := range spec.Tasks {
		prices[t.ID] = t.Price
	}

	amount := spec.VisitCharge
	seen := make(map[string]struct{}, len(input.TaskIDs))
	for _, id := range input.TaskIDs {
		if _, dup := seen[id]; dup {
			continue // selection is a set
		}
		seen[id] = struct{}{}
		price, ok := prices[id]
		if !ok {
			return Quote{}, domain.Validationf(fmt.Sprintf("unknown task %q", id))
		}
		amount += price
	}
	return Quote{Amount: amount, Label: LabelTaskBased}, nil
}
