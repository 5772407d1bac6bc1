package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labourline/internal/domain"
	"labourline/internal/pricing"
)

func shiftSpec() pricing.Spec {
	return pricing.Spec{
		Model: domain.PricingShift,
		Shift: &pricing.ShiftSpec{FullDayRate: 900, HalfDayRate: 500},
	}
}

func measurementSpec() pricing.Spec {
	return pricing.Spec{
		Model:       domain.PricingMeasurement,
		Measurement: &pricing.MeasurementSpec{BaseRate: 35, MinJobValue: 500, Unit: "sq_ft"},
	}
}

func taskMenuSpec() pricing.Spec {
	return pricing.Spec{
		Model: domain.PricingTaskMenu,
		TaskMenu: &pricing.TaskMenuSpec{
			VisitCharge: 150,
			Tasks: []pricing.TaskRate{
				{ID: "tap_repair", Label: "Tap repair", Price: 200},
				{ID: "switch_repair", Label: "Switch repair", Price: 80},
			},
		},
	}
}

func TestCompute_Fixed(t *testing.T) {
	spec := pricing.Spec{Model: domain.PricingFixed}
	q, err := pricing.Compute(spec, pricing.Input{Model: domain.PricingFixed, Amount: 750})
	require.NoError(t, err)
	assert.Equal(t, int64(750), q.Amount)
	assert.Equal(t, pricing.LabelFixed, q.Label)
}

func TestCompute_FixedRejectsNonPositive(t *testing.T) {
	spec := pricing.Spec{Model: domain.PricingFixed}
	for _, amount := range []int64{0, -10} {
		_, err := pricing.Compute(spec, pricing.Input{Model: domain.PricingFixed, Amount: amount})
		assert.True(t, domain.IsValidation(err), "amount %d should fail validation", amount)
	}
}

func TestCompute_ShiftFullDay(t *testing.T) {
	q, err := pricing.Compute(shiftSpec(), pricing.Input{Model: domain.PricingShift, Shift: pricing.ShiftFullDay})
	require.NoError(t, err)
	assert.Equal(t, int64(900), q.Amount)
	assert.Equal(t, "8 Hours", q.Label)
}

func TestCompute_ShiftHalfDay(t *testing.T) {
	q, err := pricing.Compute(shiftSpec(), pricing.Input{Model: domain.PricingShift, Shift: pricing.ShiftHalfDay})
	require.NoError(t, err)
	assert.Equal(t, int64(500), q.Amount)
	assert.Equal(t, "4 Hours", q.Label)
}

func TestCompute_ShiftUnknownSelector(t *testing.T) {
	_, err := pricing.Compute(shiftSpec(), pricing.Input{Model: domain.PricingShift, Shift: "night"})
	assert.True(t, domain.IsValidation(err))
}

func TestCompute_MeasurementAppliesFloor(t *testing.T) {
	// 10 sq ft at 35 = 350, below the 500 floor.
	q, err := pricing.Compute(measurementSpec(), pricing.Input{Model: domain.PricingMeasurement, Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(500), q.Amount)
}

func TestCompute_MeasurementAboveFloor(t *testing.T) {
	q, err := pricing.Compute(measurementSpec(), pricing.Input{Model: domain.PricingMeasurement, Quantity: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(3500), q.Amount)
	assert.Equal(t, "Per sq_ft", q.Label)
}

func TestCompute_MeasurementFloorHoldsForTinyQuantities(t *testing.T) {
	q, err := pricing.Compute(measurementSpec(), pricing.Input{Model: domain.PricingMeasurement, Quantity: 0.01})
	require.NoError(t, err)
	assert.Equal(t, int64(500), q.Amount)
}

func TestCompute_MeasurementRejectsNonPositiveQuantity(t *testing.T) {
	for _, qty := range []float64{0, -5} {
		_, err := pricing.Compute(measurementSpec(), pricing.Input{Model: domain.PricingMeasurement, Quantity: qty})
		assert.True(t, domain.IsValidation(err), "quantity %v should fail validation", qty)
	}
}

func TestCompute_TaskMenu(t *testing.T) {
	// visitCharge 150 + tasks 200 + 80 = 430.
	q, err := pricing.Compute(taskMenuSpec(), pricing.Input{
		Model:   domain.PricingTaskMenu,
		TaskIDs: []string{"tap_repair", "switch_repair"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(430), q.Amount)
	assert.Equal(t, "Task Based", q.Label)
}

func TestCompute_TaskMenuDeselect(t *testing.T) {
	selected := []string{"tap_repair", "switch_repair"}
	selected = pricing.ToggleTask(selected, "switch_repair") // deselect the 80 item

	q, err := pricing.Compute(taskMenuSpec(), pricing.Input{Model: domain.PricingTaskMenu, TaskIDs: selected})
	require.NoError(t, err)
	assert.Equal(t, int64(350), q.Amount)
}

func TestCompute_TaskMenuIdempotent(t *testing.T) {
	input := pricing.Input{Model: domain.PricingTaskMenu, TaskIDs: []string{"tap_repair", "switch_repair"}}
	first, err := pricing.Compute(taskMenuSpec(), input)
	require.NoError(t, err)
	second, err := pricing.Compute(taskMenuSpec(), input)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompute_TaskMenuDuplicateSelectionCountsOnce(t *testing.T) {
	q, err := pricing.Compute(taskMenuSpec(), pricing.Input{
		Model:   domain.PricingTaskMenu,
		TaskIDs: []string{"tap_repair", "tap_repair"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(350), q.Amount)
}

func TestCompute_TaskMenuUnknownTask(t *testing.T) {
	_, err := pricing.Compute(taskMenuSpec(), pricing.Input{
		Model:   domain.PricingTaskMenu,
		TaskIDs: []string{"roof_repair"},
	})
	assert.True(t, domain.IsValidation(err))
}

func TestCompute_VisitChargeOnlyWhenNothingSelected(t *testing.T) {
	q, err := pricing.Compute(taskMenuSpec(), pricing.Input{Model: domain.PricingTaskMenu})
	require.NoError(t, err)
	assert.Equal(t, int64(150), q.Amount)
}

func TestCompute_VariantMismatch(t *testing.T) {
	_, err := pricing.Compute(shiftSpec(), pricing.Input{Model: domain.PricingMeasurement, Quantity: 10})
	assert.True(t, domain.IsValidation(err))

	_, err = pricing.Compute(measurementSpec(), pricing.Input{Model: domain.PricingFixed, Amount: 100})
	assert.True(t, domain.IsValidation(err))
}

func TestToggleTask_SetSemantics(t *testing.T) {
	s := pricing.ToggleTask(nil, "a")
	assert.Equal(t, []string{"a"}, s)

	s = pricing.ToggleTask(s, "b")
	assert.ElementsMatch(t, []string{"a", "b"}, s)

	s = pricing.ToggleTask(s, "a")
	assert.Equal(t, []string{"b"}, s)

	// Toggling twice restores the set.
	s = pricing.ToggleTask(pricing.ToggleTask(s, "c"), "c")
	assert.Equal(t, []string{"b"}, s)
}

func TestDefaultCatalog_KnownCategories(t *testing.T) {
	cat := pricing.DefaultCatalog()

	spec, ok := cat.SpecFor("mason")
	require.True(t, ok)
	assert.Equal(t, domain.PricingShift, spec.Model)

	spec, ok = cat.SpecFor("painter")
	require.True(t, ok)
	assert.Equal(t, domain.PricingMeasurement, spec.Model)

	spec, ok = cat.SpecFor("plumber")
	require.True(t, ok)
	assert.Equal(t, domain.PricingTaskMenu, spec.Model)

	_, ok = cat.SpecFor("astronaut")
	assert.False(t, ok)
}
