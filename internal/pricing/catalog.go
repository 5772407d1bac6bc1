package pricing

import "labourline/internal/domain"

// Catalog maps category tags to their pricing rule set. Reference data:
// loaded once at startup and never mutated.
type Catalog map[string]Spec

// SpecFor returns the pricing spec for a category tag.
func (c Catalog) SpecFor(category string) (Spec, bool) {
	s, ok := c[category]
	return s, ok
}

// DefaultCatalog covers the stock job categories. Categories without an
// entry fall back to fixed pricing.
func DefaultCatalog() Catalog {
	shift := func(full, half int64) Spec {
		return Spec{Model: domain.PricingShift, Shift: &ShiftSpec{FullDayRate: full, HalfDayRate: half}}
	}
	measurement := func(rate, floor int64, unit string) Spec {
		return Spec{Model: domain.PricingMeasurement, Measurement: &MeasurementSpec{BaseRate: rate, MinJobValue: floor, Unit: unit}}
	}

	return Catalog{
		// Construction: day-wage labour.
		"mason":        shift(900, 500),
		"helper":       shift(600, 350),
		"painter":      measurement(35, 500, "sq_ft"),
		"tile_fitter":  measurement(45, 800, "sq_ft"),
		"pop_work":     measurement(60, 1000, "sq_ft"),
		"plumber":      taskMenuPlumber(),
		"electrician":  taskMenuElectrician(),
		"welder":       shift(1000, 600),
		"steel_binder": shift(850, 500),

		// Agriculture: area-priced field work.
		"sowing":     measurement(1200, 1200, "acre"),
		"harvesting": measurement(1500, 1500, "acre"),
		"spraying":   measurement(500, 500, "acre"),
		"weeding":    shift(500, 300),

		// Transport and factory: day wages.
		"loader":         shift(700, 400),
		"packer_mover":   shift(750, 450),
		"warehouse":      shift(650, 400),
		"factory_helper": shift(600, 350),

		// Domestic.
		"maid":     shift(500, 300),
		"cook":     shift(700, 400),
		"gardener": shift(550, 300),
	}
}

func taskMenuPlumber() Spec {
	return Spec{Model: domain.PricingTaskMenu, TaskMenu: &TaskMenuSpec{
		VisitCharge: 150,
		Tasks: []TaskRate{
			{ID: "tap_repair", Label: "Tap repair", Price: 200},
			{ID: "tap_install", Label: "New tap installation", Price: 250},
			{ID: "leak_fix", Label: "Pipe leak fix", Price: 300},
			{ID: "flush_repair", Label: "Flush tank repair", Price: 350},
			{ID: "drain_clean", Label: "Drain cleaning", Price: 400},
			{ID: "washbasin", Label: "Washbasin fitting", Price: 450},
		},
	}}
}

func taskMenuElectrician() Spec {
	return Spec{Model: domain.PricingTaskMenu, TaskMenu: &TaskMenuSpec{
		VisitCharge: 150,
		Tasks: []TaskRate{
			{ID: "switch_repair", Label: "Switch/socket repair", Price: 80},
			{ID: "fan_install", Label: "Fan installation", Price: 200},
			{ID: "light_fitting", Label: "Light fitting", Price: 120},
			{ID: "wiring_point", Label: "New wiring point", Price: 350},
			{ID: "mcb_repair", Label: "MCB/fuse repair", Price: 250},
			{ID: "inverter", Label: "Inverter connection", Price: 500},
		},
	}}
}
