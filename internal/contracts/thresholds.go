package contracts

// Thresholds holds every tunable used by the lifecycle engine. It is an
// immutable value passed into each component; the host supplies it once
// per run, there is no package-level default state.
type Thresholds struct {
	// OutOfStockRestartDays is the zero-inventory streak that arms an
	// inventory-driven cycle restart (default: 14).
	OutOfStockRestartDays int
	// InactivityRestartDays is the inactive-day streak for the fallback
	// restart detection when no inventory signal exists (default: 28).
	InactivityRestartDays int
	// RollingWindowDays is the trailing-mean window N (default: 7).
	RollingWindowDays int
	// LaunchDays is how long after the first effective sale a day can
	// still be classified as launch (default: 14).
	LaunchDays int
	// MatureRatio is the peak-relative sales_roll ratio at or above
	// which a day qualifies as mature (default: 0.85).
	MatureRatio float64
	// DeclineRatio is the peak-relative ratio at or below which a
	// negative-slope day is decline (default: 0.65).
	DeclineRatio float64
	// LowInventoryUnits flags low_inventory when stock is at or below
	// this count (default: 20).
	LowInventoryUnits float64
	// CompareWindowDays lists the N values for compare_Nd windows
	// (default: 7, 14, 30).
	CompareWindowDays []int
}

// DefaultThresholds returns the standard thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		OutOfStockRestartDays: 14,
		InactivityRestartDays: 28,
		RollingWindowDays:     7,
		LaunchDays:            14,
		MatureRatio:           0.85,
		DeclineRatio:          0.65,
		LowInventoryUnits:     20,
		CompareWindowDays:     []int{7, 14, 30},
	}
}
