package contracts

// TrendDirection describes where a recent phase change moved the
// product on the maturity scale.
type TrendDirection string

const (
	TrendUp      TrendDirection = "up"
	TrendDown    TrendDirection = "down"
	TrendFlat    TrendDirection = "flat"
	TrendUnknown TrendDirection = "unknown"
)

// BoardRow is the current-state snapshot for one product: the latest
// day's record plus a summary of the most recent phase transition
// within the current cycle.
type BoardRow struct {
	Latest DailyRecord `json:"latest"`

	// PrevPhase is the phase of the segment immediately before the
	// current one in the same cycle; empty when the current segment is
	// the cycle's first.
	PrevPhase Phase `json:"prev_phase,omitempty"`
	// PhaseChange is "prev→current", empty when there was no change.
	PhaseChange string `json:"phase_change,omitempty"`
	// PhaseChangeDaysAgo is the age of the current segment in days;
	// nil when no previous segment exists.
	PhaseChangeDaysAgo *int `json:"phase_change_days_ago,omitempty"`

	PhaseChangedRecent14D bool `json:"phase_changed_recent_14d"`
	// PhaseTrend14D is set if and only if PhaseChangedRecent14D is true.
	PhaseTrend14D TrendDirection `json:"phase_trend_14d,omitempty"`
}
