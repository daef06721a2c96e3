// Package board extracts the current-state snapshot of one product:
// its latest day plus a summary of the most recent phase transition.
package board

import (
	"fmt"

	"github.com/wonny/sellerpulse/internal/contracts"
)

// recentChangeDays bounds how old a phase transition can be and still
// count as "recent" on the board.
const recentChangeDays = 14

// Snapshotter builds BoardRows.
type Snapshotter struct{}

// NewSnapshotter creates a board snapshotter.
func NewSnapshotter() *Snapshotter {
	return &Snapshotter{}
}

// Snapshot returns the board row for one product, or nil when the
// frame is empty. segs must be the product's compressed segments in
// date order.
func (s *Snapshotter) Snapshot(days []contracts.DailyRecord, segs []contracts.Segment) *contracts.BoardRow {
	if len(days) == 0 {
		return nil
	}

	latest := days[len(days)-1]
	row := &contracts.BoardRow{Latest: latest}

	// Segments of the current (latest) cycle only.
	var cycleSegs []contracts.Segment
	for _, seg := range segs {
		if seg.CycleID == latest.CycleID {
			cycleSegs = append(cycleSegs, seg)
		}
	}
	if len(cycleSegs) < 2 {
		return row
	}

	current := cycleSegs[len(cycleSegs)-1]
	prev := cycleSegs[len(cycleSegs)-2]

	daysAgo := int(latest.Date.Sub(current.DateStart).Hours() / 24)
	row.PrevPhase = prev.Phase
	row.PhaseChange = fmt.Sprintf("%s→%s", prev.Phase, current.Phase)
	row.PhaseChangeDaysAgo = &daysAgo
	row.PhaseChangedRecent14D = daysAgo <= recentChangeDays && prev.Phase != current.Phase

	if row.PhaseChangedRecent14D {
		row.PhaseTrend14D = trend(prev.Phase, current.Phase)
	}
	return row
}

// trend compares two phases on the maturity rank scale.
func trend(from, to contracts.Phase) contracts.TrendDirection {
	fromRank, ok1 := from.Rank()
	toRank, ok2 := to.Rank()
	if !ok1 || !ok2 {
		return contracts.TrendUnknown
	}
	switch {
	case toRank > fromRank:
		return contracts.TrendUp
	case toRank < fromRank:
		return contracts.TrendDown
	default:
		return contracts.TrendFlat
	}
}
