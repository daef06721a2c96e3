package cycles

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sellerpulse/internal/contracts"
)

// series builds a frame from parallel inventory and active values;
// pass inventory < 0 to leave the inventory signal unset for a day.
func series(inventory []float64, active []bool) []contracts.DailyRecord {
	n := len(inventory)
	if len(active) > n {
		n = len(active)
	}
	days := make([]contracts.DailyRecord, n)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range days {
		days[i].ASIN = "B00TEST01"
		days[i].Date = start.AddDate(0, 0, i)
		if i < len(inventory) && inventory[i] > 0 {
			days[i].Inventory = inventory[i]
		}
		if i < len(active) {
			days[i].Active = active[i]
		}
	}
	return days
}

func cycleIDs(days []contracts.DailyRecord) []int {
	out := make([]int, len(days))
	for i, d := range days {
		out[i] = d.CycleID
	}
	return out
}

func newSegmenter() *Segmenter {
	return NewSegmenter(contracts.DefaultThresholds(), zerolog.Nop())
}

func TestSegmenter_ShortStockoutKeepsCycle(t *testing.T) {
	// Scenario: inventory drops to 0 for 10 days (< 14) then recovers.
	inv := []float64{50, 50}
	for i := 0; i < 10; i++ {
		inv = append(inv, 0)
	}
	inv = append(inv, 40, 40)

	days := series(inv, nil)
	newSegmenter().Assign(days)

	for _, id := range cycleIDs(days) {
		assert.Equal(t, 0, id, "cycle must not restart on a short stockout")
	}
}

func TestSegmenter_LongStockoutRestartsCycle(t *testing.T) {
	// Scenario: 20 zero-inventory days (>= 14) then a restock.
	inv := []float64{50}
	for i := 0; i < 20; i++ {
		inv = append(inv, 0)
	}
	inv = append(inv, 60, 60)

	days := series(inv, nil)
	newSegmenter().Assign(days)

	ids := cycleIDs(days)
	assert.Equal(t, 0, ids[0])
	assert.Equal(t, 0, ids[20], "streak days stay in the old cycle")
	assert.Equal(t, 1, ids[21], "cycle increments at the recovery day")
	assert.Equal(t, 1, ids[22])
}

func TestSegmenter_LeadingZeroInventoryNeverRestarts(t *testing.T) {
	// 30 days with no stock before the first restock: no previous cycle
	// exists, so nothing restarts.
	inv := make([]float64, 30)
	inv = append(inv, 50)

	days := series(inv, nil)
	newSegmenter().Assign(days)

	for _, id := range cycleIDs(days) {
		assert.Equal(t, 0, id)
	}
}

func TestSegmenter_InactivityFallback(t *testing.T) {
	// No inventory signal at all: inactivity threshold (28) drives it.
	active := []bool{true}
	for i := 0; i < 28; i++ {
		active = append(active, false)
	}
	active = append(active, true, true)

	days := series(nil, active)
	newSegmenter().Assign(days)

	ids := cycleIDs(days)
	assert.Equal(t, 0, ids[0])
	assert.Equal(t, 0, ids[28])
	assert.Equal(t, 1, ids[29], "fallback restart at the first active day after the gap")
	assert.Equal(t, 1, ids[30])
}

func TestSegmenter_InactivityGapBelowThreshold(t *testing.T) {
	active := []bool{true}
	for i := 0; i < 27; i++ {
		active = append(active, false)
	}
	active = append(active, true)

	days := series(nil, active)
	newSegmenter().Assign(days)

	for _, id := range cycleIDs(days) {
		assert.Equal(t, 0, id)
	}
}

func TestSegmenter_InventorySignalDisablesInactivityPath(t *testing.T) {
	// A long inactive stretch would trigger the fallback, but a single
	// observed inventory day forces the inventory-driven path, which
	// sees no qualifying stockout streak followed by a restock.
	n := 40
	inv := make([]float64, n)
	inv[0] = 10
	active := make([]bool, n)
	active[0] = true

	days := series(inv, active)
	newSegmenter().Assign(days)

	for _, id := range cycleIDs(days) {
		assert.Equal(t, 0, id, "inventory precedence must suppress inactivity restarts")
	}
}

func TestSegmenter_CycleIDNonDecreasing(t *testing.T) {
	inv := []float64{10}
	for i := 0; i < 15; i++ {
		inv = append(inv, 0)
	}
	inv = append(inv, 20)
	for i := 0; i < 16; i++ {
		inv = append(inv, 0)
	}
	inv = append(inv, 30, 30)

	days := series(inv, nil)
	newSegmenter().Assign(days)

	ids := cycleIDs(days)
	for i := 1; i < len(ids); i++ {
		require.GreaterOrEqual(t, ids[i], ids[i-1], "cycle_id must be non-decreasing")
	}
	assert.Equal(t, 2, ids[len(ids)-1], "two qualifying restarts")
}

func TestSegmenter_Empty(t *testing.T) {
	newSegmenter().Assign(nil)
}
