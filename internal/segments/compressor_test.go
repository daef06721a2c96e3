package segments

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sellerpulse/internal/contracts"
)

func frame(phases []contracts.Phase, cycles []int) []contracts.DailyRecord {
	days := make([]contracts.DailyRecord, len(phases))
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := range days {
		days[i].ShopID = "shop-1"
		days[i].ASIN = "B00TEST01"
		days[i].Date = start.AddDate(0, 0, i)
		days[i].Phase = phases[i]
		if cycles != nil {
			days[i].CycleID = cycles[i]
		}
	}
	return days
}

func TestCompressor_BreaksOnPhaseChange(t *testing.T) {
	c := NewCompressor(zerolog.Nop())

	days := frame([]contracts.Phase{
		contracts.PhaseLaunch, contracts.PhaseLaunch,
		contracts.PhaseGrowth, contracts.PhaseGrowth, contracts.PhaseGrowth,
		contracts.PhaseMature,
	}, nil)

	segs := c.Compress(days)
	require.Len(t, segs, 3)

	assert.Equal(t, contracts.PhaseLaunch, segs[0].Phase)
	assert.Equal(t, 2, segs[0].DayCount)
	assert.Equal(t, contracts.PhaseGrowth, segs[1].Phase)
	assert.Equal(t, 3, segs[1].DayCount)
	assert.Equal(t, contracts.PhaseMature, segs[2].Phase)
	assert.Equal(t, 1, segs[2].DayCount)

	// 1-based sequential ids.
	for i, s := range segs {
		assert.Equal(t, i+1, s.SegmentID)
	}
}

func TestCompressor_BreaksOnCycleChangeWithSamePhase(t *testing.T) {
	c := NewCompressor(zerolog.Nop())

	days := frame([]contracts.Phase{
		contracts.PhaseLaunch, contracts.PhaseLaunch, contracts.PhaseLaunch,
	}, []int{0, 0, 1})

	segs := c.Compress(days)
	require.Len(t, segs, 2)
	assert.Equal(t, 0, segs[0].CycleID)
	assert.Equal(t, 1, segs[1].CycleID)
}

func TestCompressor_SegmentsCoverFrameExactly(t *testing.T) {
	c := NewCompressor(zerolog.Nop())

	days := frame([]contracts.Phase{
		contracts.PhasePreLaunch, contracts.PhaseLaunch, contracts.PhaseLaunch,
		contracts.PhaseGrowth, contracts.PhaseInactive, contracts.PhaseGrowth,
	}, nil)

	segs := c.Compress(days)

	// Contiguity: each segment starts the day after the previous ends,
	// and day_count matches the date span.
	totalDays := 0
	for i, s := range segs {
		span := int(s.DateEnd.Sub(s.DateStart).Hours()/24) + 1
		require.Equal(t, s.DayCount, span, "segment %d span", i)
		totalDays += s.DayCount
		if i > 0 {
			require.Equal(t, segs[i-1].DateEnd.AddDate(0, 0, 1), s.DateStart, "segment %d contiguity", i)
		}
	}
	assert.Equal(t, len(days), totalDays)
	assert.Equal(t, days[0].Date, segs[0].DateStart)
	assert.Equal(t, days[len(days)-1].Date, segs[len(segs)-1].DateEnd)
}

func TestCompressor_AggregatesAndRatios(t *testing.T) {
	c := NewCompressor(zerolog.Nop())

	days := frame([]contracts.Phase{contracts.PhaseGrowth, contracts.PhaseGrowth, contracts.PhaseGrowth}, nil)
	days[0].Sales, days[0].Orders, days[0].Sessions, days[0].AdSpend, days[0].Profit = 100, 4, 0, 10, 20
	days[0].Inventory = 30
	days[1].Sales, days[1].Orders, days[1].Sessions, days[1].AdSpend, days[1].Profit = 0, 0, 50, 0, -5
	days[1].Inventory = 0
	days[1].OutOfStock = true
	days[1].OutOfStockWithTraffic = true
	days[2].Sales, days[2].Orders, days[2].Sessions, days[2].AdSpend, days[2].Profit = 60, 4, 30, 6, 10
	days[2].Inventory = 15
	days[2].LowInventory = true

	segs := c.Compress(days)
	require.Len(t, segs, 1)

	s := segs[0]
	assert.Equal(t, 160.0, s.Sales)
	assert.Equal(t, 8.0, s.Orders)
	assert.Equal(t, 80.0, s.Sessions)
	assert.Equal(t, 16.0, s.AdSpend)
	assert.Equal(t, 25.0, s.Profit)
	assert.Equal(t, 0.0, s.MinInventory)

	// Ratios from segment sums, not per-day averages: day 2 had zero
	// sales and day 1 zero sessions, neither poisons the result.
	assert.InDelta(t, 0.1, s.Tacos, 1e-9)
	assert.InDelta(t, 0.1, s.Cvr, 1e-9)

	assert.Equal(t, 1, s.OutOfStockDays)
	assert.Equal(t, 1, s.OutOfStockWithTrafficDays)
	assert.Equal(t, 1, s.LowInventoryDays)
}

func TestCompressor_Empty(t *testing.T) {
	c := NewCompressor(zerolog.Nop())
	assert.Nil(t, c.Compress(nil))
}
