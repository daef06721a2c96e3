package engine

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sellerpulse/internal/contracts"
)

var start = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func newEngine() *Engine {
	return New(contracts.DefaultThresholds(), zerolog.Nop())
}

// launchSeries is scenario-shaped input: 20 days out of stock with
// traffic, then stock plus the first sale on day 21.
func launchSeries(asin string) []contracts.RawDailyRow {
	rows := make([]contracts.RawDailyRow, 0, 30)
	for i := 0; i < 30; i++ {
		row := contracts.RawDailyRow{
			ShopID: "shop-1",
			ASIN:   asin,
			Date:   start.AddDate(0, 0, i),
		}
		if i < 20 {
			row.Sessions = "25"
		} else {
			row.Inventory = "50"
			row.Sales = "120"
			row.Orders = "4"
			row.Sessions = "60"
		}
		rows = append(rows, row)
	}
	return rows
}

func TestEngine_ProcessEndToEnd(t *testing.T) {
	res := newEngine().Process(launchSeries("B00TEST01"))

	require.Len(t, res.Daily, 30)
	for i := 0; i < 20; i++ {
		assert.Equal(t, contracts.PhasePreLaunch, res.Daily[i].Phase, "day %d", i+1)
	}
	assert.Equal(t, contracts.PhaseLaunch, res.Daily[20].Phase)

	require.NotEmpty(t, res.Segments)
	assert.Equal(t, contracts.PhasePreLaunch, res.Segments[0].Phase)
	assert.Equal(t, 20, res.Segments[0].DayCount)

	require.NotNil(t, res.Board)
	assert.Equal(t, contracts.PhaseLaunch, res.Board.Latest.Phase)
	assert.Equal(t, contracts.PhasePreLaunch, res.Board.PrevPhase)
	assert.True(t, res.Board.PhaseChangedRecent14D)
	assert.Equal(t, contracts.TrendUp, res.Board.PhaseTrend14D)

	require.NotEmpty(t, res.Windows)
	for _, w := range res.Windows {
		if w.WindowType == contracts.WindowSinceFirstStockToDate {
			require.NotNil(t, w.DaysStockToFirstSale)
			assert.Equal(t, 0, *w.DaysStockToFirstSale)
		}
	}
}

func TestEngine_RestartProducesSecondCycle(t *testing.T) {
	// Healthy start, 20-day stockout, then recovery with a sale.
	rows := make([]contracts.RawDailyRow, 0, 30)
	for i := 0; i < 30; i++ {
		row := contracts.RawDailyRow{ShopID: "shop-1", ASIN: "B00CYCLE1", Date: start.AddDate(0, 0, i)}
		switch {
		case i < 5:
			row.Inventory = "40"
			row.Sales = "50"
			row.Orders = "2"
			row.Sessions = "30"
		case i < 25:
			// stockout gap
		default:
			row.Inventory = "60"
			row.Sales = "70"
			row.Orders = "3"
			row.Sessions = "35"
		}
		rows = append(rows, row)
	}

	res := newEngine().Process(rows)

	assert.Equal(t, 0, res.Daily[0].CycleID)
	assert.Equal(t, 0, res.Daily[24].CycleID)
	assert.Equal(t, 1, res.Daily[25].CycleID, "restart at the recovery day")
	assert.Equal(t, contracts.PhaseLaunch, res.Daily[25].Phase, "new cycle starts its own launch clock")

	for _, w := range res.Windows {
		assert.Equal(t, 1, w.CycleID, "windows cover the current cycle only")
	}
}

func TestEngine_Idempotence(t *testing.T) {
	rows := launchSeries("B00TEST01")

	first := newEngine().Process(rows)
	second := newEngine().Process(rows)

	require.Equal(t, first.Daily, second.Daily)
	require.Equal(t, first.Segments, second.Segments)
	require.Equal(t, first.Board, second.Board)
	require.Equal(t, first.Windows, second.Windows)
}

func TestEngine_DegenerateInputs(t *testing.T) {
	e := newEngine()

	t.Run("no rows", func(t *testing.T) {
		res := e.Process(nil)
		assert.Empty(t, res.Daily)
		assert.Empty(t, res.Segments)
		assert.Nil(t, res.Board)
		assert.Empty(t, res.Windows)
	})

	t.Run("all zero activity", func(t *testing.T) {
		rows := []contracts.RawDailyRow{
			{ShopID: "s", ASIN: "A", Date: start},
			{ShopID: "s", ASIN: "A", Date: start.AddDate(0, 0, 2)},
		}
		res := e.Process(rows)
		require.Len(t, res.Daily, 3)
		for _, d := range res.Daily {
			assert.Equal(t, contracts.PhaseInactive, d.Phase)
		}
		require.Len(t, res.Segments, 1)
		assert.Equal(t, contracts.PhaseInactive, res.Segments[0].Phase)
	})

	t.Run("garbage numerics", func(t *testing.T) {
		rows := []contracts.RawDailyRow{{
			ShopID: "s", ASIN: "A", Date: start,
			Sales: "###", Orders: "null", Inventory: "-",
		}}
		res := e.Process(rows)
		require.Len(t, res.Daily, 1)
		assert.Equal(t, 0.0, res.Daily[0].Sales)
	})
}

func TestEngine_ProcessAllMatchesSequential(t *testing.T) {
	var rows []contracts.RawDailyRow
	for p := 0; p < 8; p++ {
		rows = append(rows, launchSeries(fmt.Sprintf("B00TEST%02d", p))...)
	}

	e := newEngine()
	batch := e.ProcessAll(context.Background(), rows, 4)

	// Sequential reference.
	var wantDaily, wantSegments, wantWindows, wantBoards int
	for _, productRows := range GroupByProduct(rows) {
		res := e.Process(productRows)
		wantDaily += len(res.Daily)
		wantSegments += len(res.Segments)
		wantWindows += len(res.Windows)
		if res.Board != nil {
			wantBoards++
		}
	}

	assert.Len(t, batch.Daily, wantDaily)
	assert.Len(t, batch.Segments, wantSegments)
	assert.Len(t, batch.Windows, wantWindows)
	assert.Len(t, batch.Board, wantBoards)

	// One board row per product.
	asins := make([]string, 0, len(batch.Board))
	for _, b := range batch.Board {
		asins = append(asins, b.Latest.ASIN)
	}
	sort.Strings(asins)
	require.Len(t, asins, 8)
	for i := 1; i < len(asins); i++ {
		require.NotEqual(t, asins[i-1], asins[i], "board keyed by product")
	}
}

func TestEngine_ProcessAllSingleWorker(t *testing.T) {
	rows := launchSeries("B00TEST01")
	batch := newEngine().ProcessAll(context.Background(), rows, 0)

	assert.Len(t, batch.Daily, 30)
	assert.Len(t, batch.Board, 1)
}

func TestEngine_ProcessAllCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := launchSeries("B00TEST01")
	batch := newEngine().ProcessAll(ctx, rows, 2)

	// Cancellation stops feeding products; whatever was already queued
	// still drains cleanly.
	assert.LessOrEqual(t, len(batch.Board), 1)
}
