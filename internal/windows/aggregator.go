// Package windows builds the multi-window aggregation views of a
// product's current cycle: cumulative-to-date ranges, anchor-bounded
// ranges and rolling recent-vs-previous compare windows.
package windows

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/wonny/sellerpulse/internal/contracts"
	"github.com/wonny/sellerpulse/pkg/mathx"
)

// Aggregator emits WindowRows for a product's latest cycle.
type Aggregator struct {
	cfg contracts.Thresholds
	log zerolog.Logger
}

// NewAggregator creates a window aggregator.
func NewAggregator(cfg contracts.Thresholds, log zerolog.Logger) *Aggregator {
	return &Aggregator{
		cfg: cfg,
		log: log.With().Str("component", "windows.aggregator").Logger(),
	}
}

// Build returns one WindowRow per window type for the product's
// current cycle. Windows whose defining anchor was never observed are
// omitted entirely; optional derived fields inside a row are nil when
// their anchors are absent. The as-of date is the frame's last day.
func (a *Aggregator) Build(days []contracts.DailyRecord, segs []contracts.Segment) []contracts.WindowRow {
	if len(days) == 0 {
		return nil
	}

	latest := days[len(days)-1]
	cycleID := latest.CycleID

	// Current cycle's days only.
	start := len(days)
	for i := range days {
		if days[i].CycleID == cycleID {
			start = i
			break
		}
	}
	cycle := days[start:]
	asOf := latest.Date

	anchors := findAnchors(cycle)

	base := contracts.WindowRow{
		ShopID:  latest.ShopID,
		ASIN:    latest.ASIN,
		CycleID: cycleID,
		Anchors: anchors,
	}
	a.fillPreLaunch(&base, cycle, anchors)
	a.fillLatencies(&base, anchors)

	var rows []contracts.WindowRow

	rows = append(rows, a.rangeWindow(base, contracts.WindowCycleToDate, cycle, cycle[0].Date, asOf))

	if phaseStart := currentPhaseStart(segs, cycleID); phaseStart != nil {
		rows = append(rows, a.rangeWindow(base, contracts.WindowCurrentPhaseToDate, cycle, *phaseStart, asOf))
	}
	if anchors.FirstInStock != nil {
		rows = append(rows, a.rangeWindow(base, contracts.WindowSinceFirstStockToDate, cycle, *anchors.FirstInStock, asOf))
	}
	if anchors.FirstSale != nil {
		rows = append(rows, a.rangeWindow(base, contracts.WindowSinceFirstSaleToDate, cycle, *anchors.FirstSale, asOf))
	}

	for _, n := range a.cfg.CompareWindowDays {
		rows = append(rows, a.compareWindow(base, cycle, asOf, n))
	}

	a.log.Debug().
		Str("asin", latest.ASIN).
		Int("cycle_id", cycleID).
		Int("windows", len(rows)).
		Msg("window rows built")

	return rows
}

// rangeWindow aggregates one [from, to] range.
func (a *Aggregator) rangeWindow(base contracts.WindowRow, wt contracts.WindowType, cycle []contracts.DailyRecord, from, to time.Time) contracts.WindowRow {
	row := base
	row.WindowType = wt
	row.DateStart = timePtr(from)
	row.DateEnd = timePtr(to)
	row.Sums, row.DayCount = aggregate(cycle, from, to)
	row.AdSalesExceedTotal = row.Sums.AdSales > row.Sums.Sales
	row.AdOrdersExceedTotal = row.Sums.AdOrders > row.Sums.Orders
	return row
}

// compareWindow aggregates the adjacent recent/previous N-day pair
// ending at the as-of date. The previous range may reach back past the
// cycle start; only cycle days contribute to the sums.
func (a *Aggregator) compareWindow(base contracts.WindowRow, cycle []contracts.DailyRecord, asOf time.Time, n int) contracts.WindowRow {
	recentStart := asOf.AddDate(0, 0, -(n - 1))
	prevEnd := recentStart.AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -(n - 1))

	row := base
	row.WindowType = contracts.CompareWindowType(n)
	row.RecentStart = timePtr(recentStart)
	row.RecentEnd = timePtr(asOf)
	row.PrevStart = timePtr(prevStart)
	row.PrevEnd = timePtr(prevEnd)

	row.Sums, row.RecentDayCount = aggregate(cycle, recentStart, asOf)
	prev, prevCount := aggregate(cycle, prevStart, prevEnd)
	row.Prev = &prev
	row.PrevDayCount = prevCount
	row.DayCount = row.RecentDayCount + prevCount

	row.AdSalesExceedTotal = row.Sums.AdSales > row.Sums.Sales || prev.AdSales > prev.Sales
	row.AdOrdersExceedTotal = row.Sums.AdOrders > row.Sums.Orders || prev.AdOrders > prev.Orders
	return row
}

// fillPreLaunch accumulates the sub-window strictly before the first
// sale. Without a sale the whole cycle counts as pre-launch.
func (a *Aggregator) fillPreLaunch(row *contracts.WindowRow, cycle []contracts.DailyRecord, anchors contracts.Anchors) {
	for i := range cycle {
		d := &cycle[i]
		if anchors.FirstSale != nil && !d.Date.Before(*anchors.FirstSale) {
			break
		}
		row.PreLaunchDays++
		row.PreLaunchAdSpend += d.AdSpend
		row.PreLaunchSessions += d.Sessions
		row.PreLaunchAdClicks += d.AdClicks
	}
}

// fillLatencies computes the time-to-first-sale metrics. Each needs
// both of its anchors; a sale observed before stock raises the
// inconsistency flag and clamps that latency to zero.
func (a *Aggregator) fillLatencies(row *contracts.WindowRow, anchors contracts.Anchors) {
	if anchors.FirstSale == nil {
		return
	}
	sale := *anchors.FirstSale

	if anchors.FirstInStock != nil {
		delta := daysBetween(*anchors.FirstInStock, sale)
		if delta < 0 {
			row.SaleBeforeStock = true
			delta = 0
		}
		row.DaysStockToFirstSale = intPtr(delta)
	} else {
		// A sale with no in-stock day anywhere in the cycle is the
		// same inconsistency, reported without a latency.
		row.SaleBeforeStock = true
	}
	if anchors.FirstActive != nil {
		row.DaysActiveToFirstSale = intPtr(daysBetween(*anchors.FirstActive, sale))
	}
	if anchors.FirstAdSpend != nil {
		row.DaysAdSpendToFirstSale = intPtr(daysBetween(*anchors.FirstAdSpend, sale))
	}
}

// aggregate sums cycle days whose date falls in [from, to] and derives
// the ratio fields from those sums.
func aggregate(cycle []contracts.DailyRecord, from, to time.Time) (contracts.WindowAggregates, int) {
	var agg contracts.WindowAggregates
	count := 0
	for i := range cycle {
		d := &cycle[i]
		if d.Date.Before(from) || d.Date.After(to) {
			continue
		}
		count++
		agg.Sales += d.Sales
		agg.Orders += d.Orders
		agg.Sessions += d.Sessions
		agg.AdSpend += d.AdSpend
		agg.AdSales += d.AdSales
		agg.AdOrders += d.AdOrders
		agg.Profit += d.Profit
		agg.AdImpressions += d.AdImpressions
		agg.AdClicks += d.AdClicks
		agg.OrganicOrders += d.OrganicOrders
		agg.OrganicSales += d.OrganicSales
		for ch, v := range d.ChannelSpend {
			if agg.ChannelSpend == nil {
				agg.ChannelSpend = make(map[string]float64)
			}
			agg.ChannelSpend[ch] += v
		}
	}

	agg.Tacos = mathx.SafeDiv(agg.AdSpend, agg.Sales)
	agg.Acos = mathx.SafeDiv(agg.AdSpend, agg.AdSales)
	agg.Cvr = mathx.SafeDiv(agg.Orders, agg.Sessions)
	agg.AdCtr = mathx.SafeDiv(agg.AdClicks, agg.AdImpressions)
	agg.AdCvr = mathx.SafeDiv(agg.AdOrders, agg.AdClicks)
	agg.AdSalesShare = mathx.SafeDiv(agg.AdSales, agg.Sales)
	agg.OrganicSalesShare = mathx.SafeDiv(agg.OrganicSales, agg.Sales)
	if len(agg.ChannelSpend) > 0 {
		agg.ChannelSpendShare = make(map[string]float64, len(agg.ChannelSpend))
		for ch, v := range agg.ChannelSpend {
			agg.ChannelSpendShare[ch] = mathx.SafeDiv(v, agg.AdSpend)
		}
	}
	return agg, count
}

// findAnchors scans the cycle for its notable first/last dates.
func findAnchors(cycle []contracts.DailyRecord) contracts.Anchors {
	var anchors contracts.Anchors
	peak := 0.0
	for i := range cycle {
		d := &cycle[i]
		sold := d.Sales > 0 || d.Orders > 0

		if anchors.FirstInStock == nil && d.Inventory > 0 {
			anchors.FirstInStock = timePtr(d.Date)
		}
		if anchors.FirstActive == nil && d.Active {
			anchors.FirstActive = timePtr(d.Date)
		}
		if anchors.FirstAdSpend == nil && d.AdSpend > 0 {
			anchors.FirstAdSpend = timePtr(d.Date)
		}
		if anchors.FirstSale == nil && sold {
			anchors.FirstSale = timePtr(d.Date)
		}
		if anchors.FirstEffectiveSale == nil && d.Inventory > 0 && sold {
			anchors.FirstEffectiveSale = timePtr(d.Date)
		}
		if sold {
			anchors.LastSale = timePtr(d.Date)
		}
		if d.SalesRoll > peak {
			peak = d.SalesRoll
			anchors.PeakSalesRoll = timePtr(d.Date)
		}
	}
	return anchors
}

// currentPhaseStart is the start date of the cycle's last segment.
func currentPhaseStart(segs []contracts.Segment, cycleID int) *time.Time {
	var found *time.Time
	for i := range segs {
		if segs[i].CycleID == cycleID {
			found = timePtr(segs[i].DateStart)
		}
	}
	return found
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func timePtr(t time.Time) *time.Time { return &t }

func intPtr(v int) *int { return &v }
