// Package frame normalizes the sparse, unordered seller-center feed
// into a complete per-day series for one product.
package frame

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/wonny/sellerpulse/internal/contracts"
	"github.com/wonny/sellerpulse/pkg/mathx"
)

// Builder turns raw feed rows into a gap-free daily frame.
type Builder struct {
	log zerolog.Logger
}

// NewBuilder creates a new frame builder.
func NewBuilder(log zerolog.Logger) *Builder {
	return &Builder{
		log: log.With().Str("component", "frame.builder").Logger(),
	}
}

// Build produces exactly one DailyRecord per calendar day between the
// earliest and latest observed date, inclusive. Input rows may be
// unordered, sparse or duplicated; duplicates keep the last-seen row
// for a day. Days with no observed row get all metrics zeroed.
// An empty input yields nil.
func (b *Builder) Build(rows []contracts.RawDailyRow) []contracts.DailyRecord {
	if len(rows) == 0 {
		return nil
	}

	shopID, asin := rows[0].ShopID, rows[0].ASIN

	// Dedupe by calendar day, last row wins.
	byDay := make(map[time.Time]contracts.RawDailyRow, len(rows))
	for _, r := range rows {
		byDay[truncateDay(r.Date)] = r
	}

	days := make([]time.Time, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	first, last := days[0], days[len(days)-1]
	total := int(last.Sub(first).Hours()/24) + 1

	out := make([]contracts.DailyRecord, 0, total)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		raw, ok := byDay[d]
		if !ok {
			// Gap day: all metrics stay at zero.
			out = append(out, contracts.DailyRecord{ShopID: shopID, ASIN: asin, Date: d})
			continue
		}
		out = append(out, b.coerce(raw, d))
	}

	b.log.Debug().
		Str("asin", asin).
		Int("input_rows", len(rows)).
		Int("frame_days", len(out)).
		Msg("daily frame built")

	return out
}

// coerce converts one raw row into a DailyRecord. Every numeric field
// fails open to 0.0 rather than erroring.
func (b *Builder) coerce(raw contracts.RawDailyRow, day time.Time) contracts.DailyRecord {
	rec := contracts.DailyRecord{
		ShopID:        raw.ShopID,
		ASIN:          raw.ASIN,
		Date:          day,
		Sales:         mathx.ParseFloat(raw.Sales),
		Orders:        mathx.ParseFloat(raw.Orders),
		Sessions:      mathx.ParseFloat(raw.Sessions),
		AdSpend:       mathx.ParseFloat(raw.AdSpend),
		AdSales:       mathx.ParseFloat(raw.AdSales),
		AdOrders:      mathx.ParseFloat(raw.AdOrders),
		Profit:        mathx.ParseFloat(raw.Profit),
		RefundRate:    mathx.ParseFloat(raw.RefundRate),
		Rating:        mathx.ParseFloat(raw.Rating),
		Inventory:     mathx.ParseFloat(raw.Inventory),
		AdImpressions: mathx.ParseFloat(raw.AdImpressions),
		AdClicks:      mathx.ParseFloat(raw.AdClicks),
		OrganicOrders: mathx.ParseFloat(raw.OrganicOrders),
		OrganicSales:  mathx.ParseFloat(raw.OrganicSales),
	}

	if len(raw.ChannelSpend) > 0 {
		rec.ChannelSpend = make(map[string]float64, len(raw.ChannelSpend))
		for ch, v := range raw.ChannelSpend {
			rec.ChannelSpend[ch] = mathx.ParseFloat(v)
		}
	}

	rec.Active = rec.Sales > 0 || rec.Orders > 0 || rec.Sessions > 0 || rec.AdSpend > 0
	return rec
}

// truncateDay normalizes a timestamp to UTC midnight.
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
