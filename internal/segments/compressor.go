// Package segments compresses a phase-labeled daily frame into runs of
// consecutive same-phase, same-cycle days.
package segments

import (
	"github.com/rs/zerolog"

	"github.com/wonny/sellerpulse/internal/contracts"
	"github.com/wonny/sellerpulse/pkg/mathx"
)

// Compressor merges consecutive days into Segment records.
type Compressor struct {
	log zerolog.Logger
}

// NewCompressor creates a segment compressor.
func NewCompressor(log zerolog.Logger) *Compressor {
	return &Compressor{
		log: log.With().Str("component", "segments.compressor").Logger(),
	}
}

// Compress scans the frame in date order, starting a new segment
// whenever phase or cycle id changes. Segment ids are 1-based per
// product. Ratios come from the segment's own sums, so days with a
// zero denominator cannot distort them.
func (c *Compressor) Compress(days []contracts.DailyRecord) []contracts.Segment {
	if len(days) == 0 {
		return nil
	}

	var out []contracts.Segment
	cur := newSegment(&days[0], 1)

	for i := 1; i < len(days); i++ {
		d := &days[i]
		if d.Phase != cur.Phase || d.CycleID != cur.CycleID {
			out = append(out, finalize(cur))
			cur = newSegment(d, cur.SegmentID+1)
			continue
		}
		accumulate(&cur, d)
	}
	out = append(out, finalize(cur))

	c.log.Debug().
		Str("asin", days[0].ASIN).
		Int("days", len(days)).
		Int("segments", len(out)).
		Msg("frame compressed")

	return out
}

func newSegment(d *contracts.DailyRecord, id int) contracts.Segment {
	seg := contracts.Segment{
		ShopID:       d.ShopID,
		ASIN:         d.ASIN,
		CycleID:      d.CycleID,
		SegmentID:    id,
		Phase:        d.Phase,
		DateStart:    d.Date,
		DateEnd:      d.Date,
		DayCount:     1,
		Sales:        d.Sales,
		Orders:       d.Orders,
		Sessions:     d.Sessions,
		AdSpend:      d.AdSpend,
		Profit:       d.Profit,
		MinInventory: d.Inventory,
	}
	countFlags(&seg, d)
	return seg
}

func accumulate(seg *contracts.Segment, d *contracts.DailyRecord) {
	seg.DateEnd = d.Date
	seg.DayCount++
	seg.Sales += d.Sales
	seg.Orders += d.Orders
	seg.Sessions += d.Sessions
	seg.AdSpend += d.AdSpend
	seg.Profit += d.Profit
	if d.Inventory < seg.MinInventory {
		seg.MinInventory = d.Inventory
	}
	countFlags(seg, d)
}

func countFlags(seg *contracts.Segment, d *contracts.DailyRecord) {
	if d.LowInventory {
		seg.LowInventoryDays++
	}
	if d.OutOfStock {
		seg.OutOfStockDays++
	}
	if d.OutOfStockWithTraffic {
		seg.OutOfStockWithTrafficDays++
	}
	if d.OutOfStockWithSpend {
		seg.OutOfStockWithSpendDays++
	}
	if d.PresaleOrder {
		seg.PresaleOrderDays++
	}
}

func finalize(seg contracts.Segment) contracts.Segment {
	seg.Tacos = mathx.SafeDiv(seg.AdSpend, seg.Sales)
	seg.Cvr = mathx.SafeDiv(seg.Orders, seg.Sessions)
	return seg
}
