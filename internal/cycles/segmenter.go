// Package cycles partitions a product's daily frame into restart
// epochs. A cycle ends when the product effectively left the market
// long enough (stockout or inactivity) and then came back.
package cycles

import (
	"github.com/rs/zerolog"

	"github.com/wonny/sellerpulse/internal/contracts"
)

// Segmenter assigns a restart-aware cycle id to every day of a frame.
type Segmenter struct {
	cfg contracts.Thresholds
	log zerolog.Logger
}

// NewSegmenter creates a new cycle segmenter.
func NewSegmenter(cfg contracts.Thresholds, log zerolog.Logger) *Segmenter {
	return &Segmenter{
		cfg: cfg,
		log: log.With().Str("component", "cycles.segmenter").Logger(),
	}
}

// Assign writes CycleID onto every record in place. Cycle ids start at
// 0 and are non-decreasing along the date axis.
//
// When any day carries inventory > 0 the inventory-driven detection is
// used; otherwise it falls back to inactivity streaks. The precedence
// is fixed: an inventory signal, however noisy, silently disables the
// inactivity path.
func (s *Segmenter) Assign(days []contracts.DailyRecord) {
	if len(days) == 0 {
		return
	}

	hasInventory := false
	for i := range days {
		if days[i].Inventory > 0 {
			hasInventory = true
			break
		}
	}

	var restarts int
	if hasInventory {
		restarts = s.assign(days,
			func(d *contracts.DailyRecord) bool { return d.Inventory > 0 },
			s.cfg.OutOfStockRestartDays)
	} else {
		restarts = s.assign(days,
			func(d *contracts.DailyRecord) bool { return d.Active },
			s.cfg.InactivityRestartDays)
	}

	if restarts > 0 {
		s.log.Debug().
			Str("asin", days[0].ASIN).
			Bool("inventory_signal", hasInventory).
			Int("restarts", restarts).
			Msg("cycle restarts detected")
	}
}

// assign runs the streak-counting scan: once the "on" condition has
// been observed at least once, consecutive "off" days are counted; an
// "on" day arriving after a streak of at least restartDays starts a
// new cycle at that day. The very first day of data never triggers a
// restart.
func (s *Segmenter) assign(days []contracts.DailyRecord, on func(*contracts.DailyRecord) bool, restartDays int) int {
	cycle := 0
	streak := 0
	seen := false
	restarts := 0

	for i := range days {
		d := &days[i]
		if on(d) {
			if seen && i > 0 && streak >= restartDays {
				cycle++
				restarts++
			}
			seen = true
			streak = 0
		} else if seen {
			streak++
		}
		d.CycleID = cycle
	}
	return restarts
}
