// Package phases labels each day of a product frame with a lifecycle
// phase and the independent risk flags.
package phases

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/wonny/sellerpulse/internal/contracts"
)

// slopeEpsilon is the floor of the flat-slope band used by the mature
// check, for cycles whose peak is tiny.
const slopeEpsilon = 1e-9

// Classifier assigns lifecycle phases per day, scoped to a cycle:
// thresholds are relative to the cycle's own peak, and the launch
// clock starts at the cycle's first effective sale.
type Classifier struct {
	cfg contracts.Thresholds
	log zerolog.Logger
}

// NewClassifier creates a new phase classifier.
func NewClassifier(cfg contracts.Thresholds, log zerolog.Logger) *Classifier {
	return &Classifier{
		cfg: cfg,
		log: log.With().Str("component", "phases.classifier").Logger(),
	}
}

// Label writes Phase onto every record in place. Records must be in
// ascending date order with CycleID and rolling fields already set.
func (c *Classifier) Label(days []contracts.DailyRecord) {
	for start := 0; start < len(days); {
		end := start
		for end < len(days) && days[end].CycleID == days[start].CycleID {
			end++
		}
		c.labelCycle(days[start:end])
		start = end
	}
}

// labelCycle classifies one cycle's days.
func (c *Classifier) labelCycle(days []contracts.DailyRecord) {
	peak := cyclePeak(days)
	anchor := firstEffectiveSale(days)

	for i := range days {
		d := &days[i]

		// Hard override: a dead day is inactive no matter what.
		if !d.Active {
			d.Phase = contracts.PhaseInactive
			continue
		}

		if anchor == nil || d.Date.Before(*anchor) {
			d.Phase = contracts.PhasePreLaunch
			continue
		}

		ratio := 0.0
		if peak > 0 {
			ratio = d.SalesRoll / peak
		}
		daysSinceFirstSale := int(d.Date.Sub(*anchor).Hours() / 24)
		slope := d.SalesSlope

		switch {
		case daysSinceFirstSale <= c.cfg.LaunchDays && ratio < c.cfg.MatureRatio:
			d.Phase = contracts.PhaseLaunch
		case ratio < c.cfg.MatureRatio && slope >= 0:
			d.Phase = contracts.PhaseGrowth
		case ratio >= c.cfg.MatureRatio && math.Abs(slope) < math.Max(slopeEpsilon, peak*0.02):
			d.Phase = contracts.PhaseMature
		case ratio <= c.cfg.DeclineRatio && slope < 0:
			d.Phase = contracts.PhaseDecline
		default:
			d.Phase = contracts.PhaseStable
		}
	}
}

// cyclePeak is the maximum sales_roll of the cycle, falling back to
// the maximum raw sales when the rolling peak is zero.
func cyclePeak(days []contracts.DailyRecord) float64 {
	peak := 0.0
	for i := range days {
		if days[i].SalesRoll > peak {
			peak = days[i].SalesRoll
		}
	}
	if peak > 0 {
		return peak
	}
	for i := range days {
		if days[i].Sales > peak {
			peak = days[i].Sales
		}
	}
	return peak
}

// firstEffectiveSale is the anchor date of the cycle's launch clock:
// the first day selling with stock on hand, or failing that the first
// day with any sale at all. Nil when the cycle never sold.
func firstEffectiveSale(days []contracts.DailyRecord) *time.Time {
	for i := range days {
		d := &days[i]
		if d.Inventory > 0 && (d.Sales > 0 || d.Orders > 0) {
			return &d.Date
		}
	}
	for i := range days {
		d := &days[i]
		if d.Sales > 0 || d.Orders > 0 {
			return &d.Date
		}
	}
	return nil
}
