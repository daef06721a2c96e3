// Package rolling computes trailing-window means and same-day ratios
// over a product's daily frame.
package rolling

import (
	"github.com/wonny/sellerpulse/internal/contracts"
	"github.com/wonny/sellerpulse/pkg/mathx"
)

// ring is a fixed-size trailing accumulator. Pushing a value evicts
// the oldest once the window is full; Mean averages over however many
// values are present, so early days have no NaN warm-up.
type ring struct {
	buf  []float64
	next int
	n    int
	sum  float64
}

func newRing(size int) *ring {
	return &ring{buf: make([]float64, size)}
}

func (r *ring) push(v float64) {
	if r.n == len(r.buf) {
		r.sum -= r.buf[r.next]
	} else {
		r.n++
	}
	r.buf[r.next] = v
	r.sum += v
	r.next = (r.next + 1) % len(r.buf)
}

func (r *ring) mean() float64 {
	return mathx.SafeDiv(r.sum, float64(r.n))
}

// Computer fills the *_roll fields, the same-day tacos/cvr ratios and
// the day-over-day slope of the rolling sales mean.
type Computer struct {
	window int
}

// NewComputer creates a computer with the given trailing window size.
// Sizes below 1 are clamped to 1.
func NewComputer(window int) *Computer {
	if window < 1 {
		window = 1
	}
	return &Computer{window: window}
}

// Apply computes rolling fields for every record in place. Records
// must be in ascending date order.
func (c *Computer) Apply(days []contracts.DailyRecord) {
	sales := newRing(c.window)
	sessions := newRing(c.window)
	adSpend := newRing(c.window)
	profit := newRing(c.window)

	prevSalesRoll := 0.0
	for i := range days {
		d := &days[i]

		sales.push(d.Sales)
		sessions.push(d.Sessions)
		adSpend.push(d.AdSpend)
		profit.push(d.Profit)

		d.SalesRoll = sales.mean()
		d.SessionsRoll = sessions.mean()
		d.AdSpendRoll = adSpend.mean()
		d.ProfitRoll = profit.mean()

		d.TacosRoll = mathx.SafeDiv(d.AdSpend, d.Sales)
		d.CvrRoll = mathx.SafeDiv(d.Orders, d.Sessions)

		if i == 0 {
			d.SalesSlope = 0.0
		} else {
			d.SalesSlope = d.SalesRoll - prevSalesRoll
		}
		prevSalesRoll = d.SalesRoll
	}
}
