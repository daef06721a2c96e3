package phases

import "github.com/wonny/sellerpulse/internal/contracts"

// Annotator derives the per-day boolean risk flags. Flags never
// influence phase classification; they carry diagnostic value only.
type Annotator struct {
	lowInventoryUnits float64
}

// NewAnnotator creates a flag annotator.
func NewAnnotator(cfg contracts.Thresholds) *Annotator {
	return &Annotator{lowInventoryUnits: cfg.LowInventoryUnits}
}

// Apply sets the flag fields on every record in place.
func (a *Annotator) Apply(days []contracts.DailyRecord) {
	for i := range days {
		d := &days[i]

		d.LowInventory = d.Inventory > 0 && d.Inventory <= a.lowInventoryUnits
		d.OutOfStock = d.Inventory == 0
		d.OutOfStockWithTraffic = d.OutOfStock && d.Sessions > 0
		d.OutOfStockWithSpend = d.OutOfStock && d.AdSpend > 0
		d.PresaleOrder = d.OutOfStock && (d.Sales > 0 || d.Orders > 0)
	}
}
