package contracts

import "time"

// Segment is a maximal run of consecutive days within one cycle that
// share the same lifecycle phase, with the run's metrics summed up.
// Segments of a cycle are contiguous, non-overlapping, and cover the
// cycle's days exactly once.
type Segment struct {
	ShopID    string `json:"shop_id"`
	ASIN      string `json:"asin"`
	CycleID   int    `json:"cycle_id"`
	SegmentID int    `json:"segment_id"` // 1-based per product
	Phase     Phase  `json:"phase"`

	DateStart time.Time `json:"date_start"`
	DateEnd   time.Time `json:"date_end"`
	DayCount  int       `json:"day_count"`

	Sales    float64 `json:"sales"`
	Orders   float64 `json:"orders"`
	Sessions float64 `json:"sessions"`
	AdSpend  float64 `json:"ad_spend"`
	Profit   float64 `json:"profit"`

	// Ratios derived from the segment's own sums, not per-day averages,
	// so zero-denominator days cannot poison them.
	Tacos float64 `json:"tacos"`
	Cvr   float64 `json:"cvr"`

	MinInventory float64 `json:"min_inventory"`

	LowInventoryDays          int `json:"low_inventory_days"`
	OutOfStockDays            int `json:"out_of_stock_days"`
	OutOfStockWithTrafficDays int `json:"out_of_stock_with_traffic_days"`
	OutOfStockWithSpendDays   int `json:"out_of_stock_with_spend_days"`
	PresaleOrderDays          int `json:"presale_order_days"`
}
