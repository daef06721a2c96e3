package contracts

import (
	"fmt"
	"time"
)

// WindowType identifies one aggregation range of the Windows table.
type WindowType string

const (
	WindowCycleToDate           WindowType = "cycle_to_date"
	WindowCurrentPhaseToDate    WindowType = "current_phase_to_date"
	WindowSinceFirstStockToDate WindowType = "since_first_stock_to_date"
	WindowSinceFirstSaleToDate  WindowType = "since_first_sale_to_date"
)

// CompareWindowType names the compare window for a given day count,
// e.g. "compare_7d".
func CompareWindowType(days int) WindowType {
	return WindowType(fmt.Sprintf("compare_%dd", days))
}

// Anchors are the notable first/last dates of a product cycle. A nil
// date means the condition was never observed in the cycle.
type Anchors struct {
	FirstInStock       *time.Time `json:"first_in_stock,omitempty"`
	FirstActive        *time.Time `json:"first_active,omitempty"`
	FirstAdSpend       *time.Time `json:"first_ad_spend,omitempty"`
	FirstSale          *time.Time `json:"first_sale,omitempty"`
	FirstEffectiveSale *time.Time `json:"first_effective_sale,omitempty"`
	LastSale           *time.Time `json:"last_sale,omitempty"`
	PeakSalesRoll      *time.Time `json:"peak_sales_roll,omitempty"`
}

// WindowAggregates holds the summed metrics of one date range plus the
// ratios derived from those sums. Every ratio divides safely: a zero
// denominator yields 0, never NaN.
type WindowAggregates struct {
	Sales         float64 `json:"sales"`
	Orders        float64 `json:"orders"`
	Sessions      float64 `json:"sessions"`
	AdSpend       float64 `json:"ad_spend"`
	AdSales       float64 `json:"ad_sales"`
	AdOrders      float64 `json:"ad_orders"`
	Profit        float64 `json:"profit"`
	AdImpressions float64 `json:"ad_impressions"`
	AdClicks      float64 `json:"ad_clicks"`
	OrganicOrders float64 `json:"organic_orders"`
	OrganicSales  float64 `json:"organic_sales"`

	ChannelSpend map[string]float64 `json:"channel_spend,omitempty"`

	Tacos float64 `json:"tacos"` // ad spend / total sales
	Acos  float64 `json:"acos"`  // ad spend / ad sales
	Cvr   float64 `json:"cvr"`   // orders / sessions
	AdCtr float64 `json:"ad_ctr"`
	AdCvr float64 `json:"ad_cvr"`

	AdSalesShare      float64 `json:"ad_sales_share"`
	OrganicSalesShare float64 `json:"organic_sales_share"`

	ChannelSpendShare map[string]float64 `json:"channel_spend_share,omitempty"`
}

// WindowRow is one aggregated view of a product's current cycle over a
// specific date range. Single-range windows use DateStart/DateEnd and
// Sums; compare windows use the Recent*/Prev* pairs, with Sums holding
// the recent half and Prev the preceding half.
type WindowRow struct {
	ShopID     string     `json:"shop_id"`
	ASIN       string     `json:"asin"`
	CycleID    int        `json:"cycle_id"`
	WindowType WindowType `json:"window_type"`

	DateStart *time.Time `json:"date_start,omitempty"`
	DateEnd   *time.Time `json:"date_end,omitempty"`
	DayCount  int        `json:"day_count"`

	RecentStart    *time.Time `json:"recent_start,omitempty"`
	RecentEnd      *time.Time `json:"recent_end,omitempty"`
	PrevStart      *time.Time `json:"prev_start,omitempty"`
	PrevEnd        *time.Time `json:"prev_end,omitempty"`
	RecentDayCount int        `json:"recent_day_count,omitempty"`
	PrevDayCount   int        `json:"prev_day_count,omitempty"`

	Anchors Anchors `json:"anchors"`

	// Pre-launch sub-window: accumulated strictly before the first sale.
	PreLaunchDays     int     `json:"pre_launch_days"`
	PreLaunchAdSpend  float64 `json:"pre_launch_ad_spend"`
	PreLaunchSessions float64 `json:"pre_launch_sessions"`
	PreLaunchAdClicks float64 `json:"pre_launch_ad_clicks"`

	// Latency metrics; nil when either anchor is absent.
	DaysStockToFirstSale   *int `json:"days_stock_to_first_sale,omitempty"`
	DaysActiveToFirstSale  *int `json:"days_active_to_first_sale,omitempty"`
	DaysAdSpendToFirstSale *int `json:"days_ad_spend_to_first_sale,omitempty"`

	// SaleBeforeStock reports a sale observed before inventory was ever
	// seen above zero; the stock latency is clamped to 0 in that case.
	SaleBeforeStock bool `json:"sale_before_stock"`

	Sums WindowAggregates  `json:"sums"`
	Prev *WindowAggregates `json:"prev,omitempty"`

	// Attribution anomalies: ad-attributed figures exceeding totals
	// point at a data-join problem in the source feed.
	AdSalesExceedTotal  bool `json:"ad_sales_exceed_total"`
	AdOrdersExceedTotal bool `json:"ad_orders_exceed_total"`
}
