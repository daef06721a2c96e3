package contracts

import "time"

// Phase is the lifecycle phase assigned to a single day of a product cycle.
type Phase string

const (
	PhasePreLaunch Phase = "pre_launch"
	PhaseLaunch    Phase = "launch"
	PhaseGrowth    Phase = "growth"
	PhaseMature    Phase = "mature"
	PhaseDecline   Phase = "decline"
	PhaseStable    Phase = "stable"
	PhaseInactive  Phase = "inactive"
)

// phaseRank orders phases by commercial maturity for trend comparison.
// growth/stable/mature share a rank: moving between them is lateral.
var phaseRank = map[Phase]int{
	PhasePreLaunch: 0,
	PhaseLaunch:    1,
	PhaseGrowth:    2,
	PhaseStable:    2,
	PhaseMature:    2,
	PhaseDecline:   1,
	PhaseInactive:  0,
}

// Rank returns the trend rank of a phase. The second return value is
// false for phases outside the known set.
func (p Phase) Rank() (int, bool) {
	r, ok := phaseRank[p]
	return r, ok
}

// RawDailyRow is one row of the upstream seller-center feed for a
// (shop, product, day). The feed is a verbatim import of loosely typed
// exports, so every metric arrives as text; coercion to numbers is the
// frame builder's job and fails open to zero.
type RawDailyRow struct {
	ShopID string    `json:"shop_id"`
	ASIN   string    `json:"asin"`
	Date   time.Time `json:"date"`

	Sales         string `json:"sales"`
	Orders        string `json:"orders"`
	Sessions      string `json:"sessions"`
	AdSpend       string `json:"ad_spend"`
	AdSales       string `json:"ad_sales"`
	AdOrders      string `json:"ad_orders"`
	Profit        string `json:"profit"`
	RefundRate    string `json:"refund_rate"`
	Rating        string `json:"rating"`
	Inventory     string `json:"inventory"`
	AdImpressions string `json:"ad_impressions"`
	AdClicks      string `json:"ad_clicks"`
	OrganicOrders string `json:"organic_orders"`
	OrganicSales  string `json:"organic_sales"`

	// Optional per-ad-channel spend breakdown (channel name -> amount).
	ChannelSpend map[string]string `json:"channel_spend,omitempty"`
}

// DailyRecord is one fully derived row of the Daily output table.
// Recomputed fresh on every run; nothing here is persisted state.
type DailyRecord struct {
	ShopID string    `json:"shop_id"`
	ASIN   string    `json:"asin"`
	Date   time.Time `json:"date"`

	// Raw metrics after coercion.
	Sales         float64 `json:"sales"`
	Orders        float64 `json:"orders"`
	Sessions      float64 `json:"sessions"`
	AdSpend       float64 `json:"ad_spend"`
	AdSales       float64 `json:"ad_sales"`
	AdOrders      float64 `json:"ad_orders"`
	Profit        float64 `json:"profit"`
	RefundRate    float64 `json:"refund_rate"`
	Rating        float64 `json:"rating"`
	Inventory     float64 `json:"inventory"`
	AdImpressions float64 `json:"ad_impressions"`
	AdClicks      float64 `json:"ad_clicks"`
	OrganicOrders float64 `json:"organic_orders"`
	OrganicSales  float64 `json:"organic_sales"`

	ChannelSpend map[string]float64 `json:"channel_spend,omitempty"`

	// Active is true when the day shows any commercial signal.
	Active  bool `json:"active"`
	CycleID int  `json:"cycle_id"`

	// Trailing-window metrics.
	SalesRoll    float64 `json:"sales_roll"`
	SessionsRoll float64 `json:"sessions_roll"`
	AdSpendRoll  float64 `json:"ad_spend_roll"`
	ProfitRoll   float64 `json:"profit_roll"`
	TacosRoll    float64 `json:"tacos_roll"`
	CvrRoll      float64 `json:"cvr_roll"`
	SalesSlope   float64 `json:"sales_slope"`

	Phase Phase `json:"lifecycle_phase"`

	// Risk flags, independent of phase.
	LowInventory          bool `json:"low_inventory"`
	OutOfStock            bool `json:"out_of_stock"`
	OutOfStockWithTraffic bool `json:"out_of_stock_with_traffic"`
	OutOfStockWithSpend   bool `json:"out_of_stock_with_spend"`
	PresaleOrder          bool `json:"presale_order"`
}
