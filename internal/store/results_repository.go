package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/sellerpulse/internal/contracts"
)

// ResultsRepository upserts the four engine output tables. Every run
// recomputes from scratch, so the writes are idempotent upserts keyed
// by the output contract keys.
type ResultsRepository struct {
	pool *pgxpool.Pool
}

// NewResultsRepository creates a new results repository.
func NewResultsRepository(pool *pgxpool.Pool) *ResultsRepository {
	return &ResultsRepository{pool: pool}
}

// SaveDaily upserts Daily rows, keyed by shop+product+date.
func (r *ResultsRepository) SaveDaily(ctx context.Context, daily []contracts.DailyRecord) error {
	query := `
		INSERT INTO lifecycle.daily (
			shop_id, asin, metric_date,
			sales, orders, sessions, ad_spend, ad_sales, ad_orders,
			profit, refund_rate, rating, inventory,
			ad_impressions, ad_clicks, organic_orders, organic_sales, channel_spend,
			active, cycle_id,
			sales_roll, sessions_roll, ad_spend_roll, profit_roll,
			tacos_roll, cvr_roll, sales_slope,
			lifecycle_phase,
			low_inventory, out_of_stock, out_of_stock_with_traffic,
			out_of_stock_with_spend, presale_order
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28,
			$29, $30, $31, $32, $33
		)
		ON CONFLICT (shop_id, asin, metric_date) DO UPDATE SET
			sales = EXCLUDED.sales, orders = EXCLUDED.orders, sessions = EXCLUDED.sessions,
			ad_spend = EXCLUDED.ad_spend, ad_sales = EXCLUDED.ad_sales, ad_orders = EXCLUDED.ad_orders,
			profit = EXCLUDED.profit, refund_rate = EXCLUDED.refund_rate, rating = EXCLUDED.rating,
			inventory = EXCLUDED.inventory, ad_impressions = EXCLUDED.ad_impressions,
			ad_clicks = EXCLUDED.ad_clicks, organic_orders = EXCLUDED.organic_orders,
			organic_sales = EXCLUDED.organic_sales, channel_spend = EXCLUDED.channel_spend,
			active = EXCLUDED.active, cycle_id = EXCLUDED.cycle_id,
			sales_roll = EXCLUDED.sales_roll, sessions_roll = EXCLUDED.sessions_roll,
			ad_spend_roll = EXCLUDED.ad_spend_roll, profit_roll = EXCLUDED.profit_roll,
			tacos_roll = EXCLUDED.tacos_roll, cvr_roll = EXCLUDED.cvr_roll,
			sales_slope = EXCLUDED.sales_slope, lifecycle_phase = EXCLUDED.lifecycle_phase,
			low_inventory = EXCLUDED.low_inventory, out_of_stock = EXCLUDED.out_of_stock,
			out_of_stock_with_traffic = EXCLUDED.out_of_stock_with_traffic,
			out_of_stock_with_spend = EXCLUDED.out_of_stock_with_spend,
			presale_order = EXCLUDED.presale_order
	`

	return r.inTx(ctx, func(tx pgx.Tx) error {
		for i := range daily {
			d := &daily[i]
			_, err := tx.Exec(ctx, query,
				d.ShopID, d.ASIN, d.Date,
				d.Sales, d.Orders, d.Sessions, d.AdSpend, d.AdSales, d.AdOrders,
				d.Profit, d.RefundRate, d.Rating, d.Inventory,
				d.AdImpressions, d.AdClicks, d.OrganicOrders, d.OrganicSales, d.ChannelSpend,
				d.Active, d.CycleID,
				d.SalesRoll, d.SessionsRoll, d.AdSpendRoll, d.ProfitRoll,
				d.TacosRoll, d.CvrRoll, d.SalesSlope,
				string(d.Phase),
				d.LowInventory, d.OutOfStock, d.OutOfStockWithTraffic,
				d.OutOfStockWithSpend, d.PresaleOrder,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert daily row: %w", err)
			}
		}
		return nil
	})
}

// SaveSegments upserts Segment rows, keyed by shop+product+cycle+segment.
func (r *ResultsRepository) SaveSegments(ctx context.Context, segs []contracts.Segment) error {
	query := `
		INSERT INTO lifecycle.segments (
			shop_id, asin, cycle_id, segment_id, phase,
			date_start, date_end, day_count,
			sales, orders, sessions, ad_spend, profit, tacos, cvr, min_inventory,
			low_inventory_days, out_of_stock_days, out_of_stock_with_traffic_days,
			out_of_stock_with_spend_days, presale_order_days
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21
		)
		ON CONFLICT (shop_id, asin, cycle_id, segment_id) DO UPDATE SET
			phase = EXCLUDED.phase, date_start = EXCLUDED.date_start,
			date_end = EXCLUDED.date_end, day_count = EXCLUDED.day_count,
			sales = EXCLUDED.sales, orders = EXCLUDED.orders, sessions = EXCLUDED.sessions,
			ad_spend = EXCLUDED.ad_spend, profit = EXCLUDED.profit,
			tacos = EXCLUDED.tacos, cvr = EXCLUDED.cvr, min_inventory = EXCLUDED.min_inventory,
			low_inventory_days = EXCLUDED.low_inventory_days,
			out_of_stock_days = EXCLUDED.out_of_stock_days,
			out_of_stock_with_traffic_days = EXCLUDED.out_of_stock_with_traffic_days,
			out_of_stock_with_spend_days = EXCLUDED.out_of_stock_with_spend_days,
			presale_order_days = EXCLUDED.presale_order_days
	`

	return r.inTx(ctx, func(tx pgx.Tx) error {
		for i := range segs {
			s := &segs[i]
			_, err := tx.Exec(ctx, query,
				s.ShopID, s.ASIN, s.CycleID, s.SegmentID, string(s.Phase),
				s.DateStart, s.DateEnd, s.DayCount,
				s.Sales, s.Orders, s.Sessions, s.AdSpend, s.Profit, s.Tacos, s.Cvr, s.MinInventory,
				s.LowInventoryDays, s.OutOfStockDays, s.OutOfStockWithTrafficDays,
				s.OutOfStockWithSpendDays, s.PresaleOrderDays,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert segment row: %w", err)
			}
		}
		return nil
	})
}

// SaveBoard upserts the one-row-per-product snapshot, keyed by shop+product.
func (r *ResultsRepository) SaveBoard(ctx context.Context, board []contracts.BoardRow) error {
	query := `
		INSERT INTO lifecycle.board (
			shop_id, asin, metric_date, cycle_id, lifecycle_phase, snapshot,
			prev_phase, phase_change, phase_change_days_ago,
			phase_changed_recent_14d, phase_trend_14d
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (shop_id, asin) DO UPDATE SET
			metric_date = EXCLUDED.metric_date, cycle_id = EXCLUDED.cycle_id,
			lifecycle_phase = EXCLUDED.lifecycle_phase, snapshot = EXCLUDED.snapshot,
			prev_phase = EXCLUDED.prev_phase, phase_change = EXCLUDED.phase_change,
			phase_change_days_ago = EXCLUDED.phase_change_days_ago,
			phase_changed_recent_14d = EXCLUDED.phase_changed_recent_14d,
			phase_trend_14d = EXCLUDED.phase_trend_14d
	`

	return r.inTx(ctx, func(tx pgx.Tx) error {
		for i := range board {
			b := &board[i]
			_, err := tx.Exec(ctx, query,
				b.Latest.ShopID, b.Latest.ASIN, b.Latest.Date, b.Latest.CycleID,
				string(b.Latest.Phase), b.Latest,
				string(b.PrevPhase), b.PhaseChange, b.PhaseChangeDaysAgo,
				b.PhaseChangedRecent14D, string(b.PhaseTrend14D),
			)
			if err != nil {
				return fmt.Errorf("failed to upsert board row: %w", err)
			}
		}
		return nil
	})
}

// SaveWindows upserts WindowRows, keyed by shop+product+cycle+window_type.
// The aggregate payloads are stored as jsonb: consumers key into the
// row and read the sums by name, per the output contract.
func (r *ResultsRepository) SaveWindows(ctx context.Context, wins []contracts.WindowRow) error {
	query := `
		INSERT INTO lifecycle.windows (
			shop_id, asin, cycle_id, window_type,
			date_start, date_end, day_count,
			recent_start, recent_end, prev_start, prev_end,
			recent_day_count, prev_day_count,
			anchors, pre_launch_days, pre_launch_ad_spend,
			pre_launch_sessions, pre_launch_ad_clicks,
			days_stock_to_first_sale, days_active_to_first_sale, days_ad_spend_to_first_sale,
			sale_before_stock, sums, prev_sums,
			ad_sales_exceed_total, ad_orders_exceed_total
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26
		)
		ON CONFLICT (shop_id, asin, cycle_id, window_type) DO UPDATE SET
			date_start = EXCLUDED.date_start, date_end = EXCLUDED.date_end,
			day_count = EXCLUDED.day_count,
			recent_start = EXCLUDED.recent_start, recent_end = EXCLUDED.recent_end,
			prev_start = EXCLUDED.prev_start, prev_end = EXCLUDED.prev_end,
			recent_day_count = EXCLUDED.recent_day_count, prev_day_count = EXCLUDED.prev_day_count,
			anchors = EXCLUDED.anchors, pre_launch_days = EXCLUDED.pre_launch_days,
			pre_launch_ad_spend = EXCLUDED.pre_launch_ad_spend,
			pre_launch_sessions = EXCLUDED.pre_launch_sessions,
			pre_launch_ad_clicks = EXCLUDED.pre_launch_ad_clicks,
			days_stock_to_first_sale = EXCLUDED.days_stock_to_first_sale,
			days_active_to_first_sale = EXCLUDED.days_active_to_first_sale,
			days_ad_spend_to_first_sale = EXCLUDED.days_ad_spend_to_first_sale,
			sale_before_stock = EXCLUDED.sale_before_stock,
			sums = EXCLUDED.sums, prev_sums = EXCLUDED.prev_sums,
			ad_sales_exceed_total = EXCLUDED.ad_sales_exceed_total,
			ad_orders_exceed_total = EXCLUDED.ad_orders_exceed_total
	`

	return r.inTx(ctx, func(tx pgx.Tx) error {
		for i := range wins {
			w := &wins[i]
			_, err := tx.Exec(ctx, query,
				w.ShopID, w.ASIN, w.CycleID, string(w.WindowType),
				w.DateStart, w.DateEnd, w.DayCount,
				w.RecentStart, w.RecentEnd, w.PrevStart, w.PrevEnd,
				w.RecentDayCount, w.PrevDayCount,
				w.Anchors, w.PreLaunchDays, w.PreLaunchAdSpend,
				w.PreLaunchSessions, w.PreLaunchAdClicks,
				w.DaysStockToFirstSale, w.DaysActiveToFirstSale, w.DaysAdSpendToFirstSale,
				w.SaleBeforeStock, w.Sums, w.Prev,
				w.AdSalesExceedTotal, w.AdOrdersExceedTotal,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert window row: %w", err)
			}
		}
		return nil
	})
}

// inTx runs fn inside a transaction.
func (r *ResultsRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
