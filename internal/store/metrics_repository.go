// Package store is the persistence layer: it reads the raw seller
// feed and upserts the four engine output tables, keyed the way
// downstream consumers look them up.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/sellerpulse/internal/contracts"
)

// MetricsRepository reads the raw per-day metrics feed.
// data.raw_daily_metrics holds the seller-center export verbatim: the
// metric columns are text, coercion is the frame builder's concern.
type MetricsRepository struct {
	pool *pgxpool.Pool
}

// NewMetricsRepository creates a new metrics repository.
func NewMetricsRepository(pool *pgxpool.Pool) *MetricsRepository {
	return &MetricsRepository{pool: pool}
}

// FetchShop retrieves every raw row of one shop. Order is irrelevant:
// the frame builder sorts and dedupes.
func (r *MetricsRepository) FetchShop(ctx context.Context, shopID string) ([]contracts.RawDailyRow, error) {
	query := `
		SELECT shop_id, asin, metric_date,
		       COALESCE(sales, ''), COALESCE(orders, ''), COALESCE(sessions, ''),
		       COALESCE(ad_spend, ''), COALESCE(ad_sales, ''), COALESCE(ad_orders, ''),
		       COALESCE(profit, ''), COALESCE(refund_rate, ''), COALESCE(rating, ''),
		       COALESCE(inventory, ''), COALESCE(ad_impressions, ''), COALESCE(ad_clicks, ''),
		       COALESCE(organic_orders, ''), COALESCE(organic_sales, ''),
		       channel_spend
		FROM data.raw_daily_metrics
		WHERE shop_id = $1
	`

	rows, err := r.pool.Query(ctx, query, shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to query raw metrics: %w", err)
	}
	defer rows.Close()

	var out []contracts.RawDailyRow
	for rows.Next() {
		var raw contracts.RawDailyRow
		if err := rows.Scan(
			&raw.ShopID, &raw.ASIN, &raw.Date,
			&raw.Sales, &raw.Orders, &raw.Sessions,
			&raw.AdSpend, &raw.AdSales, &raw.AdOrders,
			&raw.Profit, &raw.RefundRate, &raw.Rating,
			&raw.Inventory, &raw.AdImpressions, &raw.AdClicks,
			&raw.OrganicOrders, &raw.OrganicSales,
			&raw.ChannelSpend,
		); err != nil {
			// A row that cannot be scanned (e.g. null metric_date)
			// violates the feed contract; surface it.
			return nil, fmt.Errorf("failed to scan raw metrics row: %w", err)
		}
		out = append(out, raw)
	}
	return out, rows.Err()
}

// ListShops returns the distinct shop ids present in the feed.
func (r *MetricsRepository) ListShops(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT shop_id FROM data.raw_daily_metrics ORDER BY shop_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	defer rows.Close()

	var shops []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan shop id: %w", err)
		}
		shops = append(shops, id)
	}
	return shops, rows.Err()
}

// CountProducts returns the number of distinct products for a shop,
// used to size the run progress bar.
func (r *MetricsRepository) CountProducts(ctx context.Context, shopID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT asin) FROM data.raw_daily_metrics WHERE shop_id = $1`, shopID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}
