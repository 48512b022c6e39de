package market

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type StatsRepo struct{ DB *pgxpool.Pool }

type TopProduct struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

type DashboardStats struct {
	StallID      string          `json:"stall_id"`
	TodayRevenue decimal.Decimal `json:"today_revenue"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TopProducts  []TopProduct    `json:"top_products"`
}

// revenue clause: items of the stall's sub orders, parent paid, sub not cancelled.
const revenueFrom = `
	FROM order_items oi
	JOIN sub_orders so ON so.id = oi.sub_order_id
	JOIN parent_orders po ON po.id = so.parent_order_id
	WHERE so.stall_id=$1
	  AND po.order_status='paid'
	  AND so.order_status <> 'cancelled'`

// Dashboard aggregates revenue from price snapshots, never from current catalog
// prices. "Today" starts at local midnight.
func (r *StatsRepo) Dashboard(ctx context.Context, stallID string, now time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{StallID: stallID}

	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(oi.unit_price_snapshot * oi.quantity), 0)`+revenueFrom, stallID).
		Scan(&stats.TotalRevenue)
	if err != nil {
		return nil, err
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	err = r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(oi.unit_price_snapshot * oi.quantity), 0)`+revenueFrom+`
		  AND po.order_date >= $2`, stallID, midnight).
		Scan(&stats.TodayRevenue)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT p.id, p.name, SUM(oi.quantity) AS qty
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		JOIN sub_orders so ON so.id = oi.sub_order_id
		JOIN parent_orders po ON po.id = so.parent_order_id
		WHERE so.stall_id=$1
		  AND po.order_status='paid'
		  AND so.order_status <> 'cancelled'
		GROUP BY p.id, p.name
		ORDER BY qty DESC, p.name
		LIMIT 5`, stallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var tp TopProduct
		if err := rows.Scan(&tp.ProductID, &tp.Name, &tp.Quantity); err != nil {
			return nil, err
		}
		stats.TopProducts = append(stats.TopProducts, tp)
	}
	return stats, rows.Err()
}
