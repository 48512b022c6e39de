package market

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderReadRepo struct{ DB *pgxpool.Pool }

// ListParentOrders returns the member's order history, newest first, with sub
// orders nested. Items are loaded only by GetParentOrder.
func (r *OrderReadRepo) ListParentOrders(ctx context.Context, memberID string) ([]ParentOrder, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, member_id, order_date, final_paid_amount, payment_method, order_status
		FROM parent_orders WHERE member_id=$1 ORDER BY order_date DESC`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []ParentOrder
	byID := map[string]int{}
	for rows.Next() {
		var o ParentOrder
		if err := rows.Scan(&o.ID, &o.MemberID, &o.OrderDate, &o.FinalPaidAmount, &o.PaymentMethod, &o.Status); err != nil {
			return nil, err
		}
		byID[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	subRows, err := r.DB.Query(ctx, `
		SELECT so.id, so.parent_order_id, so.stall_id, s.name, so.delivery_type, so.order_status
		FROM sub_orders so
		JOIN stalls s ON s.id = so.stall_id
		JOIN parent_orders po ON po.id = so.parent_order_id
		WHERE po.member_id=$1
		ORDER BY so.id`, memberID)
	if err != nil {
		return nil, err
	}
	defer subRows.Close()

	for subRows.Next() {
		var so SubOrder
		if err := subRows.Scan(&so.ID, &so.ParentOrderID, &so.StallID, &so.StallName, &so.DeliveryType, &so.Status); err != nil {
			return nil, err
		}
		if i, ok := byID[so.ParentOrderID]; ok {
			orders[i].SubOrders = append(orders[i].SubOrders, so)
		}
	}
	return orders, subRows.Err()
}

// GetParentOrder loads one order with sub orders and line items. callerID, when
// non-empty, must be the ordering member.
func (r *OrderReadRepo) GetParentOrder(ctx context.Context, orderID, callerID string) (*ParentOrder, error) {
	var o ParentOrder
	err := r.DB.QueryRow(ctx, `
		SELECT id, member_id, order_date, final_paid_amount, payment_method, order_status
		FROM parent_orders WHERE id=$1`, orderID).
		Scan(&o.ID, &o.MemberID, &o.OrderDate, &o.FinalPaidAmount, &o.PaymentMethod, &o.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	if callerID != "" && callerID != o.MemberID {
		return nil, ErrNotOwner
	}

	subRows, err := r.DB.Query(ctx, `
		SELECT so.id, so.parent_order_id, so.stall_id, s.name, so.delivery_type, so.order_status
		FROM sub_orders so
		JOIN stalls s ON s.id = so.stall_id
		WHERE so.parent_order_id=$1
		ORDER BY so.id`, orderID)
	if err != nil {
		return nil, err
	}
	defer subRows.Close()

	subIdx := map[string]int{}
	for subRows.Next() {
		var so SubOrder
		if err := subRows.Scan(&so.ID, &so.ParentOrderID, &so.StallID, &so.StallName, &so.DeliveryType, &so.Status); err != nil {
			return nil, err
		}
		subIdx[so.ID] = len(o.SubOrders)
		o.SubOrders = append(o.SubOrders, so)
	}
	if err := subRows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := r.DB.Query(ctx, `
		SELECT oi.id, oi.sub_order_id, oi.product_id, p.name, oi.unit_price_snapshot, oi.quantity
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		JOIN sub_orders so ON so.id = oi.sub_order_id
		WHERE so.parent_order_id=$1
		ORDER BY oi.id`, orderID)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var it OrderItem
		if err := itemRows.Scan(&it.ID, &it.SubOrderID, &it.ProductID, &it.ProductName, &it.UnitPriceSnapshot, &it.Quantity); err != nil {
			return nil, err
		}
		if i, ok := subIdx[it.SubOrderID]; ok {
			o.SubOrders[i].Items = append(o.SubOrders[i].Items, it)
		}
	}
	return &o, itemRows.Err()
}

// ListStallSubOrders returns all sub orders for stalls owned by the operator.
func (r *OrderReadRepo) ListStallSubOrders(ctx context.Context, operatorID string) ([]SubOrder, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT so.id, so.parent_order_id, so.stall_id, s.name, so.delivery_type, so.order_status
		FROM sub_orders so
		JOIN stalls s ON s.id = so.stall_id
		WHERE s.owner_member_id=$1
		ORDER BY so.id DESC`, operatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SubOrder
	for rows.Next() {
		var so SubOrder
		if err := rows.Scan(&so.ID, &so.ParentOrderID, &so.StallID, &so.StallName, &so.DeliveryType, &so.Status); err != nil {
			return nil, err
		}
		out = append(out, so)
	}
	return out, rows.Err()
}
