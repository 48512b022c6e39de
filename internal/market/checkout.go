package market

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type CheckoutRepo struct{ DB *pgxpool.Pool }

type CheckoutInput struct {
	MemberID      string
	UsePoints     int
	PaymentMethod string // CASH | LINE_PAY | ALL_PAY
	DeliveryType  string // PICKUP | DELIVERY
}

type CheckoutResult struct {
	OrderID     string
	TotalAmount decimal.Decimal
	FinalAmount decimal.Decimal
	PointsSpent int
	StallIDs    []string
}

// pricedLine is a cart line after the product row has been locked and read.
type pricedLine struct {
	ProductID   string
	ProductName string
	StallID     string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Checkout converts the member's cart into a parent order with one sub order per
// stall, all inside a single transaction:
//
//	lock member row      -> validate point balance
//	lock cart rows       -> reject empty cart
//	lock product rows    -> validate stock, decrement, read price
//	insert parent order  -> debit points -> insert sub orders + items -> clear cart
//
// Any validation or persistence failure rolls the whole thing back. Product rows
// are locked in a stable order so two members checking out overlapping carts
// cannot deadlock.
func (r *CheckoutRepo) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	if in.UsePoints < 0 {
		in.UsePoints = 0
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var balance int
	err = tx.QueryRow(ctx, `SELECT current_points FROM members WHERE id=$1 FOR UPDATE`, in.MemberID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	if in.UsePoints > balance {
		return nil, ErrInsufficientPoints
	}

	// Serializes concurrent checkouts / cart mutations by the same member.
	rows, err := tx.Query(ctx, `
		SELECT product_id, quantity FROM cart_items
		WHERE member_id=$1 ORDER BY product_id FOR UPDATE`, in.MemberID)
	if err != nil {
		return nil, err
	}
	type cartRow struct {
		productID string
		qty       int
	}
	var cart []cartRow
	for rows.Next() {
		var c cartRow
		if err := rows.Scan(&c.productID, &c.qty); err != nil {
			rows.Close()
			return nil, err
		}
		cart = append(cart, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	lines := make([]pricedLine, 0, len(cart))
	for _, c := range cart {
		var l pricedLine
		var stock int
		err := tx.QueryRow(ctx, `
			SELECT name, stall_id, price, stock_quantity FROM products
			WHERE id=$1 FOR UPDATE`, c.productID).Scan(&l.ProductName, &l.StallID, &l.UnitPrice, &stock)
		if err != nil {
			return nil, err
		}
		if stock < c.qty {
			return nil, &InsufficientStockError{
				ProductID: c.productID, ProductName: l.ProductName,
				Requested: c.qty, Available: stock,
			}
		}
		if _, err := tx.Exec(ctx, `
			UPDATE products SET stock_quantity = stock_quantity - $2, updated_at = now()
			WHERE id=$1`, c.productID, c.qty); err != nil {
			return nil, err
		}
		l.ProductID = c.productID
		l.Quantity = c.qty
		lines = append(lines, l)
	}

	total := orderTotal(lines)
	final := finalAmount(total, in.UsePoints)

	orderID := uuid.NewString()
	if _, err := tx.Exec(ctx, `
		INSERT INTO parent_orders(id, member_id, final_paid_amount, payment_method, order_status)
		VALUES ($1, $2, $3, $4, $5)`,
		orderID, in.MemberID, final, in.PaymentMethod, string(ParentPending)); err != nil {
		return nil, err
	}

	if in.UsePoints > 0 {
		if _, err := tx.Exec(ctx, `
			UPDATE members SET current_points = current_points - $2 WHERE id=$1`,
			in.MemberID, in.UsePoints); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO point_transactions(id, member_id, parent_order_id, kind, points)
			VALUES ($1, $2, $3, $4, $5)`,
			uuid.NewString(), in.MemberID, orderID, PointKindSpend, in.UsePoints); err != nil {
			return nil, err
		}
	}

	stallIDs, byStall := groupByStall(lines)
	for _, stallID := range stallIDs {
		subID := uuid.NewString()
		if _, err := tx.Exec(ctx, `
			INSERT INTO sub_orders(id, parent_order_id, stall_id, delivery_type, order_status)
			VALUES ($1, $2, $3, $4, $5)`,
			subID, orderID, stallID, in.DeliveryType, string(SubReceived)); err != nil {
			return nil, err
		}
		for _, l := range byStall[stallID] {
			if _, err := tx.Exec(ctx, `
				INSERT INTO order_items(id, sub_order_id, product_id, unit_price_snapshot, quantity)
				VALUES ($1, $2, $3, $4, $5)`,
				uuid.NewString(), subID, l.ProductID, l.UnitPrice, l.Quantity); err != nil {
				return nil, err
			}
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE member_id=$1`, in.MemberID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &CheckoutResult{
		OrderID:     orderID,
		TotalAmount: total,
		FinalAmount: final,
		PointsSpent: in.UsePoints,
		StallIDs:    stallIDs,
	}, nil
}

func orderTotal(lines []pricedLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// finalAmount clamps at zero: points can fully cover small orders, but the order
// never goes negative.
func finalAmount(total decimal.Decimal, usePoints int) decimal.Decimal {
	final := total.Sub(decimal.NewFromInt(int64(usePoints)))
	if final.IsNegative() {
		return decimal.Zero
	}
	return final
}

// groupByStall partitions lines by stall, stall ids in stable (sorted) order.
func groupByStall(lines []pricedLine) ([]string, map[string][]pricedLine) {
	byStall := make(map[string][]pricedLine)
	for _, l := range lines {
		byStall[l.StallID] = append(byStall[l.StallID], l)
	}
	stallIDs := make([]string, 0, len(byStall))
	for id := range byStall {
		stallIDs = append(stallIDs, id)
	}
	sort.Strings(stallIDs)
	return stallIDs, byStall
}
