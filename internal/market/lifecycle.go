package market

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type OrderRepo struct{ DB *pgxpool.Pool }

type ParentStatusUpdate struct {
	OrderID      string
	MemberID     string
	PaidAmount   decimal.Decimal
	Status       ParentStatus
	PointsEarned int
	StallIDs     []string
}

// UpdateParentStatus moves a parent order along its state machine and applies the
// transition's side effects in the same transaction. The FOR UPDATE read of the
// previous status is what makes the accrual rule fire exactly once: two racing
// pending->paid updates serialize on the row lock and the loser sees before=paid.
// callerID, when non-empty, must be the ordering member.
func (r *OrderRepo) UpdateParentStatus(ctx context.Context, orderID, callerID string, next ParentStatus) (*ParentStatusUpdate, error) {
	if !ValidParentStatus(next) {
		return nil, ErrUnsupportedStatus
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var memberID string
	var amount decimal.Decimal
	var before ParentStatus
	err = tx.QueryRow(ctx, `
		SELECT member_id, final_paid_amount, order_status FROM parent_orders
		WHERE id=$1 FOR UPDATE`, orderID).Scan(&memberID, &amount, &before)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	if callerID != "" && callerID != memberID {
		return nil, ErrNotOwner
	}
	if !CanTransitionParent(before, next) {
		return nil, ErrInvalidTransition
	}

	if _, err := tx.Exec(ctx, `
		UPDATE parent_orders SET order_status=$2 WHERE id=$1`, orderID, string(next)); err != nil {
		return nil, err
	}

	earned := 0
	for _, eff := range ParentTransitionEffects(before, next, amount) {
		switch eff.Kind {
		case EffectCreditPoints:
			if _, err := tx.Exec(ctx, `
				UPDATE members SET current_points = current_points + $2 WHERE id=$1`,
				memberID, eff.Points); err != nil {
				return nil, err
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO point_transactions(id, member_id, parent_order_id, kind, points)
				VALUES ($1, $2, $3, $4, $5)`,
				uuid.NewString(), memberID, orderID, PointKindEarn, eff.Points); err != nil {
				return nil, err
			}
			earned += eff.Points
		}
	}

	stallIDs, err := subOrderStalls(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &ParentStatusUpdate{
		OrderID:      orderID,
		MemberID:     memberID,
		PaidAmount:   amount,
		Status:       next,
		PointsEarned: earned,
		StallIDs:     stallIDs,
	}, nil
}

func subOrderStalls(ctx context.Context, tx pgx.Tx, orderID string) ([]string, error) {
	rows, err := tx.Query(ctx, `
		SELECT DISTINCT stall_id FROM sub_orders WHERE parent_order_id=$1 ORDER BY stall_id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

type SubStatusUpdate struct {
	SubOrderID    string
	ParentOrderID string
	StallID       string
	Status        SubStatus
}

// UpdateSubOrderStatus transitions one stall's portion of an order. settable is
// the configured allow-list of statuses an operator may request; ownership is
// enforced by joining the stall's owner, so a vendor can never touch another
// vendor's sub order.
func (r *OrderRepo) UpdateSubOrderStatus(ctx context.Context, subOrderID, operatorID string, next SubStatus, settable map[SubStatus]bool) (*SubStatusUpdate, error) {
	if !settable[next] {
		return nil, ErrUnsupportedStatus
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var parentID, stallID, ownerID string
	var before SubStatus
	err = tx.QueryRow(ctx, `
		SELECT so.parent_order_id, so.stall_id, s.owner_member_id, so.order_status
		FROM sub_orders so
		JOIN stalls s ON s.id = so.stall_id
		WHERE so.id=$1
		FOR UPDATE OF so`, subOrderID).Scan(&parentID, &stallID, &ownerID, &before)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	if operatorID != ownerID {
		return nil, ErrNotOwner
	}
	if !CanTransitionSub(before, next) {
		return nil, ErrInvalidTransition
	}

	if _, err := tx.Exec(ctx, `
		UPDATE sub_orders SET order_status=$2 WHERE id=$1`, subOrderID, string(next)); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &SubStatusUpdate{
		SubOrderID:    subOrderID,
		ParentOrderID: parentID,
		StallID:       stallID,
		Status:        next,
	}, nil
}
