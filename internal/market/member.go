package market

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MemberRepo struct{ DB *pgxpool.Pool }

func (r *MemberRepo) Get(ctx context.Context, memberID string) (*Member, error) {
	var m Member
	err := r.DB.QueryRow(ctx, `
		SELECT id, username, COALESCE(email,''), COALESCE(phone,''), current_points, status, created_at
		FROM members WHERE id=$1`, memberID).
		Scan(&m.ID, &m.Username, &m.Email, &m.Phone, &m.CurrentPoints, &m.Status, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &m, nil
}

// PointHistory returns the member's point ledger, newest first.
func (r *MemberRepo) PointHistory(ctx context.Context, memberID string) ([]PointTransaction, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, member_id, COALESCE(parent_order_id::text,''), kind, points, created_at
		FROM point_transactions WHERE member_id=$1 ORDER BY created_at DESC`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PointTransaction
	for rows.Next() {
		var t PointTransaction
		if err := rows.Scan(&t.ID, &t.MemberID, &t.ParentOrderID, &t.Kind, &t.Points, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
