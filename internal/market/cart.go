package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CartRepo struct{ DB *pgxpool.Pool }

// Add puts quantity of a product into the member's cart. A repeat add for the
// same product merges into the existing row (unique member+product).
func (r *CartRepo) Add(ctx context.Context, memberID, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("invalid quantity %d", quantity)
	}

	var status ProductStatus
	err := r.DB.QueryRow(ctx, `SELECT status FROM products WHERE id=$1`, productID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	if status != ProductOnShelf {
		return ErrProductUnavailable
	}

	_, err = r.DB.Exec(ctx, `
		INSERT INTO cart_items(id, member_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (member_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		uuid.NewString(), memberID, productID, quantity)
	return err
}

func (r *CartRepo) List(ctx context.Context, memberID string) ([]CartLine, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT ci.id, ci.product_id, p.name, p.stall_id, p.price, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.member_id=$1
		ORDER BY ci.added_at`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CartLine
	for rows.Next() {
		var l CartLine
		if err := rows.Scan(&l.ID, &l.ProductID, &l.ProductName, &l.StallID, &l.UnitPrice, &l.Quantity); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// UpdateQuantity replaces the quantity of one cart line owned by the member.
func (r *CartRepo) UpdateQuantity(ctx context.Context, memberID, cartItemID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("invalid quantity %d", quantity)
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE cart_items SET quantity=$3 WHERE id=$1 AND member_id=$2`,
		cartItemID, memberID, quantity)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CartRepo) Remove(ctx context.Context, memberID, cartItemID string) error {
	ct, err := r.DB.Exec(ctx, `
		DELETE FROM cart_items WHERE id=$1 AND member_id=$2`, cartItemID, memberID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
