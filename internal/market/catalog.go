package market

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type CatalogRepo struct{ DB *pgxpool.Pool }

// ListProducts returns on-shelf products, optionally limited to one stall.
func (r *CatalogRepo) ListProducts(ctx context.Context, stallID string) ([]Product, error) {
	q := `
		SELECT id, stall_id, name, COALESCE(description,''), unit, price, stock_quantity, status, created_at, updated_at
		FROM products WHERE status=$1`
	args := []any{string(ProductOnShelf)}
	if stallID != "" {
		q += ` AND stall_id=$2`
		args = append(args, stallID)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.StallID, &p.Name, &p.Description, &p.Unit,
			&p.Price, &p.StockQuantity, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) ListStalls(ctx context.Context) ([]Stall, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, owner_member_id, name, COALESCE(description,''), COALESCE(contact_phone,''),
		       approval_status, is_active, created_at
		FROM stalls WHERE is_active AND approval_status='approved'
		ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Stall
	for rows.Next() {
		var s Stall
		if err := rows.Scan(&s.ID, &s.OwnerMemberID, &s.Name, &s.Description, &s.ContactPhone,
			&s.ApprovalStatus, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type ProductInput struct {
	StallID     string          `json:"stall_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock_quantity"`
	Status      ProductStatus   `json:"status"`
}

// CreateProduct inserts a product under a stall the operator owns.
func (r *CatalogRepo) CreateProduct(ctx context.Context, operatorID string, in ProductInput) (string, error) {
	var ownerID string
	err := r.DB.QueryRow(ctx, `SELECT owner_member_id FROM stalls WHERE id=$1`, in.StallID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	} else if err != nil {
		return "", err
	}
	if ownerID != operatorID {
		return "", ErrNotOwner
	}
	if in.Status == "" {
		in.Status = ProductDraft
	}

	id := uuid.NewString()
	_, err = r.DB.Exec(ctx, `
		INSERT INTO products(id, stall_id, name, description, unit, price, stock_quantity, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, in.StallID, in.Name, in.Description, in.Unit, in.Price, in.Stock, string(in.Status))
	return id, err
}

// UpdateProduct edits a product. The update is scoped to products whose stall
// belongs to the operator; touching someone else's product looks like NotOwner.
func (r *CatalogRepo) UpdateProduct(ctx context.Context, operatorID, productID string, in ProductInput) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products p SET name=$3, description=$4, unit=$5, price=$6, stock_quantity=$7, status=$8, updated_at=now()
		FROM stalls s
		WHERE p.id=$1 AND s.id = p.stall_id AND s.owner_member_id=$2`,
		productID, operatorID, in.Name, in.Description, in.Unit, in.Price, in.Stock, string(in.Status))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotOwner
	}
	return nil
}

// ListOwnStallIDs returns the ids of stalls owned by the operator.
func (r *CatalogRepo) ListOwnStallIDs(ctx context.Context, operatorID string) ([]string, error) {
	rows, err := r.DB.Query(ctx, `SELECT id FROM stalls WHERE owner_member_id=$1`, operatorID)
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

// ListOwnProducts returns every product (drafts included) of the operator's stalls.
func (r *CatalogRepo) ListOwnProducts(ctx context.Context, operatorID string) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT p.id, p.stall_id, p.name, COALESCE(p.description,''), p.unit, p.price, p.stock_quantity,
		       p.status, p.created_at, p.updated_at
		FROM products p
		JOIN stalls s ON s.id = p.stall_id
		WHERE s.owner_member_id=$1
		ORDER BY p.created_at DESC`, operatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}
