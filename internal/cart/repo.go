package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repo struct{ DB *pgxpool.Pool }

const itemCols = `c.id, c.user_id, c.product_id, p.supplier_id, c.container_quantity, c.container_type,
	c.price_per_container, c.custom_price, c.incoterm, c.notes, c.created_at, c.updated_at`

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	var custom decimal.NullDecimal
	err := row.Scan(&it.ID, &it.UserID, &it.ProductID, &it.SupplierID, &it.ContainerQuantity, &it.ContainerType,
		&it.PricePerContainer, &custom, &it.Incoterm, &it.Notes, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return it, ErrNotFound
	}
	if custom.Valid {
		it.CustomPrice = &custom.Decimal
	}
	return it, err
}

func nullable(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func (r *Repo) UpsertCartItem(ctx context.Context, it *Item) error {
	var id string
	err := r.DB.QueryRow(ctx, `
		INSERT INTO cart_items(id, user_id, product_id, container_quantity, container_type,
			price_per_container, custom_price, incoterm, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$10)
		ON CONFLICT (user_id, product_id, container_type) DO UPDATE SET
			container_quantity = cart_items.container_quantity + EXCLUDED.container_quantity,
			price_per_container = EXCLUDED.price_per_container,
			custom_price = COALESCE(EXCLUDED.custom_price, cart_items.custom_price),
			incoterm = EXCLUDED.incoterm,
			notes = CASE WHEN EXCLUDED.notes = '' THEN cart_items.notes ELSE EXCLUDED.notes END,
			updated_at = EXCLUDED.updated_at
		RETURNING id`,
		it.ID, it.UserID, it.ProductID, it.ContainerQuantity, it.ContainerType,
		it.PricePerContainer, nullable(it.CustomPrice), it.Incoterm, it.Notes, it.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return err
	}
	got, err := r.GetCartItem(ctx, it.UserID, id)
	if err != nil {
		return err
	}
	*it = got
	return nil
}

func (r *Repo) GetCartItem(ctx context.Context, userID, itemID string) (Item, error) {
	return scanItem(r.DB.QueryRow(ctx, `SELECT `+itemCols+`
		FROM cart_items c JOIN products p ON p.id = c.product_id
		WHERE c.id=$1 AND c.user_id=$2`, itemID, userID))
}

func (r *Repo) UpdateCartItem(ctx context.Context, it *Item) error {
	ct, err := r.DB.Exec(ctx, `UPDATE cart_items SET container_quantity=$3, custom_price=$4, notes=$5, updated_at=$6
		WHERE id=$1 AND user_id=$2`,
		it.ID, it.UserID, it.ContainerQuantity, nullable(it.CustomPrice), it.Notes, it.UpdatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteCartItem(ctx context.Context, userID, itemID string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM cart_items WHERE id=$1 AND user_id=$2`, itemID, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) ClearCart(ctx context.Context, userID string) (int, error) {
	ct, err := r.DB.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID)
	if err != nil {
		return 0, err
	}
	return int(ct.RowsAffected()), nil
}

func (r *Repo) ListCartItems(ctx context.Context, userID string) ([]Item, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+itemCols+`
		FROM cart_items c JOIN products p ON p.id = c.product_id
		WHERE c.user_id=$1 ORDER BY c.created_at, c.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
