package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const orderCols = `id, user_id, quote_id, supplier_id, payment_order_number, shipping_address,
	payment_method, total_amount, currency, status, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.QuoteID, &o.SupplierID, &o.PaymentOrderNumber, &o.ShippingAddress,
		&o.PaymentMethod, &o.TotalAmount, &o.Currency, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return o, ErrNotFound
	}
	return o, err
}

// CreateOrder: idempotent via payment_order_number.
// A redelivered payment event returns the existing row with created=false.
func (r *Repo) CreateOrder(ctx context.Context, o *Order) (bool, error) {
	ct, err := r.DB.Exec(ctx, `INSERT INTO orders(`+orderCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (payment_order_number) DO NOTHING`,
		o.ID, o.UserID, o.QuoteID, o.SupplierID, o.PaymentOrderNumber, o.ShippingAddress,
		o.PaymentMethod, o.TotalAmount, o.Currency, o.Status, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return false, err
	}
	if ct.RowsAffected() == 1 {
		return true, nil
	}
	existing, err := scanOrder(r.DB.QueryRow(ctx,
		`SELECT `+orderCols+` FROM orders WHERE payment_order_number=$1`, o.PaymentOrderNumber))
	if err != nil {
		return false, err
	}
	*o = existing
	return false, nil
}

func (r *Repo) GetOrder(ctx context.Context, id string) (Order, error) {
	return scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id))
}

func (r *Repo) ListOrders(ctx context.Context, f ListFilter) ([]Order, error) {
	q := `SELECT ` + orderCols + ` FROM orders WHERE 1=1`
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		q += fmt.Sprintf(" AND "+cond, len(args))
	}
	if f.UserID != "" {
		add("user_id=$%d", f.UserID)
	}
	if f.SupplierID != "" {
		add("supplier_id=$%d", f.SupplierID)
	}
	if f.Status != "" {
		add("status=$%d", f.Status)
	}
	rows, err := r.DB.Query(ctx, q+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateOrderStatus only applies when the row is still in status from.
func (r *Repo) UpdateOrderStatus(ctx context.Context, id string, from, to Status, at time.Time) error {
	ct, err := r.DB.Exec(ctx, `UPDATE orders SET status=$3, updated_at=$4 WHERE id=$1 AND status=$2`, id, from, to, at)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		if _, err := r.GetOrder(ctx, id); err != nil {
			return err
		}
		return ErrStale
	}
	return nil
}
