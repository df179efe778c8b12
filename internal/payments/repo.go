package payments

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const orderCols = `order_number, quote_id, buyer_id, supplier_id, total_amount, currency, payment_method, payment_status,
	shipping_address, authorization_id, approval_url, external_payment_id, payer_id, token,
	created_at, expires_at, completed_at`

// CreatePaymentOrder inserts through a SELECT on quotes so a quote owned by
// another buyer never gets a payment order, even if the caller skipped the check.
func (r *Repo) CreatePaymentOrder(ctx context.Context, o *Order) error {
	ct, err := r.DB.Exec(ctx, `INSERT INTO payment_orders(`+orderCols+`)
		SELECT $1, q.id, $3, q.supplier_id, $4, $5, $6, $7, $8, $9, $10, '', '', '', $11, $12, NULL
		FROM quotes q WHERE q.id=$2 AND q.buyer_id=$3`,
		o.OrderNumber, o.QuoteID, o.BuyerID, o.TotalAmount, o.Currency, o.PaymentMethod, o.PaymentStatus,
		o.ShippingAddress, o.AuthorizationID, o.ApprovalURL, o.CreatedAt, o.ExpiresAt,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrBuyerMismatch
	}
	return nil
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	var completed *time.Time
	err := row.Scan(&o.OrderNumber, &o.QuoteID, &o.BuyerID, &o.SupplierID, &o.TotalAmount, &o.Currency, &o.PaymentMethod,
		&o.PaymentStatus, &o.ShippingAddress, &o.AuthorizationID, &o.ApprovalURL, &o.ExternalPaymentID,
		&o.PayerID, &o.Token, &o.CreatedAt, &o.ExpiresAt, &completed)
	if errors.Is(err, pgx.ErrNoRows) {
		return o, ErrNotFound
	}
	o.CompletedAt = completed
	return o, err
}

func (r *Repo) GetPaymentOrder(ctx context.Context, orderNumber string) (Order, error) {
	return scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM payment_orders WHERE order_number=$1`, orderNumber))
}

func (r *Repo) CompletePaymentOrder(ctx context.Context, orderNumber string, c Completion) (Order, error) {
	return scanOrder(r.DB.QueryRow(ctx, `UPDATE payment_orders
		SET payment_status=$2, external_payment_id=$3, payer_id=$4, token=$5, completed_at=$6
		WHERE order_number=$1
		RETURNING `+orderCols,
		orderNumber, StatusCompleted, c.ExternalPaymentID, c.PayerID, c.Token, c.CompletedAt))
}
