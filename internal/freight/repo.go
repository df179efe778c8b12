package freight

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Execer is satisfied by *pgxpool.Pool and pgx.Tx, so other repos can insert
// estimates inside their own transactions.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repo struct{ DB *pgxpool.Pool }

const estimateCols = `id, requested_by, origin, destination, container_type, container_quantity,
	estimated_date, incoterm, cost, currency, transit_days, carrier, status, valid_until,
	quote_id, order_id, created_at, updated_at`

func InsertEstimate(ctx context.Context, db Execer, e *Estimate) error {
	_, err := db.Exec(ctx, `INSERT INTO freight_quotes(`+estimateCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		e.ID, e.RequestedBy, e.Origin, e.Destination, e.ContainerType, e.ContainerQuantity,
		e.EstimatedDate, e.Incoterm, e.Cost, e.Currency, e.TransitDays, e.Carrier, e.Status, e.ValidUntil,
		e.QuoteID, e.OrderID, e.CreatedAt, e.UpdatedAt)
	return err
}

// LinkQuote attaches an unlinked estimate to a quote and reports whether it did.
func LinkQuote(ctx context.Context, db Execer, estimateID, quoteID string, at time.Time) (bool, error) {
	ct, err := db.Exec(ctx, `UPDATE freight_quotes SET quote_id=$2, updated_at=$3
		WHERE id=$1 AND quote_id IS NULL`, estimateID, quoteID, at)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

func (r *Repo) CreateFreightQuote(ctx context.Context, e *Estimate) error {
	return InsertEstimate(ctx, r.DB, e)
}

func (r *Repo) GetFreightQuote(ctx context.Context, id string) (Estimate, error) {
	var e Estimate
	err := r.DB.QueryRow(ctx, `SELECT `+estimateCols+` FROM freight_quotes WHERE id=$1`, id).Scan(
		&e.ID, &e.RequestedBy, &e.Origin, &e.Destination, &e.ContainerType, &e.ContainerQuantity,
		&e.EstimatedDate, &e.Incoterm, &e.Cost, &e.Currency, &e.TransitDays, &e.Carrier, &e.Status, &e.ValidUntil,
		&e.QuoteID, &e.OrderID, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return e, ErrNotFound
	}
	return e, err
}

func (r *Repo) UpdateFreightStatus(ctx context.Context, id string, from, to Status, at time.Time) error {
	ct, err := r.DB.Exec(ctx, `UPDATE freight_quotes SET status=$3, updated_at=$4 WHERE id=$1 AND status=$2`,
		id, from, to, at)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrStale
	}
	return nil
}
