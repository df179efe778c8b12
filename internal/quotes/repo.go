package quotes

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-wholesale-rfq/internal/freight"
	"github.com/ariefcatur/go-wholesale-rfq/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const quoteCols = `id, buyer_id, supplier_id, total_price, currency, status, payment_terms, notes,
	freight_quote_id, freight_cost, supplier_comments, from_cart, created_at, updated_at, accepted_at`

// CreateQuotes: freight rows first (quotes reference them), then quotes and
// items, then the consumed cart lines. Any failure rolls everything back.
func (r *Repo) CreateQuotes(ctx context.Context, drafts []Draft, cartOf string, consumed []CartLine) error {
	return postgres.InTx(ctx, r.DB, func(tx pgx.Tx) error {
		for _, d := range drafts {
			q := d.Quote
			if d.NewFreight != nil {
				if err := freight.InsertEstimate(ctx, tx, d.NewFreight); err != nil {
					return fmt.Errorf("insert freight: %w", err)
				}
			}
			if d.LinkFreightID != "" {
				linked, err := freight.LinkQuote(ctx, tx, d.LinkFreightID, q.ID, q.CreatedAt)
				if err != nil {
					return fmt.Errorf("link freight: %w", err)
				}
				if !linked {
					return ErrStale
				}
			}
			if _, err := tx.Exec(ctx, `INSERT INTO quotes(`+quoteCols+`)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
				q.ID, q.BuyerID, q.SupplierID, q.TotalPrice, q.Currency, q.Status, q.PaymentTerms, q.Notes,
				q.FreightQuoteID, q.FreightCost, q.SupplierComments, q.FromCart, q.CreatedAt, q.UpdatedAt, q.AcceptedAt,
			); err != nil {
				return fmt.Errorf("insert quote: %w", err)
			}
			for _, it := range q.Items {
				if _, err := tx.Exec(ctx, `INSERT INTO quote_items(id, quote_id, product_id, quantity,
					container_type, price_per_container, currency, incoterm, notes, line_total)
					VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
					it.ID, q.ID, it.ProductID, it.Quantity, it.ContainerType, it.PricePerContainer,
					it.Currency, it.Incoterm, it.Notes, it.LineTotal,
				); err != nil {
					return fmt.Errorf("insert quote item: %w", err)
				}
			}
		}
		for _, l := range consumed {
			ct, err := tx.Exec(ctx, `DELETE FROM cart_items
				WHERE id=$1 AND user_id=$2 AND container_quantity=$3`, l.ID, cartOf, l.Quantity)
			if err != nil {
				return fmt.Errorf("consume cart item: %w", err)
			}
			if ct.RowsAffected() != 1 {
				return ErrCartChanged
			}
		}
		return nil
	})
}

func scanQuote(row pgx.Row) (Quote, error) {
	var q Quote
	err := row.Scan(&q.ID, &q.BuyerID, &q.SupplierID, &q.TotalPrice, &q.Currency, &q.Status, &q.PaymentTerms,
		&q.Notes, &q.FreightQuoteID, &q.FreightCost, &q.SupplierComments, &q.FromCart, &q.CreatedAt,
		&q.UpdatedAt, &q.AcceptedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return q, ErrNotFound
	}
	return q, err
}

func (r *Repo) itemsFor(ctx context.Context, ids []string) (map[string][]Item, error) {
	out := map[string][]Item{}
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.DB.Query(ctx, `SELECT id, quote_id, product_id, quantity, container_type,
		price_per_container, currency, incoterm, notes, line_total
		FROM quote_items WHERE quote_id = ANY($1) ORDER BY quote_id, id`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.QuoteID, &it.ProductID, &it.Quantity, &it.ContainerType,
			&it.PricePerContainer, &it.Currency, &it.Incoterm, &it.Notes, &it.LineTotal); err != nil {
			return nil, err
		}
		out[it.QuoteID] = append(out[it.QuoteID], it)
	}
	return out, rows.Err()
}

func (r *Repo) GetQuote(ctx context.Context, id string) (Quote, error) {
	q, err := scanQuote(r.DB.QueryRow(ctx, `SELECT `+quoteCols+` FROM quotes WHERE id=$1`, id))
	if err != nil {
		return q, err
	}
	items, err := r.itemsFor(ctx, []string{id})
	if err != nil {
		return q, err
	}
	q.Items = items[id]
	return q, nil
}

func (r *Repo) ListQuotes(ctx context.Context, f ListFilter) ([]Quote, error) {
	sql := `SELECT ` + quoteCols + ` FROM quotes WHERE true`
	args := []any{}
	if f.BuyerID != "" {
		args = append(args, f.BuyerID)
		sql += fmt.Sprintf(" AND buyer_id=$%d", len(args))
	}
	if f.SupplierID != "" {
		args = append(args, f.SupplierID)
		sql += fmt.Sprintf(" AND supplier_id=$%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		sql += fmt.Sprintf(" AND status=$%d", len(args))
	}
	sql += " ORDER BY created_at DESC, id"

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	out := []Quote{}
	ids := []string{}
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, q)
		ids = append(ids, q.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = items[out[i].ID]
	}
	return out, nil
}

func (r *Repo) ApplyQuoteResponse(ctx context.Context, resp Response) error {
	return postgres.InTx(ctx, r.DB, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `UPDATE quotes SET status=$3, total_price=$4,
			supplier_comments=COALESCE($5, supplier_comments),
			accepted_at=COALESCE($6, accepted_at), updated_at=$7
			WHERE id=$1 AND status=$2`,
			resp.QuoteID, resp.From, resp.To, resp.TotalPrice, resp.SupplierComments, resp.AcceptedAt, resp.UpdatedAt)
		if err != nil {
			return err
		}
		if ct.RowsAffected() != 1 {
			return ErrStale
		}
		return insertComment(ctx, tx, &resp.Comment)
	})
}

func (r *Repo) DeleteQuote(ctx context.Context, id string) error {
	return postgres.InTx(ctx, r.DB, func(tx pgx.Tx) error {
		// Lock the quote so a payment order cannot slip in before the delete.
		var exists bool
		err := tx.QueryRow(ctx, `SELECT true FROM quotes WHERE id=$1 FOR UPDATE`, id).Scan(&exists)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var paid bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payment_orders WHERE quote_id=$1)`, id).Scan(&paid); err != nil {
			return err
		}
		if paid {
			return ErrHasPayments
		}
		if _, err := tx.Exec(ctx, `UPDATE freight_quotes SET quote_id=NULL WHERE quote_id=$1`, id); err != nil {
			return err
		}
		ct, err := tx.Exec(ctx, `DELETE FROM quotes WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if ct.RowsAffected() != 1 {
			return ErrNotFound
		}
		return nil
	})
}

func insertComment(ctx context.Context, db freight.Execer, c *Comment) error {
	_, err := db.Exec(ctx, `INSERT INTO quote_comments(id, quote_id, user_id, user_type, comment, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`, c.ID, c.QuoteID, c.UserID, c.UserType, c.Comment, c.Status, c.CreatedAt)
	return err
}

func (r *Repo) AddQuoteComment(ctx context.Context, c *Comment) error {
	return insertComment(ctx, r.DB, c)
}

const commentCols = `id, quote_id, user_id, user_type, comment, status, created_at`

func (r *Repo) ListQuoteComments(ctx context.Context, quoteID string) ([]Comment, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+commentCols+` FROM quote_comments
		WHERE quote_id=$1 ORDER BY created_at, id`, quoteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.QuoteID, &c.UserID, &c.UserType, &c.Comment, &c.Status, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) LatestQuoteComment(ctx context.Context, quoteID string) (*Comment, error) {
	var c Comment
	err := r.DB.QueryRow(ctx, `SELECT `+commentCols+` FROM quote_comments
		WHERE quote_id=$1 ORDER BY created_at DESC, id DESC LIMIT 1`, quoteID).
		Scan(&c.ID, &c.QuoteID, &c.UserID, &c.UserType, &c.Comment, &c.Status, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
