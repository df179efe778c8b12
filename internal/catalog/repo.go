package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const productCols = `id, title, description, category_id, supplier_id, price_per_container,
	units_per_container, moq, max_quantity, container_type, stock_containers, is_negotiable,
	incoterm, specifications, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.CategoryID, &p.SupplierID, &p.PricePerContainer,
		&p.UnitsPerContainer, &p.MOQ, &p.MaxQuantity, &p.ContainerType, &p.StockContainers, &p.IsNegotiable,
		&p.Incoterm, &p.Specifications, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()
	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, description, parent_id, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ParentID, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) GetCategory(ctx context.Context, id string) (Category, error) {
	var c Category
	err := r.DB.QueryRow(ctx, `SELECT id, name, description, parent_id, created_at FROM categories WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.ParentID, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return c, ErrNotFound
	}
	return c, err
}

func (r *Repo) ListProducts(ctx context.Context, f ProductFilter) ([]Product, error) {
	q := `SELECT ` + productCols + ` FROM products WHERE is_active`
	args := []any{}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		q += fmt.Sprintf(" AND category_id=$%d", len(args))
	}
	if f.SupplierID != "" {
		args = append(args, f.SupplierID)
		q += fmt.Sprintf(" AND supplier_id=$%d", len(args))
	}
	args = append(args, f.Limit, f.Offset)
	q += fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *Repo) GetProduct(ctx context.Context, id string) (Product, error) {
	return scanProduct(r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id))
}

func (r *Repo) SearchProducts(ctx context.Context, query string, limit int) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productCols+` FROM products
		WHERE is_active AND (title ILIKE '%' || $1 || '%'
			OR description ILIKE '%' || $1 || '%'
			OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(COALESCE(specifications->'tags', '[]'::jsonb)) t
			           WHERE t ILIKE '%' || $1 || '%'))
		ORDER BY title LIMIT $2`, query, limit)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *Repo) CreateProduct(ctx context.Context, p *Product) error {
	_, err := r.DB.Exec(ctx, `INSERT INTO products(`+productCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		p.ID, p.Title, p.Description, p.CategoryID, p.SupplierID, p.PricePerContainer,
		p.UnitsPerContainer, p.MOQ, p.MaxQuantity, p.ContainerType, p.StockContainers, p.IsNegotiable,
		p.Incoterm, p.Specifications, p.IsActive, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *Repo) UpdateProduct(ctx context.Context, p *Product) error {
	ct, err := r.DB.Exec(ctx, `UPDATE products SET title=$2, description=$3, category_id=$4,
		price_per_container=$5, units_per_container=$6, moq=$7, max_quantity=$8, container_type=$9,
		stock_containers=$10, is_negotiable=$11, incoterm=$12, specifications=$13, is_active=$14, updated_at=$15
		WHERE id=$1`,
		p.ID, p.Title, p.Description, p.CategoryID, p.PricePerContainer, p.UnitsPerContainer, p.MOQ,
		p.MaxQuantity, p.ContainerType, p.StockContainers, p.IsNegotiable, p.Incoterm, p.Specifications,
		p.IsActive, p.UpdatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrNotFound
	}
	return nil
}
