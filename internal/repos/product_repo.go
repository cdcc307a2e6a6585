package repos

import (
	"context"

	"marto/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type ProductRepo struct{ db sqlx.ExtContext }

const productCols = `id, merchant_id, name, description, price, stock, image_url, created_at`

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	_, err := r.db.ExecContext(ctx, `
	  INSERT INTO products(id, merchant_id, name, description, price, stock, image_url, created_at)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.MerchantID, p.Name, p.Description, p.Price, p.Stock, p.ImageURL, p.CreatedAt)
	return err
}

// List returns every product, newest first.
func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
	  SELECT `+productCols+`
	  FROM products
	  ORDER BY created_at DESC, id DESC
	`)
	return out, err
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, r.db, &p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

// Price returns the current unit price, or sql.ErrNoRows.
func (r *ProductRepo) Price(ctx context.Context, id string) (decimal.Decimal, error) {
	var price decimal.Decimal
	err := sqlx.GetContext(ctx, r.db, &price, `SELECT price FROM products WHERE id = ?`, id)
	return price, err
}

// SetPrice changes the current price. Existing order items keep the price
// they were placed at.
func (r *ProductRepo) SetPrice(ctx context.Context, id string, price decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx, `UPDATE products SET price = ? WHERE id = ?`, price, id)
	return err
}
