package repos

import (
	"context"

	"marto/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db sqlx.ExtContext }

const orderCols = `o.id, o.client_id, o.merchant_id, o.total, o.status, o.created_at`

// Create inserts a new order header.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	_, err := r.db.ExecContext(ctx, `
	  INSERT INTO orders
	    (id, client_id, merchant_id, total, status, created_at)
	  VALUES
	    (?,  ?,         ?,           ?,     ?,      ?)
	`, o.ID, o.ClientID, o.MerchantID, o.Total, o.Status, o.CreatedAt)
	return err
}

// InsertItem inserts a single line item.
func (r *OrderRepo) InsertItem(ctx context.Context, it *domain.OrderItem) error {
	_, err := r.db.ExecContext(ctx, `
	  INSERT INTO order_items(id, order_id, product_id, quantity, unit_price)
	  VALUES(?, ?, ?, ?, ?)
	`, it.ID, it.OrderID, it.ProductID, it.Quantity, it.UnitPrice)
	return err
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	err := sqlx.GetContext(ctx, r.db, &o, `SELECT `+orderCols+` FROM orders o WHERE o.id = ?`, id)
	return o, err
}

func (r *OrderRepo) Items(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	items := []domain.OrderItem{}
	err := sqlx.SelectContext(ctx, r.db, &items, `
	  SELECT id, order_id, product_id, quantity, unit_price
	  FROM order_items
	  WHERE order_id = ?
	  ORDER BY id
	`, orderID)
	return items, err
}

func (r *OrderRepo) ListByClient(ctx context.Context, clientID string) ([]domain.Order, error) {
	return r.list(ctx, `WHERE o.client_id = ?`, clientID)
}

func (r *OrderRepo) ListByMerchant(ctx context.Context, merchantID string) ([]domain.Order, error) {
	return r.list(ctx, `WHERE o.merchant_id = ?`, merchantID)
}

// ListByDeliverer returns orders whose delivery is held by delivererID.
func (r *OrderRepo) ListByDeliverer(ctx context.Context, delivererID string) ([]domain.Order, error) {
	return r.list(ctx, `JOIN deliveries d ON d.order_id = o.id WHERE d.deliverer_id = ?`, delivererID)
}

func (r *OrderRepo) list(ctx context.Context, where string, arg any) ([]domain.Order, error) {
	out := []domain.Order{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
	  SELECT `+orderCols+`
	  FROM orders o
	  `+where+`
	  ORDER BY o.created_at DESC, o.id DESC
	`, arg)
	return out, err
}

// UpdateStatus sets the order status. Callers check that the order exists.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, status, id)
	return err
}
