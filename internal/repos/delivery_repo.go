package repos

import (
	"context"

	"marto/internal/domain"

	"github.com/jmoiron/sqlx"
)

type DeliveryRepo struct {
	db     sqlx.ExtContext
	driver string
}

const deliveryCols = `id, order_id, deliverer_id, status, assigned_at, delivered_at`

const upsertDeliverySQLite = `
  INSERT INTO deliveries(id, order_id, deliverer_id, status, assigned_at, delivered_at)
  VALUES (?, ?, ?, ?, ?, NULL)
  ON CONFLICT(order_id) DO UPDATE SET
    deliverer_id = excluded.deliverer_id,
    status       = excluded.status,
    assigned_at  = excluded.assigned_at,
    delivered_at = NULL
`

const upsertDeliveryMySQL = `
  INSERT INTO deliveries(id, order_id, deliverer_id, status, assigned_at, delivered_at)
  VALUES (?, ?, ?, ?, ?, NULL)
  ON DUPLICATE KEY UPDATE
    deliverer_id = VALUES(deliverer_id),
    status       = VALUES(status),
    assigned_at  = VALUES(assigned_at),
    delivered_at = NULL
`

// Upsert creates the delivery for d.OrderID or, when one exists, hands it to
// d.DelivererID and resets it to assigned. The row id of an existing delivery
// is kept, so the stored row is re-read and returned.
func (r *DeliveryRepo) Upsert(ctx context.Context, d *domain.Delivery) (domain.Delivery, error) {
	q := upsertDeliverySQLite
	if r.driver == DriverMySQL {
		q = upsertDeliveryMySQL
	}
	if _, err := r.db.ExecContext(ctx, q, d.ID, d.OrderID, d.DelivererID, domain.DeliveryAssigned, d.AssignedAt); err != nil {
		return domain.Delivery{}, err
	}
	return r.ByOrder(ctx, d.OrderID)
}

func (r *DeliveryRepo) ByOrder(ctx context.Context, orderID string) (domain.Delivery, error) {
	var d domain.Delivery
	err := sqlx.GetContext(ctx, r.db, &d, `SELECT `+deliveryCols+` FROM deliveries WHERE order_id = ?`, orderID)
	return d, err
}

// ByIDForDeliverer only matches a delivery currently held by delivererID.
func (r *DeliveryRepo) ByIDForDeliverer(ctx context.Context, id, delivererID string) (domain.Delivery, error) {
	var d domain.Delivery
	err := sqlx.GetContext(ctx, r.db, &d, `
	  SELECT `+deliveryCols+`
	  FROM deliveries
	  WHERE id = ? AND deliverer_id = ?
	`, id, delivererID)
	return d, err
}

func (r *DeliveryRepo) MarkDelivered(ctx context.Context, id, at string) error {
	_, err := r.db.ExecContext(ctx, `
	  UPDATE deliveries SET status = ?, delivered_at = ? WHERE id = ?
	`, domain.DeliveryDelivered, at, id)
	return err
}

func (r *DeliveryRepo) ListByDeliverer(ctx context.Context, delivererID string) ([]domain.Delivery, error) {
	out := []domain.Delivery{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
	  SELECT `+deliveryCols+`
	  FROM deliveries
	  WHERE deliverer_id = ?
	  ORDER BY assigned_at DESC, id DESC
	`, delivererID)
	return out, err
}
