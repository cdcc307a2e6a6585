package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"marto/internal/domain"
	"marto/internal/repos"

	"github.com/google/uuid"
)

type DeliveryService struct {
	Store *repos.Store
	Now   func() time.Time
}

func NewDeliveryService(store *repos.Store) *DeliveryService {
	return &DeliveryService{Store: store, Now: time.Now}
}

// Assign gives the order's delivery to delivererID, creating it on first
// assignment and taking it over otherwise. The order moves to "assigned" in
// the same transaction. A delivered order can't be reassigned.
func (s *DeliveryService) Assign(ctx context.Context, orderID, delivererID string) (domain.Delivery, error) {
	var out domain.Delivery
	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		if _, err := tx.Orders.Get(ctx, orderID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NotFound("order %s not found", orderID)
			}
			return fmt.Errorf("get order: %w", err)
		}

		existing, err := tx.Deliveries.ByOrder(ctx, orderID)
		switch {
		case err == nil:
			if existing.Status == domain.DeliveryDelivered {
				return domain.Conflict("order %s is already delivered", orderID)
			}
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("get delivery: %w", err)
		}

		out, err = tx.Deliveries.Upsert(ctx, &domain.Delivery{
			ID:          uuid.NewString(),
			OrderID:     orderID,
			DelivererID: delivererID,
			AssignedAt:  domain.Timestamp(s.now()),
		})
		if err != nil {
			return fmt.Errorf("upsert delivery: %w", err)
		}
		if err := tx.Orders.UpdateStatus(ctx, orderID, domain.OrderAssigned); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Delivery{}, err
	}
	return out, nil
}

// Complete marks a delivery held by delivererID as delivered and mirrors the
// status onto its order. Deliveries held by someone else are not found.
func (s *DeliveryService) Complete(ctx context.Context, deliveryID, delivererID string) (domain.Delivery, error) {
	var out domain.Delivery
	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		d, err := tx.Deliveries.ByIDForDeliverer(ctx, deliveryID, delivererID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound("delivery %s not found", deliveryID)
		}
		if err != nil {
			return fmt.Errorf("get delivery: %w", err)
		}
		if d.Status == domain.DeliveryDelivered {
			out = d
			return nil
		}

		at := domain.Timestamp(s.now())
		if err := tx.Deliveries.MarkDelivered(ctx, d.ID, at); err != nil {
			return fmt.Errorf("mark delivered: %w", err)
		}
		if err := tx.Orders.UpdateStatus(ctx, d.OrderID, domain.OrderDelivered); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		d.Status = domain.DeliveryDelivered
		d.DeliveredAt = &at
		out = d
		return nil
	})
	if err != nil {
		return domain.Delivery{}, err
	}
	return out, nil
}

// ListDeliveries returns the deliveries held by delivererID.
func (s *DeliveryService) ListDeliveries(ctx context.Context, delivererID string) ([]domain.Delivery, error) {
	return s.Store.Deliveries.ListByDeliverer(ctx, delivererID)
}

func (s *DeliveryService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
