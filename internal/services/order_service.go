package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"marto/internal/domain"
	"marto/internal/repos"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderService struct {
	Store *repos.Store
	Now   func() time.Time
}

func NewOrderService(store *repos.Store) *OrderService {
	return &OrderService{Store: store, Now: time.Now}
}

type LineInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type OrderInput struct {
	MerchantID string      `json:"merchant_id"`
	Items      []LineInput `json:"items"`
}

// CreateOrder prices every line from the catalog and stores the order with
// its items in one transaction. Each product price is read once and used for
// both the total and the item snapshot.
func (s *OrderService) CreateOrder(ctx context.Context, clientID string, in OrderInput) (domain.Order, error) {
	if len(in.Items) == 0 {
		return domain.Order{}, domain.Validation("items must not be empty")
	}
	merchantID := strings.TrimSpace(in.MerchantID)
	if merchantID == "" {
		return domain.Order{}, domain.Validation("merchant_id is required")
	}
	for i, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return domain.Order{}, domain.Validation("items[%d]: product_id is required", i)
		}
		if it.Quantity < 1 {
			return domain.Order{}, domain.Validation("items[%d]: quantity must be at least 1", i)
		}
	}

	order := domain.Order{
		ID:         uuid.NewString(),
		ClientID:   clientID,
		MerchantID: merchantID,
		Status:     domain.OrderCreated,
		CreatedAt:  domain.Timestamp(s.now()),
	}

	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		m, err := tx.Users.ByID(ctx, merchantID)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && m.Role != domain.RoleMerchant) {
			return domain.NotFound("merchant %s not found", merchantID)
		}
		if err != nil {
			return fmt.Errorf("load merchant: %w", err)
		}

		items := make([]domain.OrderItem, 0, len(in.Items))
		total := decimal.Zero
		for _, line := range in.Items {
			pid := strings.TrimSpace(line.ProductID)
			price, err := tx.Products.Price(ctx, pid)
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NotFound("product %s not found", pid)
			}
			if err != nil {
				return fmt.Errorf("load price %s: %w", pid, err)
			}
			it := domain.OrderItem{
				ID:        uuid.NewString(),
				OrderID:   order.ID,
				ProductID: pid,
				Quantity:  line.Quantity,
				UnitPrice: price,
			}
			total = total.Add(it.Subtotal())
			items = append(items, it)
		}
		order.Total = total

		if err := tx.Orders.Create(ctx, &order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for i := range items {
			if err := tx.Orders.InsertItem(ctx, &items[i]); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// ListOrders returns the orders visible to the caller's role.
func (s *OrderService) ListOrders(ctx context.Context, who domain.Claims) ([]domain.Order, error) {
	switch who.Role {
	case domain.RoleClient:
		return s.Store.Orders.ListByClient(ctx, who.ID)
	case domain.RoleMerchant:
		return s.Store.Orders.ListByMerchant(ctx, who.ID)
	case domain.RoleDeliverer:
		return s.Store.Orders.ListByDeliverer(ctx, who.ID)
	}
	return nil, domain.Forbidden("unknown role")
}

// GetOrder returns an order with its items. Only the order's client,
// merchant and current deliverer can see it.
func (s *OrderService) GetOrder(ctx context.Context, who domain.Claims, id string) (domain.OrderDetail, error) {
	o, err := s.Store.Orders.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.OrderDetail{}, domain.NotFound("order %s not found", id)
	}
	if err != nil {
		return domain.OrderDetail{}, fmt.Errorf("get order: %w", err)
	}

	var delivery *domain.Delivery
	d, err := s.Store.Deliveries.ByOrder(ctx, id)
	switch {
	case err == nil:
		delivery = &d
	case !errors.Is(err, sql.ErrNoRows):
		return domain.OrderDetail{}, fmt.Errorf("get delivery: %w", err)
	}

	visible := false
	switch who.Role {
	case domain.RoleClient:
		visible = o.ClientID == who.ID
	case domain.RoleMerchant:
		visible = o.MerchantID == who.ID
	case domain.RoleDeliverer:
		visible = delivery != nil && delivery.DelivererID == who.ID
	}
	if !visible {
		return domain.OrderDetail{}, domain.NotFound("order %s not found", id)
	}

	items, err := s.Store.Orders.Items(ctx, id)
	if err != nil {
		return domain.OrderDetail{}, fmt.Errorf("get order items: %w", err)
	}
	return domain.OrderDetail{Order: o, Items: items, Delivery: delivery}, nil
}

func (s *OrderService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
