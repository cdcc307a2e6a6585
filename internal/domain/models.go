package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeLayout is fixed-width so stored timestamps sort lexically.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// Timestamp formats t in UTC using TimeLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

type OrderStatus string

const (
	OrderCreated   OrderStatus = "created"
	OrderAssigned  OrderStatus = "assigned"
	OrderDelivered OrderStatus = "delivered"
)

type DeliveryStatus string

const (
	DeliveryAssigned  DeliveryStatus = "assigned"
	DeliveryDelivered DeliveryStatus = "delivered"
)

type Product struct {
	ID          string          `db:"id" json:"id"`
	MerchantID  string          `db:"merchant_id" json:"merchant_id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Stock       int             `db:"stock" json:"stock"`
	ImageURL    string          `db:"image_url" json:"image_url"`
	CreatedAt   string          `db:"created_at" json:"created_at"`
}

type Order struct {
	ID         string          `db:"id" json:"id"`
	ClientID   string          `db:"client_id" json:"client_id"`
	MerchantID string          `db:"merchant_id" json:"merchant_id"`
	Total      decimal.Decimal `db:"total" json:"total"`
	Status     OrderStatus     `db:"status" json:"status"`
	CreatedAt  string          `db:"created_at" json:"created_at"`
}

// OrderItem keeps the unit price read when the order was placed.
type OrderItem struct {
	ID        string          `db:"id" json:"id"`
	OrderID   string          `db:"order_id" json:"order_id"`
	ProductID string          `db:"product_id" json:"product_id"`
	Quantity  int             `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
}

// Subtotal is UnitPrice × Quantity.
func (it OrderItem) Subtotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// OrderDetail is an order with its lines and, once assigned, its delivery.
// The order fields are inlined in JSON.
type OrderDetail struct {
	Order
	Items    []OrderItem `json:"items"`
	Delivery *Delivery   `json:"delivery,omitempty"`
}

type Delivery struct {
	ID          string         `db:"id" json:"id"`
	OrderID     string         `db:"order_id" json:"order_id"`
	DelivererID string         `db:"deliverer_id" json:"deliverer_id"`
	Status      DeliveryStatus `db:"status" json:"status"`
	AssignedAt  string         `db:"assigned_at" json:"assigned_at"`
	DeliveredAt *string        `db:"delivered_at" json:"delivered_at"`
}
