package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"marto/internal/domain"
	"marto/internal/repos"
	"marto/internal/validate"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CatalogService struct {
	Prods *repos.ProductRepo
	Now   func() time.Time
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods, Now: time.Now}
}

type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       *int            `json:"stock"`
	ImageURL    string          `json:"image_url"`
}

// CreateProduct stores a product owned by merchantID. Stock defaults to 0.
func (s *CatalogService) CreateProduct(ctx context.Context, merchantID string, in ProductInput) (domain.Product, error) {
	name, ok := validate.Name(in.Name)
	if !ok {
		return domain.Product{}, domain.Validation("name is required")
	}
	if err := checkPrice(in.Price); err != nil {
		return domain.Product{}, err
	}
	stock := 0
	if in.Stock != nil {
		stock = *in.Stock
	}
	if stock < 0 {
		return domain.Product{}, domain.Validation("stock must not be negative")
	}
	img, ok := validate.URL(in.ImageURL)
	if !ok {
		return domain.Product{}, domain.Validation("invalid image_url")
	}

	p := domain.Product{
		ID:          uuid.NewString(),
		MerchantID:  merchantID,
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       stock,
		ImageURL:    img,
		CreatedAt:   domain.Timestamp(s.now()),
	}
	if err := s.Prods.Create(ctx, &p); err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// ListProducts returns the whole catalog, newest first.
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.Prods.List(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	p, err := s.Prods.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.NotFound("product %s not found", id)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// UpdatePrice changes the price of a product the merchant owns. Products of
// other merchants are reported as not found.
func (s *CatalogService) UpdatePrice(ctx context.Context, merchantID, productID string, price decimal.Decimal) (domain.Product, error) {
	if err := checkPrice(price); err != nil {
		return domain.Product{}, err
	}
	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	if p.MerchantID != merchantID {
		return domain.Product{}, domain.NotFound("product %s not found", productID)
	}
	if err := s.Prods.SetPrice(ctx, productID, price); err != nil {
		return domain.Product{}, fmt.Errorf("update price: %w", err)
	}
	p.Price = price
	return p, nil
}

// PriceScale is the number of decimal places a price may carry.
const PriceScale = 2

func checkPrice(p decimal.Decimal) error {
	if !p.IsPositive() {
		return domain.Validation("price must be positive")
	}
	if !p.Equal(p.Round(PriceScale)) {
		return domain.Validation("price must have at most %d decimal places", PriceScale)
	}
	return nil
}

func (s *CatalogService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
