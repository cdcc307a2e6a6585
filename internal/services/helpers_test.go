package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"marto/internal/auth"
	"marto/internal/domain"
	"marto/internal/repos"
	"marto/internal/services"
)

type env struct {
	db       *sqlx.DB
	store    *repos.Store
	auth     *services.AuthService
	catalog  *services.CatalogService
	orders   *services.OrderService
	delivery *services.DeliveryService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := repos.OpenDB(repos.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	store := repos.NewStore(db)
	return &env{
		db:       db,
		store:    store,
		auth:     services.NewAuthService(store.Users, auth.NewTokens("test-secret", time.Hour), bcrypt.MinCost),
		catalog:  services.NewCatalogService(store.Products),
		orders:   services.NewOrderService(store),
		delivery: services.NewDeliveryService(store),
	}
}

func (e *env) register(t *testing.T, email string, role domain.Role) domain.User {
	t.Helper()
	_, u, err := e.auth.Register(context.Background(), services.RegisterInput{
		FullName: "Test " + string(role),
		Email:    email,
		Password: "Passw0rd!",
		Role:     string(role),
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u
}

func (e *env) product(t *testing.T, merchantID, name, price string) domain.Product {
	t.Helper()
	stock := 5
	p, err := e.catalog.CreateProduct(context.Background(), merchantID, services.ProductInput{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: &stock,
	})
	if err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return p
}

func (e *env) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	if err := e.db.Get(&n, `SELECT COUNT(*) FROM `+table); err != nil {
		t.Fatal(err)
	}
	return n
}
