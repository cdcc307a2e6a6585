package services_test

import (
	"context"
	"strings"
	"testing"

	"marto/internal/domain"
	"marto/internal/services"
)

func TestRegisterLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	token, u, err := e.auth.Register(ctx, services.RegisterInput{
		FullName: "Awa Diop",
		Email:    " Awa@Example.com ",
		Phone:    "+221 77 000 00 00",
		Password: "Passw0rd!",
		Role:     "commercant",
	})
	if err != nil {
		t.Fatal(err)
	}
	if token == "" || u.Email != "awa@example.com" || u.Role != domain.RoleMerchant {
		t.Fatalf("unexpected register result: %q %+v", token, u)
	}
	if strings.Contains(u.Hash, "Passw0rd!") || !strings.HasPrefix(u.Hash, "$2") {
		t.Fatal("password stored in clear")
	}

	loginTok, claims, err := e.auth.Login(ctx, "AWA@example.com", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	if claims.ID != u.ID || claims.Role != domain.RoleMerchant {
		t.Fatalf("claims = %+v", claims)
	}
	got, err := e.auth.Authenticate(loginTok)
	if err != nil || got != claims {
		t.Fatalf("authenticate: %+v %v", got, err)
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	cases := map[string]services.RegisterInput{
		"missing role":  {Email: "a@x.io", Password: "p"},
		"bad role":      {Email: "a@x.io", Password: "p", Role: "admin"},
		"bad email":     {Email: "nope", Password: "p", Role: "client"},
		"long password": {Email: "a@x.io", Password: strings.Repeat("x", 73), Role: "client"},
		"bad phone":     {Email: "a@x.io", Password: "p", Role: "client", Phone: "call me"},
	}
	for name, in := range cases {
		if _, _, err := e.auth.Register(ctx, in); domain.KindOf(err) != domain.KindValidation {
			t.Fatalf("%s: got %v", name, err)
		}
	}
	if n := e.count(t, "users"); n != 0 {
		t.Fatalf("invalid registrations stored %d users", n)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.register(t, "dup@x.io", domain.RoleClient)

	_, _, err := e.auth.Register(ctx, services.RegisterInput{Email: "DUP@x.io", Password: "other", Role: "livreur"})
	if domain.KindOf(err) != domain.KindConflict {
		t.Fatalf("want conflict, got %v", err)
	}
	if n := e.count(t, "users"); n != 1 {
		t.Fatalf("want 1 user, got %d", n)
	}
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.register(t, "c@x.io", domain.RoleClient)

	if _, _, err := e.auth.Login(ctx, "ghost@x.io", "Passw0rd!"); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("unknown email: got %v", err)
	}
	if _, _, err := e.auth.Login(ctx, "c@x.io", "wrong"); domain.KindOf(err) != domain.KindAuth {
		t.Fatalf("wrong password: got %v", err)
	}
}
