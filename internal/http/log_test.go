package handlers_test

import (
	"net/http"
	"strings"
	"testing"
)

func TestAuthLogging(t *testing.T) {
	app := newApp(t, testConfig())

	entries := captureLogs(t, func() {
		register(t, app, "c@marto.test", "client")
		call(t, app, http.MethodPost, "/auth/login", "", map[string]string{"email": "c@marto.test", "password": "bad"}, nil)
		call(t, app, http.MethodPost, "/auth/login", "", map[string]string{"email": "c@marto.test", "password": "Passw0rd!"}, nil)
	})

	reg, ok := findLog(entries, "auth.register")
	if !ok || reg.Level != "audit" || reg.UserID == "" || reg.ReqID == "" {
		t.Fatalf("missing register audit: %+v", entries)
	}
	fail, ok := findLog(entries, "auth.login.fail")
	if !ok || fail.Level != "warn" || fail.Fields["email"] != "c@marto.test" {
		t.Fatalf("missing login failure entry: %+v", entries)
	}
	if _, ok := findLog(entries, "auth.login.success"); !ok {
		t.Fatalf("missing login success entry: %+v", entries)
	}
	for _, e := range entries {
		for k, v := range e.Fields {
			if s, ok := v.(string); ok && strings.Contains(s, "Passw0rd!") {
				t.Fatalf("password logged in %s.%s", e.Action, k)
			}
		}
	}
}

func TestAccessDeniedLogging(t *testing.T) {
	app := newApp(t, testConfig())
	client := register(t, app, "c@marto.test", "client")

	entries := captureLogs(t, func() {
		call(t, app, http.MethodPost, "/products", client.Token, map[string]any{"name": "x", "price": 1}, nil)
		call(t, app, http.MethodGet, "/orders", "Bearer-less", nil, nil)
	})

	denied, ok := findLog(entries, "access.denied.role")
	if !ok || denied.Fields["capability"] != "sell" || denied.UserID != client.User.ID {
		t.Fatalf("missing role denial: %+v", entries)
	}
	if _, ok := findLog(entries, "auth.token.invalid"); !ok {
		t.Fatalf("missing invalid token entry: %+v", entries)
	}
}

func TestOrderAuditLogging(t *testing.T) {
	app := newApp(t, testConfig())
	client := register(t, app, "c@marto.test", "client")
	merchant := register(t, app, "m@marto.test", "commercant")
	var p productResp
	call(t, app, http.MethodPost, "/products", merchant.Token, map[string]any{"name": "Riz", "price": "4.5"}, &p)

	entries := captureLogs(t, func() {
		call(t, app, http.MethodPost, "/orders", client.Token, map[string]any{
			"merchant_id": merchant.User.ID,
			"items":       []map[string]any{{"product_id": p.ID, "quantity": 2}},
		}, nil)
	})

	e, ok := findLog(entries, "order.create")
	if !ok || e.Level != "audit" || e.Fields["total"] != "9" {
		t.Fatalf("order audit = %+v", entries)
	}
}

func TestCreateAuditRecordsCreatedStatus(t *testing.T) {
	app := newApp(t, testConfig())
	client := register(t, app, "c@marto.test", "client")
	merchant := register(t, app, "m@marto.test", "commercant")

	var p productResp
	entries := captureLogs(t, func() {
		call(t, app, http.MethodPost, "/products", merchant.Token, map[string]any{"name": "Riz", "price": "4.5"}, &p)
		call(t, app, http.MethodPost, "/orders", client.Token, map[string]any{
			"merchant_id": merchant.User.ID,
			"items":       []map[string]any{{"product_id": p.ID, "quantity": 1}},
		}, nil)
	})

	for _, action := range []string{"product.create", "order.create"} {
		e, ok := findLog(entries, action)
		if !ok || e.Status != http.StatusCreated {
			t.Fatalf("%s audit status = %d (found %v)", action, e.Status, ok)
		}
	}
}
