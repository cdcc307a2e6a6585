package auth

import (
	"errors"
	"testing"
	"time"

	"marto/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestIssueParseRoundTrip(t *testing.T) {
	tok := NewTokens("s3cret", time.Hour)
	in := domain.Claims{ID: "u1", Email: "m@x.io", Role: domain.RoleMerchant}

	raw, err := tok.Issue(in)
	if err != nil {
		t.Fatal(err)
	}
	got, err := tok.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if got != in {
		t.Fatalf("claims = %+v, want %+v", got, in)
	}
}

func TestParseRejects(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tok := NewTokens("s3cret", time.Hour)
	tok.Now = fixedClock(now)
	raw, err := tok.Issue(domain.Claims{ID: "u1", Email: "c@x.io", Role: domain.RoleClient})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("expired", func(t *testing.T) {
		later := NewTokens("s3cret", time.Hour)
		later.Now = fixedClock(now.Add(2 * time.Hour))
		_, err := later.Parse(raw)
		if domain.KindOf(err) != domain.KindAuth || domain.PublicMessage(err) != "token expired" {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokens("other", time.Hour)
		other.Now = fixedClock(now)
		if _, err := other.Parse(raw); domain.KindOf(err) != domain.KindAuth {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := tok.Parse("not.a.token"); domain.KindOf(err) != domain.KindAuth {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := tok.Parse("  "); !errors.Is(err, ErrMissingToken) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("alg none", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"id": "u1", "role": "client", "exp": now.Add(time.Hour).Unix(),
		})
		s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := tok.Parse(s); domain.KindOf(err) != domain.KindAuth {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"id": "u1", "role": "admin", "exp": now.Add(time.Hour).Unix(),
		})
		s, err := forged.SignedString([]byte("s3cret"))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := tok.Parse(s); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("got %v", err)
		}
	})
}

func TestBearerToken(t *testing.T) {
	if tok, err := BearerToken("Bearer abc.def"); err != nil || tok != "abc.def" {
		t.Fatalf("got %q %v", tok, err)
	}
	if tok, err := BearerToken("bearer abc"); err != nil || tok != "abc" {
		t.Fatalf("scheme should be case-insensitive: %q %v", tok, err)
	}
	for _, h := range []string{"", "abc", "Basic abc", "Bearer", "Bearer a b"} {
		if _, err := BearerToken(h); domain.KindOf(err) != domain.KindAuth {
			t.Fatalf("header %q: got %v", h, err)
		}
	}
}
