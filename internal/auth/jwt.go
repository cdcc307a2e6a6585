package auth

import (
	"errors"
	"strings"
	"time"

	"marto/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// tokenClaims is the signed payload: the minimal identity plus registered
// claims (sub, iat, exp).
type tokenClaims struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 bearer tokens with a server-held secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	Now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, Now: time.Now}
}

// Issue signs a token for the given identity.
func (t *Tokens) Issue(c domain.Claims) (string, error) {
	now := t.Now()
	claims := tokenClaims{
		ID:    c.ID,
		Email: c.Email,
		Role:  c.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies signature and expiry and returns the embedded identity.
// Every failure is a domain auth error.
func (t *Tokens) Parse(raw string) (domain.Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Claims{}, domain.WrapAuth("missing token", ErrMissingToken)
	}
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Claims{}, domain.WrapAuth("token expired", err)
		}
		return domain.Claims{}, domain.WrapAuth("invalid token", err)
	}
	if claims.ID == "" || !claims.Role.Valid() {
		return domain.Claims{}, domain.WrapAuth("invalid token", ErrInvalidToken)
	}
	return domain.Claims{ID: claims.ID, Email: claims.Email, Role: claims.Role}, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", domain.WrapAuth("authorization header required", ErrMissingToken)
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", domain.WrapAuth("invalid token format (must be Bearer)", ErrInvalidToken)
	}
	return parts[1], nil
}
