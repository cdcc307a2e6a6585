package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"marto/internal/auth"
	"marto/internal/domain"
	"marto/internal/repos"
	"marto/internal/validate"

	"github.com/google/uuid"
)

type AuthService struct {
	Users    *repos.UserRepo
	Tokens   *auth.Tokens
	Password auth.Password
	Now      func() time.Time
}

func NewAuthService(users *repos.UserRepo, tokens *auth.Tokens, bcryptCost int) *AuthService {
	return &AuthService{Users: users, Tokens: tokens, Password: auth.Password{Cost: bcryptCost}, Now: time.Now}
}

type RegisterInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register creates the user and returns a token for it together with the
// public user record.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, domain.User, error) {
	if in.Email == "" || in.Password == "" || in.Role == "" {
		return "", domain.User{}, domain.Validation("email, password and role are required")
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		return "", domain.User{}, domain.Validation("invalid email")
	}
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		return "", domain.User{}, domain.Validation("invalid role %q", in.Role)
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return "", domain.User{}, domain.Validation("password must be at most %d bytes", auth.MaxPasswordBytes)
	}
	phone, ok := validate.Phone(in.Phone)
	if !ok {
		return "", domain.User{}, domain.Validation("invalid phone")
	}

	hash, err := s.Password.Hash(in.Password)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := domain.User{
		ID:        uuid.NewString(),
		FullName:  in.FullName,
		Email:     email,
		Phone:     phone,
		Hash:      hash,
		Role:      role,
		CreatedAt: domain.Timestamp(s.now()),
	}
	if err := s.Users.Create(ctx, &u); err != nil {
		if errors.Is(err, repos.ErrDuplicate) {
			return "", domain.User{}, domain.Conflict("email already registered")
		}
		return "", domain.User{}, fmt.Errorf("create user: %w", err)
	}

	token, err := s.Tokens.Issue(u.Claims())
	if err != nil {
		return "", domain.User{}, fmt.Errorf("issue token: %w", err)
	}
	return token, u, nil
}

// Login verifies credentials and returns a token and the caller's claims.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.Claims, error) {
	normalized, _ := validate.Email(email)
	u, err := s.Users.ByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.Claims{}, domain.NotFound("user not found")
		}
		return "", domain.Claims{}, fmt.Errorf("load user: %w", err)
	}
	ok, err := s.Password.Matches(u.Hash, password)
	if err != nil {
		return "", domain.Claims{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return "", domain.Claims{}, domain.Auth("invalid password")
	}

	claims := u.Claims()
	token, err := s.Tokens.Issue(claims)
	if err != nil {
		return "", domain.Claims{}, fmt.Errorf("issue token: %w", err)
	}
	return token, claims, nil
}

// Authenticate validates a bearer token and returns its claims.
func (s *AuthService) Authenticate(token string) (domain.Claims, error) {
	return s.Tokens.Parse(token)
}

func (s *AuthService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
