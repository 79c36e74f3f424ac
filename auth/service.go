package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/warp/pos-engine/pos"
)

// MinPasswordLength applies to accounts created through Register.
const MinPasswordLength = 6

// Service implements login, token authentication and account creation.
type Service struct {
	Users  UserStore
	Tokens *Tokens
	Now    func() time.Time
	NewID  func() string
}

func NewService(users UserStore, tokens *Tokens) *Service {
	return &Service{Users: users, Tokens: tokens, Now: time.Now, NewID: uuid.NewString}
}

// Login checks the password and returns a signed token.
func (s *Service) Login(ctx context.Context, username, password string) (string, pos.Identity, error) {
	u, err := s.Users.UserByUsername(ctx, username)
	if err != nil {
		if pos.IsNotFound(err) {
			return "", pos.Identity{}, ErrInvalidCredentials
		}
		return "", pos.Identity{}, err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return "", pos.Identity{}, ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(u)
	if err != nil {
		return "", pos.Identity{}, fmt.Errorf("sign token: %w", err)
	}
	return token, u.Identity(), nil
}

// Authenticate resolves a bearer token to the current account state.
// A token whose user no longer exists is rejected.
func (s *Service) Authenticate(ctx context.Context, token string) (pos.Identity, error) {
	claims, err := s.Tokens.Verify(token)
	if err != nil {
		return pos.Identity{}, err
	}

	u, err := s.Users.UserByID(ctx, claims.ID)
	if err != nil {
		if pos.IsNotFound(err) {
			return pos.Identity{}, ErrInvalidToken
		}
		return pos.Identity{}, err
	}
	return u.Identity(), nil
}

// Register creates an account. Only admins may call it.
func (s *Service) Register(ctx context.Context, actor pos.Identity, nu NewUser) (User, error) {
	if err := pos.RequireAdmin(actor, "create users"); err != nil {
		return User{}, err
	}

	nu.Username = strings.TrimSpace(nu.Username)
	nu.Name = strings.TrimSpace(nu.Name)
	if nu.Role == "" {
		nu.Role = pos.RoleCashier
	}
	if err := validateNewUser(nu); err != nil {
		return User{}, err
	}

	hash, err := HashPassword(nu.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u := User{
		ID:           s.NewID(),
		Username:     nu.Username,
		Name:         nu.Name,
		Role:         nu.Role,
		PasswordHash: hash,
		CreatedAt:    s.Now().UTC(),
	}
	if err := s.Users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, pos.ErrDuplicate) {
			return User{}, ErrUsernameTaken
		}
		return User{}, err
	}
	return u, nil
}

// Profile loads the account behind id.
func (s *Service) Profile(ctx context.Context, id string) (User, error) {
	return s.Users.UserByID(ctx, id)
}

func validateNewUser(nu NewUser) error {
	switch {
	case nu.Username == "":
		return &pos.ValidationError{Field: "username", Reason: "is required"}
	case nu.Name == "":
		return &pos.ValidationError{Field: "name", Reason: "is required"}
	case len(nu.Password) < MinPasswordLength:
		return &pos.ValidationError{
			Field:  "password",
			Reason: fmt.Sprintf("must be at least %d characters", MinPasswordLength),
		}
	case !nu.Role.Valid():
		return &pos.ValidationError{Field: "role", Reason: fmt.Sprintf("unknown role %q", nu.Role)}
	}
	return nil
}
