// Package auth handles operator accounts, password checks and bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/warp/pos-engine/pos"
)

var (
	// ErrInvalidCredentials hides whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidToken is returned for malformed, expired or orphaned tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUsernameTaken matches pos.ErrDuplicate under errors.Is.
	ErrUsernameTaken = fmt.Errorf("username already taken: %w", pos.ErrDuplicate)
)

// User is a stored operator account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Role         pos.Role  `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the part of the account carried through requests.
func (u User) Identity() pos.Identity {
	return pos.Identity{ID: u.ID, Username: u.Username, Name: u.Name, Role: u.Role}
}

// UserStore persists accounts. Lookups of unknown users return pos.ErrNotFound;
// CreateUser returns pos.ErrDuplicate when the username exists.
type UserStore interface {
	CreateUser(ctx context.Context, u User) error
	UserByUsername(ctx context.Context, username string) (User, error)
	UserByID(ctx context.Context, id string) (User, error)
}

// NewUser is the input to Service.Register.
type NewUser struct {
	Username string
	Name     string
	Password string
	Role     pos.Role
}
