package app

import (
	"fmt"
	"strings"
	"time"

	"publicindex/internal/util"
	"publicindex/pkg/auth"
	"publicindex/pkg/domain"
)

// RegisterParams carries a registration request.
type RegisterParams struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	// AdminCode grants admin rights when it matches the configured secret.
	// A wrong code falls back to a regular account.
	AdminCode string
}

// Register creates a new account.
func (a *App) Register(p RegisterParams) (domain.User, error) {
	username := strings.TrimSpace(p.Username)
	email := strings.TrimSpace(strings.ToLower(p.Email))
	if username == "" {
		return domain.User{}, domain.Invalid("username", "required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, domain.Invalid("email", "valid email required")
	}
	if len(p.Password) < 8 {
		return domain.User{}, domain.Invalid("password", "must be at least 8 characters")
	}
	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		ID:           util.NewID(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(p.FirstName),
		LastName:     strings.TrimSpace(p.LastName),
		IsAdmin:      strings.TrimSpace(p.AdminCode) != "" && p.AdminCode == a.adminSecretCode,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.store.CreateUser(user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Login checks credentials against the username (or email) and returns the
// account. Unknown account and wrong password are indistinguishable to the
// caller.
func (a *App) Login(username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	user, ok, err := a.store.GetUserByUsername(username)
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		user, ok, err = a.store.GetUserByEmail(strings.ToLower(username))
		if err != nil {
			return domain.User{}, err
		}
	}
	if !ok || !auth.CheckPassword(user.PasswordHash, password) {
		return domain.User{}, fmt.Errorf("invalid credentials: %w", domain.ErrPermissionDenied)
	}
	return user, nil
}

// GetUser loads one account by ID.
func (a *App) GetUser(id string) (domain.User, bool, error) {
	return a.store.GetUserByID(id)
}
