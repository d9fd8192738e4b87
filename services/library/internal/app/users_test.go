package app

import (
	"errors"
	"testing"

	"publicindex/pkg/domain"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	user, err := env.app.Register(RegisterParams{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if user.IsAdmin {
		t.Fatal("plain registration must not grant admin")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email = %q, want lowercased", user.Email)
	}

	if _, err := env.app.Login("alice", "correct horse"); err != nil {
		t.Fatalf("Login() by username error: %v", err)
	}
	if _, err := env.app.Login("alice@example.com", "correct horse"); err != nil {
		t.Fatalf("Login() by email error: %v", err)
	}
	if _, err := env.app.Login("alice", "wrong"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("wrong password = %v, want ErrPermissionDenied", err)
	}
	if _, err := env.app.Login("nobody", "whatever"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("unknown user = %v, want ErrPermissionDenied", err)
	}
}

func TestRegisterAdminCode(t *testing.T) {
	env := newTestEnv(t)
	admin, err := env.app.Register(RegisterParams{
		Username:  "root",
		Email:     "root@example.com",
		Password:  "long enough",
		AdminCode: "admin-code",
	})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if !admin.IsAdmin {
		t.Fatal("matching admin code should grant admin")
	}

	// A wrong code falls back to a regular account rather than failing.
	user, err := env.app.Register(RegisterParams{
		Username:  "wannabe",
		Email:     "wannabe@example.com",
		Password:  "long enough",
		AdminCode: "guessed",
	})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if user.IsAdmin {
		t.Fatal("wrong admin code must not grant admin")
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	cases := []struct {
		name  string
		p     RegisterParams
		field string
	}{
		{"missing username", RegisterParams{Email: "a@b.c", Password: "long enough"}, "username"},
		{"bad email", RegisterParams{Username: "a", Email: "not-an-email", Password: "long enough"}, "email"},
		{"short password", RegisterParams{Username: "a", Email: "a@b.c", Password: "short"}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.app.Register(tc.p)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) || verr.Field != tc.field {
				t.Fatalf("got %v, want ValidationError on %s", err, tc.field)
			}
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.app.Register(RegisterParams{Username: "alice", Email: "a@b.c", Password: "long enough"}); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	_, err := env.app.Register(RegisterParams{Username: "alice", Email: "other@b.c", Password: "long enough"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "username" {
		t.Fatalf("duplicate username = %v, want ValidationError on username", err)
	}
}
