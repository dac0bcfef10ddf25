package service

import (
	"errors"
	"testing"
)

func TestRegisterUser(t *testing.T) {
	users := NewUserService(newTestDB(t))

	if err := users.RegisterUser("alice", "password", Profile{}); err != nil {
		t.Fatalf("RegisterUser(alice) error = %v", err)
	}
	alice, err := users.GetOrCreateUser("alice")
	if err != nil {
		t.Fatalf("GetOrCreateUser(alice) error = %v", err)
	}
	if !alice.IsAdmin {
		t.Error("first registered user should be admin")
	}

	if err := users.RegisterUser("bob", "longenough", Profile{}); err != nil {
		t.Fatalf("RegisterUser(bob) error = %v", err)
	}
	bob, _ := users.GetOrCreateUser("bob")
	if bob.IsAdmin {
		t.Error("second registered user should not be admin")
	}

	if err := users.RegisterUser("alice", "password", Profile{}); !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("duplicate register error = %v, want ErrDuplicateUser", err)
	}
	if err := users.RegisterUser("carol", "short", Profile{}); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("weak password error = %v, want ErrWeakPassword", err)
	}
}

func TestRegisterUserExactMinimumLength(t *testing.T) {
	users := NewUserService(newTestDB(t))

	// 8 characters is the shortest accepted password.
	if err := users.RegisterUser("alice", "12345678", Profile{}); err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}
	if !users.VerifyPassword("alice", "12345678") {
		t.Error("VerifyPassword() = false after register")
	}
}

func TestVerifyPassword(t *testing.T) {
	users := NewUserService(newTestDB(t))
	if err := users.RegisterUser("alice", "password", Profile{}); err != nil {
		t.Fatal(err)
	}
	if _, err := users.GetOrCreateUser("ghost"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"correct credentials", "alice", "password", true},
		{"wrong password", "alice", "wrong", false},
		{"unknown user", "nobody", "password", false},
		{"implicit user without credentials", "ghost", "anything", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := users.VerifyPassword(tt.username, tt.password); got != tt.want {
				t.Errorf("VerifyPassword(%q, %q) = %v, want %v", tt.username, tt.password, got, tt.want)
			}
		})
	}
}

func TestTokenLifecycle(t *testing.T) {
	users := NewUserService(newTestDB(t))
	if err := users.RegisterUser("alice", "password", Profile{}); err != nil {
		t.Fatal(err)
	}

	if _, err := users.GenerateToken("alice", "wrong"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("GenerateToken with bad password error = %v, want ErrInvalidToken", err)
	}

	token, err := users.GenerateToken("alice", "password")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if len(token) != tokenEntropyBytes*2 {
		t.Errorf("token length = %d, want %d hex chars", len(token), tokenEntropyBytes*2)
	}

	user, err := users.GetUserFromToken(token)
	if err != nil {
		t.Fatalf("GetUserFromToken() error = %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("token resolved to %q, want alice", user.Username)
	}

	if err := users.RevokeToken(token); err != nil {
		t.Fatalf("RevokeToken() error = %v", err)
	}
	if _, err := users.GetUserFromToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("lookup after revoke error = %v, want ErrInvalidToken", err)
	}
	if err := users.RevokeToken(token); !errors.Is(err, ErrNotFound) {
		t.Errorf("second revoke error = %v, want ErrNotFound", err)
	}
}

func TestDeleteUserCascadesTokens(t *testing.T) {
	users := NewUserService(newTestDB(t))
	if err := users.RegisterUser("alice", "password", Profile{}); err != nil {
		t.Fatal(err)
	}
	if err := users.RegisterUser("bob", "password2", Profile{}); err != nil {
		t.Fatal(err)
	}

	token, err := users.GenerateToken("bob", "password2")
	if err != nil {
		t.Fatal(err)
	}
	bob, _ := users.GetOrCreateUser("bob")

	if err := users.DeleteUser(bob.Id); err != nil {
		t.Fatalf("DeleteUser(bob) error = %v", err)
	}
	if _, err := users.GetUserFromToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token survived user deletion: err = %v", err)
	}
	if err := users.DeleteUser(bob.Id); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete of missing user error = %v, want ErrNotFound", err)
	}
}

func TestLastAdminProtection(t *testing.T) {
	users := NewUserService(newTestDB(t))
	if err := users.RegisterUser("alice", "password", Profile{}); err != nil {
		t.Fatal(err)
	}
	if err := users.RegisterUser("bob", "password2", Profile{}); err != nil {
		t.Fatal(err)
	}
	alice, _ := users.GetOrCreateUser("alice")

	if err := users.DeleteUser(alice.Id); !errors.Is(err, ErrLastAdmin) {
		t.Fatalf("deleting sole admin error = %v, want ErrLastAdmin", err)
	}

	if err := users.PromoteUser("bob"); err != nil {
		t.Fatalf("PromoteUser(bob) error = %v", err)
	}
	if err := users.DeleteUser(alice.Id); err != nil {
		t.Errorf("deleting non-last admin error = %v", err)
	}
}

func TestGetOrCreateUserIdempotent(t *testing.T) {
	users := NewUserService(newTestDB(t))

	first, err := users.GetOrCreateUser("reviewer")
	if err != nil {
		t.Fatalf("GetOrCreateUser() error = %v", err)
	}
	if first.IsAdmin {
		t.Error("implicitly created user should not be admin")
	}
	second, err := users.GetOrCreateUser("reviewer")
	if err != nil {
		t.Fatalf("GetOrCreateUser() second call error = %v", err)
	}
	if first.Id != second.Id {
		t.Errorf("GetOrCreateUser ids differ: %d vs %d", first.Id, second.Id)
	}
}

func TestPromoteUser(t *testing.T) {
	users := NewUserService(newTestDB(t))

	if err := users.PromoteUser("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("promote unknown user error = %v, want ErrNotFound", err)
	}

	if _, err := users.GetOrCreateUser("bob"); err != nil {
		t.Fatal(err)
	}
	if err := users.PromoteUser("bob"); err != nil {
		t.Fatalf("PromoteUser() error = %v", err)
	}
	bob, _ := users.GetOrCreateUser("bob")
	if !bob.IsAdmin {
		t.Error("bob should be admin after promotion")
	}
	// Promoting an admin again is a no-op.
	if err := users.PromoteUser("bob"); err != nil {
		t.Errorf("repeated promotion error = %v", err)
	}
}
