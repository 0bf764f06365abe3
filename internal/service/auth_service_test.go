package service

import (
	"errors"
	"testing"

	"go-bevdistro/internal/apperr"
	"go-bevdistro/internal/model"
	"go-bevdistro/pkg/jwt"
)

func seedUser(t *testing.T, userRepo *fakeUserRepo, username, password, role string, active bool) model.User {
	t.Helper()
	user := model.User{
		Username:     username,
		Email:        username + "@example.com",
		FullName:     "Test User",
		Role:         role,
		IsActive:     active,
		TokenVersion: "v1",
	}
	if err := user.SetPassword(password); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	user.ID = userRepo.add(user)
	return user
}

func TestLogin(t *testing.T) {
	t.Run("issues a token and rotates the session version", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		seedUser(t, userRepo, "admin", "admin123", model.RoleAdmin, true)
		svc := NewAuthService(userRepo)

		resp, err := svc.Login("admin", "admin123")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if resp.Token == "" {
			t.Fatal("empty token")
		}
		if resp.User.Username != "admin" || resp.User.Role != model.RoleAdmin {
			t.Errorf("user payload = %+v", resp.User)
		}

		claims, err := jwt.ValidateToken(resp.Token)
		if err != nil {
			t.Fatalf("ValidateToken: %v", err)
		}
		stored, _ := userRepo.FindByUsername("admin")
		if claims.TokenVersion != stored.TokenVersion {
			t.Error("token version in claims does not match stored version")
		}
		if stored.TokenVersion == "v1" {
			t.Error("token version was not rotated on login")
		}
		if stored.LastLogin == nil {
			t.Error("last_login not set")
		}
	})

	t.Run("second login invalidates the first session", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		seedUser(t, userRepo, "admin", "admin123", model.RoleAdmin, true)
		svc := NewAuthService(userRepo)

		first, err := svc.Login("admin", "admin123")
		if err != nil {
			t.Fatalf("first login: %v", err)
		}
		if _, err := svc.Login("admin", "admin123"); err != nil {
			t.Fatalf("second login: %v", err)
		}
		if _, err := svc.ValidateToken(first.Token); err == nil {
			t.Error("first session still valid after second login")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		seedUser(t, userRepo, "admin", "admin123", model.RoleAdmin, true)
		svc := NewAuthService(userRepo)

		if _, err := svc.Login("admin", "nope"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo())
		if _, err := svc.Login("ghost", "pw"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("inactive account", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		seedUser(t, userRepo, "former", "pw123456", model.RoleUser, false)
		svc := NewAuthService(userRepo)

		if _, err := svc.Login("former", "pw123456"); !errors.Is(err, ErrUserInactive) {
			t.Errorf("err = %v, want ErrUserInactive", err)
		}
	})
}

func TestChangePassword(t *testing.T) {
	userRepo := newFakeUserRepo()
	user := seedUser(t, userRepo, "admin", "admin123", model.RoleAdmin, true)
	svc := NewAuthService(userRepo)

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(user.ID, "nope", "newpassword")
		if !errors.Is(err, ErrWrongPassword) {
			t.Errorf("err = %v, want ErrWrongPassword", err)
		}
	})

	t.Run("too short", func(t *testing.T) {
		err := svc.ChangePassword(user.ID, "admin123", "abc")
		if !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("changes password and logs out other sessions", func(t *testing.T) {
		before, _ := userRepo.FindByID(user.ID)
		if err := svc.ChangePassword(user.ID, "admin123", "newpassword"); err != nil {
			t.Fatalf("ChangePassword: %v", err)
		}
		after, _ := userRepo.FindByID(user.ID)
		if !after.CheckPassword("newpassword") {
			t.Error("new password does not verify")
		}
		if after.TokenVersion == before.TokenVersion {
			t.Error("token version not rotated")
		}
	})
}

func TestCreateUser(t *testing.T) {
	t.Run("defaults to the user role", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		svc := NewAuthService(userRepo)

		user := &model.User{Username: "clerk", Email: "clerk@example.com", FullName: "Clerk"}
		if err := svc.CreateUser(user, "secret1"); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
		if user.Role != model.RoleUser {
			t.Errorf("role = %q, want %q", user.Role, model.RoleUser)
		}
		if !user.CheckPassword("secret1") {
			t.Error("password not hashed/stored")
		}
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		seedUser(t, userRepo, "clerk", "secret1", model.RoleUser, true)
		svc := NewAuthService(userRepo)

		err := svc.CreateUser(&model.User{Username: "clerk", Email: "c2@example.com", FullName: "Clerk"}, "secret1")
		if !errors.Is(err, apperr.ErrConstraintViolation) {
			t.Errorf("err = %v, want ErrConstraintViolation", err)
		}
	})

	t.Run("short password rejected", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo())
		err := svc.CreateUser(&model.User{Username: "clerk", Email: "c@example.com", FullName: "Clerk"}, "abc")
		if !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("err = %v, want ErrInvalidInput", err)
		}
	})
}
