package services

import (
	"context"
	"errors"
	"testing"

	"github.com/quizmaster-pro/exam-service/internal/events"
	"github.com/quizmaster-pro/exam-service/internal/models"
	"github.com/quizmaster-pro/exam-service/internal/repositories/memory"
	"github.com/quizmaster-pro/exam-service/internal/store"
	"github.com/quizmaster-pro/exam-service/internal/validator"
)

func newAuthFixture(t *testing.T) (AuthService, *events.MockEventPublisher) {
	t.Helper()
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	return NewAuthService(memory.NewRepository(), store.NewMemoryStore(), publisher, logger, validator.New(), 0), publisher
}

func TestAuthService_Login(t *testing.T) {
	service, _ := newAuthFixture(t)
	ctx := context.Background()

	t.Run("demo credentials accepted", func(t *testing.T) {
		resp, err := service.Login(ctx, &LoginRequest{Email: "student@demo.com", Password: DemoPassword})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if resp.Token == "" || resp.User.ID != "student-1" {
			t.Errorf("response = %+v", resp)
		}
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		_, err := service.Login(ctx, &LoginRequest{Email: "student@demo.com", Password: "wrong"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email rejected", func(t *testing.T) {
		_, err := service.Login(ctx, &LoginRequest{Email: "nobody@demo.com", Password: DemoPassword})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("malformed email fails validation", func(t *testing.T) {
		_, err := service.Login(ctx, &LoginRequest{Email: "not-an-email", Password: DemoPassword})
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			t.Errorf("Login = %v, want ValidationErrors", err)
		}
	})
}

func TestAuthService_Register(t *testing.T) {
	service, publisher := newAuthFixture(t)
	ctx := context.Background()

	resp, err := service.Register(ctx, &RegisterRequest{
		FullName: "New Student",
		Email:    "New@Example.com",
		Password: "whatever",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.User.Role != models.RoleStudent {
		t.Errorf("role = %s, want student", resp.User.Role)
	}
	if resp.User.Email != "new@example.com" {
		t.Errorf("email = %s, want lowercased", resp.User.Email)
	}

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := service.Register(ctx, &RegisterRequest{
			FullName: "Again",
			Email:    "new@example.com",
			Password: "whatever",
		})
		if !errors.Is(err, ErrEmailExists) {
			t.Errorf("Register duplicate = %v, want ErrEmailExists", err)
		}
	})

	t.Run("registration event published", func(t *testing.T) {
		found := false
		for _, e := range publisher.GetPublishedEvents() {
			if e.Type == events.UserRegistered {
				found = true
			}
		}
		if !found {
			t.Error("no user.registered event published")
		}
	})
}

func TestAuthService_TokenLifecycle(t *testing.T) {
	service, _ := newAuthFixture(t)
	ctx := context.Background()

	resp, err := service.Login(ctx, &LoginRequest{Email: "admin@demo.com", Password: DemoPassword})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	account, err := service.CurrentUser(ctx, resp.Token)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	admin, ok := account.(models.AdminAccount)
	if !ok {
		t.Fatalf("account = %T, want AdminAccount", account)
	}
	if len(admin.Permissions) == 0 {
		t.Error("admin account carries no permissions")
	}

	if err := service.Logout(ctx, resp.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := service.CurrentUser(ctx, resp.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("CurrentUser after logout = %v, want ErrInvalidToken", err)
	}
	if _, err := service.CurrentUser(ctx, ""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("CurrentUser with empty token = %v, want ErrInvalidToken", err)
	}
}

func TestAuthService_Theme(t *testing.T) {
	service, _ := newAuthFixture(t)
	ctx := context.Background()

	theme, err := service.GetTheme(ctx, "student-1")
	if err != nil {
		t.Fatalf("GetTheme: %v", err)
	}
	if theme != "system" {
		t.Errorf("default theme = %s, want system", theme)
	}

	if err := service.SetTheme(ctx, "student-1", "neon"); err == nil {
		t.Error("SetTheme accepted an unknown theme")
	}

	if err := service.SetTheme(ctx, "student-1", "dark"); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	theme, err = service.GetTheme(ctx, "student-1")
	if err != nil {
		t.Fatalf("GetTheme: %v", err)
	}
	if theme != "dark" {
		t.Errorf("theme = %s, want dark", theme)
	}
}
