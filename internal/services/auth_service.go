package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quizmaster-pro/exam-service/internal/events"
	"github.com/quizmaster-pro/exam-service/internal/models"
	"github.com/quizmaster-pro/exam-service/internal/repositories"
	"github.com/quizmaster-pro/exam-service/internal/store"
	"github.com/quizmaster-pro/exam-service/internal/validator"
)

// DemoPassword is the only password the mocked flow accepts for the
// seeded demo accounts. Registration accepts any password and discards
// it; no credential is ever stored.
const DemoPassword = "demo123"

const tokenTTL = 24 * time.Hour

type authService struct {
	repo      repositories.Repository
	kv        store.KVStore
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator

	// Simulated identity-provider latency. Zero in tests.
	loginDelay time.Duration
}

func NewAuthService(repo repositories.Repository, kv store.KVStore, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator, loginDelay time.Duration) AuthService {
	return &authService{
		repo:       repo,
		kv:         kv,
		publisher:  publisher,
		logger:     logger,
		validator:  v,
		loginDelay: loginDelay,
	}
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	s.simulateDelay(ctx)

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if req.Password != DemoPassword {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	s.simulateDelay(ctx)

	if _, err := s.repo.User().GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	user := &models.User{
		ID:       "user-" + uuid.NewString(),
		FullName: req.FullName,
		Email:    strings.ToLower(req.Email),
		Role:     models.RoleStudent,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewEvent(events.UserRegistered, events.UserRegisteredEvent{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	}))

	s.logger.Info("user registered", "user_id", user.ID)
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.kv.Delete(ctx, store.AuthTokenKey(token)); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// CurrentUser resolves a token to the role-tagged account view.
func (s *authService) CurrentUser(ctx context.Context, token string) (models.Account, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	var userID string
	if err := s.kv.Get(ctx, store.AuthTokenKey(token), &userID); err != nil {
		if store.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	switch user.Role {
	case models.RoleAdmin:
		return models.AdminAccount{User: *user, Permissions: []string{"chapters", "questions", "reports", "analytics"}}, nil
	default:
		account := models.StudentAccount{User: *user}
		if stats, err := s.repo.Statistics().Get(ctx, user.ID); err == nil {
			account.TotalExamsAttempted = stats.TotalExamsAttempted
			account.TotalQuestionsAnswered = stats.TotalQuestionsAnswered
			account.TotalCorrectAnswers = stats.TotalCorrectAnswers
			account.AverageScore = stats.AverageScore
		}
		return account, nil
	}
}

func (s *authService) GetTheme(ctx context.Context, userID string) (string, error) {
	var theme string
	err := s.kv.Get(ctx, store.ThemeKey(userID), &theme)
	if err != nil {
		if store.IsNotFound(err) || err == store.ErrNotAvailable {
			return "system", nil
		}
		return "", fmt.Errorf("failed to get theme: %w", err)
	}
	return theme, nil
}

func (s *authService) SetTheme(ctx context.Context, userID, theme string) error {
	if errs := s.validator.Validate(&validator.ThemeRequest{Theme: theme}); errs != nil {
		return errs
	}
	if err := s.kv.Set(ctx, store.ThemeKey(userID), theme, 0); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}

func (s *authService) issueToken(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.kv.Set(ctx, store.AuthTokenKey(token), userID, tokenTTL); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return token, nil
}

func (s *authService) simulateDelay(ctx context.Context) {
	if s.loginDelay <= 0 {
		return
	}
	select {
	case <-time.After(s.loginDelay):
	case <-ctx.Done():
	}
}

func (s *authService) publishEvent(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", "event_type", event.Type, "error", err)
	}
}
