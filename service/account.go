package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-video-service/entity"
	"github.com/tnqbao/gau-video-service/infra"
	"github.com/tnqbao/gau-video-service/repository"
	"github.com/tnqbao/gau-video-service/utils"
	"go.opentelemetry.io/otel/metric"
)

type AccountEventPublisher interface {
	SendWelcome(ctx context.Context, email, actionUrl string) error
}

type AccountService struct {
	repo       repository.AccountRepository
	events     AccountEventPublisher
	logger     *infra.LoggerClient
	registered metric.Int64Counter
	appURL     string

	now func() time.Time
}

// NewAccountService wires the credential store. events may be nil.
func NewAccountService(repo repository.AccountRepository, events AccountEventPublisher, appURL string, logger *infra.LoggerClient) *AccountService {
	return &AccountService{
		repo:       repo,
		events:     events,
		logger:     loggerOrDiscard(logger),
		registered: newCounter("accounts_registered_total", "Accounts registered"),
		appURL:     appURL,
		now:        time.Now,
	}
}

// Register creates exactly one account per email.
func (s *AccountService) Register(ctx context.Context, email, password string) (*entity.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, NewValidationError("Email and password are required")
	}
	if len(password) > utils.MaxPasswordBytes {
		return nil, NewValidationError("Password must be at most %d bytes", utils.MaxPasswordBytes)
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check account: %w", err)
	}
	if exists {
		return nil, ErrAlreadyRegistered
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &entity.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC().Truncate(time.Millisecond),
	}

	if err := s.repo.Create(ctx, account); err != nil {
		// lost a race with a concurrent registration of the same email
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to store account: %w", err)
	}
	incr(ctx, s.registered)

	if s.events != nil {
		if err := s.events.SendWelcome(ctx, account.Email, s.appURL); err != nil {
			s.logger.ErrorWithContextf(ctx, err, "[Account] Failed to queue welcome email for %s: %v", account.ID, err)
		}
	}

	return account, nil
}

// Authenticate returns ErrInvalidCredentials for unknown emails and wrong passwords alike.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*entity.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, NewValidationError("Email and password are required")
	}
	if len(password) > utils.MaxPasswordBytes {
		return nil, NewValidationError("Password must be at most %d bytes", utils.MaxPasswordBytes)
	}

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if !utils.CheckPassword(account.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

func (s *AccountService) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return account, nil
}
