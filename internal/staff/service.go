package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ketensuites/keten-backend/internal/auth"
	"github.com/ketensuites/keten-backend/internal/pkg/apperror"
)

type CreateRequest struct {
	Email       string
	Password    string
	DisplayName string
	Role        Role
}

// Service defines business logic related to staff accounts.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Staff, error)
	Login(ctx context.Context, email, password string) (*Staff, error)
	GetByID(ctx context.Context, id string) (*Staff, error)
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, hasher auth.PasswordHasher, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{repo: repo, hasher: hasher, logger: logger, now: time.Now}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Staff, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if req.Role == "" {
		req.Role = RoleManager
	}
	if !req.Role.Valid() {
		return nil, ErrInvalidRole
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, apperror.BadRequest(err)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	m := &Staff{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*Staff, error) {
	clean := normalizeEmail(email)
	if clean == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	m, err := s.repo.GetByEmail(ctx, clean)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(m.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !m.IsActive {
		return nil, ErrInactive
	}

	// Best effort; a failed stamp does not fail the login.
	now := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, m.ID, now); err != nil {
		s.logger.Warn("failed to record staff login", zap.String("staff_id", m.ID), zap.Error(err))
	} else {
		m.LastLoginAt = &now
	}
	return m, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Staff, error) {
	return s.repo.GetByID(ctx, id)
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
