package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AuthService issues access tokens for employees. Account management lives in
// the directory service; only login exists here.
type AuthService struct {
	employees repository.EmployeeRepository
	tokens    *auth.TokenManager
}

// NewAuthService creates the service.
func NewAuthService(employees repository.EmployeeRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{employees: employees, tokens: tokens}
}

// LoginResult carries the signed token and its expiry.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Employee  *domain.Employee
}

// Login verifies credentials and issues a JWT.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("missing credentials", "username and password are required")
	}

	employee, err := s.employees.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.ToDomainError(err)
	}
	if employee.PasswordHash == nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(*employee.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(employee.ID, employee.Permissions)
	if err != nil {
		return nil, apperrors.NewInternalError("unable to issue token", err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Employee: employee}, nil
}
