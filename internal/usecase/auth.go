package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	domainErrors "github.com/polkiloo/quickmart/internal/domain/errors"
	"github.com/polkiloo/quickmart/internal/domain/model"
	"github.com/polkiloo/quickmart/internal/domain/repository"
	pkgAuth "github.com/polkiloo/quickmart/internal/pkg/auth"
)

const minPasswordLength = 6

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy}
}

// Register creates a customer or supplier account and returns auth token.
func (u *AuthUseCase) Register(ctx context.Context, in model.Registration) (*model.User, string, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", fmt.Errorf("%w: malformed email", domainErrors.ErrValidationFailed)
	}
	if len(in.Password) < minPasswordLength {
		return nil, "", fmt.Errorf("%w: password must have at least %d characters", domainErrors.ErrValidationFailed, minPasswordLength)
	}

	role := in.Role
	if role == "" {
		role = model.RoleCustomer
	}
	if role != model.RoleCustomer && role != model.RoleSupplier {
		return nil, "", fmt.Errorf("%w: role %q cannot be self-assigned", domainErrors.ErrValidationFailed, role)
	}

	usr, err := u.create(ctx, email, in.Password, strings.TrimSpace(in.Name), role)
	if err != nil {
		return nil, "", err
	}

	token, err := u.issue(usr)
	if err != nil {
		return nil, "", err
	}
	return usr, token, nil
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.issue(usr)
	if err != nil {
		return nil, "", err
	}
	return usr, token, nil
}

// EnsureAdmin creates the admin account when it does not exist yet.
func (u *AuthUseCase) EnsureAdmin(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domainErrors.ErrInvalidCredentials
	}

	existing, err := u.users.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role != model.RoleAdmin {
			return nil, fmt.Errorf("%w: %s is not an admin", domainErrors.ErrAlreadyExists, email)
		}
		return existing, nil
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, err
	}

	return u.create(ctx, email, password, "Administrator", model.RoleAdmin)
}

// ParseToken extracts caller identity from provided token.
func (u *AuthUseCase) ParseToken(token string) (model.Principal, error) {
	if token == "" {
		return model.Principal{}, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

func (u *AuthUseCase) create(ctx context.Context, email, password, name string, role model.Role) (*model.User, error) {
	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	usr, err := u.users.Create(ctx, &model.User{Email: email, Name: name, PasswordHash: hash, Role: role})
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return usr, nil
}

func (u *AuthUseCase) issue(usr *model.User) (string, error) {
	return u.tokens.IssueToken(model.Principal{UserID: usr.ID, Role: usr.Role})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
