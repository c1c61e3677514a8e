package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nurpe/market-leases/internal/model"
)

// PasswordHasher hides the hashing scheme from the service.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// PrincipalCache stores principals between requests. Implementations may be no-ops.
type PrincipalCache interface {
	Get(ctx context.Context, userID int64) (*model.Principal, bool)
	Set(ctx context.Context, principal model.Principal)
	Invalidate(ctx context.Context, userID int64)
}

var errBadCredentials = errors.New("usuario o contraseña incorrectos")

type AuthService struct {
	users  UserStore
	hasher PasswordHasher
	cache  PrincipalCache
}

func NewAuthService(users UserStore, hasher PasswordHasher, cache PrincipalCache) *AuthService {
	return &AuthService{users: users, hasher: hasher, cache: cache}
}

// Authenticate checks the credentials. Unknown users, inactive users and wrong
// passwords all produce the same error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*model.Principal, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, errBadCredentials)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if notFound(err) == ErrNotFound {
			return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, errBadCredentials)
		}
		return nil, err
	}
	if !user.Active || !s.hasher.Compare(user.PasswordHash, password) {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, errBadCredentials)
	}

	principal := principalOf(user)
	if s.cache != nil {
		s.cache.Set(ctx, principal)
	}
	return &principal, nil
}

// LoadPrincipal resolves the user behind a session, preferring the cache.
func (s *AuthService) LoadPrincipal(ctx context.Context, userID int64) (*model.Principal, error) {
	if s.cache != nil {
		if principal, ok := s.cache.Get(ctx, userID); ok {
			return principal, nil
		}
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		if notFound(err) == ErrNotFound {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrUnauthenticated
	}

	principal := principalOf(user)
	if s.cache != nil {
		s.cache.Set(ctx, principal)
	}
	return &principal, nil
}

func (s *AuthService) Logout(ctx context.Context, userID int64) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
}

type NewUserInput struct {
	Username string
	Password string
	FullName string
	Role     string
}

func (s *AuthService) CreateUser(ctx context.Context, input NewUserInput) (*model.User, error) {
	v := &ValidationError{}
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if username == "" {
		v.Add("username", "El usuario es obligatorio.")
	}
	if len(input.Password) < 8 {
		v.Add("password", "La contraseña debe tener al menos 8 caracteres.")
	}
	role := model.Role(strings.TrimSpace(input.Role))
	if role == "" {
		role = model.RoleOperator
	}
	if !role.Valid() {
		v.Add("role", "El rol debe ser admin u operator.")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, conflict(fmt.Sprintf("El usuario %s ya existe.", username))
	} else if notFound(err) != ErrNotFound {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(input.FullName),
		Role:         role,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func principalOf(user *model.User) model.Principal {
	return model.Principal{
		UserID:   user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.Role,
	}
}
