package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgAuth "github.com/lbstore/storefront-backend/pkg/auth"
	"github.com/lbstore/storefront-backend/pkg/auth/session"
	"github.com/lbstore/storefront-backend/pkg/config"
	"github.com/lbstore/storefront-backend/pkg/db/models"
	"github.com/lbstore/storefront-backend/pkg/enums"
	pkgerrors "github.com/lbstore/storefront-backend/pkg/errors"
	"github.com/lbstore/storefront-backend/pkg/logger"
	"github.com/lbstore/storefront-backend/pkg/security"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service authenticates admins.
type Service interface {
	Authenticate(ctx context.Context, creds Credentials) (*Session, error)
	Logout(ctx context.Context, accessID string) error
	EnsureAdmin(ctx context.Context, email, password string) error
}

type adminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	Create(ctx context.Context, admin *models.AdminUser) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Register(ctx context.Context, accessID string) error
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Admins         adminRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

type service struct {
	admins   adminRepository
	sessions sessionManager
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs the admin auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.Admins == nil {
		return nil, fmt.Errorf("admin repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		admins:   params.Admins,
		sessions: params.SessionManager,
		jwtCfg:   params.JWTConfig,
		pwCfg:    params.PasswordConfig,
		logg:     params.Logger,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Authenticate(ctx context.Context, creds Credentials) (*Session, error) {
	admin, err := s.verify(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.admins.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	admin.LastLoginAt = &now

	accessID := session.NewAccessID()
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		AdminID: admin.ID,
		Email:   admin.Email,
		Role:    enums.RoleAdmin,
		JTI:     accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	if err := s.sessions.Register(ctx, accessID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "register session")
	}

	s.logg.Info(s.logg.WithAdminID(ctx, admin.ID.String()), "auth.login")
	return &Session{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   now.Add(s.jwtCfg.AccessTTL()),
		AccessID:    accessID,
		Admin:       adminFromModel(admin),
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session missing")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "revoke session")
	}
	return nil
}

// EnsureAdmin creates the bootstrap admin, or rotates its hash when the
// configured password or argon parameters changed.
func (s *service) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "admin email and password are required")
	}

	existing, err := s.admins.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "lookup admin")
	}

	if existing == nil {
		hash, err := security.HashPassword(password, s.pwCfg)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		admin := &models.AdminUser{Email: email, PasswordHash: hash}
		if err := s.admins.Create(ctx, admin); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "create admin")
		}
		s.logg.Info(s.logg.WithAdminID(ctx, admin.ID.String()), "auth.admin.created")
		return nil
	}

	matches, verr := security.VerifyPassword(password, existing.PasswordHash)
	if verr == nil && matches && !security.NeedsRehash(existing.PasswordHash, s.pwCfg) {
		return nil
	}
	hash, err := security.HashPassword(password, s.pwCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.admins.UpdatePasswordHash(ctx, existing.ID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "rotate admin password")
	}
	s.logg.Info(s.logg.WithAdminID(ctx, existing.ID.String()), "auth.admin.rotated")
	return nil
}

func (s *service) verify(ctx context.Context, email, password string) (*models.AdminUser, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "lookup admin")
	}
	valid, err := security.VerifyPassword(password, admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return admin, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
