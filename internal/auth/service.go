package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	pkgAuth "github.com/stefanobartoli/filiera-backend/pkg/auth"
	"github.com/stefanobartoli/filiera-backend/pkg/config"
	pkgerrors "github.com/stefanobartoli/filiera-backend/pkg/errors"
	"github.com/stefanobartoli/filiera-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type passwordVerifier func(password, encoded string) (bool, error)

type service struct {
	adminCfg config.AdminConfig
	jwtCfg   config.JWTConfig
	verify   passwordVerifier
	nowFunc  func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	AdminConfig config.AdminConfig
	JWTConfig   config.JWTConfig
}

// NewService constructs a login service backed by the configured back-office account.
func NewService(params ServiceParams) (Service, error) {
	if params.AdminConfig.Email == "" || params.AdminConfig.PasswordHash == "" {
		return nil, fmt.Errorf("admin credentials are required")
	}
	if params.JWTConfig.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return &service{
		adminCfg: params.AdminConfig,
		jwtCfg:   params.JWTConfig,
		verify:   security.VerifyPassword,
		nowFunc:  time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	expected := strings.ToLower(strings.TrimSpace(s.adminCfg.Email))
	emailMatch := subtle.ConstantTimeCompare([]byte(email), []byte(expected)) == 1

	ok, err := s.verify(req.Password, s.adminCfg.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok || !emailMatch {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	now := s.nowFunc().UTC()
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{Email: email})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &LoginResponse{
		AccessToken: token,
		ExpiresAt:   now.Add(s.jwtCfg.TokenTTL()),
		Email:       email,
	}, nil
}
