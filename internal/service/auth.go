// Package service contains application services for accounts and the catalog.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	pkgcrypto "github.com/abelikov/gameshelf/internal/crypto"
	"github.com/abelikov/gameshelf/internal/errs"
	"github.com/abelikov/gameshelf/internal/limiter"
	"github.com/abelikov/gameshelf/internal/model"
	"github.com/abelikov/gameshelf/internal/repository"
)

// AuthService is the credential store: account creation, login verification
// and the read-only role catalog.
type AuthService interface {
	// Register creates a new account with a bcrypt-hashed password.
	Register(ctx context.Context, username, password string, roles []string) error
	// Login verifies credentials (throttled per username+ip) and issues a session.
	Login(ctx context.Context, username, password, ip string) (model.Session, *model.Principal, error)
	// Roles lists the distinct role names known to the store.
	Roles(ctx context.Context) ([]string, error)
	// ParseSession validates a session token and returns its principal and roles.
	ParseSession(token string) (username string, roles []string, err error)
}

type AuthServiceImpl struct {
	principals repository.PrincipalRepository
	signKey    []byte
	sessionTTL time.Duration
	lim        limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(principals repository.PrincipalRepository, signKey []byte, sessionTTL time.Duration, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{principals: principals, signKey: signKey, sessionTTL: sessionTTL, lim: lim}
}

// Register hashes the password and stores the principal with its roles.
// Duplicate usernames surface as errs.ErrAlreadyExists; the storage-level
// uniqueness constraint arbitrates concurrent attempts.
func (s *AuthServiceImpl) Register(ctx context.Context, username, password string, roles []string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: empty username/password", errs.ErrInvalidInput)
	}
	if len(roles) == 0 {
		return fmt.Errorf("%w: empty role set", errs.ErrInvalidInput)
	}
	hash, err := pkgcrypto.HashPassword(password)
	if err != nil {
		return err
	}
	return s.principals.Create(ctx, &model.Principal{
		Username: username,
		PwdHash:  hash,
		Roles:    roles,
	})
}

// Login authenticates with rate limiting by (username, ip). Unknown username
// and wrong password take the same amount of work and the same sentinel so
// the failure does not enumerate accounts.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password, ip string) (model.Session, *model.Principal, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, username, ipHash)
	if err != nil {
		return model.Session{}, nil, err
	}
	if !allowed {
		return model.Session{}, nil, errs.ErrRateLimited
	}

	p, err := s.principals.GetByUsername(ctx, username)
	ok := false
	switch {
	case err == nil:
		ok = pkgcrypto.VerifyPassword(password, p.PwdHash)
	case errors.Is(err, errs.ErrNotFound):
		// Burn a comparison so unknown users cost as much as wrong passwords.
		pkgcrypto.VerifyDummy(password)
	default:
		return model.Session{}, nil, err
	}
	if !ok {
		if blocked, _, ferr := s.lim.Failure(ctx, username, ipHash); ferr == nil && blocked {
			return model.Session{}, nil, errs.ErrRateLimited
		}
		return model.Session{}, nil, errs.ErrInvalidCredentials
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, username, ipHash)

	sess, err := s.issueSession(p)
	if err != nil {
		return model.Session{}, nil, err
	}
	return sess, p, nil
}

// Roles exposes the role catalog for the signup form.
func (s *AuthServiceImpl) Roles(ctx context.Context) ([]string, error) {
	return s.principals.ListRoles(ctx)
}

type sessionClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// issueSession creates a signed HS256 session token carrying the role set.
func (s *AuthServiceImpl) issueSession(p *model.Principal) (model.Session, error) {
	now := time.Now()
	exp := now.Add(s.sessionTTL)
	jti, err := uuid.NewV4()
	if err != nil {
		return model.Session{}, err
	}
	claims := sessionClaims{
		Roles: p.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Username,
			ID:        jti.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	if err != nil {
		return model.Session{}, err
	}
	return model.Session{Token: signed, ExpiresAt: exp}, nil
}

// ParseSession validates the token signature and expiry and returns the
// embedded principal name and roles.
func (s *AuthServiceImpl) ParseSession(token string) (string, []string, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.signKey, nil
	})
	if err != nil {
		return "", nil, errs.ErrInvalidCredentials
	}
	return claims.Subject, claims.Roles, nil
}
