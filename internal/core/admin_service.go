package core

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"timeclock.service/internal/auth"
)

// AdminCredentials is the server-side admin secret. Hash, when set, is a
// bcrypt hash and takes precedence over the plain Password.
type AdminCredentials struct {
	Password string
	Hash     string
}

// TokenIssuer is the part of auth.TokenService the admin flow needs.
type TokenIssuer interface {
	Issue(subject string) (string, time.Time, error)
	Verify(token string) (*auth.Claims, error)
}

type AdminService struct {
	creds  AdminCredentials
	tokens TokenIssuer
}

func NewAdminService(creds AdminCredentials, tokens TokenIssuer) *AdminService {
	return &AdminService{creds: creds, tokens: tokens}
}

// Validate checks password and, when valid, issues a bearer token. A missing
// signing secret still validates, just without a token.
func (s *AdminService) Validate(ctx context.Context, password string) (bool, string) {
	if !s.matches(password) {
		log.Ctx(ctx).Warn().Msg("Rejected admin password")
		return false, ""
	}
	if s.tokens == nil {
		return true, ""
	}
	token, _, err := s.tokens.Issue("admin")
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("Admin validated without a token")
		return true, ""
	}
	return true, token
}

// Authorize checks an "Authorization: Bearer" header value.
func (s *AdminService) Authorize(header string) error {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" || s.tokens == nil {
		return ErrUnauthorized
	}
	if _, err := s.tokens.Verify(strings.TrimSpace(token)); err != nil {
		return ErrUnauthorized
	}
	return nil
}

func (s *AdminService) matches(password string) bool {
	if password == "" {
		return false
	}
	if s.creds.Hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.creds.Hash), []byte(password)) == nil
	}
	if s.creds.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.creds.Password), []byte(password)) == 1
}
