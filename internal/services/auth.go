package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/daleyoon76/saas-idea-generator/internal/platform/ctxutil"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
)

// JWTClaims is the session token minted by the sign-in front end after the
// Google, Naver or Kakao OAuth exchange. Subject is the stable user id.
type JWTClaims struct {
	Provider string `json:"provider,omitempty"`
	jwt.RegisteredClaims
}

type AuthConfig struct {
	JWTSecretKey     string
	Issuer           string
	Audience         string
	AllowedProviders []string
}

type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	log       *logger.Logger
	secret    []byte
	parser    *jwt.Parser
	providers map[string]bool
}

func NewAuthService(log *logger.Logger, cfg AuthConfig) (AuthService, error) {
	if strings.TrimSpace(cfg.JWTSecretKey) == "" {
		return nil, errors.New("JWT_SECRET_KEY is required")
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if iss := strings.TrimSpace(cfg.Issuer); iss != "" {
		opts = append(opts, jwt.WithIssuer(iss))
	}
	if aud := strings.TrimSpace(cfg.Audience); aud != "" {
		opts = append(opts, jwt.WithAudience(aud))
	}
	var providers map[string]bool
	for _, p := range cfg.AllowedProviders {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if providers == nil {
			providers = map[string]bool{}
		}
		providers[p] = true
	}
	return &authService{
		log:       log.With("service", "AuthService"),
		secret:    []byte(cfg.JWTSecretKey),
		parser:    jwt.NewParser(opts...),
		providers: providers,
	}, nil
}

// SetContextFromToken verifies the session token and returns a context that
// carries the principal. Any failure is ErrUnauthorized.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ctx, ErrUnauthorized
	}
	claims := &JWTClaims{}
	parsed, err := as.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return as.secret, nil
	})
	if err != nil {
		as.log.Debug("Rejected session token", "error", err)
		return ctx, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return ctx, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}
	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return ctx, fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}
	provider := strings.ToLower(strings.TrimSpace(claims.Provider))
	if as.providers != nil && !as.providers[provider] {
		return ctx, fmt.Errorf("%w: provider %q not allowed", ErrUnauthorized, provider)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:      sub,
		Provider:    provider,
		TokenString: tokenString,
	}), nil
}
