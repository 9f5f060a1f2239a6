// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/fx"

	"taskhub/config"
	"taskhub/internal/domain/service"
	"taskhub/internal/errors"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// Tokens are HS256-signed with a process-wide shared secret; the issuing and
// the verifying service hold the same secret and nothing else.
type jwtService struct {
	secret    []byte
	accessTTL time.Duration
}

// Params holds dependencies for the JWT service, injected by Fx.
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewJWTService is the constructor for jwtService. A missing secret falls
// back to the insecure development default and is flagged loudly, matching
// the deployment contract: the real secret arrives via JWT_SECRET_KEY.
func NewJWTService(params Params) service.TokenService {
	secret, insecureDefault := params.Config.SigningSecret()
	if insecureDefault {
		params.Logger.Warn("JWT signing secret not configured, using insecure default; do not deploy this outside development")
	}

	accessTTL := params.Config.Auth.AccessTokenTTL

	return &jwtService{
		secret:    []byte(secret),
		accessTTL: accessTTL,
	}
}

// Mint encodes {sub, iat, exp} and signs it with the shared secret.
func (s *jwtService) Mint(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Verify checks structure, signature and expiry, and extracts the subject.
// The distinct failure modes exist for diagnostics; callers at the HTTP
// boundary collapse them all into one unauthorized response.
func (s *jwtService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Reject any signing method other than HMAC, including "none".
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return "", translateJWTError(err)
	}

	if claims.Subject == "" {
		return "", errors.Wrap(service.ErrTokenMalformed, "subject claim missing")
	}

	return claims.Subject, nil
}

// AccessTokenTTL returns the configured lifetime for minted tokens.
func (s *jwtService) AccessTokenTTL() time.Duration {
	return s.accessTTL
}

func translateJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return errors.Wrap(service.ErrTokenExpired, err.Error())
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return errors.Wrap(service.ErrTokenSignatureInvalid, err.Error())
	default:
		return errors.Wrap(service.ErrTokenMalformed, err.Error())
	}
}
