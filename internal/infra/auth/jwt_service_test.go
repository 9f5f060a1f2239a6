package auth

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/config"
	"taskhub/internal/domain/service"
	"taskhub/internal/errors"
)

func newTestTokenService(t *testing.T, secret string) service.TokenService {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Signing = secret
	cfg.Auth = &config.AuthConfig{AccessTokenTTL: 30 * time.Minute}

	return NewJWTService(Params{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestJWTService_MintAndVerify(t *testing.T) {
	svc := newTestTokenService(t, "test_signing_secret_very_long_for_testing")

	token, err := svc.Mint("alice", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestJWTService_CrossInstanceSharedSecret(t *testing.T) {
	// The issuing and verifying service are separate processes that share
	// only the secret. A token minted by one instance must verify under
	// another instance holding the same secret, and be rejected by an
	// instance holding a different one.
	issuer := newTestTokenService(t, "shared_secret_for_both_services")
	verifier := newTestTokenService(t, "shared_secret_for_both_services")
	stranger := newTestTokenService(t, "a_completely_different_secret")

	token, err := issuer.Mint("alice", time.Minute)
	require.NoError(t, err)

	subject, err := verifier.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice", subject)

	_, err = stranger.Verify(token)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrTokenSignatureInvalid))
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := newTestTokenService(t, "test_signing_secret_very_long_for_testing")

	token, err := svc.Mint("alice", -time.Minute)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrTokenExpired))
}

func TestJWTService_MalformedToken(t *testing.T) {
	svc := newTestTokenService(t, "test_signing_secret_very_long_for_testing")

	_, err := svc.Verify("clearly-not-a-jwt")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrTokenMalformed))
}

func TestJWTService_MissingSubject(t *testing.T) {
	secret := "test_signing_secret_very_long_for_testing"
	svc := newTestTokenService(t, secret)

	// A structurally valid, correctly signed token without a sub claim.
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrTokenMalformed))
}

func TestJWTService_RejectsNonHMACAlgorithm(t *testing.T) {
	svc := newTestTokenService(t, "test_signing_secret_very_long_for_testing")

	// alg=none with an empty signature must never verify.
	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err)
}

func TestJWTService_AccessTokenTTL(t *testing.T) {
	svc := newTestTokenService(t, "test_signing_secret_very_long_for_testing")

	assert.Equal(t, 30*time.Minute, svc.AccessTokenTTL())
}

func TestJWTService_InsecureDefaultSecretStillWorks(t *testing.T) {
	// Unconfigured secret falls back to the flagged development default;
	// minting and verifying still round-trip.
	svc := newTestTokenService(t, "")

	token, err := svc.Mint("alice", time.Minute)
	require.NoError(t, err)

	subject, err := svc.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice", subject)
}
