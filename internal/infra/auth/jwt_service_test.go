package auth

import (
	"testing"
	"time"

	"taskhub/config"
	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(secret string, ttl time.Duration) *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{AccessTokenTTL: ttl},
	}
	cfg.SecretKey.Access = secret

	return cfg
}

func newTestUser() *entity.User {
	return &entity.User{
		ID:          uuid.New(),
		Email:       "a@b.com",
		DisplayName: "Tester",
		Role:        entity.RoleCommon,
	}
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService(newTestConfig("", time.Hour))
	assert.Error(t, err)
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc, err := NewJWTService(newTestConfig("test-secret", time.Hour))
	require.NoError(t, err)

	user := newTestUser()
	token, err := svc.GenerateToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, entity.RoleCommon, claims.Role)
	assert.Equal(t, user.ID.String(), claims.Subject)
}

func TestJWTService_RoleSnapshotInClaims(t *testing.T) {
	svc, err := NewJWTService(newTestConfig("test-secret", time.Hour))
	require.NoError(t, err)

	user := newTestUser()
	oldToken, err := svc.GenerateToken(user)
	require.NoError(t, err)

	// Promote and issue a fresh token; the old token keeps the old role.
	user.Role = entity.RolePremium
	newToken, err := svc.GenerateToken(user)
	require.NoError(t, err)

	oldClaims, err := svc.ValidateToken(oldToken)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCommon, oldClaims.Role)

	newClaims, err := svc.ValidateToken(newToken)
	require.NoError(t, err)
	assert.Equal(t, entity.RolePremium, newClaims.Role)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	issuer, err := NewJWTService(newTestConfig("secret-one", time.Hour))
	require.NoError(t, err)
	verifier, err := NewJWTService(newTestConfig("secret-two", time.Hour))
	require.NoError(t, err)

	token, err := issuer.GenerateToken(newTestUser())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	// Construct directly so the TTL can be in the past.
	svc := &jwtService{accessSecret: "test-secret", accessTTL: -time.Minute}

	token, err := svc.GenerateToken(newTestUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc, err := NewJWTService(newTestConfig("test-secret", time.Hour))
	require.NoError(t, err)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
