package auth

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"zedlink-careers/config"
	"zedlink-careers/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(&config.Config{
		JWT: config.JWTConfig{
			Secret:        "test-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 7 * 24 * time.Hour,
		},
	})
}

func newTestUser() *models.User {
	companyID := uuid.New()
	return &models.User{
		ID:        uuid.New(),
		Email:     "employer@example.com",
		Role:      models.RoleEmployer,
		CompanyID: &companyID,
	}
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	service := newTestJWTService()
	user := newTestUser()

	token, err := service.GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, models.RoleEmployer, claims.Role)
	require.NotNil(t, claims.CompanyID)
	assert.Equal(t, *user.CompanyID, *claims.CompanyID)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	service := newTestJWTService()
	user := newTestUser()

	token, err := service.GenerateAccessToken(user)
	require.NoError(t, err)

	other := NewJWTService(&config.Config{
		JWT: config.JWTConfig{
			Secret:        "different-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 7 * 24 * time.Hour,
		},
	})

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestGenerateTokenPair(t *testing.T) {
	service := newTestJWTService()
	user := newTestUser()

	pair, err := service.GenerateTokenPair(user)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), pair.ExpiresIn)
}

func TestGenerateRefreshToken_Unique(t *testing.T) {
	service := newTestJWTService()

	first, err := service.GenerateRefreshToken()
	require.NoError(t, err)
	second, err := service.GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestExtractTokenFromBearer(t *testing.T) {
	assert.Equal(t, "abc123", ExtractTokenFromBearer("Bearer abc123"))
	assert.Equal(t, "", ExtractTokenFromBearer("abc123"))
	assert.Equal(t, "", ExtractTokenFromBearer(""))
	assert.Equal(t, "", ExtractTokenFromBearer("Bearer"))
}

func TestTokenBlacklist(t *testing.T) {
	blacklist := NewTokenBlacklist()

	blacklist.Add("token-1", time.Now().Add(time.Hour))
	assert.True(t, blacklist.IsBlacklisted("token-1"))
	assert.False(t, blacklist.IsBlacklisted("token-2"))

	// Expired entries fall out of the blacklist
	blacklist.Add("token-3", time.Now().Add(-time.Minute))
	assert.False(t, blacklist.IsBlacklisted("token-3"))
}

func TestTokenBlacklist_ConcurrentAccess(t *testing.T) {
	blacklist := NewTokenBlacklist()
	expiry := time.Now().Add(time.Hour)

	// Logout writes while authenticated requests read; IsBlacklisted also
	// deletes expired entries, so every path mutates the map.
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				blacklist.Add(fmt.Sprintf("token-%d-%d", n, j), expiry)
			}
		}(i)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				blacklist.IsBlacklisted(fmt.Sprintf("token-%d-%d", n, j))
			}
		}(i)
	}
	wg.Wait()

	blacklist.Add("expired", time.Now().Add(-time.Minute))
	blacklist.Cleanup()
	assert.False(t, blacklist.IsBlacklisted("expired"))
}

func TestValidateTokenWithBlacklist_ExpiredToken(t *testing.T) {
	expired := NewJWTService(&config.Config{
		JWT: config.JWTConfig{
			Secret:        "test-secret",
			AccessExpiry:  -time.Minute,
			RefreshExpiry: 7 * 24 * time.Hour,
		},
	})

	token, err := expired.GenerateAccessToken(newTestUser())
	require.NoError(t, err)

	_, err = expired.ValidateTokenWithBlacklist(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateTokenWithBlacklist(t *testing.T) {
	service := newTestJWTService()
	user := newTestUser()

	token, err := service.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = service.ValidateTokenWithBlacklist(token)
	require.NoError(t, err)

	require.NoError(t, service.BlacklistToken(token))

	_, err = service.ValidateTokenWithBlacklist(token)
	assert.ErrorIs(t, err, ErrTokenBlacklisted)
}
