package handlers

import (
	"net/http"
	"testing"
	"time"

	"zedlink-careers/config"
	"zedlink-careers/internal/email"
	"zedlink-careers/internal/models"
	"zedlink-careers/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestAuthHandler(t *testing.T) (*AuthHandler, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:        "test-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 7 * 24 * time.Hour,
		},
	}
	jwtService := auth.NewJWTService(cfg)
	emailService := email.NewEmailService(cfg, zap.NewNop())

	return NewAuthHandler(db, zap.NewNop(), jwtService, emailService), db
}

func TestChangePassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, db := newTestAuthHandler(t)

	user := models.User{
		Email:    "user@example.com",
		Password: "oldpassword",
		FullName: "A Person",
		Role:     models.RoleApplicant,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)

	stored := models.RefreshToken{
		UserID:    user.ID,
		Token:     "refresh-token-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(&stored).Error)

	router := gin.New()
	router.PATCH("/auth/password", identity(user.ID, models.RoleApplicant, nil), handler.ChangePassword)

	// Wrong current password is refused
	recorder := performJSON(router, http.MethodPatch, "/auth/password",
		ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "newpassword"})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = performJSON(router, http.MethodPatch, "/auth/password",
		ChangePasswordRequest{CurrentPassword: "oldpassword", NewPassword: "newpassword"})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var updated models.User
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	assert.True(t, updated.CheckPassword("newpassword"))
	assert.False(t, updated.CheckPassword("oldpassword"))

	// Outstanding refresh tokens are revoked
	var token models.RefreshToken
	require.NoError(t, db.First(&token, "id = ?", stored.ID).Error)
	assert.NotNil(t, token.RevokedAt)
	assert.False(t, token.IsValid())
}

func TestChangePassword_TooShort(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, db := newTestAuthHandler(t)

	user := models.User{
		Email:    "user@example.com",
		Password: "oldpassword",
		FullName: "A Person",
		Role:     models.RoleApplicant,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)

	router := gin.New()
	router.PATCH("/auth/password", identity(user.ID, models.RoleApplicant, nil), handler.ChangePassword)

	recorder := performJSON(router, http.MethodPatch, "/auth/password",
		ChangePasswordRequest{CurrentPassword: "oldpassword", NewPassword: "short"})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
