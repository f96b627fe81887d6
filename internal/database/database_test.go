package database

import (
	"path/filepath"
	"testing"

	"zedlink-careers/config"
	"zedlink-careers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func createTestSQLiteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: filepath.Join(t.TempDir(), "test.db"),
		},
		Log: config.LogConfig{Level: "silent"},
	}
}

func TestConnect_SQLite(t *testing.T) {
	cfg := createTestSQLiteConfig(t)
	logger := zap.NewNop()

	err := Connect(cfg, logger)
	require.NoError(t, err)
	assert.NotNil(t, DB)

	err = IsHealthy()
	assert.NoError(t, err)

	Close()
	DB = nil
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver: "unsupported",
		},
	}
	logger := zap.NewNop()

	err := Connect(cfg, logger)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestConnect_WithAutoMigrate(t *testing.T) {
	cfg := createTestSQLiteConfig(t)
	cfg.Dev.AutoMigrate = true
	logger := zap.NewNop()

	err := Connect(cfg, logger)
	require.NoError(t, err)
	assert.NotNil(t, DB)

	// Verify tables were created
	assert.True(t, DB.Migrator().HasTable(&models.User{}))
	assert.True(t, DB.Migrator().HasTable(&models.Company{}))
	assert.True(t, DB.Migrator().HasTable(&models.JobPosting{}))
	assert.True(t, DB.Migrator().HasTable(&models.Application{}))
	assert.True(t, DB.Migrator().HasTable(&models.RecruitmentPartner{}))

	Close()
	DB = nil
}

func TestAutoMigrate_WithoutDB(t *testing.T) {
	originalDB := DB
	DB = nil
	defer func() { DB = originalDB }()

	err := AutoMigrate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database not initialized")
}

func TestClose_WithoutDB(t *testing.T) {
	originalDB := DB
	DB = nil
	defer func() { DB = originalDB }()

	err := Close()
	assert.NoError(t, err)
}

func TestSeedDatabase(t *testing.T) {
	cfg := createTestSQLiteConfig(t)
	cfg.Dev.AutoMigrate = true
	cfg.Dev.SeedData = true
	cfg.Admin.Email = "admin@test.local"
	cfg.Admin.Password = "admin123"

	require.NoError(t, Connect(cfg, zap.NewNop()))
	defer func() {
		Close()
		DB = nil
	}()

	require.NoError(t, SeedDatabase(DB, cfg))

	var admin models.User
	require.NoError(t, DB.Where("email = ?", cfg.Admin.Email).First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	var job models.JobPosting
	require.NoError(t, DB.First(&job).Error)
	assert.Equal(t, models.JobStatusApproved, job.Status)

	var application models.Application
	require.NoError(t, DB.First(&application).Error)
	require.NotNil(t, application.MatchScore)

	// Seeding twice must not duplicate data
	require.NoError(t, SeedDatabase(DB, cfg))
	var count int64
	DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCalculatePagination(t *testing.T) {
	info := CalculatePagination(2, 10, 35)
	assert.Equal(t, 2, info.Page)
	assert.Equal(t, 10, info.PageSize)
	assert.Equal(t, int64(35), info.Total)
	assert.Equal(t, 4, info.TotalPages)
	assert.True(t, info.HasNext)
	assert.True(t, info.HasPrev)

	info = CalculatePagination(0, 0, 5)
	assert.Equal(t, 1, info.Page)
	assert.Equal(t, 10, info.PageSize)
	assert.Equal(t, 1, info.TotalPages)
	assert.False(t, info.HasNext)
	assert.False(t, info.HasPrev)
}
