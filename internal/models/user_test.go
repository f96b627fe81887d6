package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_HashPassword(t *testing.T) {
	user := User{Password: "secret123"}

	require.NoError(t, user.HashPassword())
	assert.NotEqual(t, "secret123", user.Password)
	assert.True(t, user.CheckPassword("secret123"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestUser_HashPasswordIdempotent(t *testing.T) {
	user := User{Password: "secret123"}
	require.NoError(t, user.HashPassword())
	hashed := user.Password

	// Hashing an already-hashed password must not double-hash it
	require.NoError(t, user.HashPassword())
	assert.Equal(t, hashed, user.Password)
	assert.True(t, user.CheckPassword("secret123"))
}

func TestUser_RoleChecks(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.True(t, (&User{Role: RoleEmployer}).IsEmployer())
	assert.True(t, (&User{Role: RoleApplicant}).IsApplicant())
	assert.False(t, (&User{Role: RoleApplicant}).IsAdmin())
}

func TestUser_HasCompany(t *testing.T) {
	assert.False(t, (&User{}).HasCompany())

	id := uuid.New()
	assert.True(t, (&User{CompanyID: &id}).HasCompany())
}

func TestUser_ToResponseOmitsPassword(t *testing.T) {
	user := User{
		ID:       uuid.New(),
		Email:    "a@example.com",
		Password: "hashed",
		FullName: "A Person",
		Role:     RoleApplicant,
	}

	response := user.ToResponse()
	assert.Equal(t, user.Email, response.Email)
	assert.Equal(t, user.FullName, response.FullName)
}
