package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fieldpulse/config"
	"fieldpulse/models"
)

func TestHashToken(t *testing.T) {
	assert.Equal(t, HashToken("token-a"), HashToken("token-a"))
	assert.NotEqual(t, HashToken("token-a"), HashToken("token-b"))
	assert.Len(t, HashToken("token-a"), 64) // sha256 hex
}

func TestGenerateAndParseJWTToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	user := &models.User{
		Model:        gorm.Model{ID: 7},
		Role:         models.RoleManager,
		TokenVersion: 2,
	}

	access, refresh, err := GenerateJWTToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := ParseJWTToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, models.RoleManager, claims.Role)
	assert.Equal(t, 2, claims.TokenVersion)
}

func TestParseJWTTokenRejectsWrongSecret(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	user := &models.User{Model: gorm.Model{ID: 7}}
	access, _, err := GenerateJWTToken(user)
	require.NoError(t, err)

	config.AppConfig.JWTSecret = "other-secret"
	_, err = ParseJWTToken(access)
	assert.Error(t, err)
}
