package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-web/internal/services"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := services.NewJWTService("test-secret")

	token, err := svc.GenerateToken(42, "alice", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	token, err := services.NewJWTService("secret-a").GenerateToken(1, "bob", "user")
	require.NoError(t, err)

	_, err = services.NewJWTService("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := services.NewJWTService("test-secret")

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.ValidateToken(token)
		assert.Error(t, err)
	}
}
