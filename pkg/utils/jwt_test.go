package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateToken("operator-1", []string{"admin"}, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "operator-1", claims.UserID)
	assert.True(t, claims.HasRole("admin"))
	assert.False(t, claims.HasRole("viewer"))
}

func TestValidateToken_WrongSecret(t *testing.T) {
	SetSecret("one")
	token, err := GenerateToken("operator-1", nil, time.Hour)
	require.NoError(t, err)

	SetSecret("two")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	SetSecret("test-secret")
	token, err := GenerateToken("operator-1", nil, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestActorFromContext(t *testing.T) {
	assert.Equal(t, "system", ActorFromContext(context.Background()))

	ctx := context.WithValue(context.Background(), UserClaimsKey, &UserClaims{UserID: "u-7"})
	assert.Equal(t, "u-7", ActorFromContext(ctx))
}
