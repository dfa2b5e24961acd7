package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/resto-ledger/pkg/jwt"
)

const (
	secret     = "test-secret-key-for-unit-tests"
	userID     = "00000000-0000-0000-0000-000000000001"
	restaurant = "00000000-0000-0000-0000-000000000002"
	issuer     = "resto-ledger-test"
)

func TestGenerateAndParse_ConRol(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, userID, restaurant, "cocina", issuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, restaurant, claims.RestaurantID)
	assert.Equal(t, "cocina", claims.Role)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, userID, restaurant, "admin", issuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, userID, restaurant, "admin", issuer, 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", userID, restaurant, "admin", issuer, 60)
	assert.Error(t, err)
	_, err = pkgjwt.Parse("", "x.y.z")
	assert.Error(t, err)
}
