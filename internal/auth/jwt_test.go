package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinxiu-shop/storefront/internal/config"
	"github.com/jinxiu-shop/storefront/internal/store"
)

func TestJWTRoundTrip(t *testing.T) {
	config.AppConfig = config.Config{JWTSecret: "test-secret"}

	original := store.User{
		ID:    "m1",
		Name:  "锦绣官方旗舰店",
		Email: "merchant@jinxiu.com",
		Role:  store.RoleMerchant,
	}

	tokenString, err := GenerateJWT(original)
	require.NoError(t, err)

	user, err := ValidateJWT(tokenString)
	require.NoError(t, err)
	assert.Equal(t, original, *user)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	config.AppConfig = config.Config{JWTSecret: "test-secret"}

	_, err := ValidateJWT("not-a-token")
	assert.Error(t, err)
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	config.AppConfig = config.Config{JWTSecret: "test-secret"}
	tokenString, err := GenerateJWT(store.User{ID: "u1", Role: store.RoleUser})
	require.NoError(t, err)

	config.AppConfig.JWTSecret = "another-secret"
	_, err = ValidateJWT(tokenString)
	assert.Error(t, err)
}

func TestValidateJWTRequiresIdentityClaims(t *testing.T) {
	config.AppConfig = config.Config{JWTSecret: "test-secret"}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"name": "无名"})
	tokenString, err := token.SignedString([]byte(config.AppConfig.JWTSecret))
	require.NoError(t, err)

	_, err = ValidateJWT(tokenString)
	assert.Error(t, err)
}
