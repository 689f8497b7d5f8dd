package helper

import (
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"testing"
	"time"

	"github.com/campus-compass/calendar-manager/pkg/model"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err, "failed to generate private key")
	user := &model.User{ID: 7, Email: "email", Password: "pass", Guest: true}

	signed, err := GenerateAccessToken(user, key, 12)
	require.NoError(t, err)

	token, err := jwt.Parse([]byte(signed), jwt.WithKey(jwa.RS256, &key.PublicKey))
	require.NoError(t, err)
	claim, ok := token.Get("user")
	require.True(t, ok)
	userClaim, ok := claim.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 7, userClaim["id"])
	assert.Equal(t, "email", userClaim["email"])
	assert.Equal(t, true, userClaim["guest"])
	assert.NotContains(t, userClaim, "password")
	assert.WithinDuration(t, token.IssuedAt().Add(12*time.Second), token.Expiration(), 0)
}

func TestGenerateRefreshToken(t *testing.T) {
	user := &model.User{ID: 1}
	secretKey := "secret"
	expiration := 12
	signedStringPrefix := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9."

	tokenData, err := GenerateRefreshToken(user, secretKey, expiration)
	require.NoError(t, err)

	assert.Equal(t, expiration, int(tokenData.ExpiresIn.Seconds()))
	assert.True(t, strings.HasPrefix(tokenData.SignedString, signedStringPrefix))
	assert.NotEmpty(t, tokenData.TokenId)
}

func TestValidateRefreshToken(t *testing.T) {
	user := &model.User{ID: 1}
	secretKey := "secret"

	tokenData, err := GenerateRefreshToken(user, secretKey, 12)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(tokenData.SignedString, secretKey)
	require.NoError(t, err)

	assert.Equal(t, uint(1), claims.UserId)
	assert.Equal(t, tokenData.TokenId, claims.ID)
}

func TestValidateRefreshToken_WrongSecret(t *testing.T) {
	tokenData, err := GenerateRefreshToken(&model.User{ID: 1}, "secret", 12)
	require.NoError(t, err)

	_, err = ValidateRefreshToken(tokenData.SignedString, "other secret")

	assert.Error(t, err)
}
