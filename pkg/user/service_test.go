package user

import (
	"context"
	"strings"
	"testing"

	"github.com/campus-compass/calendar-manager/internal/errdef"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_SignUp_GuestDomainIsReserved(t *testing.T) {
	service := NewService(nil)

	for _, email := range []string{"someone@guest.invalid", "Someone@GUEST.invalid"} {
		_, err := service.SignUp(context.Background(), email, "passwordpassword")

		require.Error(t, err, email)
		assert.True(t, errdef.IsBadRequest(err), email)
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := hashPassword("correct horse battery staple")

	require.NoError(t, err)
	parts := strings.Split(hash, "$")
	require.Len(t, parts, 6)
	assert.Equal(t, "argon2id", parts[1])
	assert.Equal(t, "m=131072,t=3,p=4", parts[3])

	again, err := hashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "every hash is salted")
}

func TestComparePasswords(t *testing.T) {
	hash, err := hashPassword("correct horse battery staple")
	require.NoError(t, err)

	t.Run("Match", func(t *testing.T) {
		match, err := comparePasswords(hash, "correct horse battery staple")

		require.NoError(t, err)
		assert.True(t, match)
	})

	t.Run("Mismatch", func(t *testing.T) {
		match, err := comparePasswords(hash, "incorrect horse battery staple")

		require.NoError(t, err)
		assert.False(t, match)
	})

	t.Run("EmptyPassword", func(t *testing.T) {
		empty, err := hashPassword("")
		require.NoError(t, err)

		match, err := comparePasswords(empty, "")

		require.NoError(t, err)
		assert.True(t, match)
	})

	t.Run("MalformedHash", func(t *testing.T) {
		tests := map[string]struct {
			hash string
			want string
		}{
			"NotPHC":          {"plaintext", "invalid password hash format"},
			"OtherAlgorithm":  {"$scrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA", "invalid password hash format"},
			"Parameters":      {"$argon2id$v=19$invalid$c2FsdA$aGFzaA", "invalid password parameters"},
			"Salt":            {"$argon2id$v=19$m=128,t=3,p=4$not!base64$aGFzaA", "failed to decode salt"},
			"Hash":            {"$argon2id$v=19$m=128,t=3,p=4$c2FsdA$not!base64", "failed to decode hash"},
			"IncompatibleVer": {"$argon2id$v=16$m=128,t=3,p=4$c2FsdA$aGFzaA", "incompatible argon2 version"},
		}
		for name, test := range tests {
			t.Run(name, func(t *testing.T) {
				match, err := comparePasswords(test.hash, "anything")

				require.ErrorContains(t, err, test.want)
				assert.False(t, match)
			})
		}
	})
}
