package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationSecret_Validate(t *testing.T) {
	t.Run("valid secret", func(t *testing.T) {
		secret := ApplicationSecret(strings.Repeat("a", MinApplicationSecretLength))
		assert.NoError(t, secret.Validate())
	})

	t.Run("empty secret", func(t *testing.T) {
		secret := ApplicationSecret("")
		assert.ErrorIs(t, secret.Validate(), ErrApplicationSecretNotSet)
	})

	t.Run("too short secret", func(t *testing.T) {
		secret := ApplicationSecret("short-secret")
		assert.ErrorIs(t, secret.Validate(), ErrApplicationSecretTooShort)
	})

	t.Run("boundary length", func(t *testing.T) {
		secret := ApplicationSecret(strings.Repeat("b", MinApplicationSecretLength-1))
		assert.ErrorIs(t, secret.Validate(), ErrApplicationSecretTooShort)
	})
}

func TestLoadApplicationSecretFromEnv(t *testing.T) {
	t.Run("valid secret", func(t *testing.T) {
		value := strings.Repeat("x", MinApplicationSecretLength)
		t.Setenv("APP_SECRET_KEY", value)

		secret, err := LoadApplicationSecretFromEnv()
		require.NoError(t, err)
		assert.Equal(t, ApplicationSecret(value), secret)
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("APP_SECRET_KEY", "")

		_, err := LoadApplicationSecretFromEnv()
		assert.ErrorIs(t, err, ErrApplicationSecretNotSet)
	})

	t.Run("short secret", func(t *testing.T) {
		t.Setenv("APP_SECRET_KEY", "too-short")

		_, err := LoadApplicationSecretFromEnv()
		assert.ErrorIs(t, err, ErrApplicationSecretTooShort)
	})
}
