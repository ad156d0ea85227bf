package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxemart/storefront/pkg/config"
)

// Small parameters keep the test fast; production values come from config
// defaults.
func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	encoded, err := HashPassword("hunter22", testPasswordConfig())
	require.NoError(t, err)
	assert.Contains(t, encoded, "$argon2id$v=19$")

	ok, err := VerifyPassword("hunter22", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashesAreSalted(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("same-password", testPasswordConfig())
	require.NoError(t, err)
	second, err := HashPassword("same-password", testPasswordConfig())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	t.Parallel()

	_, err := VerifyPassword("pw", "not-a-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, err = VerifyPassword("pw", "$argon2id$v=19$m=abc,t=1,p=1$c2FsdA$aGFzaA")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	t.Parallel()

	_, err := HashPassword("", testPasswordConfig())
	require.Error(t, err)
}
