package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// cheap parameters keep the suite fast
var testParams = Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	t.Parallel()

	digest, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$argon2id$v=19$t=3,m=65536,p=2$"))

	assert.True(t, VerifyPassword("secret1", digest))
	assert.False(t, VerifyPassword("secret2", digest))
	assert.False(t, VerifyPassword("", digest))
}

func TestHashPassword_IsSalted(t *testing.T) {
	t.Parallel()

	a, err := HashPasswordWithParams("secret1", testParams)
	require.NoError(t, err)
	b, err := HashPasswordWithParams("secret1", testParams)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, VerifyPassword("secret1", a))
	assert.True(t, VerifyPassword("secret1", b))
}

func TestVerifyPassword_MalformedDigests(t *testing.T) {
	t.Parallel()

	good, err := HashPasswordWithParams("secret1", testParams)
	require.NoError(t, err)
	parts := strings.Split(good, "$")

	cases := map[string]string{
		"empty":          "",
		"plaintext":      "secret1",
		"truncated":      strings.Join(parts[:4], "$"),
		"bad version":    strings.Replace(good, "v=19", "v=16", 1),
		"bad params":     strings.Replace(good, "t=1,m=8192,p=1", "t=x,m=y,p=z", 1),
		"huge memory":    strings.Replace(good, "m=8192", "m=99999999", 1),
		"zero threads":   strings.Replace(good, "p=1", "p=0", 1),
		"bad salt":       strings.Join([]string{parts[0], parts[1], parts[2], parts[3], "!!!", parts[5]}, "$"),
		"bad hash":       strings.Join([]string{parts[0], parts[1], parts[2], parts[3], parts[4], "???"}, "$"),
		"broken bcrypt":  "$2a$10$notreallyabcrypthash",
		"unknown scheme": "$pbkdf2$whatever",
	}
	for name, digest := range cases {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, VerifyPassword("secret1", digest))
			})
		})
	}
}

func TestVerifyPassword_LegacyBcrypt(t *testing.T) {
	t.Parallel()

	legacy, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, VerifyPassword("secret1", string(legacy)))
	assert.False(t, VerifyPassword("secret2", string(legacy)))
	assert.True(t, NeedsRehash(string(legacy)))
}

func TestNeedsRehash(t *testing.T) {
	t.Parallel()

	digest, err := HashPasswordWithParams("secret1", testParams)
	require.NoError(t, err)
	assert.False(t, NeedsRehash(digest))
	assert.True(t, NeedsRehash(""))
}
