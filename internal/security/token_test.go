package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vuelas/api/internal/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTokenService(t *testing.T, secret string, now time.Time) *TokenService {
	t.Helper()
	svc, err := NewTokenService(TokenConfig{
		Secret:   secret,
		Issuer:   "JA_SeguroVuelas",
		Audience: "JA_SeguroVuelas_Users",
		TTL:      1440 * time.Minute,
	}, WithClock(fixedClock(now)))
	require.NoError(t, err)
	return svc
}

var testUser = models.User{
	ID:    "2abc",
	Email: "a@b.com",
	Name:  "Ana",
	Role:  models.RoleAdmin,
}

func TestIssueValidate_RoundTrip(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	svc := newTokenService(t, testSecret, now)

	tok, err := svc.Issue(testUser)
	require.NoError(t, err)
	assert.Len(t, strings.Split(tok, "."), 3)

	claims, ok := svc.Validate(tok)
	require.True(t, ok)
	assert.Equal(t, "2abc", claims.Subject)
	assert.Equal(t, "2abc", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, "Admin", claims.Role)
	assert.Equal(t, "Admin", claims.Rol)
	assert.Equal(t, "JA_SeguroVuelas", claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"JA_SeguroVuelas_Users"}, claims.Audience)
	assert.True(t, claims.ExpiresAt.Time.Equal(now.Add(24*time.Hour)))
}

func TestIssue_DefaultsRoleToCliente(t *testing.T) {
	t.Parallel()
	svc := newTokenService(t, testSecret, time.Now())

	tok, err := svc.Issue(models.User{ID: "u1", Email: "c@d.com", Name: "Carla"})
	require.NoError(t, err)

	claims, ok := svc.Validate(tok)
	require.True(t, ok)
	assert.Equal(t, "Cliente", claims.Role)
}

func TestValidate_WrongKey(t *testing.T) {
	t.Parallel()
	now := time.Now()
	issuer := newTokenService(t, testSecret, now)
	other := newTokenService(t, strings.Repeat("z", 40), now)

	tok, err := issuer.Issue(testUser)
	require.NoError(t, err)

	_, ok := other.Validate(tok)
	assert.False(t, ok)
}

func TestValidate_Expired(t *testing.T) {
	t.Parallel()
	issuedAt := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	tok, err := newTokenService(t, testSecret, issuedAt).Issue(testUser)
	require.NoError(t, err)

	justBefore := newTokenService(t, testSecret, issuedAt.Add(24*time.Hour-time.Second))
	_, ok := justBefore.Validate(tok)
	assert.True(t, ok)

	after := newTokenService(t, testSecret, issuedAt.Add(24*time.Hour+time.Second))
	_, ok = after.Validate(tok)
	assert.False(t, ok)
}

func TestValidate_IssuerAudienceMismatch(t *testing.T) {
	t.Parallel()
	now := time.Now()
	base := newTokenService(t, testSecret, now)

	wrongIssuer, err := NewTokenService(TokenConfig{
		Secret: testSecret, Issuer: "someone-else", Audience: "JA_SeguroVuelas_Users", TTL: time.Hour,
	}, WithClock(fixedClock(now)))
	require.NoError(t, err)
	wrongAudience, err := NewTokenService(TokenConfig{
		Secret: testSecret, Issuer: "JA_SeguroVuelas", Audience: "other-app", TTL: time.Hour,
	}, WithClock(fixedClock(now)))
	require.NoError(t, err)

	for _, svc := range []*TokenService{wrongIssuer, wrongAudience} {
		tok, err := svc.Issue(testUser)
		require.NoError(t, err)
		_, ok := base.Validate(tok)
		assert.False(t, ok)
	}
}

func TestValidate_Malformed(t *testing.T) {
	t.Parallel()
	svc := newTokenService(t, testSecret, time.Now())

	for _, tok := range []string{"", "not.a.jwt", "abc", "a.b.c.d", "Bearer x"} {
		assert.NotPanics(t, func() {
			_, ok := svc.Validate(tok)
			assert.False(t, ok, tok)
		})
	}
}

func TestValidate_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()
	now := time.Now()
	svc := newTokenService(t, testSecret, now)

	claims := Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "JA_SeguroVuelas",
			Audience:  jwt.ClaimStrings{"JA_SeguroVuelas_Users"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, ok := svc.Validate(tok)
	assert.False(t, ok)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, ok = svc.Validate(none)
	assert.False(t, ok)
}

func TestNewTokenService_RejectsWeakConfig(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService(TokenConfig{Secret: "", TTL: time.Hour})
	assert.ErrorIs(t, err, ErrWeakSecret)

	_, err = NewTokenService(TokenConfig{Secret: "short", TTL: time.Hour})
	assert.ErrorIs(t, err, ErrWeakSecret)

	_, err = NewTokenService(TokenConfig{Secret: testSecret, TTL: 0})
	assert.Error(t, err)
}
