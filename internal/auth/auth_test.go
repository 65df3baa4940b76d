package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenManager_IssueAndVerify(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.Issue(42, "ana@example.com")
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	require.Equal(t, uint64(42), claims.UserID)
	require.Equal(t, "ana@example.com", claims.Email)
	require.Equal(t, Issuer, claims.Issuer)
	require.NotNil(t, claims.IssuedAt)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.Issue(1, "a@b.co")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, err := NewTokenManager("right", time.Hour).Issue(1, "a@b.co")
	require.NoError(t, err)

	_, err = NewTokenManager("wrong", time.Hour).Verify(token)
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenManager_Tampered(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	token, err := m.Issue(1, "a@b.co")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forged := parts[0] + "." + parts[1] + "x." + parts[2]

	_, err = m.Verify(forged)
	require.ErrorIs(t, err, ErrTokenMalformed)

	_, err = m.Verify("not-a-token")
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenManager_RejectsForeignAudience(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{"someone-else"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: 1,
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.Verify(signed)
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenManager_RejectsUnsignedToken(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: 1,
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(signed)
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("secreto1")
	require.NoError(t, err)
	require.NotEqual(t, "secreto1", hash)

	require.NoError(t, h.Verify(hash, "secreto1"))
	require.ErrorIs(t, h.Verify(hash, "secreto2"), ErrPasswordMismatch)

	other, err := h.Hash("secreto1")
	require.NoError(t, err)
	require.NotEqual(t, hash, other, "hashes are salted")
}

func TestNewPasswordHasher_ClampsCost(t *testing.T) {
	require.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
	require.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(99).cost)
	require.Equal(t, 12, NewPasswordHasher(12).cost)
}
