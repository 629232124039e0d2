package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundtrip(t *testing.T) {
	tokens := NewTokens("test-secret")

	signed, err := tokens.Sign(42)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	userID, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestVerifyFailsClosed(t *testing.T) {
	tokens := NewTokens("test-secret")
	signed, err := tokens.Sign(7)
	require.NoError(t, err)

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"tampered":     signed[:len(signed)-2] + "xx",
		"wrong secret": mustSign(t, NewTokens("other-secret"), 7),
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func mustSign(t *testing.T, tokens *Tokens, id uint) string {
	t.Helper()
	s, err := tokens.Sign(id)
	require.NoError(t, err)
	return s
}

func TestSetCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetCookie(rec, "abc")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, int(SessionTTL.Seconds()), c.MaxAge)
	assert.Equal(t, "/", c.Path)
}

func TestClearCookieIsIdempotent(t *testing.T) {
	// Clearing twice must behave the same as clearing once.
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		ClearCookie(rec)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, CookieName, cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
	}
}

func TestClearCookieOverridesSet(t *testing.T) {
	rec := httptest.NewRecorder()
	SetCookie(rec, "abc")
	ClearCookie(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	last := cookies[len(cookies)-1]
	assert.Empty(t, last.Value)
	assert.Less(t, last.MaxAge, 0)
}
