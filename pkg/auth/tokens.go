package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie that carries the session token.
const CookieName = "token"

// SessionTTL matches the cookie lifetime: sessions last a year.
const SessionTTL = 365 * 24 * time.Hour

// ErrInvalidToken is returned for any token that fails verification,
// whatever the underlying reason.
var ErrInvalidToken = errors.New("auth: invalid session token")

// Claims is the typed session token payload. The subject is the user id.
type Claims struct {
	UserID uint `json:"userId"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies session tokens. The signing secret is injected
// at construction so its lifecycle is explicit.
type Tokens struct {
	secret []byte
}

// NewTokens builds a token manager with the given signing secret.
func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret)}
}

// Sign creates a signed session token for the given user.
func (t *Tokens) Sign(userID uint) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify parses and validates a session token, returning the subject id.
// It fails closed: any malformed, expired, or tampered token yields
// ErrInvalidToken and nothing else.
func (t *Tokens) Verify(token string) (uint, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil {
		return 0, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == 0 {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}

// SetCookie attaches the session token to the response: httpOnly, one-year
// expiry, whole-site path.
func SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTTL / time.Second),
		HttpOnly: true,
	})
}

// ClearCookie removes the session cookie. Clearing an absent cookie is a
// no-op, which keeps sign-out idempotent.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
