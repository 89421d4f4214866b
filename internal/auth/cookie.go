package auth

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie that carries the session JWT.
const SessionCookieName = "jwt"

// CookieWriter issues and clears the HTTP-only session cookie. The Secure
// flag is set in every environment except development so the cookie is
// never sent over plain HTTP in production.
type CookieWriter struct {
	environment string
	maxAge      time.Duration
}

// NewCookieWriter creates a cookie writer for the given environment and
// session lifetime.
func NewCookieWriter(environment string, maxAge time.Duration) *CookieWriter {
	return &CookieWriter{environment: environment, maxAge: maxAge}
}

// Set writes the session cookie carrying the given token.
func (c *CookieWriter) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.environment != "development",
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear overwrites the session cookie with an empty, already-expired one.
func (c *CookieWriter) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.environment != "development",
		SameSite: http.SameSiteStrictMode,
	})
}
