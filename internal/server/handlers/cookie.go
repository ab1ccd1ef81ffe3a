package handlers

import (
	"net/http"
	"time"
)

// SessionCookieName is the name of the session token cookie.
const SessionCookieName = "token"

// setSessionCookie attaches the session token to the response. HttpOnly
// keeps it away from scripts, SameSite=Strict blocks cross-site sends, and
// Secure is tied to the deployment environment.
func setSessionCookie(w http.ResponseWriter, tokenString string, expiresAt time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    tokenString,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearSessionCookie expires the session cookie on the client.
func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
