package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	CookieName    = "juryvote_session"
	SessionExpiry = 24 * time.Hour
)

// Words for generated admin passwords
var passwordWords = []string{
	"jury", "gala", "score", "podium", "ballot",
	"laurel", "ribbon", "trophy", "encore", "finale",
	"stage", "panel", "verdict", "curtain", "spotlight",
}

// Admin handles admin authentication. Session tokens live in memory; the
// cookie value carries the token plus an HMAC-SHA256 signature so a tampered
// cookie is rejected before the session lookup.
type Admin struct {
	password string
	secret   []byte
	sessions map[string]time.Time
	mu       sync.RWMutex
}

// NewAdmin creates a new Admin instance with the given password and signing secret
func NewAdmin(password, secret string) *Admin {
	return &Admin{
		password: password,
		secret:   []byte(secret),
		sessions: make(map[string]time.Time),
	}
}

// GeneratePassword creates a random 3-word password
func GeneratePassword() string {
	words := make([]string, 3)
	for i := range words {
		words[i] = passwordWords[randomInt(len(passwordWords))]
	}
	return strings.Join(words, "-")
}

// GenerateToken creates a random 64-character hex token
func GenerateToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// Login validates the password and returns a signed cookie value if valid
func (a *Admin) Login(password string) (string, bool) {
	if !hmac.Equal([]byte(password), []byte(a.password)) {
		return "", false
	}

	token := GenerateToken()
	a.mu.Lock()
	a.sessions[token] = time.Now().Add(SessionExpiry)
	a.mu.Unlock()

	return token + "." + a.sign(token), true
}

// Logout invalidates the session carried by the cookie value
func (a *Admin) Logout(cookieValue string) {
	token, ok := a.verify(cookieValue)
	if !ok {
		return
	}
	a.mu.Lock()
	delete(a.sessions, token)
	a.mu.Unlock()
}

// ValidateCookie checks the signature and session expiry of a cookie value
func (a *Admin) ValidateCookie(cookieValue string) bool {
	token, ok := a.verify(cookieValue)
	if !ok {
		return false
	}

	a.mu.RLock()
	expiry, exists := a.sessions[token]
	a.mu.RUnlock()

	if !exists {
		return false
	}

	if time.Now().After(expiry) {
		a.mu.Lock()
		delete(a.sessions, token)
		a.mu.Unlock()
		return false
	}

	return true
}

// RequestAuthenticated extracts and validates the session from a request
func (a *Admin) RequestAuthenticated(r *http.Request) bool {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}
	return a.ValidateCookie(cookie.Value)
}

// RequireAuth middleware for admin API endpoints (returns 401)
func (a *Admin) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.RequestAuthenticated(r) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"UNAUTHORIZED","error":"Unauthorized - please log in"}`))
	})
}

// SetSessionCookie sets the session cookie on the response
func SetSessionCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionExpiry.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// sign computes the hex HMAC-SHA256 signature of a token
func (a *Admin) sign(token string) string {
	mac := hmac.New(sha256.New, a.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// verify splits a cookie value into token and signature and checks the MAC
func (a *Admin) verify(cookieValue string) (string, bool) {
	token, sig, found := strings.Cut(cookieValue, ".")
	if !found || token == "" {
		return "", false
	}
	expected := a.sign(token)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", false
	}
	return token, true
}

// randomInt returns a random int in [0, max)
func randomInt(max int) int {
	bytes := make([]byte, 1)
	rand.Read(bytes)
	return int(bytes[0]) % max
}
