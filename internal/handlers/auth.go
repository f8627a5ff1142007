package handlers

import (
	"net/http"

	"github.com/avogel/juryvote/internal/auth"
)

// handleLogin verifies the admin password and establishes a signed session
// cookie
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	cookieValue, ok := h.Admin.Login(req.Password)
	if !ok {
		h.Log.Warn("Failed admin login attempt", "remote", r.RemoteAddr)
		h.respondError(w, ErrUnauthorized)
		return
	}

	auth.SetSessionCookie(w, cookieValue)
	respondSuccess(w, "Logged in")
}

// handleLogout invalidates the current admin session
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Admin.Logout(cookie.Value)
	}
	auth.ClearSessionCookie(w)
	respondSuccess(w, "Logged out")
}

// handleAuthCheck reports whether the request carries a valid admin session
func (h *Handlers) handleAuthCheck(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]bool{"authenticated": h.Admin.RequestAuthenticated(r)})
}
