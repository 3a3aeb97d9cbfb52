// Package webapi exposes registration, login, logout and session-check as a
// JSON API, plus a login-gated home page in front of a static file tree.
package webapi

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/andrebq/staccoa/session"
	"github.com/andrebq/staccoa/userstore"
)

type (
	// Handler wires the credential store and the session issuer behind the
	// HTTP surface.
	Handler struct {
		users    userstore.Store
		sessions session.Issuer
	}
)

// AsHandler assembles the API routes and, when staticDir is non-empty, the
// static page tree with /home.html gated behind a live session.
func AsHandler(ctx context.Context, users userstore.Store, sessions session.Issuer, staticDir string) http.Handler {
	h := &Handler{users: users, sessions: sessions}
	router := httprouter.New()
	router.HandlerFunc("POST", "/api/register", h.register)
	router.HandlerFunc("POST", "/api/login", h.login)
	router.HandlerFunc("POST", "/api/logout", h.logout)
	router.HandlerFunc("GET", "/api/session", h.sessionCheck)

	if staticDir != "" {
		static := http.FileServer(http.Dir(staticDir))
		router.HandlerFunc("GET", "/home.html", h.gate(static))
		// anything not routed above is served from the static tree
		router.NotFound = static
	} else {
		router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sendJSON(w, http.StatusNotFound, envelope{"message": "resource not found"})
		})
	}
	// httprouter fills the Allow header before delegating here
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sendJSON(w, http.StatusMethodNotAllowed, envelope{"message": "method not allowed"})
	})
	return router
}

// gate lets logged-in browsers through to next and redirects everyone else
// to the login page instead of answering with a JSON error.
func (h *Handler) gate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := h.currentUser(r)
		if err != nil {
			h.internalError(w, r, err)
			return
		}
		if user == nil {
			http.Redirect(w, r, "/login.html", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// currentUser resolves the request artifact to a live user. An artifact
// whose user no longer exists reads as unauthenticated.
func (h *Handler) currentUser(r *http.Request) (*userstore.User, error) {
	id, ok := h.sessions.Authenticate(r)
	if !ok {
		return nil, nil
	}
	return h.users.FindByID(r.Context(), id)
}
