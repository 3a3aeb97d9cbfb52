package webapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/andrebq/staccoa/internal/logutil"
	"github.com/andrebq/staccoa/session"
	"github.com/andrebq/staccoa/userstore"
)

const maxBodySize = 1 << 20

// login failures share one message so responses cannot be used to probe
// which emails are registered
const invalidCredentials = "invalid credentials"

type (
	registerRequest struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}

	loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	envelope map[string]interface{}
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		sendJSON(w, http.StatusBadRequest, envelope{"message": "all fields are required"})
		return
	}
	ctx := r.Context()
	existing, err := h.users.FindByEmail(ctx, req.Email)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if existing != nil {
		sendJSON(w, http.StatusConflict, envelope{"message": "email already registered"})
		return
	}
	hash, err := session.HashPassword(req.Password)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	user, err := h.users.Create(ctx, req.FirstName, req.LastName, req.Email, hash)
	if err != nil {
		var dup userstore.DuplicateEmail
		if errors.As(err, &dup) {
			sendJSON(w, http.StatusConflict, envelope{"message": "email already registered"})
			return
		}
		h.internalError(w, r, err)
		return
	}
	err = h.sessions.Issue(ctx, w, user)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, envelope{"message": "registration complete", "user": user.SafeView()})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		sendJSON(w, http.StatusBadRequest, envelope{"message": "email and password are required"})
		return
	}
	ctx := r.Context()
	user, err := h.users.FindByEmail(ctx, req.Email)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if user == nil || !session.CheckPassword(req.Password, user.PasswordHash) {
		sendJSON(w, http.StatusUnauthorized, envelope{"message": invalidCredentials})
		return
	}
	err = h.sessions.Issue(ctx, w, user)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, envelope{"message": "login successful", "user": user.SafeView()})
}

// logout is idempotent, revoking a missing or already-revoked artifact still
// answers 200.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	err := h.sessions.Revoke(r.Context(), w, r)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, envelope{"message": "logged out"})
}

// sessionCheck answers 200 no matter what, not being logged in is a normal
// state and never an error.
func (h *Handler) sessionCheck(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if user == nil {
		sendJSON(w, http.StatusOK, envelope{"authenticated": false})
		return
	}
	sendJSON(w, http.StatusOK, envelope{"authenticated": true, "user": user.SafeView()})
}

// decodeBody parses the JSON request body into out and answers a 400 on
// malformed input. An empty body decodes to the zero value so that
// missing-field validation produces the right message.
func decodeBody(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(out)
	if err != nil && !errors.Is(err, io.EOF) {
		sendJSON(w, http.StatusBadRequest, envelope{"message": "invalid JSON body"})
		return false
	}
	return true
}

func sendJSON(w http.ResponseWriter, status int, body interface{}) {
	buf, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "unable to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(buf)))
	w.WriteHeader(status)
	w.Write(buf)
}

// internalError hides the failure from the client and keeps the detail in
// the server log.
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	log := logutil.GetOrDefault(r.Context())
	log.Error().Err(err).Str("path", r.URL.Path).Msg("Unexpected error while handling request")
	sendJSON(w, http.StatusInternalServerError, envelope{"message": "internal error"})
}
