package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	todobackend "github.com/vimalpatra/todo-backend"
	"github.com/vimalpatra/todo-backend/middleware"
)

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userDTO is the wire shape of a user. The password hash and session list
// never leave the server.
type userDTO struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
}

func toDTO(u *todobackend.User) userDTO {
	return userDTO{ID: u.ID, Email: u.Email}
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if !s.passAbuseGate(w, r) {
		return
	}

	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.engine.Signup(r.Context(), body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, todobackend.ErrEmailTaken):
			writeError(w, http.StatusConflict, "email already registered")
		case errors.Is(err, todobackend.ErrMissingCredentials):
			writeError(w, http.StatusBadRequest, "email and password required")
		case errors.Is(err, todobackend.ErrPasswordTooShort):
			writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		case errors.Is(err, todobackend.ErrStoreUnavailable):
			writeError(w, http.StatusServiceUnavailable, "service unavailable")
		default:
			writeError(w, http.StatusInternalServerError, "signup failed")
		}
		return
	}

	writeTokenHeaders(w, result)
	writeJSON(w, http.StatusCreated, toDTO(result.User))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.passAbuseGate(w, r) {
		return
	}

	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.engine.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, todobackend.ErrMissingCredentials):
			writeError(w, http.StatusBadRequest, "email and password required")
		case errors.Is(err, todobackend.ErrStoreUnavailable):
			writeError(w, http.StatusServiceUnavailable, "service unavailable")
		default:
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		}
		return
	}

	writeTokenHeaders(w, result)
	writeJSON(w, http.StatusOK, toDTO(result.User))
}

// handleRefreshAccessToken runs behind RequireSession; by the time it is
// reached the refresh token has been matched against a live session.
func (s *Server) handleRefreshAccessToken(w http.ResponseWriter, r *http.Request) {
	creds, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	accessToken, err := s.engine.IssueAccessToken(r.Context(), creds.User.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token issuance failed")
		return
	}

	w.Header().Set(middleware.HeaderAccessToken, accessToken)
	writeJSON(w, http.StatusOK, map[string]string{"accessToken": accessToken})
}

// passAbuseGate consults the abuse tracker before credentials are looked at.
// A challenged address gets 429; a tracker store failure fails closed with
// 503 rather than letting a flood through.
func (s *Server) passAbuseGate(w http.ResponseWriter, r *http.Request) bool {
	challenged, err := s.engine.NeedsVerification(r.Context(), "")
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
		return false
	}
	if challenged {
		writeError(w, http.StatusTooManyRequests, "verification required")
		return false
	}
	return true
}

func writeTokenHeaders(w http.ResponseWriter, result *todobackend.LoginResult) {
	w.Header().Set(middleware.HeaderAccessToken, result.AccessToken)
	w.Header().Set(middleware.HeaderRefreshToken, result.RefreshToken)
}
