package server

import (
	"net/http"

	"github.com/kaymanhq/kayman/internal/auth"
)

// handleLogin exchanges form credentials for a bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_body", []any{"body"}, "invalid form body")
		return
	}
	name := r.PostFormValue("username")
	password := r.PostFormValue("password")

	client, ok := s.auth.Authenticate(name, password)
	if !ok {
		w.Header().Set("WWW-Authenticate", "Bearer")
		s.writeError(w, http.StatusUnauthorized, "unauthorized", nil, "incorrect client name or password")
		return
	}

	token, err := s.auth.CreateAccessToken(client.Name)
	if err != nil {
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, auth.Token{AccessToken: token, TokenType: "bearer"})
}

// handleCheckCredential echoes the authenticated client.
func (s *Server) handleCheckCredential(w http.ResponseWriter, r *http.Request) {
	client, ok := auth.ClientFromContext(r.Context())
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "unauthorized", nil, "could not validate credentials")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"name": client.Name})
}
