package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/kaymanhq/kayman/internal/ledger"
)

type errorBody struct {
	Type string `json:"type"`
	Loc  []any  `json:"loc,omitempty"`
	Msg  string `json:"msg"`
	Ref  string `json:"ref,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, errType string, loc []any, msg string) {
	s.writeJSON(w, status, map[string]errorBody{
		"error": {Type: errType, Loc: loc, Msg: msg},
	})
}

// writeInternalError hides the cause behind a reference id that is logged
// alongside the full error.
func (s *Server) writeInternalError(w http.ResponseWriter, err error) {
	ref := uuid.NewString()
	s.log.Error().Err(err).Str("ref", ref).Msg("internal error")
	s.writeJSON(w, http.StatusInternalServerError, map[string]errorBody{
		"error": {Type: "internal_error", Msg: "internal server error", Ref: ref},
	})
}

// writeLedgerError maps ledger failures onto the API error taxonomy.
func (s *Server) writeLedgerError(w http.ResponseWriter, err error) {
	var validationErr *ledger.ValidationError
	if errors.As(err, &validationErr) {
		s.writeError(w, http.StatusBadRequest, "validation_error", validationErr.Loc, validationErr.Msg)
		return
	}
	var mismatchErr *ledger.TotalMismatchError
	if errors.As(err, &mismatchErr) {
		s.writeError(w, http.StatusBadRequest, "total_mismatch", []any{"body"}, mismatchErr.Error())
		return
	}
	var notFoundErr *ledger.AccountsNotFoundError
	if errors.As(err, &notFoundErr) {
		s.writeError(w, http.StatusBadRequest, "account_not_found", []any{"body", "transactions"}, notFoundErr.Error())
		return
	}
	if ledger.IsConstraintViolation(err) {
		s.writeError(w, http.StatusBadRequest, "constraint_error", []any{"body"}, err.Error())
		return
	}
	s.writeInternalError(w, err)
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_body", []any{"body"}, err.Error())
		return false
	}
	return true
}
