package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/kaymanhq/kayman/internal/ledger"
	"github.com/kaymanhq/kayman/internal/storage"
)

type accountCreateBody struct {
	Name         string           `json:"name"`
	CurrencyCode string           `json:"currency_code"`
	Balance      *decimal.Decimal `json:"balance"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var body accountCreateBody
	if !s.decodeJSON(w, r, &body) {
		return
	}
	if body.Name == "" {
		s.writeError(w, http.StatusBadRequest, "validation_error", []any{"body", "name"}, "name is required")
		return
	}
	if body.CurrencyCode == "" {
		s.writeError(w, http.StatusBadRequest, "validation_error", []any{"body", "currency_code"}, "currency_code is required")
		return
	}

	account := storage.Account{
		Name:         body.Name,
		CurrencyCode: body.CurrencyCode,
		Balance:      decimal.Zero,
	}
	if body.Balance != nil {
		account.Balance = *body.Balance
	}
	if err := s.db.CreateAccount(&account); err != nil {
		if ledger.IsConstraintViolation(err) {
			s.writeError(w, http.StatusBadRequest, "currency_not_found", []any{"body", "currency_code"},
				"currency with code "+body.CurrencyCode+" does not exist")
			return
		}
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, _ *http.Request) {
	accounts, err := s.db.ListAccounts(nil)
	if err != nil {
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	account, err := s.db.GetAccount(id)
	if err != nil {
		s.writeInternalError(w, err)
		return
	}
	if account == nil {
		s.writeError(w, http.StatusNotFound, "account_not_found", []any{"path", "id"},
			"account with id "+strconv.FormatUint(uint64(id), 10)+" does not exist")
		return
	}
	s.writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var update storage.AccountUpdate
	if !s.decodeJSON(w, r, &update) {
		return
	}
	accounts, err := s.db.UpdateAccounts([]uint{id}, []storage.AccountUpdate{update})
	if err != nil {
		if storage.IsNotFound(err) {
			s.writeError(w, http.StatusNotFound, "account_not_found", []any{"path", "id"}, err.Error())
			return
		}
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, accounts[0])
}

// pathID parses the {id} URL parameter.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "validation_error", []any{"path", "id"}, "invalid id "+raw)
		return 0, false
	}
	return uint(id), true
}
