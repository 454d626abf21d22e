package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/kaymanhq/kayman/internal/ledger"
	"github.com/kaymanhq/kayman/internal/storage"
)

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var input ledger.CreatePaymentInput
	if !s.decodeJSON(w, r, &input) {
		return
	}

	payment, err := s.ledger.CreatePayment(input)
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}

	if s.notifier != nil {
		s.notifier.NotifyPayment(payment)
	}
	s.writeJSON(w, http.StatusOK, payment)
}

func (s *Server) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	payment, err := s.db.GetPayment(id)
	if err != nil {
		s.writeInternalError(w, err)
		return
	}
	if payment == nil {
		s.writeError(w, http.StatusNotFound, "payment_not_found", []any{"path", "id"},
			"payment with id "+strconv.FormatUint(uint64(id), 10)+" does not exist")
		return
	}
	s.writeJSON(w, http.StatusOK, payment)
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	var date *time.Time
	if raw := r.URL.Query().Get("payment_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "validation_error", []any{"query", "payment_date"},
				"expected YYYY-MM-DD, got "+raw)
			return
		}
		date = &parsed
	}
	var categoryID *uint
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "validation_error", []any{"query", "category_id"},
				"invalid category id "+raw)
			return
		}
		id := uint(parsed)
		categoryID = &id
	}

	payments, err := s.db.ListPayments(date, categoryID)
	if err != nil {
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, payments)
}

// handleUpdatePayment overwrites header fields directly; it does not
// re-run total validation or balance logic.
func (s *Server) handleUpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var update storage.PaymentUpdate
	if !s.decodeJSON(w, r, &update) {
		return
	}
	payment, err := s.db.UpdatePayment(id, update)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "payment_update_failed", []any{"path", "id"}, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, payment)
}

func (s *Server) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.db.DeletePayment(id); err != nil {
		if ledger.IsConstraintViolation(err) {
			s.writeError(w, http.StatusBadRequest, "constraint_error", []any{"path", "id"},
				"payment still has entries or transactions")
			return
		}
		s.writeError(w, http.StatusNotFound, "payment_not_found", []any{"path", "id"}, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	var accountID *uint
	if raw := r.URL.Query().Get("account_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "validation_error", []any{"query", "account_id"},
				"invalid account id "+raw)
			return
		}
		id := uint(parsed)
		accountID = &id
	}
	txns, err := s.db.ListTransactions(accountID)
	if err != nil {
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, txns)
}
