package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kaymanhq/kayman/internal/storage"
)

func (s *Server) handleUpsertInvoices(w http.ResponseWriter, r *http.Request) {
	var writes []storage.InvoiceWrite
	if !s.decodeJSON(w, r, &writes) {
		return
	}
	for i, write := range writes {
		if write.Number == "" {
			s.writeError(w, http.StatusBadRequest, "validation_error", []any{"body", i, "number"}, "number is required")
			return
		}
	}
	result, err := s.db.UpsertInvoices(writes)
	if err != nil {
		if strings.Contains(err.Error(), "missing required fields") {
			s.writeError(w, http.StatusBadRequest, "validation_error", []any{"body"}, err.Error())
			return
		}
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListInvoices(w http.ResponseWriter, _ *http.Request) {
	invoices, err := s.db.ListInvoices()
	if err != nil {
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, invoices)
}

func (s *Server) handleUpsertInvoiceDetails(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	var writes []storage.InvoiceDetailWrite
	if !s.decodeJSON(w, r, &writes) {
		return
	}
	result, err := s.db.UpsertInvoiceDetails(number, writes)
	if err != nil {
		switch {
		case strings.Contains(err.Error(), "not found"):
			s.writeError(w, http.StatusNotFound, "invoice_not_found", []any{"path", "number"}, err.Error())
		case strings.Contains(err.Error(), "missing required fields"):
			s.writeError(w, http.StatusBadRequest, "validation_error", []any{"body"}, err.Error())
		default:
			s.writeInternalError(w, err)
		}
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListInvoiceDetails(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	details, err := s.db.ListInvoiceDetails(number)
	if err != nil {
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, details)
}

func (s *Server) handleCreateInvoiceCarrier(w http.ResponseWriter, r *http.Request) {
	var carrier storage.InvoiceCarrier
	if !s.decodeJSON(w, r, &carrier) {
		return
	}
	if carrier.Number == "" {
		s.writeError(w, http.StatusBadRequest, "validation_error", []any{"body", "number"}, "number is required")
		return
	}
	carrier.ID = 0
	if err := s.db.CreateInvoiceCarrier(&carrier); err != nil {
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, carrier)
}

func (s *Server) handleListInvoiceCarriers(w http.ResponseWriter, _ *http.Request) {
	carriers, err := s.db.ListInvoiceCarriers()
	if err != nil {
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, carriers)
}
