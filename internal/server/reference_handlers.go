package server

import (
	"net/http"
	"strconv"

	"github.com/kaymanhq/kayman/internal/ledger"
	"github.com/kaymanhq/kayman/internal/storage"
)

func (s *Server) handleCreateCurrency(w http.ResponseWriter, r *http.Request) {
	var currency storage.Currency
	if !s.decodeJSON(w, r, &currency) {
		return
	}
	if currency.Code == "" {
		s.writeError(w, http.StatusBadRequest, "validation_error", []any{"body", "code"}, "code is required")
		return
	}
	if err := s.db.CreateCurrency(&currency); err != nil {
		if ledger.IsConstraintViolation(err) {
			s.writeError(w, http.StatusBadRequest, "constraint_error", []any{"body", "code"},
				"currency with code "+currency.Code+" already exists")
			return
		}
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, currency)
}

func (s *Server) handleListCurrencies(w http.ResponseWriter, _ *http.Request) {
	currencies, err := s.db.ListCurrencies()
	if err != nil {
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, currencies)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var category storage.Category
	if !s.decodeJSON(w, r, &category) {
		return
	}
	if category.Name == "" {
		s.writeError(w, http.StatusBadRequest, "validation_error", []any{"body", "name"}, "name is required")
		return
	}
	category.ID = 0
	category.Children = nil
	if err := s.db.CreateCategory(&category); err != nil {
		if ledger.IsConstraintViolation(err) {
			s.writeError(w, http.StatusBadRequest, "category_not_found", []any{"body", "parent_id"},
				"parent category does not exist")
			return
		}
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, category)
}

func (s *Server) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	categories, err := s.db.ListRootCategories()
	if err != nil {
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	category, err := s.db.GetCategory(id)
	if err != nil {
		s.writeInternalError(w, err)
		return
	}
	if category == nil {
		s.writeError(w, http.StatusNotFound, "category_not_found", []any{"path", "id"},
			"category with id "+strconv.FormatUint(uint64(id), 10)+" does not exist")
		return
	}
	s.writeJSON(w, http.StatusOK, category)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var update storage.CategoryUpdate
	if !s.decodeJSON(w, r, &update) {
		return
	}
	category, err := s.db.UpdateCategory(id, update)
	if err != nil {
		if storage.IsNotFound(err) {
			s.writeError(w, http.StatusNotFound, "category_not_found", []any{"path", "id"}, err.Error())
			return
		}
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, category)
}

func (s *Server) handleCreatePSP(w http.ResponseWriter, r *http.Request) {
	var psp storage.PSP
	if !s.decodeJSON(w, r, &psp) {
		return
	}
	if psp.Name == "" {
		s.writeError(w, http.StatusBadRequest, "validation_error", []any{"body", "name"}, "name is required")
		return
	}
	psp.ID = 0
	if err := s.db.CreatePSP(&psp); err != nil {
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, psp)
}

func (s *Server) handleListPSPs(w http.ResponseWriter, _ *http.Request) {
	psps, err := s.db.ListPSPs()
	if err != nil {
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, psps)
}
