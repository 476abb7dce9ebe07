package http

import (
	"net/http"

	"github.com/asteritime/asteritime/internal/domain/category"
	"github.com/asteritime/asteritime/internal/domain/recurrence"
	"github.com/asteritime/asteritime/internal/middleware"
)

// ListCategories handles GET /api/task-categories.
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	items, err := h.Categories.List(r.Context(), u.ID)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if items == nil {
		items = []category.Category{}
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateCategory handles POST /api/task-categories.
func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	req, ok := readJSON[category.CreateRequest](w, r)
	if !ok {
		return
	}
	c, err := h.Categories.Create(r.Context(), u.ID, req)
	if err != nil {
		writeDomainError(w, err, "creation failed")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// DeleteCategory handles DELETE /api/task-categories/{id}. Tasks referencing
// the category keep existing with the reference cleared.
func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.Categories.Delete(r.Context(), u.ID, id); err != nil {
		writeDomainError(w, err, "category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRecurrenceRules handles GET /api/task-recurrence-rules.
func (h *Handlers) ListRecurrenceRules(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	items, err := h.Recurrences.List(r.Context(), u.ID)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if items == nil {
		items = []recurrence.Rule{}
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateRecurrenceRule handles POST /api/task-recurrence-rules.
func (h *Handlers) CreateRecurrenceRule(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	req, ok := readJSON[recurrence.CreateRequest](w, r)
	if !ok {
		return
	}
	rule, err := h.Recurrences.Create(r.Context(), u.ID, req)
	if err != nil {
		writeDomainError(w, err, "creation failed")
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

// DeleteRecurrenceRule handles DELETE /api/task-recurrence-rules/{id}.
func (h *Handlers) DeleteRecurrenceRule(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.Recurrences.Delete(r.Context(), u.ID, id); err != nil {
		writeDomainError(w, err, "recurrence rule not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
