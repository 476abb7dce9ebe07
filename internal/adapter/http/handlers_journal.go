package http

import (
	"net/http"

	"github.com/asteritime/asteritime/internal/domain/journal"
	"github.com/asteritime/asteritime/internal/domain/wallclock"
	"github.com/asteritime/asteritime/internal/middleware"
)

// ListJournalEntries handles GET /api/journal-entries.
func (h *Handlers) ListJournalEntries(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	entries, err := h.Journal.List(r.Context(), u.ID)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// ListJournalByDate handles GET /api/journal-entries/by-date?date=YYYY-MM-DD.
func (h *Handlers) ListJournalByDate(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	date, ok := dateQuery(w, r, "date")
	if !ok {
		return
	}
	entries, err := h.Journal.ListByDate(r.Context(), u.ID, date)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// ListJournalByRange handles GET /api/journal-entries/by-date-range?from=&to=.
func (h *Handlers) ListJournalByRange(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	from, ok := dateQuery(w, r, "from")
	if !ok {
		return
	}
	to, ok := dateQuery(w, r, "to")
	if !ok {
		return
	}
	entries, err := h.Journal.ListByRange(r.Context(), u.ID, from, to)
	if err != nil {
		writeDomainError(w, err, "no entries in range")
		return
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// ListJournalToday handles GET /api/journal-entries/today.
func (h *Handlers) ListJournalToday(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	entries, err := h.Journal.ListByDate(r.Context(), u.ID, wallclock.DateOf(timeNow()))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetJournalEntry handles GET /api/journal-entries/{id}.
func (h *Handlers) GetJournalEntry(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	entry, err := h.Journal.Get(r.Context(), u.ID, id)
	if err != nil {
		writeDomainError(w, err, "journal entry not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// CreateJournalEntry handles POST /api/journal-entries.
func (h *Handlers) CreateJournalEntry(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	req, ok := readJSON[journal.CreateRequest](w, r)
	if !ok {
		return
	}
	entry, err := h.Journal.Create(r.Context(), u.ID, req)
	if err != nil {
		writeDomainError(w, err, "creation failed")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// UpdateJournalEntry handles PUT /api/journal-entries/{id}.
func (h *Handlers) UpdateJournalEntry(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	req, ok := readJSON[journal.UpdateRequest](w, r)
	if !ok {
		return
	}
	entry, err := h.Journal.Update(r.Context(), u.ID, id, req)
	if err != nil {
		writeDomainError(w, err, "journal entry not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// DeleteJournalEntry handles DELETE /api/journal-entries/{id}.
func (h *Handlers) DeleteJournalEntry(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.Journal.Delete(r.Context(), u.ID, id); err != nil {
		writeDomainError(w, err, "journal entry not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// focusTimeResponse mirrors the shape Pomodoro clients expect.
type focusTimeResponse struct {
	Date         wallclock.Date `json:"date"`
	FocusMinutes int            `json:"focusMinutes"`
}

// GetFocusTime handles GET /api/journal-entries/focus-time?date=YYYY-MM-DD.
func (h *Handlers) GetFocusTime(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	date, ok := dateQuery(w, r, "date")
	if !ok {
		return
	}
	minutes, err := h.Journal.FocusTime(r.Context(), u.ID, date)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, focusTimeResponse{Date: date, FocusMinutes: minutes})
}

// AddFocusTime handles POST /api/journal-entries/focus-time, crediting
// finished Pomodoro minutes onto the day's entry.
func (h *Handlers) AddFocusTime(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	req, ok := readJSON[journal.FocusRequest](w, r)
	if !ok {
		return
	}
	entry, err := h.Journal.AddFocusMinutes(r.Context(), u.ID, req)
	if err != nil {
		writeDomainError(w, err, "focus update failed")
		return
	}
	if h.Metrics != nil {
		h.Metrics.FocusMinutes.Add(r.Context(), int64(req.FocusMinutes))
	}
	writeJSON(w, http.StatusOK, entry)
}

// GetEvaluation handles GET /api/journal-entries/evaluation?date=YYYY-MM-DD.
func (h *Handlers) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	date, ok := dateQuery(w, r, "date")
	if !ok {
		return
	}
	entry, err := h.Journal.Evaluation(r.Context(), u.ID, date)
	if err != nil {
		writeDomainError(w, err, "no journal entry for date")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// UpsertEvaluation handles PUT /api/journal-entries/evaluation.
func (h *Handlers) UpsertEvaluation(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	req, ok := readJSON[journal.EvaluationRequest](w, r)
	if !ok {
		return
	}
	entry, err := h.Journal.UpsertEvaluation(r.Context(), u.ID, req)
	if err != nil {
		writeDomainError(w, err, "evaluation update failed")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func dateQuery(w http.ResponseWriter, r *http.Request, name string) (wallclock.Date, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		writeError(w, http.StatusBadRequest, name+" is required")
		return wallclock.Date{}, false
	}
	date, err := wallclock.ParseDate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name+", expected YYYY-MM-DD")
		return wallclock.Date{}, false
	}
	return date, true
}
