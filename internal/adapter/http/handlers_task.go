package http

import (
	"errors"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/asteritime/asteritime/internal/domain"
	"github.com/asteritime/asteritime/internal/domain/task"
	"github.com/asteritime/asteritime/internal/domain/wallclock"
	"github.com/asteritime/asteritime/internal/middleware"
)

// ListTasks handles GET /api/tasks. Filters combine: quadrant, categoryId,
// status, and a startTime..endTime window over plannedStartTime.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	filter, ok := taskFilterFromQuery(w, r)
	if !ok {
		return
	}
	tasks, err := h.Tasks.List(r.Context(), u.ID, filter)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// GetTask handles GET /api/tasks/{id}.
func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	t, err := h.Tasks.Get(r.Context(), u.ID, id)
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// CreateTask handles POST /api/tasks. Status is forced to TODO server-side.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	req, ok := readJSON[task.CreateRequest](w, r)
	if !ok {
		return
	}
	t, err := h.Tasks.Create(r.Context(), u.ID, req)
	if err != nil {
		writeDomainError(w, err, "creation failed")
		return
	}
	if h.Metrics != nil {
		h.Metrics.TasksCreated.Add(r.Context(), 1,
			metric.WithAttributes(attribute.Int("quadrant", t.Quadrant)))
	}
	writeJSON(w, http.StatusCreated, t)
}

// UpdateTask handles PUT /api/tasks/{id}. The body is a partial update;
// only the fields present are applied.
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	req, ok := readJSON[task.UpdateRequest](w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	t, err := h.Tasks.Update(ctx, u.ID, id, req)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) && h.Metrics != nil {
			h.Metrics.VersionConflicts.Add(ctx, 1)
		}
		writeDomainError(w, err, "task not found")
		return
	}
	if req.Status != nil && h.Metrics != nil {
		// Reconciler updates carry the actual timestamps they computed;
		// user-initiated transitions leave them to the server.
		counter := h.Metrics.ManualTransitions
		if req.ActualStartTime != nil || req.ActualEndTime != nil {
			counter = h.Metrics.AutoTransitions
		}
		counter.Add(ctx, 1,
			metric.WithAttributes(attribute.String("to", string(*req.Status))))
	}
	writeJSON(w, http.StatusOK, t)
}

// DeleteTask handles DELETE /api/tasks/{id}.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.Tasks.Delete(r.Context(), u.ID, id); err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func taskFilterFromQuery(w http.ResponseWriter, r *http.Request) (task.Filter, bool) {
	var filter task.Filter
	q := r.URL.Query()

	if s := q.Get("quadrant"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 4 {
			writeError(w, http.StatusBadRequest, "quadrant must be between 1 and 4")
			return filter, false
		}
		filter.Quadrant = n
	}
	if s := q.Get("categoryId"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid categoryId")
			return filter, false
		}
		filter.CategoryID = n
	}
	if s := q.Get("status"); s != "" {
		status := task.Status(s)
		if !task.ValidStatuses[status] {
			writeError(w, http.StatusBadRequest, "invalid status")
			return filter, false
		}
		filter.Status = status
	}
	if s := q.Get("startTime"); s != "" {
		dt, err := wallclock.ParseDateTime(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid startTime")
			return filter, false
		}
		filter.StartTime = &dt
	}
	if s := q.Get("endTime"); s != "" {
		dt, err := wallclock.ParseDateTime(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid endTime")
			return filter, false
		}
		filter.EndTime = &dt
	}
	return filter, true
}
