// Package http provides the REST API handlers, routing, and HTTP middleware.
package http

import (
	"net/http"
	"time"

	"github.com/asteritime/asteritime/internal/adapter/otel"
	"github.com/asteritime/asteritime/internal/adapter/ws"
	"github.com/asteritime/asteritime/internal/service"
)

// Handlers bundles the services exposed over HTTP.
type Handlers struct {
	Auth        *service.AuthService
	Tasks       *service.TaskService
	Categories  *service.CategoryService
	Recurrences *service.RecurrenceService
	Journal     *service.JournalService
	Hub         *ws.Hub
	Metrics     *otel.Metrics
}

// timeNow is swappable in tests; "today" endpoints read the server's wall clock.
var timeNow = time.Now

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
