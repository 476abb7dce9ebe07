package http

import (
	"net/http"

	"github.com/asteritime/asteritime/internal/middleware"
)

// ServeWS handles GET /ws. Auth happens in the middleware via the token
// query parameter, so by the time we get here the user is known.
func (h *Handlers) ServeWS(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	h.Hub.HandleWS(w, r, u.ID)
}
