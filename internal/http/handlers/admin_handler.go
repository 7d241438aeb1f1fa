// README: Admin trip handlers (cross-user listing, forced transitions, history).
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"voyager/internal/http/middleware"
	"voyager/internal/modules/trip"
)

type AdminHandler struct {
	trips *trip.Service
}

func NewAdminHandler(svc *trip.Service) *AdminHandler {
	return &AdminHandler{trips: svc}
}

// ListTrips handles GET /api/admin/trips?status=&userId=&limit=.
func (h *AdminHandler) ListTrips(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	trips, err := h.trips.List(c.Request.Context(), trip.ListFilter{
		UserID: c.Query("userId"),
		Status: trip.Status(c.Query("status")),
		Limit:  limit,
	})
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"trips": trips})
}

// Transition handles POST /api/admin/trips/:id/status.
func (h *AdminHandler) Transition(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	var req transitionReq
	if err := c.ShouldBindJSON(&req); err != nil || !req.Status.Valid() {
		writeError(c, http.StatusBadRequest, "invalid status")
		return
	}
	t, err := h.trips.AdminTransition(c.Request.Context(), trip.TransitionCommand{
		TripID:    id,
		To:        req.Status,
		ActorType: trip.ActorAdmin,
		ActorID:   middleware.CallerUID(c),
	})
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"id": t.ID, "status": t.Status, "version": t.Version})
}

// Events handles GET /api/admin/trips/:id/events.
func (h *AdminHandler) Events(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	events, err := h.trips.History(c.Request.Context(), id)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"events": events})
}
