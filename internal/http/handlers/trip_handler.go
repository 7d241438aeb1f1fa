// README: Trip handlers for list/get/edit/delete and lifecycle transitions.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voyager/internal/http/middleware"
	"voyager/internal/modules/trip"
)

type TripHandler struct {
	trips *trip.Service
}

func NewTripHandler(svc *trip.Service) *TripHandler {
	return &TripHandler{trips: svc}
}

type updateTripReq struct {
	Title     *string `json:"title"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Travelers *int    `json:"travelers"`
}

type transitionReq struct {
	Status trip.Status `json:"status"`
}

// tripID reads and checks the :id path parameter, answering 400 itself when it is bad.
func tripID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid trip id")
		return "", false
	}
	return id, true
}

// List handles GET /api/trips?status=.
func (h *TripHandler) List(c *gin.Context) {
	trips, err := h.trips.ListForUser(c.Request.Context(), middleware.CallerUID(c), trip.Status(c.Query("status")))
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"trips": trips})
}

func (h *TripHandler) Get(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	t, err := h.trips.GetOwned(c.Request.Context(), middleware.CallerUID(c), id)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, t)
}

// Update handles PATCH /api/trips/:id.
func (h *TripHandler) Update(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	var req updateTripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	t, err := h.trips.Update(c.Request.Context(), middleware.CallerUID(c), id, trip.UpdateCommand{
		Title:     req.Title,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Travelers: req.Travelers,
	})
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, t)
}

// Transition handles POST /api/trips/:id/status.
func (h *TripHandler) Transition(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	var req transitionReq
	if err := c.ShouldBindJSON(&req); err != nil || !req.Status.Valid() {
		writeError(c, http.StatusBadRequest, "invalid status")
		return
	}
	uid := middleware.CallerUID(c)
	t, err := h.trips.Transition(c.Request.Context(), uid, trip.TransitionCommand{
		TripID:    id,
		To:        req.Status,
		ActorType: trip.ActorUser,
		ActorID:   uid,
	})
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"id": t.ID, "status": t.Status, "version": t.Version})
}

func (h *TripHandler) Delete(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	if err := h.trips.Delete(c.Request.Context(), middleware.CallerUID(c), id); err != nil {
		writeTripError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
