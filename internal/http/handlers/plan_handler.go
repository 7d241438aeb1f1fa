// README: Trip generation handler (quota-guarded Gemini itinerary).
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"voyager/internal/http/middleware"
	"voyager/internal/modules/trip"
	"voyager/internal/planner"
)

type TripGenerator interface {
	Generate(ctx context.Context, userID string, req planner.TripRequest) (*planner.Result, error)
}

type PlanHandler struct {
	planner TripGenerator
	timeout time.Duration
}

// NewPlanHandler bounds every generation by timeout; zero leaves the request context alone.
func NewPlanHandler(gen TripGenerator, timeout time.Duration) *PlanHandler {
	return &PlanHandler{planner: gen, timeout: timeout}
}

type generateResp struct {
	ID     string      `json:"id"`
	Status trip.Status `json:"status"`
	*planner.GeneratedPlan
}

// Generate handles POST /api/trips/generate.
func (h *PlanHandler) Generate(c *gin.Context) {
	var req planner.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	res, err := h.planner.Generate(ctx, middleware.CallerUID(c), req)
	if err != nil {
		writePlanError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, generateResp{ID: res.ID, Status: res.Status, GeneratedPlan: res.Plan})
}
