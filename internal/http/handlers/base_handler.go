// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"voyager/internal/modules/aiusage"
	"voyager/internal/modules/trip"
	"voyager/internal/modules/user"
	"voyager/internal/planner"
)

type errorResponse struct {
	Error string `json:"error"`
}

// isValidID accepts the id shapes the stores issue: uuids and Firestore auto ids.
func isValidID(v string) bool {
	if v == "" || len(v) > 64 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeTripError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trip.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, trip.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, trip.ErrInvalidState), errors.Is(err, trip.ErrConflict):
		writeError(c, http.StatusConflict, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// writePlanError keeps the three server-side failure classes apart in the message.
func writePlanError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, planner.ErrInvalidRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, aiusage.ErrInsufficientTokens):
		writeError(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, planner.ErrMalformedOutput):
		writeError(c, http.StatusInternalServerError, planner.ErrMalformedOutput.Error())
	case errors.Is(err, planner.ErrSaveFailed):
		writeError(c, http.StatusInternalServerError, planner.ErrSaveFailed.Error())
	case errors.Is(err, planner.ErrGenerationFailed):
		writeError(c, http.StatusInternalServerError, planner.ErrGenerationFailed.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
