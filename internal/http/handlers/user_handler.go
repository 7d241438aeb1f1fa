// README: User handlers (profile, saved preferences, monthly generation quota).
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"voyager/internal/http/middleware"
	"voyager/internal/modules/user"
	"voyager/internal/types"
)

type UserService interface {
	SaveProfile(ctx context.Context, cmd user.ProfileCommand) (*user.User, error)
	Get(ctx context.Context, uid string) (*user.User, error)
	Preferences(ctx context.Context, uid string) (types.Preferences, error)
	SavePreferences(ctx context.Context, uid string, p types.Preferences) (types.Preferences, error)
}

type QuotaReader interface {
	Remaining(ctx context.Context, uid string) (int, error)
}

type UserHandler struct {
	users UserService
	quota QuotaReader
}

func NewUserHandler(users UserService, quota QuotaReader) *UserHandler {
	return &UserHandler{users: users, quota: quota}
}

type profileReq struct {
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl"`
}

// SaveProfile handles POST /api/users/me. Blank fields fall back to the token claims.
func (h *UserHandler) SaveProfile(c *gin.Context) {
	var req profileReq
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid json")
			return
		}
	}
	if req.DisplayName == "" {
		req.DisplayName = middleware.CallerClaim(c, "name")
	}
	if req.PhotoURL == "" {
		req.PhotoURL = middleware.CallerClaim(c, "picture")
	}
	u, err := h.users.SaveProfile(c.Request.Context(), user.ProfileCommand{
		UID:         middleware.CallerUID(c),
		Email:       middleware.CallerClaim(c, "email"),
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		writeUserError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, u)
}

func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), middleware.CallerUID(c))
	if err != nil {
		writeUserError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, u)
}

func (h *UserHandler) Preferences(c *gin.Context) {
	p, err := h.users.Preferences(c.Request.Context(), middleware.CallerUID(c))
	if err != nil {
		writeUserError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

// SavePreferences handles PUT /api/users/me/preferences.
func (h *UserHandler) SavePreferences(c *gin.Context) {
	var req types.Preferences
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.users.SavePreferences(c.Request.Context(), middleware.CallerUID(c), req)
	if err != nil {
		writeUserError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

// Quota handles GET /api/users/me/quota.
func (h *UserHandler) Quota(c *gin.Context) {
	n, err := h.quota.Remaining(c.Request.Context(), middleware.CallerUID(c))
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"remaining": n})
}
