package api

import (
	"net/http"

	"lunchrun/internal/domain/session"
	resdto "lunchrun/internal/handler/dto/response"
	"lunchrun/internal/pkg/clock"
	"lunchrun/internal/pkg/config"
	"lunchrun/internal/usecase/commands"
	"lunchrun/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboards queries.DashboardQueries
	sessions   commands.SessionCommands
	clock      clock.Clock
	app        config.AppConfig
}

func NewDashboardHandler(dashboards queries.DashboardQueries, sessions commands.SessionCommands, clk clock.Clock, app config.AppConfig) *DashboardHandler {
	return &DashboardHandler{
		dashboards: dashboards,
		sessions:   sessions,
		clock:      clk,
		app:        app,
	}
}

// @Summary Viewer dashboard
// @Description Resolve the viewer's dashboard state for a day
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param date query string false "Day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} resdto.DashboardResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	viewer, ok := getViewer(c)
	if !ok {
		return
	}

	today := session.DayOf(h.clock.Now(), h.app.Location())
	day := today
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := session.ParseDay(dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date format, expected YYYY-MM-DD",
			})
			return
		}
		day = parsed
	}

	// Viewing today lazily creates the session so the first person to look
	// at the dashboard opens the day.
	if day == today {
		if _, err := h.sessions.EnsureToday(c.Request.Context(), viewer.OrgID, c.Query("channel_ref")); err != nil {
			respondDomainError(c, err)
			return
		}
	}

	view, err := h.dashboards.Resolve(c.Request.Context(), viewer.OrgID, day, viewer.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromDashboardView(view))
}
