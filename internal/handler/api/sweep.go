package api

import (
	"net/http"

	"lunchrun/internal/pkg/clock"
	"lunchrun/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type SweepHandler struct {
	sweeps commands.SweepCommands
	clock  clock.Clock
}

func NewSweepHandler(sweeps commands.SweepCommands, clk clock.Clock) *SweepHandler {
	return &SweepHandler{sweeps: sweeps, clock: clk}
}

// @Summary Trigger deadline sweep
// @Description Lock every open session and quick run whose deadline has passed
// @Tags internal
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /internal/sweep [post]
func (h *SweepHandler) Sweep(c *gin.Context) {
	result, err := h.sweeps.SweepExpired(c.Request.Context(), h.clock.Now())
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"locked_sessions":   len(result.Sessions),
		"locked_quick_runs": len(result.QuickRuns),
	})
}
