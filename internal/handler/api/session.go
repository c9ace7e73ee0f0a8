package api

import (
	"net/http"

	reqdto "lunchrun/internal/handler/dto/request"
	resdto "lunchrun/internal/handler/dto/response"
	"lunchrun/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct {
	sessions  commands.SessionCommands
	proposals commands.ProposalCommands
}

func NewSessionHandler(sessions commands.SessionCommands, proposals commands.ProposalCommands) *SessionHandler {
	return &SessionHandler{sessions: sessions, proposals: proposals}
}

// @Summary Create proposal on today's session
// @Description Ensure today's session exists and open a proposal on it
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateProposalRequest true "Proposal request"
// @Success 201 {object} resdto.ProposalResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sessions/today/proposals [post]
func (h *SessionHandler) CreateTodayProposal(c *gin.Context) {
	viewer, ok := getViewer(c)
	if !ok {
		return
	}

	var req reqdto.CreateProposalRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	s, err := h.sessions.EnsureToday(c.Request.Context(), viewer.OrgID, c.Query("channel_ref"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	p, err := h.proposals.Create(c.Request.Context(), viewer.OrgID, s.ID(), viewer.UserID, commands.CreateProposalRequest{
		Vendor:       req.Vendor,
		Fulfillment:  proposalFulfillment(req.Fulfillment),
		DeadlineTime: req.DeadlineTime,
		Note:         req.GetNote(),
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromProposal(p))
}

// @Summary Close session
// @Description Close the session and cascade to its proposals
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sessions/{id}/close [post]
func (h *SessionHandler) CloseSession(c *gin.Context) {
	viewer, ok := getViewer(c)
	if !ok {
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid session ID format",
		})
		return
	}

	if err := h.sessions.Close(c.Request.Context(), viewer.OrgID, sessionID, viewer.UserID, viewer.IsAdmin); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}
