package api

import (
	"net/http"

	"lunchrun/internal/domain/proposal"
	reqdto "lunchrun/internal/handler/dto/request"
	resdto "lunchrun/internal/handler/dto/response"
	"lunchrun/internal/pkg/money"
	"lunchrun/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProposalHandler struct {
	proposals commands.ProposalCommands
	orders    commands.OrderCommands
}

func NewProposalHandler(proposals commands.ProposalCommands, orders commands.OrderCommands) *ProposalHandler {
	return &ProposalHandler{proposals: proposals, orders: orders}
}

// @Summary Claim role
// @Description Claim the runner or orderer role on a proposal
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Proposal ID"
// @Param request body reqdto.ClaimRoleRequest true "Role to claim"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /proposals/{id}/claim [post]
func (h *ProposalHandler) ClaimRole(c *gin.Context) {
	viewer, ok := getViewer(c)
	if !ok {
		return
	}
	proposalID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.ClaimRoleRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	role := proposal.Role(req.Role)
	if !role.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown role",
		})
		return
	}

	if err := h.proposals.ClaimRole(c.Request.Context(), viewer.OrgID, proposalID, role, viewer.UserID); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "claimed"})
}

// @Summary Delegate role
// @Description Hand a held role to another user
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Proposal ID"
// @Param request body reqdto.DelegateRequest true "Delegation request"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /proposals/{id}/delegate [post]
func (h *ProposalHandler) Delegate(c *gin.Context) {
	viewer, ok := getViewer(c)
	if !ok {
		return
	}
	proposalID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.DelegateRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	role := proposal.Role(req.Role)
	if !role.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown role",
		})
		return
	}
	toUserID, err := uuid.Parse(req.ToUserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user ID format",
		})
		return
	}

	if err := h.proposals.Delegate(c.Request.Context(), viewer.OrgID, proposalID, role, viewer.UserID, toUserID); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "delegated"})
}

// @Summary Advance proposal status
// @Description Move the run status forward (placed, received)
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Proposal ID"
// @Param request body reqdto.AdvanceStatusRequest true "Target status"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /proposals/{id}/status [patch]
func (h *ProposalHandler) AdvanceStatus(c *gin.Context) {
	viewer, ok := getViewer(c)
	if !ok {
		return
	}
	proposalID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.AdvanceStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	next := proposal.Status(req.Status)
	if !next.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown status",
		})
		return
	}

	if err := h.proposals.Advance(c.Request.Context(), viewer.OrgID, proposalID, next, viewer.UserID, viewer.IsAdmin); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": next.String()})
}

// @Summary Toggle help request
// @Description Flip the help-requested flag on a held proposal
// @Tags proposals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Proposal ID"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /proposals/{id}/help [post]
func (h *ProposalHandler) ToggleHelp(c *gin.Context) {
	viewer, ok := getViewer(c)
	if !ok {
		return
	}
	proposalID, ok := parseIDParam(c)
	if !ok {
		return
	}

	requested, err := h.proposals.ToggleHelp(c.Request.Context(), viewer.OrgID, proposalID, viewer.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"help_requested": requested})
}

// @Summary Close proposal
// @Description Close the proposal; holder, admin, or anyone while unclaimed
// @Tags proposals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Proposal ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /proposals/{id}/close [post]
func (h *ProposalHandler) Close(c *gin.Context) {
	viewer, ok := getViewer(c)
	if !ok {
		return
	}
	proposalID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.proposals.Close(c.Request.Context(), viewer.OrgID, proposalID, viewer.UserID, viewer.IsAdmin); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}

// @Summary Upsert own order
// @Description Create or update the viewer's order on the proposal
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Proposal ID"
// @Param request body reqdto.UpsertOrderRequest true "Order request"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /proposals/{id}/order [put]
func (h *ProposalHandler) UpsertOrder(c *gin.Context) {
	viewer, ok := getViewer(c)
	if !ok {
		return
	}
	proposalID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.UpsertOrderRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	price, err := money.Parse(req.PriceEstimated)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid price",
		})
		return
	}

	o, err := h.orders.Upsert(c.Request.Context(), viewer.OrgID, proposalID, viewer.UserID, viewer.IsAdmin, commands.UpsertOrderRequest{
		Description:    req.Description,
		PriceEstimated: price,
		Notes:          req.GetNotes(),
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromOrder(o))
}

func proposalFulfillment(s string) proposal.Fulfillment {
	return proposal.Fulfillment(s)
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}
