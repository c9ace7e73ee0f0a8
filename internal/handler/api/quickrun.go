package api

import (
	"net/http"

	reqdto "lunchrun/internal/handler/dto/request"
	resdto "lunchrun/internal/handler/dto/response"
	"lunchrun/internal/pkg/money"
	"lunchrun/internal/usecase/commands"
	"lunchrun/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QuickRunHandler struct {
	quickRuns commands.QuickRunCommands
	queries   queries.QuickRunQueries
}

func NewQuickRunHandler(quickRuns commands.QuickRunCommands, q queries.QuickRunQueries) *QuickRunHandler {
	return &QuickRunHandler{quickRuns: quickRuns, queries: q}
}

// @Summary Create quick run
// @Description Announce an ad-hoc run; the creator becomes the runner
// @Tags quickruns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateQuickRunRequest true "Quick run request"
// @Success 201 {object} resdto.QuickRunResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /quickruns [post]
func (h *QuickRunHandler) Create(c *gin.Context) {
	viewer, ok := getViewer(c)
	if !ok {
		return
	}

	var req reqdto.CreateQuickRunRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	run, err := h.quickRuns.Create(c.Request.Context(), viewer.OrgID, viewer.UserID, commands.CreateQuickRunRequest{
		Destination:  req.Destination,
		DelayMinutes: req.DelayMinutes,
		Note:         req.GetNote(),
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromQuickRun(run))
}

// @Summary List quick runs
// @Description List open and locked quick runs for the org
// @Tags quickruns
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.QuickRunResponse
// @Failure 401 {object} map[string]string
// @Router /quickruns [get]
func (h *QuickRunHandler) List(c *gin.Context) {
	viewer, ok := getViewer(c)
	if !ok {
		return
	}

	views, err := h.queries.ListActive(c.Request.Context(), viewer.OrgID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response := make([]*resdto.QuickRunResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromQuickRunView(v)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Get quick run
// @Description Get one quick run with its requests
// @Tags quickruns
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quick run ID"
// @Success 200 {object} resdto.QuickRunResponse
// @Failure 404 {object} map[string]string
// @Router /quickruns/{id} [get]
func (h *QuickRunHandler) Get(c *gin.Context) {
	viewer, ok := getViewer(c)
	if !ok {
		return
	}
	quickRunID, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), viewer.OrgID, quickRunID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromQuickRunView(view))
}

// @Summary Upsert request
// @Description Attach or update the viewer's request on a quick run
// @Tags quickruns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quick run ID"
// @Param request body reqdto.UpsertQuickRunRequestRequest true "Request body"
// @Success 200 {object} resdto.RequestResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /quickruns/{id}/requests [post]
func (h *QuickRunHandler) UpsertRequest(c *gin.Context) {
	viewer, ok := getViewer(c)
	if !ok {
		return
	}
	quickRunID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.UpsertQuickRunRequestRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	var priceEstimated *money.Cents
	if req.PriceEstimated != nil {
		price, err := money.Parse(*req.PriceEstimated)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid price",
			})
			return
		}
		priceEstimated = &price
	}

	r, err := h.quickRuns.UpsertRequest(c.Request.Context(), viewer.OrgID, quickRunID, viewer.UserID, commands.UpsertQuickRunRequestRequest{
		Description:    req.Description,
		PriceEstimated: priceEstimated,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromRequest(r))
}

// @Summary Delete request
// @Description Withdraw the viewer's own request
// @Tags quickruns
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quick run ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /quickruns/{id}/requests [delete]
func (h *QuickRunHandler) DeleteRequest(c *gin.Context) {
	viewer, ok := getViewer(c)
	if !ok {
		return
	}
	quickRunID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.quickRuns.DeleteRequest(c.Request.Context(), viewer.OrgID, quickRunID, viewer.UserID); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// @Summary Set request final price
// @Description Runner records the actual charged price on a request
// @Tags quickruns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quick run ID"
// @Param request body reqdto.QuickRunFinalPriceRequest true "Final price"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /quickruns/{id}/requests/final-price [patch]
func (h *QuickRunHandler) SetRequestFinalPrice(c *gin.Context) {
	viewer, ok := getViewer(c)
	if !ok {
		return
	}
	quickRunID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.QuickRunFinalPriceRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	participantID, err := uuid.Parse(req.ParticipantUserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user ID format",
		})
		return
	}
	price, err := money.Parse(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid price",
		})
		return
	}

	if err := h.quickRuns.SetRequestFinalPrice(c.Request.Context(), viewer.OrgID, quickRunID, participantID, viewer.UserID, viewer.IsAdmin, price); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// @Summary Delegate quick run
// @Description Hand the run to another participant
// @Tags quickruns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quick run ID"
// @Param request body reqdto.QuickRunDelegateRequest true "Delegation request"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /quickruns/{id}/delegate [post]
func (h *QuickRunHandler) Delegate(c *gin.Context) {
	viewer, ok := getViewer(c)
	if !ok {
		return
	}
	quickRunID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.QuickRunDelegateRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
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

	if err := h.quickRuns.Delegate(c.Request.Context(), viewer.OrgID, quickRunID, viewer.UserID, toUserID); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "delegated"})
}

// @Summary Close quick run
// @Description End the run; runner or admin only
// @Tags quickruns
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quick run ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /quickruns/{id}/close [post]
func (h *QuickRunHandler) Close(c *gin.Context) {
	viewer, ok := getViewer(c)
	if !ok {
		return
	}
	quickRunID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.quickRuns.Close(c.Request.Context(), viewer.OrgID, quickRunID, viewer.UserID, viewer.IsAdmin); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}
