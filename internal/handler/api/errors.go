package api

import (
	"errors"
	"net/http"

	"lunchrun/internal/handler/httperr"
	"lunchrun/internal/handler/middleware"
	"lunchrun/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// respondDomainError maps the taxonomy onto HTTP statuses in one place so
// handlers stay thin. RoleClaimLost and LifecycleViolation both surface as
// 409: the resource exists but its current state refuses the action.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Resource not found", nil)
	case errors.Is(err, errs.ErrRoleClaimLost):
		httperr.AbortWithError(c, http.StatusConflict, err, "Role already assigned", nil)
	case errors.Is(err, errs.ErrPermissionDenied):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Permission denied", nil)
	case errors.Is(err, errs.ErrLifecycleViolation):
		httperr.AbortWithError(c, http.StatusConflict, err, "Operation not allowed in current state", nil)
	case errors.Is(err, errs.ErrValidation):
		var detail any
		if fields, ok := errs.AsFieldErrors(err); ok {
			detail = fields
		}
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Validation failed", detail)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

// getViewer is used after RequireAuth; a missing viewer means the route was
// wired without the middleware.
func getViewer(c *gin.Context) (middleware.Viewer, bool) {
	viewer, ok := middleware.GetViewer(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
	return viewer, ok
}
