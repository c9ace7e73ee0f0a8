package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"lunchrun/internal/handler/api"
	"lunchrun/internal/handler/middleware"
	"lunchrun/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	dashboardHandler *api.DashboardHandler,
	sessionHandler *api.SessionHandler,
	proposalHandler *api.ProposalHandler,
	orderHandler *api.OrderHandler,
	quickRunHandler *api.QuickRunHandler,
	sweepHandler *api.SweepHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, dashboardHandler, sessionHandler, proposalHandler, orderHandler, quickRunHandler, sweepHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	dashboardHandler *api.DashboardHandler,
	sessionHandler *api.SessionHandler,
	proposalHandler *api.ProposalHandler,
	orderHandler *api.OrderHandler,
	quickRunHandler *api.QuickRunHandler,
	sweepHandler *api.SweepHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/dashboard", Handler: dashboardHandler.GetDashboard},
		})

		sessions := apiGroup.Group("/sessions")
		{
			addRoutes(sessions, []route{
				{Method: http.MethodPost, Path: "/today/proposals", Handler: sessionHandler.CreateTodayProposal},
				{Method: http.MethodPost, Path: "/:id/close", Handler: sessionHandler.CloseSession},
			})
		}

		proposals := apiGroup.Group("/proposals")
		{
			addRoutes(proposals, []route{
				{Method: http.MethodPost, Path: "/:id/claim", Handler: proposalHandler.ClaimRole},
				{Method: http.MethodPost, Path: "/:id/delegate", Handler: proposalHandler.Delegate},
				{Method: http.MethodPost, Path: "/:id/close", Handler: proposalHandler.Close},
				{Method: http.MethodPost, Path: "/:id/help", Handler: proposalHandler.ToggleHelp},
				{Method: http.MethodPatch, Path: "/:id/status", Handler: proposalHandler.AdvanceStatus},
				{Method: http.MethodPut, Path: "/:id/order", Handler: proposalHandler.UpsertOrder},
			})
		}

		orders := apiGroup.Group("/orders")
		{
			addRoutes(orders, []route{
				{Method: http.MethodPatch, Path: "/:id/final-price", Handler: orderHandler.SetFinalPrice},
				{Method: http.MethodDelete, Path: "/:id", Handler: orderHandler.Delete},
			})
		}

		quickRuns := apiGroup.Group("/quickruns")
		{
			addRoutes(quickRuns, []route{
				{Method: http.MethodPost, Path: "", Handler: quickRunHandler.Create},
				{Method: http.MethodGet, Path: "", Handler: quickRunHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: quickRunHandler.Get},
				{Method: http.MethodPost, Path: "/:id/requests", Handler: quickRunHandler.UpsertRequest},
				{Method: http.MethodDelete, Path: "/:id/requests", Handler: quickRunHandler.DeleteRequest},
				{Method: http.MethodPatch, Path: "/:id/requests/final-price", Handler: quickRunHandler.SetRequestFinalPrice},
				{Method: http.MethodPost, Path: "/:id/delegate", Handler: quickRunHandler.Delegate},
				{Method: http.MethodPost, Path: "/:id/close", Handler: quickRunHandler.Close},
			})
		}
	}

	internalGroup := engine.Group("/internal")
	internalGroup.Use(authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
	{
		addRoutes(internalGroup, []route{
			{Method: http.MethodPost, Path: "/sweep", Handler: sweepHandler.Sweep},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
