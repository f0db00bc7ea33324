package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/scribeflow/scribeflow/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	meetingHandler *Meeting
	ingestHandler  *Ingest
	eventHandler   *Event
	webhookHandler *Webhook
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, meetingHandler *Meeting, ingestHandler *Ingest, eventHandler *Event, webhookHandler *Webhook) *Router {
	return &Router{
		cfg:            cfg,
		meetingHandler: meetingHandler,
		ingestHandler:  ingestHandler,
		eventHandler:   eventHandler,
		webhookHandler: webhookHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")

	rt.setupMeetingRoutes(v1)
	rt.setupIngestRoutes(v1)
	rt.setupEventRoutes(v1)
	rt.setupWebhookRoutes(v1)
}

func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetings := g.Group("/meetings")
	meetings.POST("", rt.meetingHandler.Create)
	meetings.GET("/:id", rt.meetingHandler.Get)
	meetings.POST("/:id/end", rt.meetingHandler.End)
	meetings.DELETE("/:id", rt.meetingHandler.Delete)
	meetings.POST("/:id/summary", rt.meetingHandler.GenerateSummary)
	meetings.POST("/:id/recording", rt.meetingHandler.SubmitRecording)
	meetings.GET("/:id/action-items", rt.meetingHandler.ListActionItems)
	meetings.GET("/:id/decisions", rt.meetingHandler.ListDecisions)

	g.PATCH("/action-items/:itemId", rt.meetingHandler.UpdateActionItem)
}

func (rt *Router) setupIngestRoutes(g *echo.Group) {
	g.POST("/chunks", rt.ingestHandler.IngestChunk)
	g.GET("/meetings/:id/windows", rt.ingestHandler.GetTimeline)
	g.POST("/meetings/:id/windows/:index/close", rt.ingestHandler.CloseWindow)
}

func (rt *Router) setupEventRoutes(g *echo.Group) {
	events := g.Group("/events")
	events.GET("/pending", rt.eventHandler.ListPending)
	events.GET("/:id", rt.eventHandler.Get)
	events.POST("/:id/approve", rt.eventHandler.Approve)
	events.POST("/:id/reject", rt.eventHandler.Reject)
}

func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	g.POST("/webhooks/assemblyai", rt.webhookHandler.HandleTranscriptWebhook)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"time":        time.Now().Format(time.RFC3339),
		"environment": rt.cfg.Server.Environment,
	})
}
