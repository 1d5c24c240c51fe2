package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/haiminhdev/meeting-agent/internal/adapter/dto/meeting"
	"github.com/haiminhdev/meeting-agent/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	meetingHandler *Meeting
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, meetingHandler *Meeting) *Router {
	return &Router{
		cfg:            cfg,
		meetingHandler: meetingHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupMeetingRoutes(v1)
	rt.setupTranscriptRoutes(v1)
}

// setupMeetingRoutes configures meeting processing routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetingGroup := g.Group("/meetings")

	meetingGroup.POST("/process", rt.meetingHandler.ProcessMeeting)
	meetingGroup.POST("/minutes", rt.meetingHandler.GenerateMinutes)
	meetingGroup.POST("/events", rt.meetingHandler.ExtractEvents)
	meetingGroup.POST("/transcript", rt.meetingHandler.GenerateTranscript)
	meetingGroup.GET("/:id/result", rt.meetingHandler.GetResult)
}

// setupTranscriptRoutes configures transcript analysis routes
func (rt *Router) setupTranscriptRoutes(g *echo.Group) {
	transcriptGroup := g.Group("/transcripts")

	transcriptGroup.POST("/analyze-speakers", rt.meetingHandler.AnalyzeSpeakers)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	environment := "development"
	if rt.cfg != nil {
		environment = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, meeting.HealthResponse{
		Status:      "ok",
		Environment: environment,
		Time:        time.Now(),
	})
}
