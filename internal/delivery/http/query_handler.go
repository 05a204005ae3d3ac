package http

import (
	"context"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"bankagent/internal/usecase"
)

// QueryHandler exposes the conversational pipeline over HTTP.
type QueryHandler struct {
	agent *usecase.Agent
}

// NewQueryHandler creates a QueryHandler.
func NewQueryHandler(agent *usecase.Agent) *QueryHandler {
	return &QueryHandler{agent: agent}
}

// QueryRequest is the free-text banking query payload.
type QueryRequest struct {
	Text string `json:"text"`
}

// PostQuery runs one banking query through the agent pipeline.
// POST /api/query
func (h *QueryHandler) PostQuery(c echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return BadRequestResponse(c, "Query text is required")
	}

	// Model calls dominate; budget generously but never hang forever.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	reply := h.agent.ProcessQuery(ctx, req.Text)
	return SuccessResponse(c, map[string]interface{}{
		"response": reply,
	})
}
