package webui

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/entrhq/scout/pkg/orchestrator"
	"github.com/entrhq/scout/pkg/types"
)

// APIResponse is the envelope of every REST reply.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type submitRequest struct {
	Identity string `json:"identity"`
}

type saveConfigRequest struct {
	Values map[string]interface{} `json:"values"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data: gin.H{
			"status": "ok",
			"state":  s.orch.State().String(),
			"uptime": time.Since(s.startTime).String(),
		},
	})
}

func (s *Server) handleComponents(c *gin.Context) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    gin.H{"slots": s.registry.IDs()},
	})
}

// handleSubmit starts a research run. Rejections map to client errors: an
// empty identity and missing credentials are 400, a busy session is 409.
func (s *Server) handleSubmit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{Error: "invalid request body"})
		return
	}

	err := s.orch.Submit(c.Request.Context(), req.Identity)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, APIResponse{Success: true})
	case errors.Is(err, orchestrator.ErrSessionBusy):
		c.JSON(http.StatusConflict, APIResponse{Error: err.Error()})
	case errors.Is(err, orchestrator.ErrEmptyIdentity),
		errors.Is(err, orchestrator.ErrMissingCredentials):
		c.JSON(http.StatusBadRequest, APIResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, APIResponse{Error: err.Error()})
	}
}

// handleStop cancels the running task. Cancellation always succeeds from
// the caller's perspective.
func (s *Server) handleStop(c *gin.Context) {
	s.orch.Cancel()
	c.JSON(http.StatusOK, APIResponse{Success: true})
}

// handleClear stops any running task and resets the session.
func (s *Server) handleClear(c *gin.Context) {
	s.orch.Clear()
	c.JSON(http.StatusOK, APIResponse{Success: true})
}

// handleSaveConfig persists the posted slot values.
func (s *Server) handleSaveConfig(c *gin.Context) {
	var req saveConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{Error: "invalid request body"})
		return
	}

	if err := s.orch.SaveConfig(req.Values); err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true})
}

// handleLoadConfig restores saved slot values onto the stream.
func (s *Server) handleLoadConfig(c *gin.Context) {
	if err := s.orch.LoadConfig(); err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true})
}

// currentSnapshot rebuilds the research tab's visible state for a newly
// connected stream.
func (s *Server) currentSnapshot() types.Update {
	sess := s.orch.Session()
	running := s.orch.State() == orchestrator.StateRunning

	return types.NewUpdate().
		Set(orchestrator.SlotReport, types.SetValue(sess.Report())).
		Set(orchestrator.SlotChatbot, types.SetValue(sess.Messages())).
		Set(orchestrator.SlotRunButton, types.SetInteractive(!running)).
		Set(orchestrator.SlotStopButton, types.SetInteractive(running))
}
