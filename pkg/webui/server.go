// Package webui exposes the research session over HTTP: REST controls for
// submit/stop/clear and config, and a websocket stream carrying snapshot
// fragments to the browser. The web layer only forwards slot instructions;
// report internals never leak into it.
package webui

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/entrhq/scout/pkg/logging"
	"github.com/entrhq/scout/pkg/orchestrator"
	"github.com/entrhq/scout/pkg/registry"
)

// Server is the web boundary of one scout process.
type Server struct {
	orch       *orchestrator.Orchestrator
	registry   *registry.Registry
	hub        *Hub
	engine     *gin.Engine
	httpServer *http.Server
	upgrader   websocket.Upgrader
	log        *logging.Logger
	startTime  time.Time
}

// New creates a server listening on addr. The hub must be the same one the
// orchestrator's sink broadcasts to.
func New(orch *orchestrator.Orchestrator, reg *registry.Registry, hub *Hub, addr string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type"}
	corsConfig.AllowWebSockets = true
	engine.Use(cors.New(corsConfig))

	log, _ := logging.NewLogger("webui")

	s := &Server{
		orch:     orch,
		registry: reg,
		hub:      hub,
		engine:   engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log:       log,
		startTime: time.Now(),
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.engine.Group("/api")

	api.GET("/health", s.handleHealth)
	api.GET("/components", s.handleComponents)
	api.GET("/stream", s.handleStream)

	research := api.Group("/research")
	{
		research.POST("/submit", s.handleSubmit)
		research.POST("/stop", s.handleStop)
		research.POST("/clear", s.handleClear)
	}

	configGroup := api.Group("/config")
	{
		configGroup.POST("/save", s.handleSaveConfig)
		configGroup.POST("/load", s.handleLoadConfig)
	}
}

// Start serves until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.log.Infof("web ui listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("webui: server failed: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully, closing all stream connections.
func (s *Server) Stop() error {
	s.hub.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("webui: shutdown failed: %w", err)
	}
	s.log.Infof("web ui stopped")
	return nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// handleStream upgrades the connection and registers it with the hub. The
// current report and transcript are replayed immediately so a page refresh
// does not lose state.
func (s *Server) handleStream(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warnf("websocket upgrade failed: %v", err)
		return
	}

	id := s.hub.Add(conn)
	s.log.Infof("stream connected: %s", id)

	s.hub.SendTo(id, s.currentSnapshot())
}
