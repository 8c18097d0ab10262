package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/KapJ1coH/roomchat/internal/config"
	"github.com/KapJ1coH/roomchat/internal/core"
	"github.com/KapJ1coH/roomchat/internal/session"
)

// NewServer builds the HTTP server: health and metrics endpoints, read-only
// REST lookups and the WebSocket chat endpoint.
func NewServer(actor *core.Actor, sessions *session.Arena, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := NewAPIHandlers(actor.Commands(), logger)
	router.GET("/api/rooms", api.ListRooms)
	router.GET("/api/rooms/:id", api.GetRoom)
	router.GET("/api/users/:id", api.GetUser)

	ws := NewWSHandler(actor.Commands(), sessions, cfg.ViolationBudget, logger)
	router.GET("/ws", ws.Handle)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
