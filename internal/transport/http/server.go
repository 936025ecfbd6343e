package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomrelay/roomrelay-server/internal/config"
	"github.com/roomrelay/roomrelay-server/internal/core"
)

// NewServer builds the HTTP server: health, the WebSocket endpoint, and a
// read-only REST surface over the hub.
func NewServer(hub *core.Hub, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(hub, cfg, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(hub *core.Hub, cfg config.Config, logger *zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(LoggerMiddleware(logger), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})
	r.GET("/ws", gin.WrapH(NewWSHandler(hub, cfg, logger)))

	h := NewRelayHandlers(hub, logger)
	api := r.Group("/api")
	api.GET("/rooms", h.ListRooms)
	api.GET("/rooms/:room/members", h.ListMembers)
	api.GET("/rooms/:room/messages", h.RoomMessages)

	return r
}
