package http

import (
	stdhttp "net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/messageboard/internal/config"
	"github.com/vovakirdan/messageboard/internal/core"
	"github.com/vovakirdan/messageboard/internal/metrics"
	"github.com/vovakirdan/messageboard/internal/proto"
)

// NewRouter builds the gin engine serving the board API.
// feed and m may be nil, which disables the live stream and /metrics.
func NewRouter(board *core.Board, feed *core.Feed, m *metrics.Metrics, cfg *config.Config, logger *zerolog.Logger) *gin.Engine {
	if strings.EqualFold(cfg.LogLevel, "debug") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggerMiddleware(logger),
		MetricsMiddleware(m),
		CORSMiddleware(cfg.CORSAllowedOrigins),
		BodyLimitMiddleware(cfg.MaxBodyBytes),
	)

	router.GET("/", readinessHandler)
	router.GET("/health", healthHandler)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	handlers := NewMessageHandlers(board, m, logger)
	api := router.Group("/api")
	api.POST("/message", handlers.PostMessage)
	api.GET("/messages", handlers.ListMessages)
	if feed != nil {
		api.GET("/messages/stream", gin.WrapH(NewStreamHandler(feed, m, cfg.CORSAllowedOrigins, logger)))
	}

	return router
}

// NewServer builds an HTTP server around NewRouter.
func NewServer(board *core.Board, feed *core.Feed, m *metrics.Metrics, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.Addr(),
		Handler:           NewRouter(board, feed, m, cfg, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func readinessHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, proto.Readiness)
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
