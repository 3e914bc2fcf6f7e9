package http_server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"chatrelaygo/internal/config"
	"chatrelaygo/internal/http/roomhandler"
	"chatrelaygo/internal/services/chatroom"
	"chatrelaygo/internal/ws"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abrar71/swaggerfilesv2" // swagger embed files
)

type httpServer struct {
	cfg      *config.Config
	srv      http.Server
	ln       net.Listener
	registry chatroom.IRoomRegistry
	wsSrv    *ws.WsServer
	ctx      context.Context
}

func NewHttpServer(ctx context.Context, cfg *config.Config, wsSrv *ws.WsServer, registry chatroom.IRoomRegistry) *httpServer {
	return &httpServer{
		cfg:      cfg,
		wsSrv:    wsSrv,
		registry: registry,
		ctx:      ctx,
	}
}

func (h *httpServer) Start() error {
	var err error
	listenAddr := fmt.Sprintf(":%d", h.cfg.HttpServerPort)
	h.ln, err = net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	h.srv = http.Server{
		Handler: h.buildRouter(),
	}

	return h.srv.Serve(h.ln)
}

func (h *httpServer) buildRouter() *gin.Engine {
	routerEngine := gin.New()

	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))
	routerEngine.Use(corsHeaders(h.cfg))
	routerEngine.Use(originGuard(h.cfg))

	// Swagger UI and API specs
	routerEngine.StaticFS("/swagger-apis", http.FS(swaggerfilesv2.FS))

	// Static files for the bundled web client
	if h.cfg.ServeClient {
		routerEngine.Static("/client", h.cfg.ClientDir)
	}

	// websocket endpoint
	routerEngine.GET("/ws", h.wsSrv.Handle)

	// REST API
	rh := roomhandler.New(h.registry)
	rh.Register(routerEngine)

	// Anything else is a structured 404, same body for path and method misses.
	routerEngine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, roomhandler.ErrorResponse{Error: "404 Page Not Found"})
	})

	return routerEngine
}

// corsHeaders attaches the response headers every endpoint carries:
// the allow-origin (wildcard in debug mode, the configured origin
// otherwise) and the JSON content type.
func corsHeaders(cfg *config.Config) gin.HandlerFunc {
	allowOrigin := cfg.Origin
	if cfg.Debug {
		allowOrigin = "*"
	}
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowOrigin)
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Content-Type", "application/json; charset=utf-8")
		c.Next()
	}
}

// originGuard rejects cross-origin requests in non-debug mode.
// Requests without an Origin header (curl, server-to-server) pass; the
// websocket upgrade applies its own, stricter check.
func originGuard(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Debug {
			c.Next()
			return
		}
		if o := c.GetHeader("Origin"); o != "" && o != cfg.Origin {
			c.AbortWithStatusJSON(http.StatusForbidden, roomhandler.ErrorResponse{Error: "403 Forbidden"})
			return
		}
		c.Next()
	}
}

// Dispose gracefully shuts the HTTP server down.
// It waits up to 10 s for in‑flight requests to finish.
func (h *httpServer) Dispose() error {
	// Create a context that times‑out after 10 s.
	ctx, cancel := context.WithTimeout(h.ctx, 10*time.Second)
	defer cancel()

	// Ask the server to shut down.
	if err := h.srv.Shutdown(ctx); err != nil {
		zap.L().Error("http_dispose", zap.Error(err))
		return err // e.g. active conns didn’t finish in time
	}

	// If the context’s deadline expired, log it for observability.
	if ctx.Err() == context.DeadlineExceeded {
		zap.L().Error("http_dispose", zap.Error(errors.New("shutdown timed out")))
		log.Println("shutdown timeout (10 s)")
	}

	return nil
}
