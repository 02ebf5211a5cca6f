package obs

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

const shutdownTimeout = 5 * time.Second

// Server is the operations HTTP endpoint: metrics, liveness and readiness.
type Server struct {
	router *gin.Engine
	port   int
}

// Readiness reports whether the bridge accepts traffic and how many
// subsystems the upstream has acknowledged so far.
type Readiness interface {
	Ready() bool
	Progress() int
}

// NewServer builds the router. A nil readiness is never ready.
func NewServer(port int, metrics *Metrics, readiness Readiness) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", func(c *gin.Context) {
		if readiness == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "acknowledged": 0})
			return
		}
		acknowledged := readiness.Progress()
		if !readiness.Ready() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "acknowledged": acknowledged})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "acknowledged": acknowledged})
	})

	return &Server{router: router, port: port}
}

// Router returns the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(s.port)),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logs.Infof("ops server listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return errors.Wrap(err, "ops server")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown ops server")
		}
		return nil
	}
}
