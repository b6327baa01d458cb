package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// JobLister is the subset of *supervisor.Supervisor the status endpoint
// needs, kept as an interface so metrics doesn't import supervisor.
type JobLister interface {
	Jobs() []JobSummary
}

// JobSummary is the wire shape of one row in GET /jobs.
type JobSummary struct {
	Key string `json:"key"`
	ID  string `json:"id"`
	Pid int    `json:"pid"`
}

// Server is the supervisor's optional status/metrics HTTP endpoint
// (/healthz, /metrics, /jobs): a gin router wrapped in an http.Server
// for graceful shutdown.
type Server struct {
	httpServer *http.Server
}

// NewServer builds the gin router and wraps it in an http.Server bound
// to addr (not yet listening).
func NewServer(addr string, log *zerolog.Logger, jobs JobLister) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if log != nil {
		router.Use(logger.SetLogger(logger.WithLogger(func(*gin.Context, zerolog.Logger) zerolog.Logger {
			return *log
		})))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/jobs", func(c *gin.Context) {
		c.JSON(http.StatusOK, jobs.Jobs())
	})

	return &Server{httpServer: &http.Server{Addr: addr, Handler: router}}
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
