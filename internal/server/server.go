// Package server exposes prayer schedules, the current window and the Qibla
// bearing as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/smokyabdulrahman/salah/internal/cache"
	"github.com/smokyabdulrahman/salah/internal/log"
	"github.com/smokyabdulrahman/salah/internal/prayer"
)

const (
	shutdownTimeout = 5 * time.Second
	sweepInterval   = time.Hour
)

// Options configures a Server.
type Options struct {
	// Cache memoises schedules. A new cache is created when nil.
	Cache *cache.Cache
	// Params are used when a request names no method or school.
	Params prayer.Params
	// Location is used when a request names no time zone.
	Location *time.Location
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
	// AllowOrigins lists CORS origins. Empty allows any origin.
	AllowOrigins []string
}

// Server serves the HTTP API.
type Server struct {
	engine *gin.Engine
	cache  *cache.Cache
	params prayer.Params
	loc    *time.Location
	now    func() time.Time
}

// New builds a Server and its routes.
func New(opts Options) *Server {
	s := &Server{
		cache:  opts.Cache,
		params: opts.Params,
		loc:    opts.Location,
		now:    opts.Now,
	}
	if s.cache == nil {
		s.cache = cache.New()
	}
	if s.params == (prayer.Params{}) {
		s.params = prayer.DefaultParams()
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.Use(cors.New(corsConfig(opts.AllowOrigins)))
	s.registerRoutes(r)
	s.engine = r
	return s
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Accept", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/healthz", s.healthz)

	v1 := r.Group("/v1")
	v1.GET("/times", resolve(s.times))
	v1.GET("/next", resolve(s.next))
	v1.GET("/window", resolve(s.window))
	v1.GET("/qibla", resolve(s.qibla))
	v1.GET("/methods", resolve(s.methods))
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()
	go s.sweepEvery(ctx, sweepInterval)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Infow("shutting down HTTP server", "addr", addr)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Sweep drops cached schedules dated before yesterday in the server's zone.
func (s *Server) Sweep() int {
	cutoff := prayer.DateOf(s.now().In(s.loc)).AddDays(-1)
	n := s.cache.Purge(cutoff)
	if n > 0 {
		log.Debugw("purged cached schedules", "before", cutoff.String(), "removed", n)
	}
	return n
}

func (s *Server) sweepEvery(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep()
		}
	}
}
