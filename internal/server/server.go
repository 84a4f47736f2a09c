// Package server exposes the prayer time engine as an HTTP JSON API whose
// responses follow the Al Adhan envelope ({code, status, data}).
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/miqat/internal/calc"
	"github.com/smokyabdulrahman/miqat/internal/hijri"
	"github.com/smokyabdulrahman/miqat/internal/ramadan"
	"github.com/smokyabdulrahman/miqat/internal/source"
)

// Options configures a Server. Zero values fall back to sensible defaults.
type Options struct {
	// Converter backs the calendar endpoints. Defaults to the tabular calendar.
	Converter hijri.Converter
	// Location is used when a request names no timezone. Defaults to UTC.
	Location *time.Location
	// Method is used when a request names no method. Defaults to MWL.
	Method string
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// AllowOrigins lists CORS origins. Empty allows any origin.
	AllowOrigins []string
}

// Server is the HTTP API.
type Server struct {
	engine   *gin.Engine
	conv     hijri.Converter
	resolver *ramadan.Resolver
	local    *source.Local
	loc      *time.Location
	method   string
	now      func() time.Time
}

// New builds a Server with its routes and middleware.
func New(opts Options) *Server {
	s := &Server{
		conv:   opts.Converter,
		loc:    opts.Location,
		method: opts.Method,
		now:    opts.Now,
	}
	if s.conv == nil {
		s.conv = hijri.Tabular{}
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.method == "" {
		s.method = string(calc.MWL)
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.resolver = ramadan.NewResolver(s.conv)
	s.local = &source.Local{DefaultMethod: s.method, Converter: s.conv}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(requestID(), accessLog(), recovery())
	r.Use(cors.New(corsConfig(opts.AllowOrigins)))

	r.GET("/health", s.health)

	v1 := r.Group("/v1")
	v1.GET("/timings/:date", s.timings)
	v1.GET("/ramadan", s.ramadan)
	v1.GET("/gToH/:date", s.gregorianToHijri)
	v1.GET("/hToGCalendar/:month/:year", s.hijriToGregorianCalendar)
	v1.POST("/validate", s.validate)

	s.engine = r
	return s
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Handler returns the server's http.Handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
