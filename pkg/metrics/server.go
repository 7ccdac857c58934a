package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/securelayer/sbom-analyzer/pkg/etc"
)

type Server struct {
	config etc.Metrics
	server *http.Server
}

func NewServer(config etc.Metrics) *Server {
	mux := http.NewServeMux()
	mux.Handle(config.Endpoint, promhttp.Handler())
	return &Server{
		config: config,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: mux,
		},
	}
}

func (s *Server) ListenAndServe() {
	go func() {
		if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Error while listening for metrics scrapes")
		}
		log.Trace("Metrics server stopped listening for incoming connections")
	}()
	log.WithField("addr", s.config.Addr).Info("Starting metrics server")
}

func (s *Server) Shutdown(ctx context.Context) {
	log.Trace("Metrics server shutdown started")
	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Error while shutting down metrics server")
	}
	log.Trace("Metrics server shutdown completed")
}
