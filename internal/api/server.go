package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"reprasp/internal/logger"
)

// Server is the process HTTP listener. The API router and, in webhook mode,
// the Telegram webhook share its mux.
type Server struct {
	server   *http.Server
	certFile string
	keyFile  string
}

func NewServer(addr string, handler http.Handler, certFile, keyFile string) *Server {
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		certFile: certFile,
		keyFile:  keyFile,
	}
}

// Start blocks serving requests. It returns nil after Shutdown.
func (s *Server) Start() error {
	logger.Infof("Starting HTTP server on %s", s.server.Addr)

	var err error
	if s.certFile != "" && s.keyFile != "" {
		logger.Infof("Using TLS with cert: %s, key: %s", s.certFile, s.keyFile)
		err = s.server.ListenAndServeTLS(s.certFile, s.keyFile)
	} else {
		logger.Infof("Running without TLS. Make sure you have a HTTPS proxy in front of this server")
		err = s.server.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Serve is Start on an existing listener, used by tests.
func (s *Server) Serve(l net.Listener) error {
	err := s.server.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
