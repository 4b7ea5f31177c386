package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/netutil"

	"github.com/tabstreamproject/tabstream/internal/common/health"
)

const (
	stateNotStarted int32 = iota
	stateRunning
	stateStopped
)

// IngestServer is the HTTP listener that feeds the ingestion queue. Its
// lifecycle is monotonic: once stopped it cannot be restarted.
type IngestServer struct {
	bindAddress    string
	maxConcurrency int
	server         *http.Server
	state          atomic.Int32
	listenerAddr   atomic.Value
}

func NewIngestServer(
	bindAddress string,
	port uint16,
	endpoint string,
	method string,
	serverThreads int,
	requestTimeout time.Duration,
	handler http.Handler,
	checker health.Checker,
) *IngestServer {
	mux := http.NewServeMux()
	mux.Handle(endpoint, enforceMethod(method, handler))
	health.SetupHttpMux(mux, checker)

	return &IngestServer{
		bindAddress:    fmt.Sprintf("%s:%d", bindAddress, port),
		maxConcurrency: serverThreads,
		server: &http.Server{
			Handler:      mux,
			ReadTimeout:  requestTimeout,
			WriteTimeout: requestTimeout,
		},
	}
}

// Start binds the listener and begins serving in the background. A bind
// failure is returned to the caller and is fatal to the bridge.
func (s *IngestServer) Start() error {
	if !s.state.CompareAndSwap(stateNotStarted, stateRunning) {
		return errors.New("ingest server cannot be restarted")
	}

	listener, err := net.Listen("tcp", s.bindAddress)
	if err != nil {
		s.state.Store(stateStopped)
		return errors.WithMessagef(err, "error binding to %s", s.bindAddress)
	}
	s.listenerAddr.Store(listener.Addr().String())
	if s.maxConcurrency > 0 {
		listener = netutil.LimitListener(listener, s.maxConcurrency)
	}

	go func() {
		err := s.server.Serve(listener)
		if err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Ingest server stopped unexpectedly")
		}
		s.state.Store(stateStopped)
	}()

	log.Infof("Ingest server listening on %s", s.listenerAddr.Load())
	return nil
}

// Stop shuts the listener down gracefully. It is a no-op if the server is not
// running.
func (s *IngestServer) Stop() {
	if !s.state.CompareAndSwap(stateRunning, stateStopped) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("Failed to shut down ingest server cleanly")
	}
}

func (s *IngestServer) IsRunning() bool {
	return s.state.Load() == stateRunning
}

// Addr reports the address the listener is bound to, which may differ from
// the configured address when an ephemeral port is requested.
func (s *IngestServer) Addr() string {
	if addr, ok := s.listenerAddr.Load().(string); ok {
		return addr
	}
	return s.bindAddress
}

func enforceMethod(method string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			respondError(w, http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed", r.Method))
			return
		}
		next.ServeHTTP(w, r)
	})
}
