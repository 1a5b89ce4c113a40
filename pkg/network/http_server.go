package network

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/meta-node-blockchain/benor-node/pkg/benor"
	"github.com/meta-node-blockchain/benor-node/pkg/common"
	"github.com/meta-node-blockchain/benor-node/pkg/logger"
	t_network "github.com/meta-node-blockchain/benor-node/types/network"
)

// HTTPServer exposes a node's message surface over HTTP:
//
//	GET  /status   -> 200 "live" | 500 "faulty"
//	POST /message  -> 200 | 400 malformed | 500 killed
//	GET  /start    -> 200 | 500 not ready or killed
//	GET  /stop     -> 200, idempotent
//	GET  /getState -> 200 with the construction-time snapshot
type HTTPServer struct {
	addr    string
	handler *Handler
	srv     *http.Server
}

// NewHTTPServer binds a command handler to an address. Listen must be called
// to start serving.
func NewHTTPServer(addr string, handler *Handler) *HTTPServer {
	return &HTTPServer{addr: addr, handler: handler}
}

// Listen starts serving and blocks until the server is shut down. The
// returned listener error is nil after a clean Stop.
func (s *HTTPServer) Listen() error {
	s.srv = &http.Server{Addr: s.addr, Handler: s.Mux()}
	logger.Info("node shell listening on %s", s.addr)
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Mux returns the route table without starting a listener; tests serve it
// through httptest.
func (s *HTTPServer) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.command(common.StatusCommand, http.MethodGet))
	mux.HandleFunc("/message", s.message)
	mux.HandleFunc("/start", s.command(common.StartCommand, http.MethodGet))
	mux.HandleFunc("/stop", s.command(common.StopCommand, http.MethodGet))
	mux.HandleFunc("/getState", s.getState)
	return mux
}

// Stop shuts the listener down, draining in-flight requests briefly.
func (s *HTTPServer) Stop() {
	if s.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		logger.Warn("http server shutdown: %v", err)
	}
}

// Addr returns the configured listen address.
func (s *HTTPServer) Addr() string {
	host, port, err := net.SplitHostPort(s.addr)
	if err != nil {
		return s.addr
	}
	if host == "" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}

func (s *HTTPServer) command(name, method string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		body, err := s.handler.HandleRequest(&t_network.Request{Command: name})
		writeResult(w, body, err)
	}
}

func (s *HTTPServer) message(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeResult(w, "", benor.ErrMalformedMessage)
		return
	}
	env, err := UnmarshalEnvelope(data)
	if err != nil {
		writeResult(w, "", benor.ErrMalformedMessage)
		return
	}
	req := env.Request()
	req.Command = common.MessageCommand
	body, err := s.handler.HandleRequest(req)
	writeResult(w, body, err)
}

func (s *HTTPServer) getState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := s.handler.HandleRequest(&t_network.Request{Command: common.GetStateCommand})
	if err != nil {
		writeResult(w, "", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

// writeResult maps the core's error taxonomy onto HTTP status codes.
// Malformed input is the caller's fault; everything else that fails is a 500
// the caller may or may not retry (ErrClusterNotReady is retryable,
// ErrNodeKilled is permanent).
func writeResult(w http.ResponseWriter, body string, err error) {
	switch {
	case err == nil:
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	case errors.Is(err, benor.ErrMalformedMessage):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, benor.ErrNodeFaulty):
		http.Error(w, common.ResponseFaulty, http.StatusInternalServerError)
	case errors.Is(err, ErrRateLimited):
		http.Error(w, err.Error(), http.StatusTooManyRequests)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
