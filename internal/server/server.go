package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"siren/internal/config"
	"siren/internal/oauth"
	"siren/internal/tools"
	"siren/pkg/logging"
)

const (
	// readHeaderTimeout bounds how long a client may take to send
	// request headers.
	readHeaderTimeout = 10 * time.Second

	// shutdownTimeout bounds graceful shutdown.
	shutdownTimeout = 5 * time.Second
)

// Server wires the authorization gateway, the request gate, and the MCP
// endpoint into one HTTP server.
type Server struct {
	cfg      config.Config
	registry *oauth.ClientRegistry

	mcpServer  *mcpserver.MCPServer
	streamable *mcpserver.StreamableHTTPServer
	httpServer *http.Server
}

// New assembles a server from the given configuration and registry. The
// registry is injected so its lifecycle stays with the caller.
func New(cfg config.Config, registry *oauth.ClientRegistry, version string) *Server {
	s := &Server{
		cfg:      cfg,
		registry: registry,
	}

	s.mcpServer = mcpserver.NewMCPServer(
		"siren",
		version,
		mcpserver.WithToolCapabilities(true),
	)
	tools.NewProvider(cfg.Backend).Register(s.mcpServer)

	// The streamable transport builds its own handler context; carry the
	// gate's credential over from the HTTP request so tool handlers see
	// it.
	s.streamable = mcpserver.NewStreamableHTTPServer(
		s.mcpServer,
		mcpserver.WithHTTPContextFunc(injectCredential),
		mcpserver.WithStateLess(true),
	)

	s.httpServer = &http.Server{
		Addr:              cfg.Server.ListenAddr(),
		Handler:           s.createMux(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return s
}

// createMux builds the route table. The OAuth endpoints are open; /mcp is
// wrapped by the request gate.
func (s *Server) createMux() http.Handler {
	gatewayHandler := oauth.NewHandler(s.registry, s.cfg.OAuth)
	gate := oauth.NewAuthenticator(s.cfg.OAuth)

	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("/.well-known/oauth-authorization-server", gatewayHandler.HandleMetadata)
	mux.HandleFunc("/register", gatewayHandler.HandleRegister)
	mux.HandleFunc("/login", gatewayHandler.HandleAuthorize)
	mux.HandleFunc("/token", gatewayHandler.HandleToken)

	mux.Handle("/mcp", gate.Middleware(http.HandlerFunc(s.handleMCP)))

	return mux
}

// handleMCP dispatches the gated /mcp endpoint by method: GET opens the
// event stream, everything else goes to the MCP transport.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		s.handleEvents(w, r)
		return
	}
	s.streamable.ServeHTTP(w, r)
}

// injectCredential copies the gate's credential from the HTTP request into
// the context handed to tool handlers.
func injectCredential(ctx context.Context, r *http.Request) context.Context {
	if cred, ok := oauth.CredentialFromContext(r.Context()); ok {
		return oauth.ContextWithCredential(ctx, cred)
	}
	return ctx
}

// Start begins serving. It blocks until the listener fails or Stop is
// called.
func (s *Server) Start() error {
	logging.Info("Server", "Listening on %s (public URL %s)", s.httpServer.Addr, s.cfg.OAuth.PublicBaseURL)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down and closes the registry.
func (s *Server) Stop(ctx context.Context) error {
	logging.Info("Server", "Shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.registry.Close()
	return err
}

// Handler exposes the assembled route table for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
