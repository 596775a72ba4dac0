package mcp

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/kprof/pkg/processor"
	"github.com/macropower/kprof/pkg/profile"
	"github.com/macropower/kprof/pkg/version"
)

const shutdownTimeout = 5 * time.Second

// ErrDirNotAllowed is returned when a tool call names a directory outside the
// server's directory while serving HTTP.
var ErrDirNotAllowed = errors.New("directory not allowed")

// Resolver resolves profiles for the tools.
type Resolver interface {
	Find(ctx context.Context, name, dir string) (*profile.Profile, error)
	Blend(ctx context.Context, kind profile.Kind, name, dir string, override processor.Config) (processor.Config, error)
	Names(ctx context.Context, dir string) ([]string, error)
}

// Server implements the MCP server for kprof.
type Server struct {
	resolver   Resolver
	server     *mcp.Server
	tracer     trace.Tracer
	address    string
	defaultDir string
}

// ServerOpt configures a [Server].
type ServerOpt func(*Server)

// WithAddress serves streamable HTTP on address instead of stdio. Tool calls
// may then only name the default directory or directories below it.
func WithAddress(address string) ServerOpt {
	return func(s *Server) {
		s.address = address
	}
}

// WithDefaultDir sets the project directory used when a tool call omits one.
func WithDefaultDir(dir string) ServerOpt {
	return func(s *Server) {
		s.defaultDir = dir
	}
}

// NewServer creates a new MCP server instance.
func NewServer(resolver Resolver, opts ...ServerOpt) *Server {
	s := &Server{
		resolver: resolver,
		tracer:   otel.Tracer("mcp-server"),
		server: mcp.NewServer(&mcp.Implementation{
			Name:    name,
			Version: version.GetVersion(),
		}, &mcp.ServerOptions{
			Instructions: instructions,
		}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_profiles",
		Description: "List the names of all profiles available for a project directory.",
	}, WithTracing(s.tracer, s.handleListProfiles))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_profile",
		Description: "Resolve a profile by name, merging every layer and its parent profile. You MUST use a name from the list_profiles output.",
	}, WithTracing(s.tracer, s.handleFindProfile))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "blend_configuration",
		Description: "Get the generator, enricher or watcher configuration of a profile with overrides applied.",
	}, WithTracing(s.tracer, s.handleBlendConfiguration))
}

// dir returns the project directory for a tool call. Over HTTP, dir must be
// the default directory or below it.
func (s *Server) dir(dir string) (string, error) {
	if dir == "" {
		return s.defaultDir, nil
	}

	if s.address == "" {
		return dir, nil
	}

	root := s.defaultDir
	if root == "" {
		root = "."
	}

	rootPath, err := realPath(root)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", root, err)
	}

	dirPath, err := realPath(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}

	rel, err := filepath.Rel(rootPath, dirPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is outside %s", ErrDirNotAllowed, dir, root)
	}

	return dirPath, nil
}

// realPath returns the absolute path of p with symlinks resolved. Paths that
// do not exist are only made absolute.
func realPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err //nolint:wrapcheck // Wrapped by the caller.
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return abs, nil
	}
	if err != nil {
		return "", err //nolint:wrapcheck // Wrapped by the caller.
	}

	return resolved, nil
}

// Server returns the underlying MCP server.
func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve runs the server until ctx is canceled or the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	if s.address == "" {
		err := s.server.Run(ctx, &mcp.StdioTransport{})
		if err != nil {
			return fmt.Errorf("serve stdio: %w", err)
		}

		return nil
	}

	err := s.serveHTTP(ctx)
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	server := &http.Server{
		Addr:    s.address,
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}

		return nil

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}

		return nil
	}
}
