// Package mcpserver exposes the tool registry to an MCP host over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/weather-mcp/internal/domain"
	"github.com/couchcryptid/weather-mcp/internal/observability"
	"github.com/couchcryptid/weather-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// EventPublisher receives a record of every tool call.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ToolCallEvent) error
}

// Server dispatches MCP tool calls to a tools.Registry.
type Server struct {
	mcp       *server.MCPServer
	registry  *tools.Registry
	publisher EventPublisher
	metrics   *observability.Metrics
	logger    *slog.Logger
	serving   atomic.Bool
}

// New builds an MCP server announcing every tool in reg. pub may be nil.
func New(name, version string, reg *tools.Registry, pub EventPublisher, metrics *observability.Metrics, logger *slog.Logger) (*Server, error) {
	s := &Server{
		mcp: server.NewMCPServer(
			name,
			version,
			server.WithToolCapabilities(true),
			server.WithRecovery(),
		),
		registry:  reg,
		publisher: pub,
		metrics:   metrics,
		logger:    logger,
	}

	for _, t := range reg.List() {
		schema, err := json.Marshal(t.Parameters)
		if err != nil {
			return nil, fmt.Errorf("encode schema for %s: %w", t.Name, err)
		}
		s.mcp.AddTool(mcp.NewToolWithRawSchema(t.Name, t.Description, schema), s.handle)
	}
	return s, nil
}

// Serve runs the stdio session until in reaches EOF or ctx is cancelled.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	s.serving.Store(true)
	s.metrics.SessionActive.Set(1)
	defer func() {
		s.serving.Store(false)
		s.metrics.SessionActive.Set(0)
	}()

	s.logger.Info("mcp stdio session started", "tools", len(s.registry.List()))
	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp stdio: %w", err)
	}
	s.logger.Info("mcp stdio session ended")
	return nil
}

// CheckReadiness reports ready while the stdio session is being served.
func (s *Server) CheckReadiness(_ context.Context) error {
	if !s.serving.Load() {
		return errors.New("mcp session not serving")
	}
	return nil
}

// HandleMessage processes one JSON-RPC message without a transport.
// Production traffic goes through Serve. This entry point exists for tests,
// including the Kafka integration test in another package.
func (s *Server) HandleMessage(ctx context.Context, raw json.RawMessage) mcp.JSONRPCMessage {
	return s.mcp.HandleMessage(ctx, raw)
}

func (s *Server) handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.Params.Name
	args := req.GetArguments()
	start := time.Now()

	result, err := s.registry.Execute(ctx, name, args)
	elapsed := time.Since(start)

	outcome := domain.OutcomeOK
	switch {
	case err != nil:
		outcome = domain.OutcomeError
	case result.IsError:
		outcome = domain.OutcomeToolError
	}
	s.metrics.ToolCalls.WithLabelValues(name, outcome).Inc()
	s.metrics.ToolCallDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	s.publish(ctx, domain.NewToolCallEvent(name, args, outcome, elapsed))

	switch outcome {
	case domain.OutcomeError:
		s.logger.Warn("tool call failed", "tool", name, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	case domain.OutcomeToolError:
		s.logger.Info("tool call rejected", "tool", name, "reason", result.Content)
		return mcp.NewToolResultError(result.Content), nil
	}
	s.logger.Debug("tool call completed", "tool", name, "duration", elapsed)
	return mcp.NewToolResultText(result.Content), nil
}

func (s *Server) publish(ctx context.Context, event domain.ToolCallEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("tool-call event dropped", "tool", event.Tool, "error", err)
	}
}
