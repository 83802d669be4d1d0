// Package mcp exposes the search, analysis, and store operations as MCP
// tools over stdio or SSE. Tool parameters are generated from the domain
// schema so the surface always matches the filterable fields.
package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/veldt-labs/scout/internal/domain/record"
	"github.com/veldt-labs/scout/internal/domain/search/request"
	"github.com/veldt-labs/scout/internal/domain/search/result"
)

// SearchService is the search contract the tools consume.
type SearchService interface {
	Search(ctx context.Context, req request.Request) ([]result.Match, error)
}

// StoreService is the persistence contract the store tools consume.
type StoreService interface {
	Store(ctx context.Context, rec record.Record) (string, error)
	StoreBatch(ctx context.Context, recs []record.Record) ([]string, error)
}

// Server wraps the MCP protocol server and the registered tool set.
type Server struct {
	mcp    *server.MCPServer
	logger *zap.Logger
}

// New creates an MCP server shell. Tools are registered separately so each
// deployment exposes only the domains it is configured for.
func New(name, version string, logger *zap.Logger) *Server {
	s := server.NewMCPServer(name, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	return &Server{mcp: s, logger: logger}
}

// ServeStdio blocks serving the MCP protocol on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.logger.Info("serving MCP over stdio")
	if err := server.ServeStdio(s.mcp); err != nil {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

// ServeSSE blocks serving the MCP protocol over SSE on the given address.
func (s *Server) ServeSSE(addr string) error {
	s.logger.Info("serving MCP over SSE", zap.String("addr", addr))
	sse := server.NewSSEServer(s.mcp)
	if err := sse.Start(addr); err != nil {
		return fmt.Errorf("sse server: %w", err)
	}
	return nil
}
