// Package mcp exposes a harbor.Manager as Model Context Protocol tools.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/aretw0/harbor"
	"github.com/aretw0/harbor/pkg/domain"
	manager "github.com/aretw0/harbor/pkg/harbor"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// collectionURI names the resource holding the collection text.
const collectionURI = "harbor://collection"

// PortSummary is one entry of list_ports.
type PortSummary struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Ships    int    `json:"ships"`
}

// Server wraps a Manager and exposes it as an MCP Server.
type Server struct {
	manager   *manager.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(m *manager.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		manager:   m,
		logger:    logger,
		mcpServer: server.NewMCPServer("harbor-mcp", strings.TrimSpace(harbor.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_ports",
		mcp.WithDescription("List every port with its capacity and number of parked ships."),
	), s.handleListPorts)

	s.mcpServer.AddTool(mcp.NewTool("add_port",
		mcp.WithDescription("Create an empty port. An existing port with the same name is kept."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Port name")),
	), s.handleAddPort)

	s.mcpServer.AddTool(mcp.NewTool("delete_port",
		mcp.WithDescription("Delete a port together with its ships."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Port name")),
	), s.handleDeletePort)

	s.mcpServer.AddTool(mcp.NewTool("park_ship",
		mcp.WithDescription("Park a ship in the first free place of a port."),
		mcp.WithString("port", mcp.Required(), mcp.Description("Port name")),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Ship kind"),
			mcp.Enum(string(domain.KindDefault), string(domain.KindMotor))),
		mcp.WithString("payload", mcp.Required(),
			mcp.Description("Comma separated fields, e.g. 100,200,true or 100,200,true,false,true,false")),
	), s.handleParkShip)

	s.mcpServer.AddTool(mcp.NewTool("take_ship",
		mcp.WithDescription("Take the ship at a place index. Later ships move one place left."),
		mcp.WithString("port", mcp.Required(), mcp.Description("Port name")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based place index")),
	), s.handleTakeShip)

	s.mcpServer.AddTool(mcp.NewTool("dump_collection",
		mcp.WithDescription("Return the whole collection in its text format."),
	), s.handleDump)
}

func (s *Server) handleListPorts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := s.manager.Names()
	out := make([]PortSummary, 0, len(names))
	for _, name := range names {
		view, err := s.manager.Port(name)
		if err != nil {
			continue
		}
		out = append(out, PortSummary{Name: name, Capacity: view.Capacity, Ships: len(view.Ships)})
	}
	jsonBytes, _ := json.Marshal(out)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleAddPort(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}
	name, err = domain.SanitizeName(name)
	if err != nil {
		s.logger.Warn("MCP add_port: Name rejected", "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !s.manager.AddPort(name) {
		return mcp.NewToolResultText(fmt.Sprintf("port %q already exists", name)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("port %q added", name)), nil
}

func (s *Server) handleDeletePort(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}
	if !s.manager.DelPort(name) {
		return mcp.NewToolResultError(fmt.Sprintf("port %q not found", name)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("port %q deleted", name)), nil
}

func (s *Server) handleParkShip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	port := request.GetString("port", "")
	kind := request.GetString("kind", "")
	payload := request.GetString("payload", "")

	ship, err := domain.Decode(kind, payload)
	if err != nil {
		s.logger.Warn("MCP park_ship: Decode rejected", "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	idx, err := s.manager.Park(port, ship)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("parked %s %s at place %d of %q", kind, ship.Describe(), idx, port)), nil
}

func (s *Server) handleTakeShip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	port := request.GetString("port", "")
	raw, err := request.RequireFloat("index")
	if err != nil {
		return mcp.NewToolResultError("index is required"), nil
	}
	if raw != math.Trunc(raw) {
		return mcp.NewToolResultError(fmt.Sprintf("index must be a whole number, got %v", raw)), nil
	}
	index := int(raw)

	ship, err := s.manager.Take(port, index)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(ship.Kind()) + domain.Separator + ship.Describe()), nil
}

func (s *Server) handleDump(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	if err := s.manager.Dump(&buf); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dump failed: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(collectionURI, "Port Collection",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		var buf bytes.Buffer
		if err := s.manager.Dump(&buf); err != nil {
			return nil, fmt.Errorf("failed to dump collection: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      collectionURI,
				MIMEType: "text/plain",
				Text:     buf.String(),
			},
		}, nil
	})
}
