// Package mcpserver wraps internal/engine.Engine in a stdio MCP
// server, grounded on the teacher's internal/mcp/server.go — same
// server library, same NewMCPServer/AddTool/stdio-listen shape,
// retargeted from melisai's get_health/collect_metrics tool set to
// sysdiag's diagnose/interpret_query/generate_recommendations/
// run_hardware_diagnostics.
package mcpserver

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/infenix/sysdiag/internal/engine"
)

// Server wraps the MCP server instance bound to one Engine.
type Server struct {
	mcpServer *server.MCPServer
}

// NewServer creates a stdio MCP server exposing the engine façade.
func NewServer(version string, eng *engine.Engine) *Server {
	s := server.NewMCPServer("sysdiag", version, server.WithLogging())
	registerTools(s, eng)
	return &Server{mcpServer: s}
}

// Start runs the server in stdio mode (blocking) until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	stdioServer := server.NewStdioServer(s.mcpServer)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

func registerTools(s *server.MCPServer, eng *engine.Engine) {
	diagnoseTool := mcp.NewTool("diagnose",
		mcp.WithDescription("Run a full diagnostic snapshot: hardware, kernel config, and log analysis, plus recommendations."),
		mcp.WithBoolean("include_hardware", mcp.Description("Include hardware subsystem analysis"), mcp.DefaultBool(true)),
		mcp.WithBoolean("include_kernel", mcp.Description("Include kernel config analysis"), mcp.DefaultBool(true)),
		mcp.WithBoolean("include_logs", mcp.Description("Include log pipeline analysis"), mcp.DefaultBool(true)),
		mcp.WithBoolean("generate_recommendations", mcp.Description("Generate recommendations from the snapshot"), mcp.DefaultBool(true)),
	)
	s.AddTool(diagnoseTool, handleDiagnose(eng))

	queryTool := mcp.NewTool("interpret_query",
		mcp.WithDescription("Classify a free-form English question into an intent (hardware, kernel, logs, performance, diagnostic, general) plus component/timeframe/severity slots."),
		mcp.WithString("query", mcp.Required(), mcp.Description("The free-form question to classify")),
	)
	s.AddTool(queryTool, handleInterpretQuery(eng))

	recTool := mcp.NewTool("generate_recommendations",
		mcp.WithDescription("Run a fresh diagnose() snapshot (kernel config always, hardware and logs per the flags below) and generate prioritized, explained recommendations from it."),
		mcp.WithBoolean("include_hardware", mcp.Description("Re-collect hardware before recommending"), mcp.DefaultBool(true)),
		mcp.WithBoolean("include_logs", mcp.Description("Re-collect logs before recommending"), mcp.DefaultBool(true)),
	)
	s.AddTool(recTool, handleGenerateRecommendations(eng))

	hwTool := mcp.NewTool("run_hardware_diagnostics",
		mcp.WithDescription("Run hardware analyzers for the named components (or all, if omitted) and report pass/fail status."),
		mcp.WithString("components", mcp.Description("Comma-separated component names: cpu,memory,storage,network,pci,usb,graphics")),
	)
	s.AddTool(hwTool, handleRunHardwareDiagnostics(eng))
}
