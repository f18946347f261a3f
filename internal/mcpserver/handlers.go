package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/infenix/sysdiag/internal/config"
	"github.com/infenix/sysdiag/internal/engine"
)

// handleDiagnose runs engine.Diagnose with options built from the
// tool's boolean arguments, grounded on handleGetHealth's
// config-from-args-then-collect-then-marshal shape.
func handleDiagnose(eng *engine.Engine) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)

		opts := config.DefaultDiagnoseOptions()
		opts.IncludeHardware = boolArg(args, "include_hardware", opts.IncludeHardware)
		opts.IncludeKernel = boolArg(args, "include_kernel", opts.IncludeKernel)
		opts.IncludeLogs = boolArg(args, "include_logs", opts.IncludeLogs)
		opts.GenerateRecommendations = boolArg(args, "generate_recommendations", opts.GenerateRecommendations)

		env := eng.Diagnose(ctx, opts)
		return envelopeResult(env)
	}
}

// handleInterpretQuery classifies a free-form query string.
func handleInterpretQuery(eng *engine.Engine) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)
		query := stringArg(args, "query", "")
		if query == "" {
			return errResult("query is required"), nil
		}
		return envelopeResult(eng.InterpretQuery(query))
	}
}

// handleGenerateRecommendations re-collects hardware/logs (per the
// requested flags) via a fresh Diagnose, then runs the recommendation
// engine over the result.
func handleGenerateRecommendations(eng *engine.Engine) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)

		opts := config.DiagnoseOptions{
			IncludeHardware:         boolArg(args, "include_hardware", true),
			IncludeKernel:           true,
			IncludeLogs:             boolArg(args, "include_logs", true),
			LogSources:              config.DefaultDiagnoseOptions().LogSources,
			GenerateRecommendations: false,
		}

		diagEnv := eng.Diagnose(ctx, opts)
		if !diagEnv.Success {
			return errResult(diagEnv.Error), nil
		}
		d, ok := diagEnv.Payload.(engine.Diagnostic)
		if !ok {
			return errResult("unexpected diagnose payload"), nil
		}

		env := eng.GenerateRecommendations(&d)
		return envelopeResult(env)
	}
}

// handleRunHardwareDiagnostics runs the named hardware analyzers (or
// all of them, when components is empty) and reports pass/fail.
func handleRunHardwareDiagnostics(eng *engine.Engine) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)
		raw := stringArg(args, "components", "")

		components := map[string]bool{}
		if raw != "" {
			for _, name := range strings.Split(raw, ",") {
				name = strings.TrimSpace(name)
				if name != "" {
					components[name] = true
				}
			}
		}

		env := eng.RunHardwareDiagnostics(ctx, components)
		return envelopeResult(env)
	}
}

// getArgs safely extracts the arguments map from a CallToolRequest.
func getArgs(request mcp.CallToolRequest) map[string]interface{} {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}
	}
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return args
}

// stringArg extracts a string argument with a default value.
func stringArg(args map[string]interface{}, key, defaultVal string) string {
	val, ok := args[key]
	if !ok || val == nil {
		return defaultVal
	}
	s, ok := val.(string)
	if !ok || s == "" {
		return defaultVal
	}
	return s
}

// boolArg extracts a bool argument with a default value.
func boolArg(args map[string]interface{}, key string, defaultVal bool) bool {
	val, ok := args[key]
	if !ok || val == nil {
		return defaultVal
	}
	b, ok := val.(bool)
	if !ok {
		return defaultVal
	}
	return b
}

// envelopeResult marshals an engine.Envelope to a tool result,
// surfacing Envelope.Success as the MCP-level IsError flag rather
// than a transport error — diagnose/recommend failures are domain
// results, not protocol failures.
func envelopeResult(env engine.Envelope) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return errResult(fmt.Sprintf("json marshal failed: %v", err)), nil
	}
	if !env.Success {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(jsonData)}},
		}, nil
	}
	return newTextResult(string(jsonData)), nil
}

// newTextResult creates a successful MCP tool result with text content.
func newTextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// errResult creates an MCP tool error result (IsError=true).
func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
	}
}
