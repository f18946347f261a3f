package mcpserver

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/infenix/sysdiag/internal/config"
	"github.com/infenix/sysdiag/internal/engine"
	"github.com/infenix/sysdiag/internal/sysaccess"
)

func testEngine() *engine.Engine {
	return engine.New(sysaccess.NewMockSystem(), config.DefaultRoots(), nil)
}

func TestGetArgs_NilArguments(t *testing.T) {
	args := getArgs(mcp.CallToolRequest{})
	require.NotNil(t, args)
	require.Empty(t, args)
}

func TestGetArgs_WrongType(t *testing.T) {
	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: "not a map"}}
	require.Empty(t, getArgs(req))
}

func TestStringArg(t *testing.T) {
	args := map[string]interface{}{"name": "hello"}
	require.Equal(t, "hello", stringArg(args, "name", "default"))
	require.Equal(t, "default", stringArg(args, "missing", "default"))
}

func TestBoolArg(t *testing.T) {
	args := map[string]interface{}{"flag": false}
	require.Equal(t, false, boolArg(args, "flag", true))
	require.Equal(t, true, boolArg(args, "missing", true))
	require.Equal(t, true, boolArg(map[string]interface{}{"flag": "not-a-bool"}, "flag", true))
}

func TestHandleInterpretQuery_RequiresQuery(t *testing.T) {
	h := handleInterpretQuery(testEngine())
	res, err := h(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.True(t, res.IsError)
}

func TestHandleInterpretQuery_ClassifiesQuery(t *testing.T) {
	h := handleInterpretQuery(testEngine())
	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: map[string]interface{}{
		"query": "why is my cpu so slow",
	}}}
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	require.Contains(t, text.Text, "performance")
}

func TestHandleDiagnose_DefaultsSucceed(t *testing.T) {
	h := handleDiagnose(testEngine())
	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: map[string]interface{}{
		"include_kernel": false,
	}}}
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)
}

func TestHandleRunHardwareDiagnostics_FiltersByComponent(t *testing.T) {
	h := handleRunHardwareDiagnostics(testEngine())
	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: map[string]interface{}{
		"components": "cpu, memory",
	}}}
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	require.Contains(t, text.Text, "cpu")
	require.Contains(t, text.Text, "memory")
}
