package main

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// binaryPath is set by TestMain after building the binary.
var binaryPath string

func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	tmp, err := os.MkdirTemp("", "comptree-integration-*")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(tmp, "comptree")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	code := m.Run()
	os.RemoveAll(tmp)
	os.Exit(code)
}

// --- helpers ---

func skipIfNotIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run integration tests")
	}
}

// startServer launches comptree serve as a subprocess and returns an
// initialized MCP client.
func startServer(t *testing.T) *client.Client {
	t.Helper()

	c, err := client.NewStdioMCPClient(binaryPath, nil, "serve")
	require.NoError(t, err, "failed to start MCP server")
	t.Cleanup(func() { c.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "comptree-integration-test",
		Version: "1.0.0",
	}

	result, err := c.Initialize(ctx, initReq)
	require.NoError(t, err, "failed to initialize MCP session")
	assert.Equal(t, "comptree", result.ServerInfo.Name)

	return c
}

func callToolHelper(t *testing.T, c *client.Client, toolName string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req := mcp.CallToolRequest{}
	req.Params.Name = toolName
	if args != nil {
		req.Params.Arguments = args
	}

	result, err := c.CallTool(ctx, req)
	require.NoError(t, err, "CallTool(%s) failed", toolName)
	return result
}

func extractText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content, "expected content in result")
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- integration tests ---

func TestIntegration_BuildToggleReparse(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	dir := sampleProject(t, "@/")
	entry := filepath.Join(dir, "src", "index.tsx")

	result := callToolHelper(t, c, "build_tree", map[string]any{"entry": entry})
	require.False(t, result.IsError, extractText(t, result))
	assert.Contains(t, extractText(t, result), "Header ×2")

	result = callToolHelper(t, c, "find_nodes", map[string]any{"entry": entry, "name": "App"})
	require.False(t, result.IsError)
	var matches []map[string]any
	require.NoError(t, json.Unmarshal([]byte(extractText(t, result)), &matches))
	require.Len(t, matches, 1)

	result = callToolHelper(t, c, "toggle_node", map[string]any{"entry": entry, "id": matches[0]["id"]})
	require.False(t, result.IsError, extractText(t, result))

	appFile := filepath.Join(dir, "src", "App.tsx")
	require.NoError(t, os.WriteFile(appFile, []byte(`
import Header from "@/components/Header";

export default function App() {
  return <Header />;
}
`), 0644))

	result = callToolHelper(t, c, "reparse_file", map[string]any{"entry": entry, "file": appFile})
	require.False(t, result.IsError, extractText(t, result))
	text := extractText(t, result)
	assert.Contains(t, text, "Header")
	assert.NotContains(t, text, "Header ×2")

	// App kept its ID and expansion across the reparse.
	result = callToolHelper(t, c, "find_nodes", map[string]any{"entry": entry, "name": "App"})
	require.NoError(t, json.Unmarshal([]byte(extractText(t, result)), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, true, matches[0]["expanded"])
}

func TestIntegration_GetTreeBeforeBuild(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	result := callToolHelper(t, c, "get_tree", map[string]any{"entry": "/nowhere/src/index.tsx"})
	assert.True(t, result.IsError)
}
