package cmd

import (
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"screenpilot/internal/locator"
	"screenpilot/internal/platform"
)

// mcpServer wraps the MCP server with the platform provider, finder, and
// element cache. The cache outlives individual tool calls, so IDs handed out
// by an annotated screenshot remain clickable until the TTL expires.
type mcpServer struct {
	provider   *platform.Provider
	finder     *locator.Finder
	providerMu sync.Mutex
	mcp        *mcpserver.MCPServer
}

// newMCPServer creates and configures an MCP server with all screenpilot tools.
func newMCPServer(display string) (*mcpServer, error) {
	provider, err := platform.NewProvider(display)
	if err != nil {
		return nil, err
	}

	s := &mcpServer{
		provider: provider,
		finder:   locator.NewFinder(provider, locator.DefaultFinderConfig()),
	}

	s.mcp = mcpserver.NewMCPServer(
		"screenpilot",
		"1.0.0",
	)

	s.registerTools()
	return s, nil
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve(transport string, port int) error {
	switch transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", transport)
	}
}

func (s *mcpServer) registerTools() {
	// find
	s.mcp.AddTool(
		mcp.NewTool("find",
			mcp.WithDescription("Find UI elements by name, role, or application. Searches the accessibility tree first, then falls back to OCR for name matches."),
			mcp.WithString("name", mcp.Description("Element name or description (partial, case-insensitive)")),
			mcp.WithString("role", mcp.Description("Element role, e.g. 'button', 'entry' (partial)")),
			mcp.WithString("app", mcp.Description("Owning application name (partial)")),
			mcp.WithBoolean("all", mcp.Description("Return all matches instead of the first")),
			mcp.WithBoolean("visible-only", mcp.Description("Only visible elements")),
			mcp.WithBoolean("interactive", mcp.Description("List interactive elements instead of querying")),
			mcp.WithNumber("max-results", mcp.Description("Cap the number of results (default: 50)")),
		),
		s.handleFind,
	)

	// wait
	s.mcp.AddTool(
		mcp.NewTool("wait",
			mcp.WithDescription("Wait for a UI condition: an element or text appearing, or an element disappearing. Polls with exponential backoff."),
			mcp.WithString("name", mcp.Description("Wait for an element with this name")),
			mcp.WithString("role", mcp.Description("Wait for an element with this role")),
			mcp.WithString("app", mcp.Description("Scope to this application")),
			mcp.WithString("text", mcp.Description("Wait for this text on screen (OCR)")),
			mcp.WithBoolean("gone", mcp.Description("Invert: wait until no element matches")),
			mcp.WithNumber("timeout", mcp.Description("Max seconds to wait (default: 10)")),
		),
		s.handleWait,
	)

	// click
	s.mcp.AddTool(
		mcp.NewTool("click",
			mcp.WithDescription("Click on a UI element by name, cached ID, or screen coordinates"),
			mcp.WithString("name", mcp.Description("Find and click the element with this name")),
			mcp.WithString("role", mcp.Description("Restrict the name search to this role")),
			mcp.WithString("app", mcp.Description("Restrict the name search to this application")),
			mcp.WithNumber("id", mcp.Description("Click the element with this screenshot marker ID")),
			mcp.WithNumber("x", mcp.Description("Click at X coordinate")),
			mcp.WithNumber("y", mcp.Description("Click at Y coordinate")),
			mcp.WithString("button", mcp.Description("Mouse button: left, right, middle")),
			mcp.WithBoolean("double", mcp.Description("Double-click")),
		),
		s.handleClick,
	)

	// type
	s.mcp.AddTool(
		mcp.NewTool("type",
			mcp.WithDescription("Type text into the focused element, or press a key combination"),
			mcp.WithString("text", mcp.Description("Text to type")),
			mcp.WithString("key", mcp.Description("Key combo in xdotool syntax (e.g. 'Return', 'ctrl+s')")),
			mcp.WithNumber("delay", mcp.Description("Per-character delay in ms (default: 12)")),
		),
		s.handleType,
	)

	// scroll
	s.mcp.AddTool(
		mcp.NewTool("scroll",
			mcp.WithDescription("Scroll at a position. Positive dy scrolls down, positive dx scrolls right."),
			mcp.WithNumber("x", mcp.Description("X position (default: current pointer)")),
			mcp.WithNumber("y", mcp.Description("Y position (default: current pointer)")),
			mcp.WithNumber("dx", mcp.Description("Horizontal scroll amount")),
			mcp.WithNumber("dy", mcp.Description("Vertical scroll amount")),
		),
		s.handleScroll,
	)

	// screenshot
	s.mcp.AddTool(
		mcp.NewTool("screenshot",
			mcp.WithDescription("Capture the screen, downsampled and annotated with numbered markers on interactive elements. Marker IDs are usable with the click tool."),
			mcp.WithString("app", mcp.Description("Only mark elements of this application")),
			mcp.WithBoolean("plain", mcp.Description("Skip annotation markers")),
		),
		s.handleScreenshot,
	)

	// ocr
	s.mcp.AddTool(
		mcp.NewTool("ocr",
			mcp.WithDescription("Read all text visible on screen via OCR"),
			mcp.WithString("text", mcp.Description("Only report occurrences of this text")),
			mcp.WithString("regex", mcp.Description("Only report words matching this regular expression (case-insensitive)")),
		),
		s.handleOCR,
	)

	// windows
	s.mcp.AddTool(
		mcp.NewTool("windows",
			mcp.WithDescription("List windows, optionally filtered by title pattern"),
			mcp.WithString("pattern", mcp.Description("Title pattern to filter by")),
		),
		s.handleWindows,
	)

	// focus
	s.mcp.AddTool(
		mcp.NewTool("focus",
			mcp.WithDescription("Focus the first window whose title matches a pattern"),
			mcp.WithString("pattern", mcp.Description("Title pattern"), mcp.Required()),
		),
		s.handleFocus,
	)
}

// StringParam extracts a string parameter from MCP arguments.
func StringParam(params map[string]interface{}, key, def string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return def
}

// IntParam extracts an int parameter (MCP numbers arrive as float64).
func IntParam(params map[string]interface{}, key string, def int) int {
	if v, ok := params[key].(float64); ok {
		return int(v)
	}
	return def
}

// BoolParam extracts a bool parameter.
func BoolParam(params map[string]interface{}, key string, def bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return def
}
