package cmd

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"screenpilot/internal/annotate"
	"screenpilot/internal/locator"
	"screenpilot/internal/model"
	"screenpilot/internal/output"
	"screenpilot/internal/platform"
)

func toYAML(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}
	return string(b)
}

func (s *mcpServer) handleFind(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	q := platform.Query{
		Name: StringParam(params, "name", ""),
		Role: StringParam(params, "role", ""),
		App:  StringParam(params, "app", ""),
	}
	all := BoolParam(params, "all", false)
	visibleOnly := BoolParam(params, "visible-only", true)
	interactive := BoolParam(params, "interactive", false)
	maxResults := IntParam(params, "max-results", 0)

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	if interactive {
		elements := s.finder.ListInteractive(q.App, visibleOnly)
		return mcp.NewToolResultText(toYAML(output.FindResult{
			Query:    "interactive elements",
			Count:    len(elements),
			Elements: elements,
		})), nil
	}

	if q.Name == "" && q.Role == "" && q.App == "" {
		return mcp.NewToolResultError("specify at least one of name, role, or app"), nil
	}

	var elements []model.Element
	if all {
		elements = s.finder.FindAll(q, locator.FindAllOptions{
			VisibleOnly: visibleOnly,
			MaxResults:  maxResults,
		})
	} else if el := s.finder.Find(q, visibleOnly); el != nil {
		elements = append(elements, *el)
	}
	return mcp.NewToolResultText(toYAML(output.FindResult{
		Query:    q.Describe(),
		Count:    len(elements),
		Elements: elements,
	})), nil
}

func (s *mcpServer) handleWait(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	q := platform.Query{
		Name: StringParam(params, "name", ""),
		Role: StringParam(params, "role", ""),
		App:  StringParam(params, "app", ""),
	}
	text := StringParam(params, "text", "")
	gone := BoolParam(params, "gone", false)
	timeoutSec := IntParam(params, "timeout", 0)

	if text != "" && (q.Name != "" || q.Role != "" || q.App != "") {
		return mcp.NewToolResultError("text cannot be combined with name, role, or app; use one or the other"), nil
	}
	if text == "" && q.Name == "" && q.Role == "" && q.App == "" {
		return mcp.NewToolResultError("specify a condition: text, name, role, or app"), nil
	}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	waiter := locator.NewWaiter(s.finder, locator.WaiterConfig{
		Timeout: time.Duration(timeoutSec) * time.Second,
	})

	ctx := context.Background()
	var res *locator.WaitResult
	var err error
	switch {
	case gone:
		res, err = waiter.WaitUntilGone(ctx, q)
	case text != "":
		res, err = waiter.WaitForText(ctx, text, false, false)
	default:
		res, err = waiter.WaitForElement(ctx, q, true)
	}

	var timeoutErr *locator.TimeoutError
	if errors.As(err, &timeoutErr) {
		return mcp.NewToolResultError(toYAML(output.WaitOutcome{
			Found: false,
			Error: timeoutErr.Error(),
		})), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toYAML(output.WaitOutcome{
		Found:     true,
		ElapsedMs: res.Elapsed.Milliseconds(),
		Polls:     res.Polls,
		Element:   res.Element,
	})), nil
}

func (s *mcpServer) handleClick(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	name := StringParam(params, "name", "")
	id := IntParam(params, "id", 0)
	x := IntParam(params, "x", -1)
	y := IntParam(params, "y", -1)
	buttonStr := StringParam(params, "button", "left")
	double := BoolParam(params, "double", false)

	button, err := platform.ParseMouseButton(buttonStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	var via string
	switch {
	case x >= 0 && y >= 0:
		via = "coordinates"
	case id > 0:
		if w, h, serr := s.provider.Screen.Size(); serr == nil {
			elementCache.CheckScreenSize(w, h)
		}
		el, ok := elementCache.Get(id)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("no cached element with id %d (take a new screenshot)", id)), nil
		}
		x, y = el.Center()
		via = fmt.Sprintf("cached id %d", id)
	case name != "":
		q := platform.Query{
			Name: name,
			Role: StringParam(params, "role", ""),
			App:  StringParam(params, "app", ""),
		}
		el := s.finder.Find(q, true)
		if el == nil {
			return mcp.NewToolResultError(fmt.Sprintf("no element matching %s", q.Describe())), nil
		}
		x, y = el.Center()
		via = q.Describe()
	default:
		return mcp.NewToolResultError("specify name, id, or x and y"), nil
	}

	if err := s.provider.Inputter.Click(x, y, button, double); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	// The click likely changed the screen; stale IDs must not survive it.
	elementCache.Invalidate()
	return mcp.NewToolResultText(toYAML(output.ActionResult{Action: "click", X: x, Y: y, Via: via, OK: true})), nil
}

func (s *mcpServer) handleType(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	text := StringParam(params, "text", "")
	key := StringParam(params, "key", "")
	delay := IntParam(params, "delay", 12)

	if text == "" && key == "" {
		return mcp.NewToolResultError("specify text or key"), nil
	}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	if text != "" {
		if err := s.provider.Inputter.TypeText(text, delay); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if key != "" {
		if err := s.provider.Inputter.KeyCombo(key); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	elementCache.Invalidate()
	return mcp.NewToolResultText(toYAML(output.ActionResult{Action: "type", OK: true})), nil
}

func (s *mcpServer) handleScroll(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	x := IntParam(params, "x", -1)
	y := IntParam(params, "y", -1)
	dx := IntParam(params, "dx", 0)
	dy := IntParam(params, "dy", 0)

	if dx == 0 && dy == 0 {
		return mcp.NewToolResultError("specify dx or dy"), nil
	}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	if x < 0 || y < 0 {
		cx, cy, err := s.provider.Windows.MousePosition()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		x, y = cx, cy
	}
	if err := s.provider.Inputter.Scroll(x, y, dx, dy); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	elementCache.Invalidate()
	return mcp.NewToolResultText(toYAML(output.ActionResult{Action: "scroll", X: x, Y: y, OK: true})), nil
}

func (s *mcpServer) handleScreenshot(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	app := StringParam(params, "app", "")
	plain := BoolParam(params, "plain", false)

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	img, err := s.provider.Screen.Capture()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, scale := annotate.Downsample(img)
	marked := 0
	if !plain {
		elements := s.finder.ListInteractive(app, true)
		out = annotate.Annotate(out, elements, scale)
		if w, h, serr := s.provider.Screen.Size(); serr == nil {
			elementCache.Store(elements, w, h)
		}
		marked = len(elements)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())

	result := mcp.NewToolResultImage(
		fmt.Sprintf("%d interactive elements marked; IDs valid for %s", marked, locator.DefaultCacheTTL),
		encoded,
		"image/png",
	)
	return result, nil
}

func (s *mcpServer) handleOCR(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	text := StringParam(params, "text", "")
	pattern := StringParam(params, "regex", "")

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	if pattern != "" {
		elements, err := s.finder.FindAllTextRegex(pattern, 0)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(toYAML(output.FindResult{
			Query:    fmt.Sprintf("regex=%q", pattern),
			Count:    len(elements),
			Elements: elements,
		})), nil
	}
	if text != "" {
		elements := s.finder.FindAllText(text, false, false, 0)
		return mcp.NewToolResultText(toYAML(output.FindResult{
			Query:    fmt.Sprintf("text=%q", text),
			Count:    len(elements),
			Elements: elements,
		})), nil
	}
	words := s.finder.ReadWords()
	return mcp.NewToolResultText(toYAML(words)), nil
}

func (s *mcpServer) handleWindows(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	pattern := StringParam(params, "pattern", "")

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	var windows []model.Window
	var err error
	if pattern != "" {
		windows, err = s.provider.Windows.FindWindows(pattern)
	} else {
		windows, err = s.provider.Windows.ListWindows()
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toYAML(output.WindowsResult{Count: len(windows), Windows: windows})), nil
}

func (s *mcpServer) handleFocus(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	pattern := StringParam(params, "pattern", "")
	if pattern == "" {
		return mcp.NewToolResultError("pattern is required"), nil
	}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	id, err := s.provider.Windows.FocusWindow(pattern)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	elementCache.Invalidate()
	return mcp.NewToolResultText(toYAML(output.ActionResult{Action: fmt.Sprintf("focus window %s", id), OK: true})), nil
}
