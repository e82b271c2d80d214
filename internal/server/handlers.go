package server

import (
	"bytes"
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mj1618/tabshuttle/internal/model"
	"github.com/mj1618/tabshuttle/internal/output"
	"github.com/mj1618/tabshuttle/internal/scenario"
)

// toText serializes v to YAML for MCP response.
func toText(v interface{}) (string, error) {
	var buf bytes.Buffer
	if err := output.WriteYAML(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func textResult(v interface{}) *mcp.CallToolResult {
	text, err := toText(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(text)
}

func (s *Server) state() output.StateResult {
	return s.cache.Get(s.runner.State)
}

// stepHandler applies a step under the runner lock, invalidates the cache
// and replies with the resulting state.
func (s *Server) stepHandler(ctx context.Context, step scenario.Step) (*mcp.CallToolResult, error) {
	s.runnerMu.Lock()
	defer s.runnerMu.Unlock()

	err := s.runner.Apply(ctx, step)
	s.cache.Invalidate()
	if err != nil {
		s.log.Debug("tool step failed", "do", step.Do, "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textResult(s.state()), nil
}

func clickStep(do string, params map[string]interface{}) scenario.Step {
	return scenario.Step{
		Do:     do,
		Shift:  BoolParam(params, "shift", false),
		Button: IntParam(params, "button", 0),
	}
}

func (s *Server) handleListWindows(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	normalOnly := BoolParam(request.GetArguments(), "normal-only", false)

	s.runnerMu.Lock()
	defer s.runnerMu.Unlock()

	windows := []model.Window{}
	for _, w := range s.state().Windows {
		if normalOnly && !w.IsNormal() {
			continue
		}
		windows = append(windows, w)
	}
	return textResult(windows), nil
}

func (s *Server) handleFocusWindow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	return s.stepHandler(ctx, scenario.Step{Do: scenario.DoFocus, Window: model.WindowID(IntParam(params, "window", 0))})
}

func (s *Server) handleCloseWindow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	return s.stepHandler(ctx, scenario.Step{Do: scenario.DoClose, Window: model.WindowID(IntParam(params, "window", 0))})
}

func (s *Server) handleShowMenu(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	return s.stepHandler(ctx, scenario.Step{Do: scenario.DoShowMenu, Tab: model.TabID(IntParam(params, "tab", 0))})
}

func (s *Server) handleHideMenu(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.stepHandler(ctx, scenario.Step{Do: scenario.DoHideMenu})
}

func (s *Server) handleClickMenu(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	step := clickStep(scenario.DoClickMenu, params)
	step.Item = StringParam(params, "item", "")
	step.Window = model.WindowID(IntParam(params, "window", 0))
	step.Kind = StringParam(params, "kind", "")
	return s.stepHandler(ctx, step)
}

func (s *Server) handleClickAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.stepHandler(ctx, clickStep(scenario.DoClickAction, request.GetArguments()))
}

func (s *Server) handleRunCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	return s.stepHandler(ctx, scenario.Step{Do: scenario.DoCommand, Command: StringParam(params, "command", "")})
}

func (s *Server) handleState(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.runnerMu.Lock()
	defer s.runnerMu.Unlock()
	return textResult(s.state()), nil
}
