package editor

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/domedit/kit"
)

// RegisterMCP registers editor tools on an MCP server.
func (e *Editor) RegisterMCP(srv *mcp.Server) {
	e.registerSimpleTool(srv, "editor_start", "Activate the page editor: install listeners and the HUD.",
		func(ctx context.Context) error { return e.Start(ctx) })
	e.registerSimpleTool(srv, "editor_stop", "Deactivate the editor and remove every injected node and listener.",
		func(ctx context.Context) error { return e.Stop(ctx) })
	e.registerSimpleTool(srv, "editor_select_parent", "Select the parent of the current selection.",
		func(ctx context.Context) error { return e.SelectParent(ctx) })
	e.registerSimpleTool(srv, "editor_reset", "Restore the selected element from its selection-time snapshot.",
		func(ctx context.Context) error { return e.Reset(ctx) })
	e.registerSimpleTool(srv, "editor_save_layout", "Persist the full page layout to the layout store.",
		func(ctx context.Context) error { return e.SaveLayout(ctx) })
	e.registerStateTool(srv)
	e.registerSelectChildTool(srv)
	e.registerSetTextTool(srv)
	e.registerSetAttributeTool(srv)
	e.registerSetStyleTool(srv)
}

// inputSchema builds a JSON Schema object with type "object".
func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// registerSimpleTool registers an argument-less tool that runs op and
// returns the resulting editor state.
func (e *Editor) registerSimpleTool(srv *mcp.Server, name, desc string, op func(context.Context) error) {
	tool := &mcp.Tool{
		Name:        name,
		Description: desc,
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		if err := op(ctx); err != nil {
			return nil, err
		}
		return e.State(ctx), nil
	}

	decode := func(*mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: struct{}{}}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func (e *Editor) registerStateTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "editor_state",
		Description: "Return the current editor state: activation, selection descriptor, snapshot, children.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return e.State(ctx), nil
	}
	decode := func(*mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: struct{}{}}, nil
	}
	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

type selectChildRequest struct {
	Index int `json:"index"`
}

func (e *Editor) registerSelectChildTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "editor_select_child",
		Description: "Select the index-th element child of the current selection.",
		InputSchema: inputSchema(map[string]any{
			"index": map[string]any{"type": "integer", "description": "Zero-based child index"},
		}, []string{"index"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*selectChildRequest)
		if err := e.SelectChild(ctx, r.Index); err != nil {
			return nil, err
		}
		return e.State(ctx), nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r selectChildRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

type setTextRequest struct {
	Value string `json:"value"`
}

func (e *Editor) registerSetTextTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "editor_set_text",
		Description: "Replace the selected element's text content.",
		InputSchema: inputSchema(map[string]any{
			"value": map[string]any{"type": "string", "description": "New text content"},
		}, []string{"value"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*setTextRequest)
		if err := e.SetText(ctx, r.Value); err != nil {
			return nil, err
		}
		return e.State(ctx), nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r setTextRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

type setAttributeRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (e *Editor) registerSetAttributeTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "editor_set_attribute",
		Description: "Set an attribute on the selected element. An empty value removes the attribute.",
		InputSchema: inputSchema(map[string]any{
			"name":  map[string]any{"type": "string", "description": "Attribute name"},
			"value": map[string]any{"type": "string", "description": "Attribute value; empty removes it"},
		}, []string{"name"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*setAttributeRequest)
		if err := e.SetAttribute(ctx, r.Name, r.Value); err != nil {
			return nil, err
		}
		return e.State(ctx), nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r setAttributeRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

type setStyleRequest struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

func (e *Editor) registerSetStyleTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "editor_set_style",
		Description: "Set an inline style property on the selected element. An empty value removes the property.",
		InputSchema: inputSchema(map[string]any{
			"property": map[string]any{"type": "string", "description": "CSS property name"},
			"value":    map[string]any{"type": "string", "description": "CSS value; empty removes the property"},
		}, []string{"property"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*setStyleRequest)
		if err := e.SetStyle(ctx, r.Property, r.Value); err != nil {
			return nil, err
		}
		return e.State(ctx), nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r setStyleRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
