package strategy

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/domedit/kit"
)

// RegisterMCP registers strategy tools on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerPlanTool(srv)
	s.registerRunTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

type planRequest struct {
	URL  string `json:"url"`
	Goal string `json:"goal"`
}

func (s *Service) registerPlanTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "strategy_plan",
		Description: "Open a page and plan an extraction strategy (interaction steps plus content views) for a stated goal.",
		InputSchema: inputSchema(map[string]any{
			"url":  map[string]any{"type": "string", "description": "Page URL to open"},
			"goal": map[string]any{"type": "string", "description": "What content to capture"},
		}, []string{"url", "goal"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*planRequest)
		return s.Plan(ctx, r.URL, r.Goal)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r planRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

type runRequest struct {
	URL      string   `json:"url"`
	Strategy Strategy `json:"strategy"`
}

func (s *Service) registerRunTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "strategy_run",
		Description: "Open a page, execute a strategy's steps and return its collected views as text, markup and markdown.",
		InputSchema: inputSchema(map[string]any{
			"url": map[string]any{"type": "string", "description": "Page URL to open"},
			"strategy": map[string]any{
				"type":        "object",
				"description": "Strategy to execute, as produced by strategy_plan",
			},
		}, []string{"url", "strategy"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*runRequest)
		return s.Run(ctx, r.URL, r.Strategy)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r runRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
