package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterMCP exposes the service as MCP tools:
//
//	taxingest_run    — run ingestion for one source or all
//	taxingest_status — recorded source versions
func (s *Service) RegisterMCP(srv *mcp.Server) {
	srv.AddTool(&mcp.Tool{
		Name:        "taxingest_run",
		Description: "Run tax-law ingestion for one source or all.",
		InputSchema: inputSchema(map[string]any{
			"source": map[string]any{"type": "string", "description": "usc, cfr or all (default all)"},
			"force":  map[string]any{"type": "boolean", "description": "reprocess even when the snapshot is unchanged"},
		}, nil),
	}, s.mcpRun)

	srv.AddTool(&mcp.Tool{
		Name:        "taxingest_status",
		Description: "Report the last processed USC release and eCFR snapshot date.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}, s.mcpStatus)
}

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

type mcpRunArgs struct {
	Source string `json:"source"`
	Force  bool   `json:"force"`
}

func (s *Service) mcpRun(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := mcpRunArgs{Source: "all"}
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("invalid arguments: %w", err))
			return &res, nil
		}
	}

	var reports []Report
	var err error
	switch args.Source {
	case "usc":
		var rep Report
		rep, err = s.RunUSC(ctx, args.Force)
		reports = []Report{rep}
	case "cfr":
		var rep Report
		rep, err = s.RunCFR(ctx, args.Force)
		reports = []Report{rep}
	case "all", "":
		reports, err = s.RunAll(ctx, args.Force)
	default:
		var res mcp.CallToolResult
		res.SetError(fmt.Errorf("source must be usc, cfr or all"))
		return &res, nil
	}
	if err != nil {
		var res mcp.CallToolResult
		res.SetError(err)
		return &res, nil
	}
	return textResult(map[string]any{"reports": reports})
}

func (s *Service) mcpStatus(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := s.Status(ctx)
	if err != nil {
		var res mcp.CallToolResult
		res.SetError(err)
		return &res, nil
	}
	return textResult(map[string]any{"sources": entries})
}

func textResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		var res mcp.CallToolResult
		res.SetError(fmt.Errorf("marshal: %w", err))
		return &res, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}
