package ingest

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/saxtech/taxingest/state"
)

var testMCPImpl = &mcp.Implementation{Name: "taxingest-test", Version: "0.1.0"}

func mcpSession(t *testing.T, svc *Service) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testMCPImpl, nil)
	svc.RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func mcpCallTool(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if err := result.GetError(); err != nil {
		t.Fatalf("CallTool(%s) tool error: %v", name, err)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	return tc.Text
}

func TestMCP_Run(t *testing.T) {
	svc, _, sink, _ := testService(t)
	session := mcpSession(t, svc)

	text := mcpCallTool(t, session, "taxingest_run", map[string]any{"source": "cfr"})

	var resp struct {
		Reports []Report `json:"reports"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Reports) != 1 || resp.Reports[0].Source != "cfr" {
		t.Errorf("reports = %+v", resp.Reports)
	}
	if _, ok := sink.puts["CFR/cfr26_2025-08-15.jsonl"]; !ok {
		t.Error("upload missing after mcp run")
	}
}

func TestMCP_RunBadSource(t *testing.T) {
	svc, _, _, _ := testService(t)
	session := mcpSession(t, svc)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "taxingest_run",
		Arguments: map[string]any{"source": "irs"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected tool error for unknown source")
	}
}

func TestMCP_Status(t *testing.T) {
	svc, _, _, _ := testService(t)
	svc.store.Set(context.Background(), state.SourceUSC, "119-36")
	session := mcpSession(t, svc)

	text := mcpCallTool(t, session, "taxingest_status", map[string]any{})

	var resp struct {
		Sources []state.Entry `json:"sources"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Sources) != 1 || resp.Sources[0].Version != "119-36" {
		t.Errorf("sources = %+v", resp.Sources)
	}
}
