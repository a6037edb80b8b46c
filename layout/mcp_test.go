package layout

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testImpl = &mcp.Implementation{Name: "domedit-test", Version: "0.1.0"}

// mcpSession registers the layout tools and returns a connected client
// session that calls them end-to-end over in-memory transports.
func mcpSession(t *testing.T) (*Service, *mcp.ClientSession) {
	t.Helper()
	svc := testService(t)

	srv := mcp.NewServer(testImpl, nil)
	svc.RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()

	go func() {
		_ = srv.Run(ctx, serverT)
	}()

	client := mcp.NewClient(testImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })

	return svc, session
}

// callTool invokes a tool and returns the JSON text from the first TextContent.
func callTool(t *testing.T, session *mcp.ClientSession, name string, args any) string {
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
	if len(result.Content) == 0 {
		t.Fatalf("CallTool(%s): empty content", name)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent, got %T", name, result.Content[0])
	}
	return tc.Text
}

func TestMCP_ListAndGet(t *testing.T) {
	svc, session := mcpSession(t)
	ctx := context.Background()

	for _, id := range []string{"m1", "m2"} {
		err := svc.Save(ctx, Snapshot{
			ID:         id,
			Domain:     "example.com",
			URL:        "https://example.com/" + id,
			Title:      "Page " + id,
			HTML:       "<main>" + id + "</main>",
			CapturedAt: time.Now(),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	text := callTool(t, session, "layout_list", map[string]any{"domain": "example.com"})
	var list []Snapshot
	if err := json.Unmarshal([]byte(text), &list); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list: got %d, want 2", len(list))
	}
	if list[0].HTML != "" {
		t.Error("list should omit html bodies")
	}

	text = callTool(t, session, "layout_get", map[string]any{"id": "m1"})
	var snap Snapshot
	if err := json.Unmarshal([]byte(text), &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if snap.ID != "m1" || snap.HTML == "" {
		t.Errorf("get: %+v", snap)
	}
}

func TestMCP_Delete(t *testing.T) {
	svc, session := mcpSession(t)
	ctx := context.Background()

	if err := svc.Save(ctx, Snapshot{ID: "d1", Domain: "x.com", CapturedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	callTool(t, session, "layout_delete", map[string]any{"id": "d1"})

	if _, err := svc.Get(ctx, "d1"); err == nil {
		t.Fatal("snapshot still present after delete")
	}
}
