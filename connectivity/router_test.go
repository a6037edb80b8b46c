package connectivity

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "modernc.org/sqlite"
)

// setupTestDB creates an in-memory SQLite database with the routes schema.
// MaxOpenConns=1 ensures all operations use the same in-memory database
// (each connection to ":memory:" creates a separate database).
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := Init(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRegisterLocal_and_Call(t *testing.T) {
	r := New()
	called := false
	r.RegisterLocal("echo", func(ctx context.Context, payload []byte) ([]byte, error) {
		called = true
		return payload, nil
	})

	resp, err := r.Call(context.Background(), "echo", []byte("hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("local handler not called")
	}
	if string(resp) != "hello" {
		t.Fatalf("got %q, want %q", resp, "hello")
	}
}

func TestCall_ServiceNotFound(t *testing.T) {
	r := New()
	_, err := r.Call(context.Background(), "nonexistent", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var snf *ErrServiceNotFound
	if !errors.As(err, &snf) {
		t.Fatalf("expected ErrServiceNotFound, got %T: %v", err, err)
	}
	if snf.Service != "nonexistent" {
		t.Fatalf("got service %q, want %q", snf.Service, "nonexistent")
	}
}

func TestReload_NoopStrategy(t *testing.T) {
	db := setupTestDB(t)
	r := New()

	r.RegisterLocal("disabled", func(ctx context.Context, payload []byte) ([]byte, error) {
		t.Fatal("local handler should not be called for noop")
		return nil, nil
	})

	if _, err := db.Exec(`INSERT INTO routes (service_name, strategy) VALUES ('disabled', 'noop')`); err != nil {
		t.Fatal(err)
	}
	if err := r.Reload(context.Background(), db); err != nil {
		t.Fatalf("reload: %v", err)
	}

	resp, err := r.Call(context.Background(), "disabled", []byte("ignored"))
	if err != nil {
		t.Fatalf("noop call: %v", err)
	}
	if resp != nil {
		t.Fatalf("noop response: got %q, want nil", resp)
	}
}

func TestReload_LocalStrategy(t *testing.T) {
	db := setupTestDB(t)
	r := New()

	localCalled := false
	r.RegisterLocal("editor_start", func(ctx context.Context, payload []byte) ([]byte, error) {
		localCalled = true
		return []byte("ok"), nil
	})

	if _, err := db.Exec(`INSERT INTO routes (service_name, strategy) VALUES ('editor_start', 'local')`); err != nil {
		t.Fatal(err)
	}
	if err := r.Reload(context.Background(), db); err != nil {
		t.Fatalf("reload: %v", err)
	}

	resp, err := r.Call(context.Background(), "editor_start", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !localCalled {
		t.Fatal("local handler not called for local strategy")
	}
	if string(resp) != "ok" {
		t.Fatalf("got %q", resp)
	}
}

func TestReload_HTTPStrategy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"remote":true}`))
	}))
	defer srv.Close()

	db := setupTestDB(t)
	r := New()
	r.RegisterTransport("http", HTTPFactory())

	// Local handler exists but the route says remote — remote must win.
	r.RegisterLocal("editor_state", func(ctx context.Context, payload []byte) ([]byte, error) {
		t.Fatal("local handler should not be called for http route")
		return nil, nil
	})

	if _, err := db.Exec(`INSERT INTO routes (service_name, strategy, endpoint) VALUES ('editor_state', 'http', ?)`, srv.URL); err != nil {
		t.Fatal(err)
	}
	if err := r.Reload(context.Background(), db); err != nil {
		t.Fatalf("reload: %v", err)
	}

	resp, err := r.Call(context.Background(), "editor_state", []byte("{}"))
	if err != nil {
		t.Fatal(err)
	}
	if string(resp) != `{"remote":true}` {
		t.Fatalf("got %q", resp)
	}
}

func TestReload_RouteRemoval(t *testing.T) {
	db := setupTestDB(t)
	r := New()

	r.RegisterLocal("svc", func(ctx context.Context, payload []byte) ([]byte, error) {
		return []byte("local"), nil
	})

	if _, err := db.Exec(`INSERT INTO routes (service_name, strategy) VALUES ('svc', 'noop')`); err != nil {
		t.Fatal(err)
	}
	if err := r.Reload(context.Background(), db); err != nil {
		t.Fatal(err)
	}
	if resp, _ := r.Call(context.Background(), "svc", nil); resp != nil {
		t.Fatalf("expected noop, got %q", resp)
	}

	// Remove the route — the service falls back to the local handler.
	if _, err := db.Exec(`DELETE FROM routes WHERE service_name = 'svc'`); err != nil {
		t.Fatal(err)
	}
	if err := r.Reload(context.Background(), db); err != nil {
		t.Fatal(err)
	}
	resp, err := r.Call(context.Background(), "svc", nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(resp) != "local" {
		t.Fatalf("got %q, want %q", resp, "local")
	}
}

func TestHTTPFactory_BadScheme(t *testing.T) {
	f := HTTPFactory()
	if _, _, err := f("ftp://example.com", nil); err == nil {
		t.Fatal("expected error for non-http scheme")
	}
}

func TestServices(t *testing.T) {
	r := New()
	r.RegisterLocal("a", func(ctx context.Context, p []byte) ([]byte, error) { return nil, nil })
	r.RegisterLocal("b", func(ctx context.Context, p []byte) ([]byte, error) { return nil, nil })
	if got := len(r.Services()); got != 2 {
		t.Fatalf("services: got %d, want 2", got)
	}
}
