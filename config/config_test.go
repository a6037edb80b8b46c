package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "domedit.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP.Addr != ":8086" {
		t.Errorf("addr: %q", cfg.HTTP.Addr)
	}
	if cfg.Browser.Stealth != "headless" {
		t.Errorf("stealth: %q", cfg.Browser.Stealth)
	}
	if cfg.Editor.Theme != "dark" {
		t.Errorf("theme: %q", cfg.Editor.Theme)
	}
	if len(cfg.Editor.Sinks) != 1 || cfg.Editor.Sinks[0].Type != "stdout" {
		t.Errorf("sinks: %+v", cfg.Editor.Sinks)
	}
	if cfg.Storage.LayoutDB == "" || cfg.Storage.AuditDB == "" {
		t.Errorf("storage: %+v", cfg.Storage)
	}
}

func TestLoadFile_ParsesAndKeepsValues(t *testing.T) {
	path := writeConfig(t, `
http:
  addr: ":9090"
browser:
  stealth: headful
  resource_blocking: [images, fonts]
editor:
  theme: light
  sinks:
    - type: webhook
      url: https://hooks.example.com/domedit
storage:
  layout_db: /var/lib/domedit/layouts.db
llm:
  model: gpt-4o
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP.Addr != ":9090" || cfg.Browser.Stealth != "headful" {
		t.Errorf("parsed: %+v", cfg)
	}
	if len(cfg.Browser.ResourceBlocking) != 2 {
		t.Errorf("resource blocking: %v", cfg.Browser.ResourceBlocking)
	}
	if cfg.Editor.Theme != "light" || cfg.Editor.Sinks[0].URL == "" {
		t.Errorf("editor: %+v", cfg.Editor)
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Errorf("llm: %+v", cfg.LLM)
	}
	// Defaults still fill unset fields.
	if cfg.Storage.AuditDB != "db/audit.db" {
		t.Errorf("audit db default: %q", cfg.Storage.AuditDB)
	}
}

func TestLoadFile_Validation(t *testing.T) {
	tests := []struct {
		name, content, wantErr string
	}{
		{"bad stealth", "browser:\n  stealth: invisible\n", "browser.stealth"},
		{"bad theme", "editor:\n  theme: sepia\n", "editor.theme"},
		{"webhook without url", "editor:\n  sinks:\n    - type: webhook\n", "requires a url"},
		{"unknown sink", "editor:\n  sinks:\n    - type: kafka\n", "unknown type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
