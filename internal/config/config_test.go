package config

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestLoad(t *testing.T) {
	t.Run("existing file", func(t *testing.T) {
		dir := t.TempDir()
		configDir := filepath.Join(dir, ".sheet")
		if err := os.MkdirAll(configDir, 0755); err != nil {
			t.Fatalf("setup: mkdir failed: %v", err)
		}

		expected := &Config{
			Title:      "Order details",
			Content:    "body.md",
			Attributes: map[string]string{"minimize": "", "min-content-height": "120"},
		}
		data, err := json.MarshalIndent(expected, "", "  ")
		if err != nil {
			t.Fatalf("setup: marshal failed: %v", err)
		}
		if err := os.WriteFile(filepath.Join(configDir, "config.json"), data, 0644); err != nil {
			t.Fatalf("setup: write failed: %v", err)
		}

		cfg, err := Load(dir)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Title != expected.Title {
			t.Errorf("Title: got %q, want %q", cfg.Title, expected.Title)
		}
		if cfg.Content != expected.Content {
			t.Errorf("Content: got %q, want %q", cfg.Content, expected.Content)
		}
		if len(cfg.Attributes) != 2 || cfg.Attributes["min-content-height"] != "120" {
			t.Errorf("Attributes: got %v", cfg.Attributes)
		}
		if _, ok := cfg.Attributes["minimize"]; !ok {
			t.Error("empty-valued attribute should be present")
		}
	})

	t.Run("missing file returns empty config", func(t *testing.T) {
		cfg, err := Load(t.TempDir())
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Attributes == nil || len(cfg.Attributes) != 0 {
			t.Errorf("Attributes: got %v, want empty map", cfg.Attributes)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		dir := t.TempDir()
		path := Path(dir)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(dir); err == nil {
			t.Error("expected error for invalid json")
		}
	})
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Attributes: map[string]string{"open": "", "no-resize": ""}}

	if err := Save(dir, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".sheet", "config.json")); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Attributes) != 2 {
		t.Errorf("Attributes: got %v", got.Attributes)
	}
}

func TestContentPath(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		content    string
		want       string
	}{
		{"dot dir resolves against project", "/proj/.sheet/config.json", "body.md", "/proj/body.md"},
		{"plain dir resolves next to file", "/tmp/demo.json", "body.md", "/tmp/body.md"},
		{"absolute kept", "/proj/.sheet/config.json", "/docs/a.md", "/docs/a.md"},
		{"no content", "/proj/.sheet/config.json", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Content: tt.content}
			if got := c.ContentPath(tt.configPath); got != filepath.FromSlash(tt.want) {
				t.Errorf("ContentPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadContent(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "body.md"), []byte("# Hi"), 0644); err != nil {
		t.Fatal(err)
	}
	c := &Config{Content: "body.md"}
	got, err := c.ReadContent(Path(dir))
	if err != nil {
		t.Fatalf("ReadContent failed: %v", err)
	}
	if got != "# Hi" {
		t.Errorf("content = %q", got)
	}

	c.Content = "missing.md"
	if _, err := c.ReadContent(Path(dir)); err == nil {
		t.Error("expected error for missing content")
	}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name   string
		before map[string]string
		after  map[string]string
		want   []AttributeChange
	}{
		{
			name:   "no change",
			before: map[string]string{"open": ""},
			after:  map[string]string{"open": ""},
		},
		{
			name:   "added and removed",
			before: map[string]string{"no-resize": ""},
			after:  map[string]string{"minimize": ""},
			want: []AttributeChange{
				{Name: "minimize", Value: strPtr("")},
				{Name: "no-resize"},
			},
		},
		{
			name:   "value changed",
			before: map[string]string{"min-content-height": "40"},
			after:  map[string]string{"min-content-height": "80"},
			want:   []AttributeChange{{Name: "min-content-height", Value: strPtr("80")}},
		},
		{
			name:   "open sorts last",
			before: nil,
			after:  map[string]string{"open": "", "snap-to-top": "", "minimize": ""},
			want: []AttributeChange{
				{Name: "minimize", Value: strPtr("")},
				{Name: "snap-to-top", Value: strPtr("")},
				{Name: "open", Value: strPtr("")},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.before, tt.after)
			if len(got) != len(tt.want) {
				t.Fatalf("Diff = %v, want %d changes", got, len(tt.want))
			}
			for i := range got {
				if got[i].Name != tt.want[i].Name || got[i].Removed() != tt.want[i].Removed() {
					t.Errorf("change %d = %+v, want %+v", i, got[i], tt.want[i])
					continue
				}
				if !got[i].Removed() && *got[i].Value != *tt.want[i].Value {
					t.Errorf("change %d value = %q, want %q", i, *got[i].Value, *tt.want[i].Value)
				}
			}
		})
	}
}

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := Path(dir)
	initial := &Config{Attributes: map[string]string{"minimize": ""}}
	if err := SaveFile(path, initial); err != nil {
		t.Fatal(err)
	}

	w := NewWatcher(path, initial)
	w.Debounce = 10 * time.Millisecond
	w.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan Update, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(u Update) { updates <- u })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	next := &Config{Attributes: map[string]string{"minimize": "", "open": ""}}
	if err := SaveFile(path, next); err != nil {
		t.Fatal(err)
	}

	select {
	case u := <-updates:
		if len(u.Changes) != 1 || u.Changes[0].Name != "open" || u.Changes[0].Removed() {
			t.Errorf("changes = %+v, want open added", u.Changes)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
