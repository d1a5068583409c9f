package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveDBPath(t *testing.T) {
	cfgPath := filepath.Join("home", "me", ".config", "taskdeck", "config.toml")
	tests := []struct {
		name string
		db   string
		want string
	}{
		{name: "relative", db: "taskdeck.db", want: filepath.Join("home", "me", ".config", "taskdeck", "taskdeck.db")},
		{name: "absolute", db: "/var/lib/todos.db", want: "/var/lib/todos.db"},
		{name: "dsn", db: "file:memdb?mode=memory", want: "file:memdb?mode=memory"},
		{name: "empty", db: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveDBPath(tt.db, cfgPath); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadConfigCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	app := &App{ConfigPath: path}

	cfg, got, err := app.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if got != path {
		t.Errorf("path: got %q, want %q", got, path)
	}
	if cfg.APIURL == "" {
		t.Error("default api url missing")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config not written: %v", err)
	}
}

func TestLoadConfigReportsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("default_filter = \"someday\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := (&App{ConfigPath: path}).loadConfig()
	if err == nil || !strings.Contains(err.Error(), "default_filter") {
		t.Errorf("want default_filter error, got %v", err)
	}
}

func TestRootRejectsBadAPIURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"--config", path, "--api-url", "ftp://example.com"})
	cmd.SetOut(new(strings.Builder))
	cmd.SetErr(new(strings.Builder))
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for a non-http api url")
	}
}

func TestCommandTree(t *testing.T) {
	cmd := NewRootCmd()
	serve, _, err := cmd.Find([]string{"serve"})
	if err != nil || serve.Name() != "serve" {
		t.Fatalf("serve command missing: %v", err)
	}
	for _, name := range []string{"listen", "db"} {
		if serve.Flags().Lookup(name) == nil {
			t.Errorf("serve flag --%s missing", name)
		}
	}
	for _, name := range []string{"api-url", "user-id"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("root flag --%s missing", name)
		}
	}
	if cmd.PersistentFlags().Lookup("config") == nil {
		t.Error("--config missing")
	}
}
