package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/labelsheet/pkg/config"
)

// testCLI isolates config, cache and session files in temp directories.
func testCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	for _, env := range []string{config.EnvInventoryURL, config.EnvRedisAddr, config.EnvMongoURI, config.EnvServerAddr, envPassword} {
		t.Setenv(env, "")
	}
	return New(io.Discard, LogInfo)
}

// execute runs one command line and returns what it wrote to its output.
func execute(t *testing.T, c *CLI, stdin string, args ...string) (string, error) {
	t.Helper()
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}

	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	dir, err = cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(xdg, appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"pdf", []string{"pdf"}},
		{"pdf,svg,png", []string{"pdf", "svg", "png"}},
		{" pdf , svg ,", []string{"pdf", "svg"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.input)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") || len(got) != len(tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Grid.Columns = 3
	cfg.Render.PageSize = "Letter"
	cfg.Render.Formats = []string{"svg"}

	opts, err := optionsFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Grid.Columns != 3 {
		t.Errorf("Grid.Columns = %d, want 3", opts.Grid.Columns)
	}
	if opts.PageSize.String() != "Letter" {
		t.Errorf("PageSize = %s, want Letter", opts.PageSize)
	}
	opts.Formats[0] = "png"
	if cfg.Render.Formats[0] != "svg" {
		t.Error("options share the config's format slice")
	}

	cfg.Render.PageSize = "postcard"
	if _, err := optionsFromConfig(cfg); err == nil {
		t.Error("unknown page size accepted")
	}
}

func TestConfigCommands(t *testing.T) {
	c := testCLI(t)
	path := filepath.Join(t.TempDir(), "labelsheet.toml")

	if _, err := execute(t, c, "", "config", "init", "--config", path); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if _, err := execute(t, c, "", "config", "init", "--config", path); err != nil {
		t.Errorf("config init on existing file: %v", err)
	}

	out, err := execute(t, c, "", "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, section := range []string{"[grid]", "[label]", "[render]", "[server]"} {
		if !strings.Contains(out, section) {
			t.Errorf("config show output lacks %s", section)
		}
	}

	out, err = execute(t, c, "", "config", "path", "--config", path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, want %q", out, path)
	}

	if _, err := execute(t, c, "", "config", "show", "--config", filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("explicit missing config accepted")
	}
}

func TestCachePath(t *testing.T) {
	c := testCLI(t)
	out, err := execute(t, c, "", "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}
	if _, err := execute(t, c, "", "cache", "clear"); err != nil {
		t.Errorf("cache clear: %v", err)
	}
}
