package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/alexasparks/6-traits-annotations/internal/config"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSplitCommand(t *testing.T) {
	out, err := run(t, "", "split", "Dr. Smith went home.", "He left.")
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if out != "Dr. Smith went home.\nHe left.\n" {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = run(t, "Mr. Lee wrote this well. It needs work.", "split", "-n")
	if err != nil {
		t.Fatalf("split stdin: %v", err)
	}
	if out != "1\tMr. Lee wrote this well.\n2\tIt needs work.\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_PRIVATE_KEY", "super-secret")

	path := filepath.Join(t.TempDir(), "config.toml")
	if _, err := run(t, "", "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if _, err := run(t, "", "--config", path, "config", "init"); err == nil {
		t.Fatalf("expected error when file exists")
	}

	out, err := run(t, "", "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "super-secret") {
		t.Fatalf("private key leaked: %s", out)
	}
	if !strings.Contains(out, "read_range") {
		t.Fatalf("config not printed: %s", out)
	}
}

func TestApplyServeFlags(t *testing.T) {
	cmd := newServeCommand(&options{})
	if err := cmd.Flags().Parse([]string{"--port", "9999", "--backend", "memory"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Server.DevMode = true
	applyServeFlags(cmd, cfg, serveOptionsOf(t, cmd))

	if cfg.Server.Port != 9999 || cfg.Sheets.Backend != config.BackendMemory {
		t.Fatalf("flags not applied: %+v %+v", cfg.Server, cfg.Sheets)
	}
	// 未显式传入的参数不覆盖配置
	if !cfg.Server.DevMode {
		t.Fatalf("dev mode overridden by default flag value")
	}
}

// serveOptionsOf 从已解析的 flag 读回参数
func serveOptionsOf(t *testing.T, cmd *cobra.Command) *serveOptions {
	t.Helper()
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		t.Fatal(err)
	}
	backend, err := cmd.Flags().GetString("backend")
	if err != nil {
		t.Fatal(err)
	}
	return &serveOptions{port: port, backend: backend}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, Version) {
		t.Fatalf("unexpected output %q", out)
	}
}
