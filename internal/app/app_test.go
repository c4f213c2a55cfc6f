package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bobmcallan/andolan/internal/common"
)

func writeTestConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	content := "environment = \"test\"\n\n[storage]\nbackend = \"sqlite\"\n" + extra +
		"\n[storage.sqlite]\npath = \"" + filepath.ToSlash(filepath.Join(dir, "andolan.db")) + "\"\n\n[logging]\nlevel = \"disabled\"\n"
	path := filepath.Join(dir, "andolan.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestNewApp_InitializesServices verifies that NewApp creates an App with
// storage and both services wired.
func TestNewApp_InitializesServices(t *testing.T) {
	a, err := NewApp(writeTestConfig(t, ""))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer a.Close()

	if a.Config == nil || a.Logger == nil || a.Storage == nil {
		t.Fatal("core fields not initialized")
	}
	if a.TimelineService == nil {
		t.Error("TimelineService is nil")
	}
	if a.MemberService == nil {
		t.Error("MemberService is nil")
	}
	if a.StartupTime.IsZero() {
		t.Error("StartupTime is zero")
	}
	if got := a.Storage.Backend(); got != "sqlite" {
		t.Errorf("Backend = %q, want sqlite", got)
	}
	if a.Config.Environment != "test" {
		t.Errorf("Environment = %q, want test", a.Config.Environment)
	}
}

func TestNewApp_ImportsSeedFile(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(seed, []byte(`[{"_id":"s1","date":"2004-02-01","title":"Seeded","description":"d"}]`), 0644); err != nil {
		t.Fatal(err)
	}

	a, err := NewApp(writeTestConfig(t, "seed_file = \""+filepath.ToSlash(seed)+"\"\n"))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer a.Close()

	records, err := a.TimelineService.ListRecords(context.Background())
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(records) != 1 || records[0].ID != "s1" {
		t.Fatalf("records = %+v, want the seeded record", records)
	}
}

func TestClose_Idempotent(t *testing.T) {
	a, err := NewApp(writeTestConfig(t, ""))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	a.Close()
	a.Close()
	if a.Storage != nil {
		t.Error("Storage not cleared after Close")
	}
}

func TestResolveConfigPath_Env(t *testing.T) {
	t.Setenv("ANDOLAN_CONFIG", "/etc/andolan/andolan.toml")
	if got := ResolveConfigPath(""); got != "/etc/andolan/andolan.toml" {
		t.Errorf("ResolveConfigPath = %q", got)
	}
	if got := ResolveConfigPath("explicit.toml"); got != "explicit.toml" {
		t.Errorf("explicit path not preferred: %q", got)
	}
}

func TestNewAppWithConfig_UnknownBackend(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Backend = "mongo"
	if _, err := NewAppWithConfig(context.Background(), cfg, common.NewSilentLogger()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
