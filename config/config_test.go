package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Stream.Buffer != DefaultStreamBuffer {
		t.Fatalf("expected buffer %d, got %d", DefaultStreamBuffer, cfg.Stream.Buffer)
	}
	if cfg.Logging.Database != "" || cfg.Logging.Client != "" {
		t.Fatal("default logging options should be empty (keep package defaults)")
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
logging:
  database: WARN
  client: none
  color: false
stream:
  buffer: 256
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Database != "WARN" || cfg.Logging.Client != "none" {
		t.Fatalf("logging options not parsed: %+v", cfg.Logging)
	}
	if cfg.Logging.Color == nil || *cfg.Logging.Color {
		t.Fatal("color should parse to false")
	}
	if cfg.Stream.Buffer != 256 {
		t.Fatalf("buffer not parsed: %d", cfg.Stream.Buffer)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("logging: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseClampsBuffer(t *testing.T) {
	cfg, err := Parse([]byte("stream:\n  buffer: -5\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Stream.Buffer != DefaultStreamBuffer {
		t.Fatalf("non-positive buffer should fall back to default, got %d", cfg.Stream.Buffer)
	}
}

func TestLoadUnsetEnv(t *testing.T) {
	t.Setenv(EnvVar, "")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Stream.Buffer != DefaultStreamBuffer {
		t.Fatal("unset env should yield defaults")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wmnode.yaml")
	if err := os.WriteFile(path, []byte("stream:\n  buffer: 32\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Stream.Buffer != 32 {
		t.Fatalf("expected buffer 32, got %d", cfg.Stream.Buffer)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv(EnvVar, filepath.Join(t.TempDir(), "absent.yaml"))
	cfg, err := Load()
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if cfg.Stream.Buffer != DefaultStreamBuffer {
		t.Fatal("error path should still return usable defaults")
	}
}
