package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupLogDir(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	SetDir(tmp)
	t.Cleanup(func() { Close(); SetDir("") })
	return tmp
}

func TestResolveDirFlag(t *testing.T) {
	got, err := ResolveDir("/tmp/mylog")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/mylog" {
		t.Errorf("got %q, want /tmp/mylog", got)
	}
}

func TestResolveDirFlagRelative(t *testing.T) {
	got, err := ResolveDir("logs")
	if err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(wd, "logs")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveDirEnv(t *testing.T) {
	t.Setenv("VOXTAP_LOG_PATH", "/tmp/voxtap-env-log")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/voxtap-env-log" {
		t.Errorf("got %q, want /tmp/voxtap-env-log", got)
	}
}

func TestInitCreatesLogFiles(t *testing.T) {
	tmp := setupLogDir(t)
	if err := Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	Info("diag entry")
	Transcript("hello from the microphone")
	Close()

	diag, err := os.ReadFile(filepath.Join(tmp, "diagnostics_log.txt"))
	if err != nil {
		t.Fatalf("read diagnostics log: %v", err)
	}
	if !strings.Contains(string(diag), "diag entry") {
		t.Errorf("diagnostics log missing entry: %q", diag)
	}

	transcript, err := os.ReadFile(filepath.Join(tmp, "transcript_log.txt"))
	if err != nil {
		t.Fatalf("read transcript log: %v", err)
	}
	if !strings.Contains(string(transcript), "hello from the microphone") {
		t.Errorf("transcript log missing text: %q", transcript)
	}
}

func TestLoggingBeforeInitIsNoop(t *testing.T) {
	Close()
	// Must not panic with no files open.
	Info("dropped")
	Warn("dropped")
	Errorf("dropped %d", 1)
	Transcript("dropped")
}
