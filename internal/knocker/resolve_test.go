package knocker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func writeFakeKnocker(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake_knocker")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake knocker: %v", err)
	}
	return path
}

func TestResolve_OverrideWins(t *testing.T) {
	bin := writeFakeKnocker(t, "#!/bin/sh\nexit 0\n")

	got, err := Resolve(context.Background(), bin, t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != bin {
		t.Fatalf("expected override path %q, got %q", bin, got)
	}
}

func TestResolve_OverrideMustBeExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not_executable")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := Resolve(context.Background(), path, "", zap.NewNop()); err == nil {
		t.Fatalf("expected error for non-executable override")
	}
}

func TestResolve_FindsExistingDebugBuild(t *testing.T) {
	src := t.TempDir()
	binDir := filepath.Join(src, "target", "debug")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	bin := DefaultBinPath(src)
	if err := os.WriteFile(bin, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}

	got, err := Resolve(context.Background(), "", src, zap.NewNop())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != bin {
		t.Fatalf("expected debug build %q, got %q", bin, got)
	}
}
