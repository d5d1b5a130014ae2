package knocker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/knockcheck/internal/runner"
)

// Resolve finds the knocker executable. Order: explicit override (must
// be executable), an existing debug build under srcDir, then a fresh
// `cargo build` in srcDir. Any failure here means no scenario result
// can be trusted, so callers abort the whole run.
func Resolve(ctx context.Context, override, srcDir string, log *zap.Logger) (string, error) {
	if override != "" {
		if err := checkExecutable(override); err != nil {
			return "", fmt.Errorf("KNOCKER_BIN %q: %w", override, err)
		}
		log.Info("knocker_from_override", zap.String("bin", override))
		return override, nil
	}

	bin := DefaultBinPath(srcDir)
	if err := checkExecutable(bin); err == nil {
		log.Info("knocker_existing_build", zap.String("bin", bin))
		return bin, nil
	}

	if _, err := exec.LookPath("cargo"); err != nil {
		return "", errors.New("no knocker binary found and cargo is not in PATH; set KNOCKER_BIN")
	}

	log.Info("knocker_building", zap.String("dir", srcDir))
	res := runner.Run(ctx, runner.Request{
		Path:    "cargo",
		Args:    []string{"build", "-q"},
		Dir:     srcDir,
		Timeout: 5 * time.Minute,
	})
	if res.Code != 0 {
		return "", fmt.Errorf("cargo build failed (exit %d): %s%s", res.Code, res.Stdout, res.Stderr)
	}
	if err := checkExecutable(bin); err != nil {
		return "", fmt.Errorf("built binary missing at %q: %w", bin, err)
	}
	log.Info("knocker_built", zap.String("bin", bin), zap.Duration("took", res.Duration))
	return bin, nil
}

// DefaultBinPath is where a cargo debug build of the knocker lands.
func DefaultBinPath(srcDir string) string {
	name := "async_port_knocker"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(srcDir, "target", "debug", name)
}

func checkExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errors.New("is a directory")
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return errors.New("not executable")
	}
	return nil
}
