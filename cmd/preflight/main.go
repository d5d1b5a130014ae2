// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	bin := strings.TrimSpace(os.Getenv("KNOCKER_BIN"))
	src := strings.TrimSpace(os.Getenv("KNOCKER_SRC"))
	skip := strings.TrimSpace(os.Getenv("SKIP_PUBLIC"))
	logDir := strings.TrimSpace(os.Getenv("LOG_DIR"))

	if bin != "" {
		info, err := os.Stat(bin)
		if err != nil {
			fail("KNOCKER_BIN set but not found: " + bin)
		}
		if info.Mode().Perm()&0o111 == 0 {
			fail("KNOCKER_BIN set but not executable: " + bin)
		}
		ok("KNOCKER_BIN=" + bin)
	} else {
		if src == "" {
			warn("KNOCKER_SRC empty — the knocker source is assumed to be in the current directory.")
		}
		if _, err := exec.LookPath("cargo"); err != nil {
			warn("cargo not in PATH — the harness cannot build the knocker itself; set KNOCKER_BIN.")
		} else {
			ok("cargo available for building the knocker")
		}
	}

	if skip == "1" {
		ok("SKIP_PUBLIC=1 (public-internet scenarios will be skipped)")
	} else {
		warn("SKIP_PUBLIC unset — scenarios against google.com and 8.8.8.8 require internet access.")
	}

	if logDir == "" {
		warn("LOG_DIR empty; default \"logs\" will be used.")
	} else {
		ok("LOG_DIR=" + logDir)
	}

	for _, name := range []string{"CONCURRENCY_RATIO", "RETRY_SLACK"} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err != nil || f <= 0 || f > 1 {
				warn(name + "=" + v + " is not a fraction in (0,1]; the default will be used.")
			} else {
				ok(name + "=" + v)
			}
		}
	}

	ok("preflight passed")
}
