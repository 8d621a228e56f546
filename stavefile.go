//go:build stave

package main

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const (
	binary  = "bin/rsfmt"
	mainPkg = "./cmd/rsfmt"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":  Build,
	"t":  Test.Default,
	"l":  Lint.Default,
	"c":  Check,
	"i":  Install,
	"bc": Bench.Corpus,
}

type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// releasePlatforms are the GOOS/GOARCH pairs CI.Cross builds.
var releasePlatforms = [][2]string{
	{"linux", "amd64"}, {"linux", "arm64"},
	{"darwin", "amd64"}, {"darwin", "arm64"},
	{"windows", "amd64"}, {"windows", "arm64"},
	{"freebsd", "amd64"},
}

// Build compiles bin/rsfmt when any Go source changed since the last build.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary, "is up to date")
		return nil
	}
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, mainPkg)
}

// Check formats, lints and tests, in that order.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes the binary and coverage output.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out", "coverage.html"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install runs go install with version info.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), mainPkg)
}

// Uninstall deletes the binary go install placed.
func Uninstall() error {
	path, err := installPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// Default runs the suite under the race detector with coverage.
func (Test) Default() error {
	return gotestsum("pkgname-and-test-fails", "-race", "-coverprofile=coverage.out", "-covermode=atomic")
}

// Verbose prints every test as it runs.
func (Test) Verbose() error {
	return gotestsum("standard-verbose", "-race")
}

// Cover renders coverage.out as HTML.
func (Test) Cover() error {
	st.Deps(Test.Default)
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Default runs golangci-lint and applies its fixes.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt rewrites Go sources with gofmt.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", "cmd", "internal", "pkg")
}

// FmtCheck fails when gofmt would change a file.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", "cmd", "internal", "pkg")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("gofmt would change:\n%s", out)
	}
	return nil
}

// Gate is the full CI pipeline.
func (CI) Gate() {
	st.SerialDeps(Lint.FmtCheck, CI.Vet, CI.Lint, Build, Test.Default, CI.Tidy, CI.Cross)
}

// Vet runs go vet.
func (CI) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Lint runs golangci-lint without fixes.
func (CI) Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Tidy fails when go mod tidy would edit go.mod or go.sum.
func (CI) Tidy() error {
	if err := sh.RunV("go", "mod", "tidy", "-diff"); err != nil {
		return errors.New("go.mod/go.sum are not tidy; run go mod tidy")
	}
	return nil
}

// Cross builds mainPkg for every release platform with cgo disabled.
func (CI) Cross() error {
	for _, p := range releasePlatforms {
		env := map[string]string{"GOOS": p[0], "GOARCH": p[1], "CGO_ENABLED": "0"}
		if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, mainPkg); err != nil {
			return fmt.Errorf("%s/%s: %w", p[0], p[1], err)
		}
	}
	return nil
}

// Default runs the Go benchmarks.
func (Bench) Default() error {
	return sh.RunV("go", "test", "-run", "^$", "-bench", ".", "-benchmem", "./pkg/...")
}

// Corpus times bin/rsfmt check over the crate in $RSFMT_BENCH_DIR.
func (Bench) Corpus() error {
	dir := os.Getenv("RSFMT_BENCH_DIR")
	if dir == "" {
		return errors.New("set RSFMT_BENCH_DIR to a Rust source tree")
	}
	st.Deps(Build)
	start := time.Now()
	// check exits 1 when files need formatting; only the timing matters here.
	_ = sh.RunV(binary, "check", "--format", "summary", dir) //nolint:errcheck // see above
	fmt.Printf("%s in %s\n", dir, time.Since(start).Round(time.Millisecond))
	return nil
}

func gotestsum(format string, testFlags ...string) error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	args := []string{"tool", "gotestsum", "-f", format, "--", "-p", procs, "-parallel", procs}
	args = append(args, testFlags...)
	args = append(args, "./...")
	return sh.RunV("go", args...)
}

func ldflags() string {
	git := func(args ...string) string {
		out, err := sh.Output("git", args...)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(out)
	}
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s",
		cmp.Or(git("describe", "--tags", "--always", "--dirty"), "dev"),
		cmp.Or(git("rev-parse", "--short", "HEAD"), "none"),
		time.Now().UTC().Format(time.RFC3339),
	)
}

func installPath() (string, error) {
	if gobin := os.Getenv("GOBIN"); gobin != "" {
		return filepath.Join(gobin, "rsfmt"), nil
	}
	gopath := os.Getenv("GOPATH")
	if gopath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		gopath = filepath.Join(home, "go")
	}
	return filepath.Join(gopath, "bin", "rsfmt"), nil
}
