package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SainathReddyM/py-file-converter/internal/models"
)

// Status classifies the result of one engine invocation.
type Status string

const (
	StatusSuccess       Status = "success"
	StatusEngineFailure Status = "engine_failure"
	StatusTimeout       Status = "timeout"
	StatusInvalidInput  Status = "invalid_input"
)

// Outcome is produced by one Convert call and consumed once by the
// response path.
type Outcome struct {
	Status     Status
	OutputPath string
	Diagnostic string
}

const DefaultTimeout = 2 * time.Minute

// Invoker launches the external engine in headless batch mode. One
// invocation per request; concurrent requests get independent child
// processes and never share state.
type Invoker struct {
	binPath string
	runner  Runner
	timeout time.Duration
}

// NewInvoker wires the engine binary path and the process runner.
func NewInvoker(binPath string, runner Runner, timeout time.Duration) *Invoker {
	if runner == nil {
		runner = ExecRunner{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Invoker{binPath: binPath, runner: runner, timeout: timeout}
}

// Timeout reports the per-invocation time budget.
func (i *Invoker) Timeout() time.Duration {
	return i.timeout
}

// Convert runs the engine against inputPath, writing the converted file
// into outDir. It blocks until the child exits or the timeout elapses;
// on timeout the child and its descendants are killed before returning.
// Engine failures are never retried.
func (i *Invoker) Convert(ctx context.Context, inputPath, outDir string, target models.Format) Outcome {
	absInput, err := filepath.Abs(inputPath)
	if err != nil {
		return Outcome{Status: StatusEngineFailure, Diagnostic: fmt.Sprintf("resolve input path: %v", err)}
	}
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return Outcome{Status: StatusEngineFailure, Diagnostic: fmt.Sprintf("resolve output dir: %v", err)}
	}

	// A private profile dir keeps parallel soffice instances from
	// fighting over the shared user installation lock.
	profileDir := filepath.Join(absOut, ".engine_profile")
	if err := os.MkdirAll(profileDir, 0o755); err != nil {
		return Outcome{Status: StatusEngineFailure, Diagnostic: fmt.Sprintf("create profile dir: %v", err)}
	}

	args := []string{
		"-env:UserInstallation=file://" + profileDir,
		"--headless",
		"--convert-to", string(target),
		"--outdir", absOut,
		absInput,
	}

	runCtx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	output, runErr := i.runner.Run(runCtx, i.binPath, args...)
	diagnostic := strings.TrimSpace(string(output))

	if runCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		return Outcome{Status: StatusTimeout, Diagnostic: diagnostic}
	}
	if runErr != nil {
		if diagnostic == "" {
			diagnostic = runErr.Error()
		}
		return Outcome{Status: StatusEngineFailure, Diagnostic: diagnostic}
	}

	outPath, found := findOutput(absOut, absInput, target)
	if !found {
		// Engines can exit zero without producing anything, e.g. on
		// corrupt input. Treat that as a failure, not a success.
		return Outcome{
			Status:     StatusEngineFailure,
			Diagnostic: fmt.Sprintf("engine exited cleanly but produced no %s output; output was: %s", target, diagnostic),
		}
	}
	return Outcome{Status: StatusSuccess, OutputPath: outPath}
}

// findOutput locates the produced file. The engine writes a same-basename
// file with the target extension; if it renamed the output, fall back to
// the lexically first match so the choice stays deterministic.
func findOutput(outDir, inputPath string, target models.Format) (string, bool) {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	expected := filepath.Join(outDir, base+target.Ext())
	if info, err := os.Stat(expected); err == nil && !info.IsDir() {
		return expected, true
	}

	matches, err := filepath.Glob(filepath.Join(outDir, "*"+target.Ext()))
	if err != nil {
		return "", false
	}
	for _, m := range matches {
		if m == inputPath {
			continue
		}
		if info, err := os.Stat(m); err == nil && !info.IsDir() {
			return m, true
		}
	}
	return "", false
}
