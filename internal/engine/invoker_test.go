package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SainathReddyM/py-file-converter/internal/models"
)

// fakeRunner stands in for the external engine process.
type fakeRunner struct {
	output []byte
	err    error
	block  bool
	onRun  func(args []string)
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.onRun != nil {
		f.onRun(args)
	}
	return f.output, f.err
}

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	input := filepath.Join(dir, "report.pdf")
	if err := os.WriteFile(input, []byte("%PDF-1.4 fake"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return input
}

func TestConvertSuccess(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	runner := &fakeRunner{onRun: func(args []string) {
		if err := os.WriteFile(filepath.Join(dir, "report.docx"), []byte("docx"), 0o644); err != nil {
			t.Fatalf("write output: %v", err)
		}
	}}

	inv := NewInvoker("/usr/bin/soffice", runner, time.Second)
	outcome := inv.Convert(context.Background(), input, dir, models.FormatDOCX)

	if outcome.Status != StatusSuccess {
		t.Fatalf("expected success, got %s (%s)", outcome.Status, outcome.Diagnostic)
	}
	if filepath.Base(outcome.OutputPath) != "report.docx" {
		t.Fatalf("unexpected output path %s", outcome.OutputPath)
	}
}

func TestConvertArgumentContract(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	var got []string
	runner := &fakeRunner{onRun: func(args []string) {
		got = args
		os.WriteFile(filepath.Join(dir, "report.docx"), []byte("docx"), 0o644)
	}}

	NewInvoker("/usr/bin/soffice", runner, time.Second).
		Convert(context.Background(), input, dir, models.FormatDOCX)

	if len(got) != 6 {
		t.Fatalf("expected 6 args, got %v", got)
	}
	if !strings.HasPrefix(got[0], "-env:UserInstallation=file://") {
		t.Fatalf("missing profile arg: %v", got)
	}
	if got[1] != "--headless" || got[2] != "--convert-to" || got[3] != "docx" || got[4] != "--outdir" {
		t.Fatalf("unexpected argument order: %v", got)
	}
}

func TestConvertPicksSameBasenameAmongCandidates(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	runner := &fakeRunner{onRun: func(args []string) {
		os.WriteFile(filepath.Join(dir, "aaa-first.docx"), []byte("a"), 0o644)
		os.WriteFile(filepath.Join(dir, "report.docx"), []byte("b"), 0o644)
	}}

	outcome := NewInvoker("/usr/bin/soffice", runner, time.Second).
		Convert(context.Background(), input, dir, models.FormatDOCX)

	if outcome.Status != StatusSuccess || filepath.Base(outcome.OutputPath) != "report.docx" {
		t.Fatalf("expected same-basename output, got %s", outcome.OutputPath)
	}
}

func TestConvertRenamedOutputFallsBackToGlob(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	runner := &fakeRunner{onRun: func(args []string) {
		os.WriteFile(filepath.Join(dir, "renamed.docx"), []byte("a"), 0o644)
	}}

	outcome := NewInvoker("/usr/bin/soffice", runner, time.Second).
		Convert(context.Background(), input, dir, models.FormatDOCX)

	if outcome.Status != StatusSuccess || filepath.Base(outcome.OutputPath) != "renamed.docx" {
		t.Fatalf("expected glob fallback, got %s (%s)", outcome.OutputPath, outcome.Status)
	}
}

func TestConvertNonZeroExitIsEngineFailure(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	runner := &fakeRunner{output: []byte("source file could not be loaded"), err: errors.New("exit status 1")}

	outcome := NewInvoker("/usr/bin/soffice", runner, time.Second).
		Convert(context.Background(), input, dir, models.FormatDOCX)

	if outcome.Status != StatusEngineFailure {
		t.Fatalf("expected engine failure, got %s", outcome.Status)
	}
	if !strings.Contains(outcome.Diagnostic, "could not be loaded") {
		t.Fatalf("diagnostic not captured: %q", outcome.Diagnostic)
	}
}

func TestConvertSilentFailure(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	// Exit zero, no output file written.
	runner := &fakeRunner{}

	outcome := NewInvoker("/usr/bin/soffice", runner, time.Second).
		Convert(context.Background(), input, dir, models.FormatDOCX)

	if outcome.Status != StatusEngineFailure {
		t.Fatalf("expected engine failure for missing output, got %s", outcome.Status)
	}
	if !strings.Contains(outcome.Diagnostic, "produced no docx output") {
		t.Fatalf("unexpected diagnostic %q", outcome.Diagnostic)
	}
}

func TestConvertTimeout(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	runner := &fakeRunner{block: true}

	inv := NewInvoker("/usr/bin/soffice", runner, 50*time.Millisecond)
	start := time.Now()
	outcome := inv.Convert(context.Background(), input, dir, models.FormatDOCX)

	if outcome.Status != StatusTimeout {
		t.Fatalf("expected timeout, got %s", outcome.Status)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("timeout took too long: %s", elapsed)
	}
}
