// Package convert orchestrates one conversion request end to end:
// receive the upload, admit it through the concurrency gate, run the
// engine, and hand the produced file to the response path. The workspace
// is torn down on every exit path.
package convert

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/SainathReddyM/py-file-converter/internal/apperr"
	"github.com/SainathReddyM/py-file-converter/internal/engine"
	"github.com/SainathReddyM/py-file-converter/internal/models"
	"github.com/SainathReddyM/py-file-converter/internal/storage"
	"github.com/SainathReddyM/py-file-converter/internal/workspace"
)

const (
	DefaultMaxUploadBytes = 20 << 20
	DefaultMaxConcurrent  = 4
	DefaultAdmissionWait  = 5 * time.Second
)

// Options carries the orchestration limits resolved at startup.
type Options struct {
	TempRoot       string
	MaxUploadBytes int64
	MaxConcurrent  int64
	AdmissionWait  time.Duration
}

// Request is one inbound conversion, owned by the service for the
// duration of the call.
type Request struct {
	Payload  io.Reader
	Size     int64
	Filename string
	Source   models.Format
	Target   models.Format
}

// Result is a successful conversion. Close releases the workspace and
// must be called after the response body has been fully written.
type Result struct {
	Path         string
	DownloadName string
	ContentType  string
	ws           *workspace.Workspace
}

// Close removes the workspace holding the output file.
func (r *Result) Close() {
	if r != nil {
		r.ws.Cleanup()
	}
}

// Service composes upload receiving, admission, engine invocation, and
// job recording. Requests share nothing but the read-only options, the
// semaphore, and the recorder's connection pool.
type Service struct {
	opts     Options
	invoker  *engine.Invoker
	sem      *semaphore.Weighted
	recorder *storage.Recorder
}

// NewService builds the orchestrator. recorder may be nil; history is
// then simply not kept.
func NewService(opts Options, invoker *engine.Invoker, recorder *storage.Recorder) *Service {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultMaxConcurrent
	}
	if opts.AdmissionWait <= 0 {
		opts.AdmissionWait = DefaultAdmissionWait
	}
	return &Service{
		opts:     opts,
		invoker:  invoker,
		sem:      semaphore.NewWeighted(opts.MaxConcurrent),
		recorder: recorder,
	}
}

// MaxUploadBytes reports the configured upload ceiling.
func (s *Service) MaxUploadBytes() int64 {
	return s.opts.MaxUploadBytes
}

// Convert runs the request through the full pipeline. On success the
// caller owns the Result and must Close it after streaming; on error the
// workspace is already gone.
func (s *Service) Convert(ctx context.Context, req Request) (*Result, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	ws, written, err := s.receive(req)
	if err != nil {
		return nil, err
	}
	handedOff := false
	defer func() {
		if !handedOff {
			ws.Cleanup()
		}
	}()

	start := time.Now()
	if err := s.admit(ctx); err != nil {
		return nil, err
	}
	log.Printf("[%s] converting %s -> %s (%d bytes)", ws.ID, req.Source, req.Target, written)
	outcome := s.invoker.Convert(ctx, ws.Path(inputName(req)), ws.Dir, req.Target)
	s.sem.Release(1)

	if err := ctx.Err(); err != nil {
		// Client went away; the invoker already reaped the child.
		log.Printf("[%s] request canceled: %v", ws.ID, err)
		return nil, err
	}

	s.record(ws.ID, req, outcome, written, time.Since(start))

	switch outcome.Status {
	case engine.StatusSuccess:
		log.Printf("[%s] conversion succeeded: %s", ws.ID, outcome.OutputPath)
		handedOff = true
		return &Result{
			Path:         outcome.OutputPath,
			DownloadName: downloadName(req.Filename, req.Target),
			ContentType:  req.Target.ContentType(),
			ws:           ws,
		}, nil
	case engine.StatusTimeout:
		log.Printf("[%s] conversion timed out after %s", ws.ID, s.invoker.Timeout())
		return nil, fmt.Errorf("%w after %s", apperr.ErrTimeout, s.invoker.Timeout())
	default:
		log.Printf("[%s] conversion failed: %s", ws.ID, outcome.Diagnostic)
		return nil, fmt.Errorf("%w: %s", apperr.ErrEngineFailure, outcome.Diagnostic)
	}
}

// admit waits for a conversion slot, bounded by the admission window and
// by client disconnect.
func (s *Service) admit(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, s.opts.AdmissionWait)
	defer cancel()
	if err := s.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return apperr.ErrCapacityExceeded
	}
	return nil
}

// record persists the terminal outcome. Uses a detached context so a
// disconnected client still leaves a history row, and never surfaces
// recording errors to the request.
func (s *Service) record(jobID string, req Request, outcome engine.Outcome, size int64, elapsed time.Duration) {
	if s.recorder == nil {
		return
	}
	recCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	job := &models.ConversionJob{
		ID:           jobID,
		FileName:     req.Filename,
		SourceFormat: string(req.Source),
		TargetFormat: string(req.Target),
		Status:       jobStatus(outcome.Status),
		Diagnostic:   outcome.Diagnostic,
		SizeBytes:    size,
		DurationMS:   elapsed.Milliseconds(),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.recorder.Record(recCtx, job); err != nil {
		log.Printf("[%s] record job failed: %v", jobID, err)
	}
}

func jobStatus(st engine.Status) string {
	switch st {
	case engine.StatusSuccess:
		return models.JobStatusSuccess
	case engine.StatusTimeout:
		return models.JobStatusTimeout
	case engine.StatusInvalidInput:
		return models.JobStatusInvalidInput
	default:
		return models.JobStatusEngineFailure
	}
}

func downloadName(uploaded string, target models.Format) string {
	base := filepath.Base(uploaded)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "converted"
	}
	return base + target.Ext()
}
