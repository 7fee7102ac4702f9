package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/SainathReddyM/py-file-converter/internal/apperr"
	"github.com/SainathReddyM/py-file-converter/internal/workspace"
)

// validateRequest rejects clearly wrong uploads before any byte is
// written: wrong extension, declared-empty, or declared-oversize
// payloads never reach the filesystem or the engine.
func (s *Service) validateRequest(req Request) error {
	if req.Payload == nil || strings.TrimSpace(req.Filename) == "" {
		return fmt.Errorf("%w: file is required", apperr.ErrInvalidInput)
	}
	ext := strings.ToLower(filepath.Ext(req.Filename))
	if ext != req.Source.Ext() {
		return fmt.Errorf("%w: expected a %s file, got %q", apperr.ErrInvalidInput, req.Source, filepath.Base(req.Filename))
	}
	if req.Size == 0 {
		return fmt.Errorf("%w: empty payload", apperr.ErrInvalidInput)
	}
	if req.Size > s.opts.MaxUploadBytes {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", apperr.ErrPayloadTooLarge, req.Size, s.opts.MaxUploadBytes)
	}
	return nil
}

// receive materializes the payload into a fresh workspace, returning the
// byte count actually written. Any failure tears the workspace down
// before returning.
func (s *Service) receive(req Request) (*workspace.Workspace, int64, error) {
	ws, err := workspace.New(s.opts.TempRoot)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}

	dst, err := os.Create(ws.Path(inputName(req)))
	if err != nil {
		ws.Cleanup()
		return nil, 0, fmt.Errorf("%w: create input file: %v", apperr.ErrStorage, err)
	}

	written, err := io.Copy(dst, io.LimitReader(req.Payload, s.opts.MaxUploadBytes+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		ws.Cleanup()
		return nil, 0, fmt.Errorf("%w: write input file: %v", apperr.ErrStorage, err)
	}
	if written == 0 {
		ws.Cleanup()
		return nil, 0, fmt.Errorf("%w: empty payload", apperr.ErrInvalidInput)
	}
	if written > s.opts.MaxUploadBytes {
		ws.Cleanup()
		return nil, 0, fmt.Errorf("%w: limit is %d bytes", apperr.ErrPayloadTooLarge, s.opts.MaxUploadBytes)
	}
	return ws, written, nil
}

// inputName keeps the upload's base name but normalizes the extension,
// so the engine's same-basename output is predictable.
func inputName(req Request) string {
	base := filepath.Base(req.Filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "input"
	}
	return base + req.Source.Ext()
}
