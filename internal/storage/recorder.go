package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/SainathReddyM/py-file-converter/internal/models"
)

// Recorder persists finished conversion jobs for the history endpoint.
type Recorder struct {
	db *sql.DB
}

// NewRecorder wraps the database handle.
func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db}
}

// Record inserts one finished job. Callers treat failures as
// non-fatal: a lost history row must never fail the conversion itself.
func (r *Recorder) Record(ctx context.Context, job *models.ConversionJob) error {
	if job == nil {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO conversions
			(id, file_name, source_format, target_format, status, diagnostic, size_bytes, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.FileName, job.SourceFormat, job.TargetFormat,
		job.Status, job.Diagnostic, job.SizeBytes, job.DurationMS, job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record conversion %s: %w", job.ID, err)
	}
	return nil
}

// Recent returns up to limit jobs, newest first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]*models.ConversionJob, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, file_name, source_format, target_format, status, diagnostic, size_bytes, duration_ms, created_at
		 FROM conversions ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list conversions: %w", err)
	}
	defer rows.Close()

	var jobs []*models.ConversionJob
	for rows.Next() {
		var job models.ConversionJob
		if err := rows.Scan(
			&job.ID, &job.FileName, &job.SourceFormat, &job.TargetFormat,
			&job.Status, &job.Diagnostic, &job.SizeBytes, &job.DurationMS, &job.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan conversion row: %w", err)
		}
		jobs = append(jobs, &job)
	}
	return jobs, rows.Err()
}
