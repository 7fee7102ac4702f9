package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/SainathReddyM/py-file-converter/internal/config"
	"github.com/SainathReddyM/py-file-converter/internal/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := &config.Config{
		Databases: map[string]config.DatabaseConfig{
			"sqlite3": {DSN: ":memory:"},
		},
	}
	db, err := Open("sqlite3", cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := Migrate(db, "sqlite3"); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	return db
}

func TestOpenUnknownDriver(t *testing.T) {
	cfg := &config.Config{Databases: map[string]config.DatabaseConfig{"oracle": {}}}
	if _, err := Open("oracle", cfg); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
	if _, err := Open("sqlite3", cfg); err == nil {
		t.Fatalf("expected error for missing driver config")
	}
}

func TestRecordAndRecent(t *testing.T) {
	db := openTestDB(t)
	recorder := NewRecorder(db)

	now := time.Now().UTC().Truncate(time.Second)
	jobs := []*models.ConversionJob{
		{ID: "job-1", FileName: "a.pdf", SourceFormat: "pdf", TargetFormat: "docx", Status: models.JobStatusSuccess, SizeBytes: 100, DurationMS: 20, CreatedAt: now.Add(-2 * time.Minute)},
		{ID: "job-2", FileName: "b.pdf", SourceFormat: "pdf", TargetFormat: "docx", Status: models.JobStatusTimeout, Diagnostic: "took too long", CreatedAt: now.Add(-time.Minute)},
		{ID: "job-3", FileName: "c.docx", SourceFormat: "docx", TargetFormat: "pdf", Status: models.JobStatusEngineFailure, Diagnostic: "boom", CreatedAt: now},
	}
	for _, job := range jobs {
		if err := recorder.Record(context.Background(), job); err != nil {
			t.Fatalf("Record %s: %v", job.ID, err)
		}
	}

	got, err := recorder.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(got))
	}
	// Newest first.
	if got[0].ID != "job-3" || got[2].ID != "job-1" {
		t.Fatalf("unexpected order: %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
	}
	if got[0].Diagnostic != "boom" {
		t.Fatalf("diagnostic lost: %+v", got[0])
	}
}

func TestRecentLimit(t *testing.T) {
	db := openTestDB(t)
	recorder := NewRecorder(db)

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		job := &models.ConversionJob{
			ID: string(rune('a' + i)), FileName: "f.pdf",
			SourceFormat: "pdf", TargetFormat: "docx",
			Status: models.JobStatusSuccess, CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := recorder.Record(context.Background(), job); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := recorder.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("limit not applied: got %d", len(got))
	}
}

func TestRecordNilJob(t *testing.T) {
	recorder := NewRecorder(openTestDB(t))
	if err := recorder.Record(context.Background(), nil); err != nil {
		t.Fatalf("nil job should be a no-op, got %v", err)
	}
}
