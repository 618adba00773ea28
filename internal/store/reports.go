package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReportRecord is one archived report row.
type ReportRecord struct {
	ID        uuid.UUID `json:"id"`
	JobID     uuid.UUID `json:"job_id"`
	FilePath  string    `json:"file_path"`
	Kind      string    `json:"kind"`
	Report    string    `json:"report"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveReport archives one generated report and returns its id.
func (s *Store) SaveReport(ctx context.Context, jobID uuid.UUID, filePath, kind, report string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO veritas_reports (id, job_id, file_path, kind, report, created_at)
		VALUES ($1, $2, $3, $4, $5, now())`,
		id, jobID, filePath, kind, report,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert report: %w", err)
	}
	return id, nil
}

// RecentReports returns the newest archived reports, newest first.
func (s *Store) RecentReports(ctx context.Context, limit int) ([]ReportRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, job_id, file_path, kind, report, created_at
		FROM veritas_reports
		ORDER BY created_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var records []ReportRecord
	for rows.Next() {
		var rec ReportRecord
		if err := rows.Scan(&rec.ID, &rec.JobID, &rec.FilePath, &rec.Kind, &rec.Report, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ReportsForJob returns every report archived under one batch job.
func (s *Store) ReportsForJob(ctx context.Context, jobID uuid.UUID) ([]ReportRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, job_id, file_path, kind, report, created_at
		FROM veritas_reports
		WHERE job_id = $1
		ORDER BY created_at`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("query job reports: %w", err)
	}
	defer rows.Close()

	var records []ReportRecord
	for rows.Next() {
		var rec ReportRecord
		if err := rows.Scan(&rec.ID, &rec.JobID, &rec.FilePath, &rec.Kind, &rec.Report, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
