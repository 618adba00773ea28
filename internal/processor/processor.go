// Package processor consumes analysis jobs from the bus, runs the batch
// evidence pipeline, archives the reports, and announces each result.
package processor

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/veritas-agent/veritas/internal/batch"
	"github.com/veritas-agent/veritas/internal/bus"
)

// ReportStore is the slice of the archive the processor needs.
type ReportStore interface {
	SaveReport(ctx context.Context, jobID uuid.UUID, filePath, kind, report string) (uuid.UUID, error)
}

// Publisher is the slice of the bus client the processor needs.
type Publisher interface {
	Publish(subject string, data any) error
}

type Processor struct {
	pipeline *batch.Pipeline
	store    ReportStore
	pub      Publisher
	logger   *slog.Logger
}

// New builds a processor. store and pub may be nil; the pipeline still runs,
// just without archival or events.
func New(pipeline *batch.Pipeline, store ReportStore, pub Publisher, logger *slog.Logger) *Processor {
	return &Processor{pipeline: pipeline, store: store, pub: pub, logger: logger}
}

// HandleAnalysisRequested is the NATS handler for veritas.analysis.requested.
func (p *Processor) HandleAnalysisRequested(subject string, data []byte) {
	ctx := context.Background()

	var job bus.AnalysisJob
	if err := json.Unmarshal(data, &job); err != nil {
		p.logger.Error("failed to parse analysis job", "error", err)
		return
	}

	jobID, err := uuid.Parse(job.JobID)
	if err != nil {
		p.logger.Error("invalid job id", "job_id", job.JobID, "error", err)
		return
	}
	if len(job.Paths) == 0 {
		p.logger.Warn("analysis job has no paths", "job_id", job.JobID)
		return
	}

	p.logger.Info("processing analysis job",
		"job_id", job.JobID,
		"paths", len(job.Paths),
	)

	p.Run(ctx, jobID, job.Paths)
}

// Run executes the batch pipeline for one job, persisting and announcing
// each report. Per-file degradation is recorded, never fatal.
func (p *Processor) Run(ctx context.Context, jobID uuid.UUID, paths []string) []batch.Item {
	items := p.pipeline.Process(ctx, paths)

	for _, item := range items {
		var reportID uuid.UUID
		if p.store != nil {
			id, err := p.store.SaveReport(ctx, jobID, item.Path, string(item.Kind), item.Report)
			if err != nil {
				p.logger.Error("failed to archive report",
					"job_id", jobID,
					"path", item.Path,
					"error", err,
				)
			} else {
				reportID = id
			}
		}

		if p.pub != nil {
			evt := bus.ReportGenerated{
				JobID:    jobID.String(),
				ReportID: reportID.String(),
				FilePath: item.Path,
				Kind:     string(item.Kind),
				Degraded: item.Degraded,
				At:       time.Now().UTC(),
			}
			if err := p.pub.Publish(bus.SubjectReportGenerated, evt); err != nil {
				p.logger.Warn("failed to publish report event",
					"job_id", jobID,
					"path", item.Path,
					"error", err,
				)
			}
		}
	}

	p.logger.Info("analysis job complete", "job_id", jobID, "reports", len(items))
	return items
}
