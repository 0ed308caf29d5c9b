// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/delaycast/delaycast/internal/contract"
	"github.com/delaycast/delaycast/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WritePipeline prints a full pipeline run using the configured output format.
func (ow *OutWriter) WritePipeline(report *schema.PipelineReport, cfg *contract.Config, duration time.Duration) error {
	return PrintPipelineReport(report, cfg, duration)
}

// WriteStationarity prints stationarity results using the configured output format.
func (ow *OutWriter) WriteStationarity(report *schema.PipelineReport, cfg *contract.Config, duration time.Duration) error {
	return PrintStationarityReport(report, cfg, duration)
}

// WriteTransform prints transform results using the configured output format.
func (ow *OutWriter) WriteTransform(report *schema.TransformReport, cfg *contract.Config, duration time.Duration) error {
	return PrintTransformReport(report, cfg, duration)
}

// WriteDecomposition prints decomposition results using the configured output format.
func (ow *OutWriter) WriteDecomposition(series *schema.Series, decomposition *schema.Decomposition, cfg *contract.Config, duration time.Duration) error {
	return PrintDecomposition(series, decomposition, cfg, duration)
}

// WriteRuns prints tracked run history using the configured output format.
func (ow *OutWriter) WriteRuns(runs []schema.RunRecord, cfg *contract.Config, duration time.Duration) error {
	return PrintRunRecords(runs, cfg, duration)
}

// WriteRunStatus prints run store status using the configured output format.
func (ow *OutWriter) WriteRunStatus(status schema.RunStoreStatus, cfg *contract.Config) error {
	return PrintRunStatus(status, cfg)
}
