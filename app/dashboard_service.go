package app

import (
	"context"
	"fmt"
	"time"

	"bmidash/domain/dataset"
	"bmidash/domain/stats"
	"bmidash/internal"
	"bmidash/internal/analysis"
	apperrors "bmidash/internal/errors"
	"bmidash/internal/profiling"
	"bmidash/internal/session"
	"bmidash/ports"
)

// Dashboard is everything one render pass produces for the presentation layer
type Dashboard struct {
	Ready     bool                   `json:"ready"`
	Result    stats.OverweightResult `json:"result"`
	Slices    []stats.Slice          `json:"slices"`
	Summary   stats.BMISummary       `json:"summary"`
	Records   int                    `json:"records"`
	Snapshot  *dataset.Snapshot      `json:"snapshot,omitempty"`
	RuntimeMs int64                  `json:"runtime_ms"`
}

// CountSentence is the plain-text summary line
func (d *Dashboard) CountSentence() string {
	return fmt.Sprintf("There are %d overweight individuals in the dataset.", d.Result.Count)
}

// DashboardService runs the download step and the per-request render pass
type DashboardService struct {
	acquirer ports.DatasetAcquirer
	loader   ports.DatasetLoader
	analyzer *profiling.DistributionAnalyzer
	logger   *internal.Logger
}

// NewDashboardService creates a dashboard service
func NewDashboardService(acquirer ports.DatasetAcquirer, loader ports.DatasetLoader, logger *internal.Logger) *DashboardService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DashboardService{
		acquirer: acquirer,
		loader:   loader,
		analyzer: profiling.NewDistributionAnalyzer(),
		logger:   logger.With("Dashboard"),
	}
}

// Download acquires the dataset and marks the session ready on success.
// On failure the session stays not ready and the acquisition error is returned.
func (s *DashboardService) Download(ctx context.Context, state *session.State) error {
	if err := s.acquirer.Acquire(ctx); err != nil {
		s.logger.Warn("dataset download failed: %v", err)
		return err
	}
	state.MarkReady()
	return nil
}

// Render runs one pass. A session that is not ready gets a not-ready dashboard and
// nothing is loaded. A parse failure aborts the pass.
func (s *DashboardService) Render(ctx context.Context, state *session.State) (*Dashboard, error) {
	if !state.IsReady() {
		return &Dashboard{Ready: false}, nil
	}

	startTime := time.Now()

	table, err := s.loader.Load(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load dataset")
	}

	result := analysis.ComputeOverweightAggregation(table)
	if len(result.Excluded) > 0 {
		s.logger.Warn("%d records excluded: no valid BMI", len(result.Excluded))
	}

	summary, err := s.analyzer.Summarize(analysis.ValidBMIs(table))
	if err != nil {
		// the summary is supplementary, the pass continues without it
		s.logger.Warn("BMI summary failed: %v", err)
		summary = stats.BMISummary{}
	}

	dashboard := &Dashboard{
		Ready:     true,
		Result:    result,
		Slices:    result.Slices(),
		Summary:   summary,
		Records:   table.Len(),
		RuntimeMs: time.Since(startTime).Milliseconds(),
	}
	if snapshot, ok := s.acquirer.Snapshot(); ok {
		dashboard.Snapshot = &snapshot
	}
	s.logger.Debug("render pass: %d records, %d overweight in %dms", dashboard.Records, result.Count, dashboard.RuntimeMs)
	s.logger.Trace("slices: %+v", dashboard.Slices)

	return dashboard, nil
}
