package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ventureshield/internal/cache"
	"ventureshield/internal/catalog"
	"ventureshield/internal/model"
	"ventureshield/internal/scoring"
)

var errEnricherPanic = errors.New("enricher panicked")

// DefaultEnrichTimeout bounds an enrichment call when no timeout is configured
const DefaultEnrichTimeout = 20 * time.Second

// AnalysisOptions tunes the enrichment step.
// Non-positive values take the defaults; MaxDelta can only tighten the ±15 bound.
type AnalysisOptions struct {
	Timeout  time.Duration // Wall-clock budget for one enrichment call
	MaxDelta float64       // Max points enrichment may move a section score
}

// AnalysisService turns submissions into reports.
// Enrichment is attempted once per submission; any failure yields the
// deterministic fallback built from the pre-score.
type AnalysisService struct {
	catalog  *catalog.Catalog
	scorer   *scoring.Scorer
	enricher Enricher
	reports  cache.ReportCache
	opts     AnalysisOptions
	metrics  *Metrics
	logger   *slog.Logger
}

// NewAnalysisService creates a new analysis service.
// enricher, reports and metrics may be nil.
func NewAnalysisService(
	cat *catalog.Catalog,
	enricher Enricher,
	reports cache.ReportCache,
	opts AnalysisOptions,
	metrics *Metrics,
	logger *slog.Logger,
) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultEnrichTimeout
	}
	if opts.MaxDelta <= 0 || opts.MaxDelta > scoring.DefaultMaxDelta {
		opts.MaxDelta = scoring.DefaultMaxDelta
	}
	return &AnalysisService{
		catalog:  cat,
		scorer:   scoring.NewScorer(cat),
		enricher: enricher,
		reports:  reports,
		opts:     opts,
		metrics:  metrics,
		logger:   logger,
	}
}

// Catalog returns the question catalog the service scores against
func (s *AnalysisService) Catalog() *catalog.Catalog {
	return s.catalog
}

// PreScore validates a submission and returns its deterministic scores
func (s *AnalysisService) PreScore(ctx context.Context, sub *model.Submission) (*model.PreScoreResult, error) {
	if err := s.validate(ctx, sub); err != nil {
		return nil, err
	}
	return s.scorer.Score(sub.Answers)
}

// Analyze validates, scores and enriches a submission. The only errors
// returned are a *ValidationError or a scoring precondition violation.
func (s *AnalysisService) Analyze(ctx context.Context, sub *model.Submission) (*model.AnalysisResult, model.AnalysisSource, error) {
	pre, err := s.PreScore(ctx, sub)
	if err != nil {
		return nil, "", err
	}

	digest := s.lookupDigest(ctx, sub)
	if cached := s.cachedReport(ctx, digest, pre); cached != nil {
		s.metrics.observeAnalysis(model.SourceCache, cached.CompositeScore)
		return cached, model.SourceCache, nil
	}

	result, ok := s.enrich(ctx, sub, pre)
	if !ok {
		result = scoring.BuildFallback(pre)
		s.metrics.observeAnalysis(model.SourceFallback, result.CompositeScore)
		return result, model.SourceFallback, nil
	}

	s.storeReport(ctx, digest, result)
	s.metrics.observeAnalysis(model.SourceEnriched, result.CompositeScore)
	return result, model.SourceEnriched, nil
}

func (s *AnalysisService) validate(ctx context.Context, sub *model.Submission) error {
	warnings, err := ValidateSubmission(s.catalog, sub)
	for _, w := range warnings {
		s.logger.WarnContext(ctx, "submission warning", "detail", w)
	}
	return err
}

// enrich runs one bounded enrichment attempt. It never returns an error:
// the boolean is false whenever the result must not be used.
func (s *AnalysisService) enrich(ctx context.Context, sub *model.Submission, pre *model.PreScoreResult) (*model.AnalysisResult, bool) {
	if s.enricher == nil {
		s.metrics.enrichmentFailed(ReasonDisabled)
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	type outcome struct {
		result *model.AnalysisResult
		err    error
	}
	done := make(chan outcome, 1)
	start := time.Now()

	// The enricher may outlive the deadline, so it gets its own copy of pre
	go func(pre *model.PreScoreResult) {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("%w: %v", errEnricherPanic, r)}
			}
		}()
		result, err := s.enricher.Enrich(ctx, sub, pre)
		done <- outcome{result: result, err: err}
	}(clonePreScore(pre))

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out.err = ctx.Err()
	}
	s.metrics.observeEnrichment(time.Since(start).Seconds())

	if out.err == nil {
		out.err = scoring.ValidateEnrichment(out.result, pre, s.opts.MaxDelta)
	}
	if out.err != nil {
		reason := failureReason(out.err)
		s.metrics.enrichmentFailed(reason)
		if reason == ReasonDisabled {
			s.logger.DebugContext(ctx, "enrichment disabled, using fallback")
		} else {
			s.logger.WarnContext(ctx, "enrichment failed, using fallback", "reason", reason, "error", out.err)
		}
		return nil, false
	}
	return out.result, true
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrEnrichmentDisabled):
		return ReasonDisabled
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, scoring.ErrNonConforming):
		return ReasonNonConforming
	case errors.Is(err, errEnricherPanic):
		return ReasonPanic
	default:
		return ReasonError
	}
}

func (s *AnalysisService) lookupDigest(ctx context.Context, sub *model.Submission) string {
	if s.reports == nil {
		return ""
	}
	digest, err := cache.SubmissionDigest(sub)
	if err != nil {
		s.logger.WarnContext(ctx, "submission digest failed", "error", err)
		return ""
	}
	return digest
}

// cachedReport returns a stored report that still conforms to pre. Entries
// written under another catalog or a wider delta are evicted.
func (s *AnalysisService) cachedReport(ctx context.Context, digest string, pre *model.PreScoreResult) *model.AnalysisResult {
	if digest == "" {
		return nil
	}
	cached, err := s.reports.GetReport(ctx, digest)
	if err != nil {
		s.logger.WarnContext(ctx, "report cache read failed", "error", err)
		return nil
	}
	if cached == nil {
		return nil
	}
	if err := scoring.ValidateEnrichment(cached, pre, s.opts.MaxDelta); err != nil {
		s.logger.InfoContext(ctx, "evicting stale cached report", "digest", digest, "error", err)
		if err := s.reports.DeleteReport(ctx, digest); err != nil {
			s.logger.WarnContext(ctx, "report cache delete failed", "error", err)
		}
		return nil
	}
	return cached
}

func (s *AnalysisService) storeReport(ctx context.Context, digest string, result *model.AnalysisResult) {
	if digest == "" {
		return
	}
	if err := s.reports.SetReport(ctx, digest, result); err != nil {
		s.logger.WarnContext(ctx, "report cache write failed", "error", err)
	}
}

func clonePreScore(pre *model.PreScoreResult) *model.PreScoreResult {
	out := &model.PreScoreResult{
		CompositeScore: pre.CompositeScore,
		SectionScores:  make(map[model.SectionID]float64, len(pre.SectionScores)),
		SectionDetails: append([]model.SectionPreScore(nil), pre.SectionDetails...),
	}
	for id, v := range pre.SectionScores {
		out.SectionScores[id] = v
	}
	return out
}
