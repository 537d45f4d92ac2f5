// Package orchestrator drives a full analysis run: prepare the file
// set, fan analyzers out concurrently, and aggregate their results
// into one AnalysisResult.
package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/codehawk/codehawk/internal/analyzers"
	"github.com/codehawk/codehawk/internal/config"
	"github.com/codehawk/codehawk/internal/discovery"
	cherrors "github.com/codehawk/codehawk/internal/errors"
	"github.com/codehawk/codehawk/internal/parser"
	"github.com/codehawk/codehawk/internal/patterns"
	"github.com/codehawk/codehawk/internal/types"
)

// State tracks run progress. Transitions are linear:
// Idle → Preparing → Running → Aggregating → Completed | Failed.
type State string

const (
	StateIdle        State = "idle"
	StatePreparing   State = "preparing"
	StateRunning     State = "running"
	StateAggregating State = "aggregating"
	StateCompleted   State = "completed"
	StateFailed      State = "failed"
)

// Runner executes analysis runs. A Runner is stateless between runs
// apart from the observable State of the most recent one.
type Runner struct {
	logger *zap.Logger

	mu    sync.RWMutex
	state State
}

// NewRunner creates a runner logging through the given logger.
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, state: StateIdle}
}

// State returns the current run state.
func (r *Runner) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Runner) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// Run analyzes the project at projectPath under cfg. Fatal errors
// (invalid configuration, missing root) return a nil result. A
// cancelled run returns the partial result salvaged from analyzers
// that completed, together with a non-nil error.
func (r *Runner) Run(ctx context.Context, projectPath string, cfg *config.Config) (*types.AnalysisResult, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if cfg.Root == "" {
		cfg.Root = projectPath
	}

	if err := config.Validate(cfg); err != nil {
		r.setState(StateFailed)
		return nil, err
	}

	// Preparing: materialize the immutable file set.
	r.setState(StatePreparing)
	target, err := r.prepare(projectPath, cfg)
	if err != nil {
		r.setState(StateFailed)
		return nil, err
	}

	// Running: one goroutine per enabled analyzer over the shared
	// read-only target. A failing or panicking analyzer contributes an
	// empty result; it never fails the run.
	r.setState(StateRunning)
	results := r.runAnalyzers(ctx, target, analyzers.Enabled(cfg))

	// Aggregating: merge whatever completed.
	r.setState(StateAggregating)
	result := r.aggregate(target, results)

	if ctx.Err() != nil {
		r.setState(StateFailed)
		return result, cherrors.New(cherrors.ErrorTypeInternal, "run", fmt.Errorf("analysis cancelled: %w", ctx.Err()))
	}

	r.setState(StateCompleted)
	return result, nil
}

func (r *Runner) prepare(projectPath string, cfg *config.Config) (*analyzers.Target, error) {
	disc := discovery.NewDiscoverer(cfg, r.logger)
	paths, err := disc.Discover(projectPath)
	if err != nil {
		return nil, err
	}
	files := disc.LoadFiles(projectPath, paths)

	extraRules, err := patterns.LoadRuleFiles(cfg.PatternFiles)
	if err != nil {
		return nil, cherrors.NewPreparationError("load pattern files", err)
	}

	return &analyzers.Target{
		Files:   files,
		Parser:  parser.NewManager(cfg.Thresholds.MaxNestingDepth, r.logger),
		Scanner: patterns.NewScanner(extraRules, r.logger),
		Config:  cfg,
		Logger:  r.logger,
	}, nil
}

// runAnalyzers fans out and waits for every analyzer. Results arrive
// indexed, so aggregation order never depends on completion order.
func (r *Runner) runAnalyzers(ctx context.Context, target *analyzers.Target, enabled []analyzers.Analyzer) []*types.AnalyzerResult {
	results := make([]*types.AnalyzerResult, len(enabled))

	g, ctx := errgroup.WithContext(ctx)
	for i, analyzer := range enabled {
		g.Go(func() error {
			results[i] = r.runOne(ctx, analyzer, target)
			return nil
		})
	}
	// Workers always return nil; failures are data.
	_ = g.Wait()

	return results
}

// runOne isolates a single analyzer: panics and errors become a failed
// AnalyzerResult with an empty contribution.
func (r *Runner) runOne(ctx context.Context, analyzer analyzers.Analyzer, target *analyzers.Target) (result *types.AnalyzerResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("analyzer panicked",
				zap.String("analyzer", analyzer.Name()), zap.Any("panic", rec))
			result = failedResult(analyzer.Name(), fmt.Sprintf("panic: %v", rec))
		}
	}()

	res, err := analyzer.Analyze(ctx, target)
	if err != nil {
		analyzerErr := cherrors.New(cherrors.ErrorTypeAnalyzer, "analyze", err).WithAnalyzer(analyzer.Name())
		r.logger.Warn("analyzer failed", zap.Error(analyzerErr))
		return failedResult(analyzer.Name(), err.Error())
	}
	if res == nil {
		return failedResult(analyzer.Name(), "analyzer returned no result")
	}
	return res
}

func failedResult(name, message string) *types.AnalyzerResult {
	return &types.AnalyzerResult{
		Analyzer: name,
		Success:  false,
		Issues:   []types.Issue{},
		Metrics:  map[string]float64{},
		Error:    message,
	}
}

// aggregate merges per-analyzer results into the final value object.
func (r *Runner) aggregate(target *analyzers.Target, results []*types.AnalyzerResult) *types.AnalysisResult {
	var issues []types.Issue
	metrics := make(map[string]map[string]float64)
	byAnalyzer := make(map[string]*types.AnalyzerResult)
	var languageLists [][]string

	for _, res := range results {
		if res == nil {
			continue
		}
		byAnalyzer[res.Analyzer] = res
		issues = append(issues, res.Issues...)
		if len(res.Metrics) > 0 {
			metrics[res.Analyzer] = res.Metrics
		}
		languageLists = append(languageLists, res.Languages)
	}

	types.SortIssues(issues)
	counts := types.CountSeverities(issues)

	totalLines := 0
	for _, f := range target.Files {
		totalLines += f.LineCount
	}

	result := &types.AnalysisResult{
		Summary: types.Summary{
			TotalFiles:     len(target.Files),
			TotalLines:     totalLines,
			Languages:      types.JoinLanguages(languageLists...),
			SeverityCounts: counts,
		},
		Issues:          issues,
		Metrics:         metrics,
		AnalyzerResults: byAnalyzer,
		OverallScore:    Score(counts, target.Config),
		Recommendations: recommend(issues, byAnalyzer),
	}
	if result.Issues == nil {
		result.Issues = []types.Issue{}
	}
	return result
}

// Score maps severity counts to [0, 100]. Pure and deterministic:
// identical counts always produce the identical score, independent of
// issue or file order.
func Score(counts map[types.Severity]int, cfg *config.Config) float64 {
	total := 0
	weighted := 0.0
	for severity, count := range counts {
		total += count
		weighted += cfg.Weight(severity) * float64(count)
	}
	if total == 0 {
		return 100
	}

	score := 100 - weighted/float64(total)*10
	if score < 0 {
		return 0
	}
	return score
}
