// Package pipeline wires ingestion, detection, reporting and the run audit
// log into a single call shared by the CLI and the HTTP API.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/claims-risk-cli/internal/clean"
	"github.com/sells-group/claims-risk-cli/internal/config"
	"github.com/sells-group/claims-risk-cli/internal/detect"
	"github.com/sells-group/claims-risk-cli/internal/fetcher"
	"github.com/sells-group/claims-risk-cli/internal/model"
	"github.com/sells-group/claims-risk-cli/internal/report"
	"github.com/sells-group/claims-risk-cli/internal/store"
)

// Pipeline runs the full detection flow for one input file at a time.
// It is safe for concurrent use when the store is.
type Pipeline struct {
	cfg    *config.Config
	store  store.Store
	runner *detect.Runner
}

// RunOptions customizes a single Run.
type RunOptions struct {
	// Source labels the run; defaults to the input file's base name.
	Source string
	// WriteArtifacts writes report files to the configured output dir.
	WriteArtifacts bool
}

// Result holds everything produced by one run.
type Result struct {
	RunID    string          `json:"run_id,omitempty"`
	Summary  model.Summary   `json:"summary"`
	Findings *model.Findings `json:"-"`
	Table    *model.Table    `json:"-"`
	Files    []string        `json:"files,omitempty"`
}

// New creates a Pipeline. st may be nil, in which case no audit record is kept.
func New(cfg *config.Config, st store.Store, opts ...detect.Option) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		store:  st,
		runner: detect.NewRunner(cfg.Detect, opts...),
	}
}

// Run loads the file at path, runs every detector, assembles the summary and,
// if requested, writes report artifacts. When a store is configured the run
// is recorded as running, then complete or failed.
func (p *Pipeline) Run(ctx context.Context, path string, opts RunOptions) (*Result, error) {
	source := opts.Source
	if source == "" {
		source = filepath.Base(path)
	}
	log := zap.L().With(zap.String("source", source))
	log.Info("pipeline: starting detection")
	start := time.Now()

	res := &Result{}
	if p.store != nil {
		run, err := p.store.CreateRun(ctx, source)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: create run")
		}
		res.RunID = run.ID
	}

	// Status writes must land even after ctx is cancelled by a signal.
	statusCtx := context.WithoutCancel(ctx)

	if err := p.execute(ctx, path, source, opts, res); err != nil {
		log.Error("pipeline: detection failed", zap.Error(err))
		if p.store != nil {
			if failErr := p.store.FailRun(statusCtx, res.RunID, err.Error()); failErr != nil {
				log.Warn("pipeline: failed to record failure", zap.Error(failErr))
			}
		}
		return res, err
	}

	if p.store != nil {
		if err := p.store.CompleteRun(statusCtx, res.RunID, &res.Summary); err != nil {
			return res, eris.Wrap(err, "pipeline: complete run")
		}
	}

	log.Info("pipeline: detection complete",
		zap.String("run_id", res.RunID),
		zap.Int("claims", res.Summary.TotalClaims),
		zap.Int("patterns", len(res.Summary.RiskPatterns)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

func (p *Pipeline) execute(ctx context.Context, path, source string, opts RunOptions, res *Result) error {
	table, err := clean.Load(ctx, path, fetcher.Options{
		SheetName: p.cfg.Input.Sheet,
		Charset:   p.cfg.Input.Charset,
	})
	if err != nil {
		return err
	}
	res.Table = table

	findings, err := p.runner.Run(ctx, table)
	if err != nil {
		return eris.Wrap(err, "pipeline: run detectors")
	}
	res.Findings = findings

	res.Summary = detect.Summarize(table, findings)
	res.Summary.Source = source

	if !opts.WriteArtifacts {
		return nil
	}
	files, err := report.WriteAll(report.Options{
		Dir:  p.cfg.Output.Dir,
		CSV:  p.cfg.Output.CSV,
		HTML: p.cfg.Output.HTML,
	}, table.Columns, res.Summary, findings)
	res.Files = files
	return err
}
