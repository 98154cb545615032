package detect

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/claims-risk-cli/internal/config"
	"github.com/sells-group/claims-risk-cli/internal/model"
)

// Runner executes a fixed detector set against one claims table.
type Runner struct {
	detectors   []Detector
	concurrency int
}

// Option customizes a Runner.
type Option func(*runnerOptions)

type runnerOptions struct {
	resolver  BrandResolver
	detectors []Detector
}

// WithBrandResolver overrides the brand resolution strategy of the luxury detector.
func WithBrandResolver(r BrandResolver) Option {
	return func(o *runnerOptions) { o.resolver = r }
}

// WithDetectors replaces the default detector set.
func WithDetectors(ds ...Detector) Option {
	return func(o *runnerOptions) { o.detectors = ds }
}

// NewRunner builds the seven detectors from one threshold record.
func NewRunner(cfg config.DetectConfig, opts ...Option) *Runner {
	var o runnerOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.detectors == nil {
		resolver := o.resolver
		if resolver == nil {
			resolver = NewCachedBrandResolver(resolverFor(cfg))
		}
		o.detectors = []Detector{
			MultipleClaimsPerVIN{Threshold: cfg.VINThreshold},
			HighDollarClaims{StdDevThreshold: cfg.StdDevThreshold},
			MultipleDealersPerVIN{},
			RepeatedClaimsTimeframe{DaysThreshold: cfg.DaysThreshold},
			HighClaimsPerDealer{CountThreshold: cfg.DealerCountThreshold, AmountMultiplier: cfg.DealerAmountMultiplier},
			NewLuxuryVehiclePatterns(cfg.LuxuryBrands, resolver),
			CoverageTypePatterns{},
		}
	}

	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{detectors: o.detectors, concurrency: concurrency}
}

func resolverFor(cfg config.DetectConfig) BrandResolver {
	if cfg.BrandResolver == "allowlist" {
		return NewAllowlistBrandResolver(cfg.LuxuryBrands)
	}
	return BrandResolverFunc(TokenBrand)
}

// Detectors returns the configured detectors in run order.
func (r *Runner) Detectors() []Detector {
	out := make([]Detector, len(r.detectors))
	copy(out, r.detectors)
	return out
}

// Run executes every detector. Results are stored by position, so the
// output is identical whether detectors run sequentially or in parallel.
// A detector that cannot run records its error on its own finding; only
// context cancellation fails the run.
func (r *Runner) Run(ctx context.Context, t *model.Table) (*model.Findings, error) {
	if t == nil {
		t = &model.Table{}
	}

	results := make([]model.Finding, len(r.detectors))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, d := range r.detectors {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return eris.Wrap(err, "detect: context cancelled")
			}
			results[i] = runOne(d, t)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return model.NewFindings(results...), nil
}

func runOne(d Detector, t *model.Table) (f model.Finding) {
	log := zap.L().With(zap.String("detector", string(d.Name())))

	if err := CheckSchema(d, t); err != nil {
		log.Warn("detect: skipping detector", zap.Error(err))
		return model.Finding{Detector: d.Name(), Err: err}
	}

	defer func() {
		if rec := recover(); rec != nil {
			err := eris.Errorf("detect: %s panicked: %v", d.Name(), rec)
			log.Error("detect: detector failed", zap.Error(err))
			f = model.Finding{Detector: d.Name(), Err: err}
		}
	}()

	start := time.Now()
	f = d.Detect(t)
	f.Detector = d.Name()

	log.Info("detect: detector complete",
		zap.Int("claims_flagged", len(f.Claims)),
		zap.Int("groups", len(f.Stats)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return f
}
