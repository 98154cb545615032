package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sells-group/claims-risk-cli/internal/config"
	"github.com/sells-group/claims-risk-cli/internal/pipeline"
	"github.com/sells-group/claims-risk-cli/internal/report"
	"github.com/sells-group/claims-risk-cli/internal/store"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Run every risk detector against a claims file",
	Long: `Loads an XLSX or CSV claims export, cleans it, runs all detectors and
writes per-detector CSV exports, summary_report.txt and risk_report.html to
the output directory. The run summary is printed to stdout.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := applyDetectFlags(cmd.Flags(), cfg); err != nil {
			return err
		}
		if err := cfg.Validate("detect"); err != nil {
			return err
		}

		file, _ := cmd.Flags().GetString("file")
		save, _ := cmd.Flags().GetBool("save")

		var st store.Store
		if save {
			s, err := store.Open(ctx, cfg.Store)
			if err != nil {
				return eris.Wrap(err, "detect: open store")
			}
			if s != nil {
				defer s.Close() //nolint:errcheck
				st = s
			}
		}

		res, err := pipeline.New(cfg, st).Run(ctx, file, pipeline.RunOptions{WriteArtifacts: true})
		if err != nil {
			return eris.Wrap(err, "detect")
		}

		for _, f := range res.Files {
			zap.L().Debug("wrote report file", zap.String("path", f))
		}
		if err := report.Encode(cmd.OutOrStdout(), cfg.Output.Format, res.Summary); err != nil {
			return err
		}
		if res.RunID != "" {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "run %s saved; results in %s\n", res.RunID, cfg.Output.Dir)
		}
		return nil
	},
}

// applyDetectFlags overlays explicitly set flags onto the loaded config.
func applyDetectFlags(fs *pflag.FlagSet, c *config.Config) error {
	var err error
	set := func(name string, apply func() error) {
		if err != nil || !fs.Changed(name) {
			return
		}
		if applyErr := apply(); applyErr != nil {
			err = eris.Wrapf(applyErr, "detect: flag --%s", name)
		}
	}

	set("output", func() (e error) { c.Output.Dir, e = fs.GetString("output"); return })
	set("format", func() (e error) { c.Output.Format, e = fs.GetString("format"); return })
	set("sheet", func() (e error) { c.Input.Sheet, e = fs.GetString("sheet"); return })
	set("charset", func() (e error) { c.Input.Charset, e = fs.GetString("charset"); return })
	set("no-html", func() error {
		off, e := fs.GetBool("no-html")
		c.Output.HTML = !off
		return e
	})
	set("no-csv", func() error {
		off, e := fs.GetBool("no-csv")
		c.Output.CSV = !off
		return e
	})

	set("vin-threshold", func() (e error) { c.Detect.VINThreshold, e = fs.GetInt("vin-threshold"); return })
	set("std-dev-threshold", func() (e error) { c.Detect.StdDevThreshold, e = fs.GetFloat64("std-dev-threshold"); return })
	set("days-threshold", func() (e error) { c.Detect.DaysThreshold, e = fs.GetInt("days-threshold"); return })
	set("dealer-count-threshold", func() (e error) {
		c.Detect.DealerCountThreshold, e = fs.GetInt("dealer-count-threshold")
		return
	})
	set("dealer-amount-multiplier", func() (e error) {
		c.Detect.DealerAmountMultiplier, e = fs.GetFloat64("dealer-amount-multiplier")
		return
	})
	set("luxury-brands", func() (e error) { c.Detect.LuxuryBrands, e = fs.GetStringSlice("luxury-brands"); return })
	set("brand-resolver", func() (e error) { c.Detect.BrandResolver, e = fs.GetString("brand-resolver"); return })
	set("concurrency", func() (e error) { c.Detect.Concurrency, e = fs.GetInt("concurrency"); return })

	return err
}

func init() {
	f := detectCmd.Flags()
	f.String("file", "", "claims spreadsheet to analyze (.xlsx or .csv)")
	f.String("output", "", "output directory (default from config)")
	f.String("format", "", "stdout summary format: text, json or yaml")
	f.String("sheet", "", "worksheet name for XLSX input (default first sheet)")
	f.String("charset", "", "CSV character encoding, e.g. windows-1252")
	f.Bool("no-html", false, "skip risk_report.html")
	f.Bool("no-csv", false, "skip per-detector CSV exports")
	f.Bool("save", false, "record the run in the configured store")

	f.Int("vin-threshold", 0, "minimum claims per VIN to flag")
	f.Float64("std-dev-threshold", 0, "standard deviations above mean for high-dollar claims")
	f.Int("days-threshold", 0, "max days between claims on one VIN")
	f.Int("dealer-count-threshold", 0, "minimum claims per dealer to flag")
	f.Float64("dealer-amount-multiplier", 0, "multiple of the overall mean for dealer average")
	f.StringSlice("luxury-brands", nil, "luxury makes, comma separated")
	f.String("brand-resolver", "", "brand extraction strategy: token or allowlist")
	f.Int("concurrency", 0, "detectors to run in parallel (1 = sequential)")

	_ = detectCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(detectCmd)
}
