package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/claims-risk-cli/internal/api"
	"github.com/sells-group/claims-risk-cli/internal/pipeline"
	"github.com/sells-group/claims-risk-cli/internal/store"
)

const shutdownTimeout = 15 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for claim file uploads",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return eris.Wrap(err, "serve: open store")
		}
		if st != nil {
			defer st.Close() //nolint:errcheck
		} else {
			zap.L().Warn("run history disabled; /v1/runs will return 503")
		}

		srv := api.NewServer(cfg.Server, pipeline.New(cfg, st), st)

		zap.L().Info("starting server", zap.Int("port", cfg.Server.Port))
		return srv.ListenAndServe(ctx, fmt.Sprintf(":%d", cfg.Server.Port), shutdownTimeout)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
