package cmd

import (
	"fmt"

	"github.com/nfrund/flavorfusion/internal/logging"
	"github.com/nfrund/flavorfusion/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(env *Env) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web client",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := env.LoadConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireSessionSecret(); err != nil {
				return err
			}
			logger := logging.New(cfg.GetLogFormat(), cfg.GetLogLevel())

			backend, err := env.NewBackend(cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to configure backend: %w", err)
			}
			s, err := server.New(cfg, backend, logger)
			if err != nil {
				return fmt.Errorf("failed to build server: %w", err)
			}
			if addr == "" {
				addr = cfg.GetAppAddr()
			}
			return s.Start(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to APP_ADDR)")
	return cmd
}
