package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/nfrund/flavorfusion/internal/config"
	"github.com/nfrund/flavorfusion/internal/gateway"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Env is what the commands need from the outside world. Tests replace it.
type Env struct {
	Fs         afero.Fs
	LoadConfig func() (*config.Config, error)
	NewBackend func(cfg config.Provider, logger *slog.Logger) (*gateway.Backend, error)
	Stderr     io.Writer
}

// DefaultEnv reads configuration from .env and the process environment and
// talks to the real backend.
func DefaultEnv() *Env {
	return &Env{
		Fs:         afero.NewOsFs(),
		LoadConfig: config.New,
		NewBackend: gateway.NewBackend,
		Stderr:     os.Stderr,
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd(env *Env) *cobra.Command {
	root := &cobra.Command{
		Use:   "flavorfusion",
		Short: "FlavorFusion restaurant catalog client",
		Long: `FlavorFusion browses and edits a restaurant catalog kept by a backend
data service.

Run "flavorfusion serve" for the web client, or use the commands below from
the terminal. The session token is kept in TOKEN_FILE between runs.

Use "flavorfusion [command] --help" for more information about a command.`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newServeCmd(env),
		newLoginCmd(env),
		newSignupCmd(env),
		newLogoutCmd(env),
		newWhoamiCmd(env),
		newRestaurantsCmd(env),
		newMenuCmd(env),
		newSchemaCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd(DefaultEnv()).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
