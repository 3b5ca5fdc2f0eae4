// Package cli implements the modelctl command tree: publishing utilities for
// local model artifacts (hub upload, workspace registration).
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"modelops/internal/azureml"
	"modelops/internal/config"
	"modelops/internal/hub"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// buildRootCmd constructs the Cobra command tree.
func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "modelctl",
		Short:         "Publish local models to a hub or a workspace registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	logLevel := root.PersistentFlags().String("log-level", "info", "Log level: debug|info|warn|error")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if lvl, err := zerolog.ParseLevel(*logLevel); err == nil {
			log = log.Level(lvl)
		}
	}

	root.AddCommand(newUploadCmd(), newRegisterCmd())
	return root
}

// Execute runs modelctl and returns the process exit code: 0 on success, 1 on
// any caught failure. Failures are logged with their taxonomy so configuration
// mistakes read differently from remote call failures.
func Execute() int {
	if err := buildRootCmd().Execute(); err != nil {
		switch {
		case config.IsValidationError(err):
			log.Error().Err(err).Msg("configuration error")
		case azureml.IsNotFound(err):
			log.Error().Err(err).Msg("file error")
		case hub.IsTransportError(err) || azureml.IsTransportError(err):
			log.Error().Err(err).Msg("remote call failed")
		default:
			log.Error().Err(err).Msg("error")
		}
		return 1
	}
	return 0
}
