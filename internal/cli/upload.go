package cli

import (
	"context"

	"github.com/spf13/cobra"

	"modelops/internal/config"
	"modelops/internal/hub"
)

// hubClient is the slice of hub.Client the upload command uses; a seam for
// tests.
type hubClient interface {
	EnsureRepo(ctx context.Context, owner, name string) error
	UploadFolder(ctx context.Context, owner, name, folder string) (int, error)
	RepoURL(owner, name string) string
}

var newHubClient = func(endpoint, token string) hubClient {
	return hub.NewClient(endpoint, token)
}

func newUploadCmd() *cobra.Command {
	var cfgPath string
	var flagCfg config.UploadConfig

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a local model folder to the hub as a private repository",
		Example: "  modelctl upload --config upload.yaml\n" +
			"  HF_TOKEN=hf_... modelctl upload --username alice --repo qwen-7b-private --folder ./qwen",
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg config.UploadConfig
			if cfgPath != "" {
				if err := config.Load(cfgPath, &cfg); err != nil {
					return err
				}
			}
			cfg.ApplyEnv()
			// Flags take precedence over env and file values.
			if flagCfg.Token != "" {
				cfg.Token = flagCfg.Token
			}
			if flagCfg.Username != "" {
				cfg.Username = flagCfg.Username
			}
			if flagCfg.RepoName != "" {
				cfg.RepoName = flagCfg.RepoName
			}
			if flagCfg.LocalFolder != "" {
				cfg.LocalFolder = flagCfg.LocalFolder
			}
			if flagCfg.Endpoint != "" {
				cfg.Endpoint = flagCfg.Endpoint
			}
			if cfg.Endpoint == "" {
				cfg.Endpoint = config.DefaultHubEndpoint
			}
			return runUpload(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "Path to an upload config file (yaml/json/toml)")
	cmd.Flags().StringVar(&flagCfg.Token, "token", "", "Hub write token (defaults HF_TOKEN)")
	cmd.Flags().StringVar(&flagCfg.Username, "username", "", "Hub username (defaults HF_USERNAME)")
	cmd.Flags().StringVar(&flagCfg.RepoName, "repo", "", "Hub repository name (defaults HF_REPO)")
	cmd.Flags().StringVar(&flagCfg.LocalFolder, "folder", "", "Path to the local model folder (defaults HF_FOLDER)")
	cmd.Flags().StringVar(&flagCfg.Endpoint, "endpoint", "", "Hub API endpoint (defaults HF_ENDPOINT)")
	return cmd
}

// runUpload validates cfg eagerly, then ensures the private repository exists
// and uploads the whole folder. A failed upload has no partial-recovery; it
// must be re-run in full.
func runUpload(ctx context.Context, cfg config.UploadConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	c := newHubClient(cfg.Endpoint, cfg.Token)
	log.Info().Str("repo", cfg.Username+"/"+cfg.RepoName).Msg("checking repository")
	if err := c.EnsureRepo(ctx, cfg.Username, cfg.RepoName); err != nil {
		return err
	}
	log.Info().Str("url", c.RepoURL(cfg.Username, cfg.RepoName)).Msg("repository ready")

	log.Info().Str("folder", cfg.LocalFolder).Msg("starting upload, this may take a while")
	n, err := c.UploadFolder(ctx, cfg.Username, cfg.RepoName, cfg.LocalFolder)
	if err != nil {
		return err
	}
	log.Info().Int("files", n).Str("url", c.RepoURL(cfg.Username, cfg.RepoName)).Msg("upload successful")
	return nil
}
