package cli

import (
	"context"

	"github.com/spf13/cobra"

	"modelops/internal/azureml"
	"modelops/internal/common/fsutil"
	"modelops/internal/config"
	"modelops/pkg/types"
)

// modelRegistrar is the slice of azureml.Registrar the register command uses;
// a seam for tests.
type modelRegistrar interface {
	Register(ctx context.Context, name, localPath, description string) (types.RegisteredModel, error)
}

var newRegistrar = func(ws config.WorkspaceConfig) (modelRegistrar, error) {
	return azureml.NewRegistrar(ws)
}

func newRegisterCmd() *cobra.Command {
	var (
		path        string
		name        string
		description string
		wsPath      string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a local model into the workspace model registry",
		Example: "  modelctl register --path ./qwen --name qwen-7b-custom\n" +
			"  modelctl register --path ./qwen --name qwen-7b-custom --workspace-config ./config.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd.Context(), path, name, description, wsPath)
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Path to the local model folder")
	cmd.Flags().StringVar(&name, "name", "", "Model name in the workspace registry")
	cmd.Flags().StringVar(&description, "description", "", "Optional model description")
	cmd.Flags().StringVar(&wsPath, "workspace-config", "config.json", "Workspace config file (see config.json.template)")
	_ = cmd.MarkFlagRequired("path")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// runRegister checks the local path and workspace config before any client is
// constructed, then writes the model record.
func runRegister(ctx context.Context, path, name, description, wsPath string) error {
	if !fsutil.PathExists(path) {
		return azureml.ErrPathNotFound(path)
	}
	log.Info().Str("path", path).Str("name", name).Msg("registering model")

	ws, err := config.LoadWorkspace(wsPath)
	if err != nil {
		return err
	}
	log.Info().Str("workspace", ws.WorkspaceName).Msg("connected to workspace config")

	r, err := newRegistrar(ws)
	if err != nil {
		return err
	}
	registered, err := r.Register(ctx, name, path, description)
	if err != nil {
		return err
	}
	log.Info().
		Str("name", registered.Name).
		Str("version", registered.Version).
		Str("id", registered.ID).
		Msg("model registered successfully")
	return nil
}
