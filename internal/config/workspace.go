package config

// WorkspaceConfig identifies the Azure ML workspace used by
// `modelctl register`. It follows the config.json convention of the Azure ML
// SDKs (see config.json.template at the repository root).
type WorkspaceConfig struct {
	SubscriptionID string `json:"subscription_id" yaml:"subscription_id" toml:"subscription_id"`
	ResourceGroup  string `json:"resource_group" yaml:"resource_group" toml:"resource_group"`
	WorkspaceName  string `json:"workspace_name" yaml:"workspace_name" toml:"workspace_name"`
}

// LoadWorkspace reads and validates a workspace config file.
func LoadWorkspace(path string) (WorkspaceConfig, error) {
	var ws WorkspaceConfig
	if err := Load(path, &ws); err != nil {
		return ws, err
	}
	return ws, ws.Validate()
}

// Validate checks that every field required to reach the workspace is set.
func (w *WorkspaceConfig) Validate() error {
	var missing []string
	if w.SubscriptionID == "" {
		missing = append(missing, "subscription_id")
	}
	if w.ResourceGroup == "" {
		missing = append(missing, "resource_group")
	}
	if w.WorkspaceName == "" {
		missing = append(missing, "workspace_name")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
