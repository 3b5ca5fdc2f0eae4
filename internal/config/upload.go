package config

import (
	"os"

	"modelops/internal/common/fsutil"
)

// Placeholder values shipped in the sample upload config. A setting still
// holding one of these counts as unset.
const (
	PlaceholderToken    = "hf_your_write_token_here"
	PlaceholderUsername = "your_hf_username"
)

// DefaultHubEndpoint is the public Hugging Face Hub API endpoint.
const DefaultHubEndpoint = "https://huggingface.co"

// UploadConfig holds settings for `modelctl upload`.
// Zero values mean "unspecified" and will be replaced by env/flags in the CLI.
type UploadConfig struct {
	Token       string `json:"token" yaml:"token" toml:"token"`
	Username    string `json:"username" yaml:"username" toml:"username"`
	RepoName    string `json:"repo_name" yaml:"repo_name" toml:"repo_name"`
	LocalFolder string `json:"local_folder" yaml:"local_folder" toml:"local_folder"`
	Endpoint    string `json:"endpoint" yaml:"endpoint" toml:"endpoint"`
}

// ApplyEnv overlays HF_* environment variables on top of the file values.
func (c *UploadConfig) ApplyEnv() {
	if v := os.Getenv("HF_TOKEN"); v != "" {
		c.Token = v
	}
	if v := os.Getenv("HF_USERNAME"); v != "" {
		c.Username = v
	}
	if v := os.Getenv("HF_REPO"); v != "" {
		c.RepoName = v
	}
	if v := os.Getenv("HF_FOLDER"); v != "" {
		c.LocalFolder = v
	}
	if v := os.Getenv("HF_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
}

// Validate checks required settings and the local folder before any network
// call is attempted. All violations are reported at once.
func (c *UploadConfig) Validate() error {
	var missing []string
	if c.Token == "" || c.Token == PlaceholderToken {
		missing = append(missing, "token (Hub write token)")
	}
	if c.Username == "" || c.Username == PlaceholderUsername {
		missing = append(missing, "username (Hub username)")
	}
	if c.RepoName == "" {
		missing = append(missing, "repo_name (Hub repository)")
	}
	if c.LocalFolder == "" || !fsutil.PathExists(c.LocalFolder) {
		missing = append(missing, "local_folder (path to model files)")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
