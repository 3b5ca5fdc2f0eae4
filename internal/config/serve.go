package config

// ServeConfig holds runtime parameters for the inferd daemon.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type ServeConfig struct {
	Addr         string `json:"addr" yaml:"addr" toml:"addr"`
	ModelDir     string `json:"model_dir" yaml:"model_dir" toml:"model_dir"`
	LogLevel     string `json:"log_level" yaml:"log_level" toml:"log_level"`
	MaxBodyBytes int64  `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	CtxSize      int    `json:"ctx_size" yaml:"ctx_size" toml:"ctx_size"`
	Threads      int    `json:"threads" yaml:"threads" toml:"threads"`

	CORSEnabled        bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" toml:"cors_allowed_origins"`
	CORSAllowedMethods []string `json:"cors_allowed_methods" yaml:"cors_allowed_methods" toml:"cors_allowed_methods"`
	CORSAllowedHeaders []string `json:"cors_allowed_headers" yaml:"cors_allowed_headers" toml:"cors_allowed_headers"`
}
