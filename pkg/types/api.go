package types

// GenerateRequest is the JSON payload accepted by POST /score.
// Optional sampling fields are pointers so that "absent" can be told apart
// from an explicit zero; absent fields receive the documented defaults at the
// handler boundary. Values are passed through to the runtime unclamped.
type GenerateRequest struct {
	// Required prompt text to generate a completion for.
	// example: Write a haiku about the ocean.
	Prompt string `json:"prompt" example:"Write a haiku about the ocean."`
	// Maximum number of new tokens to generate. Default: 512.
	// example: 128
	MaxNewTokens *int `json:"max_new_tokens,omitempty" example:"128"`
	// Sampling temperature (higher = more random). Default: 0.7.
	// example: 0.7
	Temperature *float64 `json:"temperature,omitempty" example:"0.7"`
	// Nucleus sampling probability. Default: 0.9.
	// example: 0.9
	TopP *float64 `json:"top_p,omitempty" example:"0.9"`
	// Top-K sampling: limit candidates to top K tokens. Default: 50.
	// example: 50
	TopK *int `json:"top_k,omitempty" example:"50"`
	// Whether to sample stochastically; false means greedy decoding.
	// Default: true.
	// example: true
	DoSample *bool `json:"do_sample,omitempty" example:"true"`
}

// GenerateResponse is the JSON payload returned by POST /score.
// Exactly one of Result/Error is meaningful: a failed request carries only
// Error, a successful one carries Result plus the token counters.
type GenerateResponse struct {
	// Decoded output (prompt plus continuation, special tokens stripped).
	// example: Write a haiku about the ocean. Waves whisper softly...
	Result string `json:"result,omitempty" example:"Write a haiku about the ocean. Waves whisper softly..."`
	// Number of tokens in the prompt.
	// example: 8
	PromptLength int `json:"prompt_length,omitempty" example:"8"`
	// Number of generated tokens (total output tokens minus prompt tokens).
	// example: 42
	GeneratedLength int `json:"generated_length,omitempty" example:"42"`
	// Error message when the request failed.
	// example: No prompt provided
	Error string `json:"error,omitempty" example:"No prompt provided"`
}

// ErrorResponse is the consistent JSON error payload used by non-scoring
// routes.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Overall handler state (loading, ready, error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Model directory the handler was initialized from.
	// example: /var/azureml-app/azureml-models/qwen-7b-custom/1
	ModelDir string `json:"model_dir" example:"/var/azureml-app/azureml-models/qwen-7b-custom/1"`
	// Resolved model path actually loaded (may be a subdirectory of ModelDir).
	// example: /var/azureml-app/azureml-models/qwen-7b-custom/1/qwen
	ModelPath string `json:"model_path,omitempty" example:"/var/azureml-app/azureml-models/qwen-7b-custom/1/qwen"`
	// Last initialization error, if any.
	LastError string `json:"last_error,omitempty"`
	// Requests served since startup.
	// example: 17
	RequestsTotal uint64 `json:"requests_total" example:"17"`
	// Tokens generated since startup.
	// example: 2048
	TokensTotal uint64 `json:"tokens_total" example:"2048"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// RegisteredModel describes a model version created in the workspace
// registry by `modelctl register`.
type RegisteredModel struct {
	// Registered model name.
	// example: qwen-7b-custom
	Name string `json:"name" example:"qwen-7b-custom"`
	// Assigned version string.
	// example: 3
	Version string `json:"version" example:"3"`
	// Fully qualified resource ID.
	ID string `json:"id,omitempty"`
}
