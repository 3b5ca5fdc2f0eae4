// Package runtime abstracts the native model backend used by the inference
// handler. Concrete implementations (go-llama.cpp) are gated behind the
// 'llama' build tag; heavy lifting stays in native code.
package runtime

import "context"

// Params captures generation parameters passed to the backend. Values are
// forwarded unclamped; range enforcement is the backend's concern.
type Params struct {
	MaxNewTokens int
	Temperature  float64
	TopP         float64
	TopK         int
	DoSample     bool
}

// Result summarizes one generation.
type Result struct {
	// Text is the decoded prompt plus continuation, special tokens stripped.
	Text string
	// PromptTokens is the tokenized length of the prompt.
	PromptTokens int
	// TotalTokens is the full output length (prompt plus continuation).
	TotalTokens int
}

// Runtime owns model and tokenizer state, loaded once and reused read-only
// across requests for the life of the process.
type Runtime interface {
	// Load loads the model and tokenizer from path. Called exactly once,
	// before any Generate call.
	Load(path string) error
	// Generate tokenizes prompt, runs generation per params and returns the
	// decoded result. Implementations must return when ctx is canceled.
	Generate(ctx context.Context, prompt string, params Params) (Result, error)
	// Close releases backend resources.
	Close() error
}

// unavailableError signals a missing native backend (stub build or missing
// shared library) so callers can fail fast instead of mocking inference.
type unavailableError struct{ msg string }

func (e unavailableError) Error() string { return e.msg }

// ErrUnavailable constructs an unavailableError.
func ErrUnavailable(msg string) error { return unavailableError{msg: msg} }

// IsUnavailable reports whether err indicates a missing/failed backend.
func IsUnavailable(err error) bool {
	_, ok := err.(unavailableError)
	return ok
}
