//go:build !llama

package runtime

import "context"

// This file provides a no-CGO stub for the llama runtime. It is compiled when
// the 'llama' build tag is NOT set, keeping default builds and CI CGO-free.
// The real runtime lives in runtime_llama.go (tagged 'llama').

// llamaRuntime is a stub that satisfies Runtime but refuses to load a model
// without the 'llama' build tag. Initialization therefore fails fast and the
// endpoint never starts serving; no mocked inference in production binaries.
type llamaRuntime struct {
	ctxSize int
	threads int
}

func NewLlamaRuntime(ctxSize, threads int) Runtime {
	return &llamaRuntime{ctxSize: ctxSize, threads: threads}
}

func (r *llamaRuntime) Load(path string) error {
	return ErrUnavailable("llama support not built (missing 'llama' build tag)")
}

func (r *llamaRuntime) Generate(ctx context.Context, prompt string, params Params) (Result, error) {
	// Should never be called because Load returns an error, but return a clear error anyway.
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	default:
	}
	return Result{}, ErrUnavailable("llama support not built (missing 'llama' build tag)")
}

func (r *llamaRuntime) Close() error { return nil }
