//go:build llama

package runtime

import (
	"context"
	"errors"
	"strings"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"
)

// llamaRuntime wraps a go-llama.cpp model loaded once at init. llama contexts
// are not safe for concurrent use, so generate calls are serialized with a
// mutex; the weights themselves are shared read-only.
type llamaRuntime struct {
	ctxSize int
	threads int

	mu    sync.Mutex
	model *llama.LLama
}

// NewLlamaRuntime returns a Runtime backed by go-llama.cpp.
func NewLlamaRuntime(ctxSize, threads int) Runtime {
	return &llamaRuntime{ctxSize: ctxSize, threads: threads}
}

func (r *llamaRuntime) Load(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("model path is empty")
	}
	m, err := llama.New(path, llama.SetContext(r.ctxSize))
	if err != nil {
		return err
	}
	r.model = m
	return nil
}

func (r *llamaRuntime) Generate(ctx context.Context, prompt string, params Params) (Result, error) {
	if r.model == nil {
		return Result{}, errors.New("llama model not initialized")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	promptTokens, _, err := r.model.TokenizeString(prompt)
	if err != nil {
		return Result{}, err
	}

	// Count continuation tokens as they stream and honor cancellation.
	generated := 0
	r.model.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		generated++
		return true
	})
	defer r.model.SetTokenCallback(nil)

	text, err := r.model.Predict(prompt, mapParamsToPredictOptions(params, r.threads)...)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, err
	}
	return Result{
		Text:         prompt + text,
		PromptTokens: int(promptTokens),
		TotalTokens:  int(promptTokens) + generated,
	}, nil
}

func (r *llamaRuntime) Close() error {
	if r.model != nil {
		r.model.Free()
		r.model = nil
	}
	return nil
}

// mapParamsToPredictOptions converts handler params into go-llama.cpp options.
// DoSample=false forces greedy decoding (zero temperature, top-1).
func mapParamsToPredictOptions(params Params, threads int) []llama.PredictOption {
	temperature := float32(params.Temperature)
	topK := params.TopK
	if !params.DoSample {
		temperature = 0
		topK = 1
	}
	return []llama.PredictOption{
		llama.SetTokens(max(1, params.MaxNewTokens)),
		llama.SetThreads(max(1, threads)),
		llama.SetTemperature(temperature),
		llama.SetTopP(float32(params.TopP)),
		llama.SetTopK(topK),
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
