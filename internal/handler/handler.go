// Package handler implements the two-phase scoring lifecycle: Init loads the
// model and tokenizer once into process-wide state, Run serves one JSON
// request at a time against that read-only state.
package handler

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"modelops/internal/common/fsutil"
	"modelops/internal/runtime"
	"modelops/pkg/types"
)

// Generation parameter defaults applied when a request omits the field.
const (
	DefaultMaxNewTokens = 512
	DefaultTemperature  = 0.7
	DefaultTopP         = 0.9
	DefaultTopK         = 50
	DefaultDoSample     = true
)

// State represents the lifecycle state of the handler.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateReady         State = "ready"
	StateError         State = "error"
)

// Handler owns the loaded model state and serves generation requests.
// Init transitions it Uninitialized -> Ready exactly once; a failed Init is
// fatal to the caller and the handler never becomes ready. Per-request
// failures are converted into error-carrying responses and never tear the
// handler down.
type Handler struct {
	rt  runtime.Runtime
	log zerolog.Logger

	mu        sync.RWMutex
	state     State
	modelDir  string
	modelPath string
	lastErr   string

	started  time.Time
	requests atomic.Uint64
	tokens   atomic.Uint64
}

// New returns an uninitialized Handler backed by rt.
func New(rt runtime.Runtime, log zerolog.Logger) *Handler {
	return &Handler{rt: rt, log: log, state: StateUninitialized, started: time.Now()}
}

// Init resolves the model directory and loads model and tokenizer into the
// runtime. Called once before the server starts accepting requests; any error
// here must abort startup.
func (h *Handler) Init(modelDir string) error {
	h.mu.Lock()
	h.state = StateLoading
	h.modelDir = modelDir
	h.mu.Unlock()

	path, err := fsutil.ResolveModelDir(modelDir)
	if err != nil {
		h.setError(err)
		return err
	}
	h.log.Info().Str("model_dir", modelDir).Str("model_path", path).Msg("loading model")
	if err := h.rt.Load(path); err != nil {
		h.setError(err)
		return err
	}

	h.mu.Lock()
	h.modelPath = path
	h.state = StateReady
	h.mu.Unlock()
	h.log.Info().Str("model_path", path).Msg("model loaded")
	return nil
}

func (h *Handler) setError(err error) {
	h.mu.Lock()
	h.state = StateError
	h.lastErr = err.Error()
	h.mu.Unlock()
}

// Ready reports whether Init completed successfully.
func (h *Handler) Ready() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state == StateReady
}

// Status builds the response for GET /status.
func (h *Handler) Status() types.StatusResponse {
	h.mu.RLock()
	defer h.mu.RUnlock()
	now := time.Now()
	return types.StatusResponse{
		State:          string(h.state),
		ModelDir:       h.modelDir,
		ModelPath:      h.modelPath,
		LastError:      h.lastErr,
		RequestsTotal:  h.requests.Load(),
		TokensTotal:    h.tokens.Load(),
		UptimeSeconds:  int64(now.Sub(h.started).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
}

// Run serves one raw JSON request. The returned response always carries the
// contract payload (result plus counters, or an error string); the returned
// error is the typed cause so transports can map it to a status code. Run
// never panics across a per-request failure.
func (h *Handler) Run(ctx context.Context, raw []byte) (types.GenerateResponse, error) {
	h.requests.Add(1)

	var req types.GenerateRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.log.Error().Err(err).Msg("json decode error")
		werr := malformedInputError{msg: "Invalid JSON format: " + err.Error()}
		return types.GenerateResponse{Error: werr.Error()}, werr
	}
	// Only an absent or empty prompt is rejected; whitespace-only prompts are
	// legitimate input and go to the runtime as-is.
	if req.Prompt == "" {
		err := emptyPromptError{}
		return types.GenerateResponse{Error: err.Error()}, err
	}

	params := paramsWithDefaults(req)
	h.log.Info().Int("prompt_chars", len(req.Prompt)).Int("max_new_tokens", params.MaxNewTokens).Msg("generating response")

	res, err := h.rt.Generate(ctx, req.Prompt, params)
	if err != nil {
		h.log.Error().Err(err).Msg("error during inference")
		return types.GenerateResponse{Error: err.Error()}, err
	}
	generated := res.TotalTokens - res.PromptTokens
	h.tokens.Add(uint64(generated))
	h.log.Info().Int("tokens", res.TotalTokens).Msg("generation complete")

	return types.GenerateResponse{
		Result:          res.Text,
		PromptLength:    res.PromptTokens,
		GeneratedLength: generated,
	}, nil
}

// Close releases the underlying runtime.
func (h *Handler) Close() error { return h.rt.Close() }

// paramsWithDefaults resolves optional request fields against the documented
// defaults. Present values are passed through unclamped.
func paramsWithDefaults(req types.GenerateRequest) runtime.Params {
	p := runtime.Params{
		MaxNewTokens: DefaultMaxNewTokens,
		Temperature:  DefaultTemperature,
		TopP:         DefaultTopP,
		TopK:         DefaultTopK,
		DoSample:     DefaultDoSample,
	}
	if req.MaxNewTokens != nil {
		p.MaxNewTokens = *req.MaxNewTokens
	}
	if req.Temperature != nil {
		p.Temperature = *req.Temperature
	}
	if req.TopP != nil {
		p.TopP = *req.TopP
	}
	if req.TopK != nil {
		p.TopK = *req.TopK
	}
	if req.DoSample != nil {
		p.DoSample = *req.DoSample
	}
	return p
}
