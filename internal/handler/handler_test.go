package handler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"modelops/internal/runtime"
)

// fakeRuntime records calls and returns canned results.
type fakeRuntime struct {
	loadedPath string
	loadErr    error
	genErr     error

	lastPrompt string
	lastParams runtime.Params
	calls      int

	text         string
	promptTokens int
	totalTokens  int
}

func (f *fakeRuntime) Load(path string) error {
	f.loadedPath = path
	return f.loadErr
}

func (f *fakeRuntime) Generate(ctx context.Context, prompt string, params runtime.Params) (runtime.Result, error) {
	f.calls++
	f.lastPrompt = prompt
	f.lastParams = params
	if f.genErr != nil {
		return runtime.Result{}, f.genErr
	}
	text := f.text
	if text == "" {
		text = prompt + " continued"
	}
	return runtime.Result{Text: text, PromptTokens: f.promptTokens, TotalTokens: f.totalTokens}, nil
}

func (f *fakeRuntime) Close() error { return nil }

func newReady(t *testing.T, f *fakeRuntime) *Handler {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "weights.bin"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tokenizer.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	h := New(f, zerolog.Nop())
	if err := h.Init(dir); err != nil {
		t.Fatalf("init: %v", err)
	}
	return h
}

func TestInitFlattensSingleSubdir(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "qwen")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f := &fakeRuntime{}
	h := New(f, zerolog.Nop())
	if err := h.Init(dir); err != nil {
		t.Fatalf("init: %v", err)
	}
	if f.loadedPath != sub {
		t.Fatalf("expected load from %q, got %q", sub, f.loadedPath)
	}
	if !h.Ready() {
		t.Fatalf("expected ready after init")
	}
}

func TestInitFailureIsFatal(t *testing.T) {
	f := &fakeRuntime{loadErr: errors.New("boom")}
	h := New(f, zerolog.Nop())
	if err := h.Init(t.TempDir()); err == nil {
		t.Fatalf("expected init error")
	}
	if h.Ready() {
		t.Fatalf("handler must not become ready after failed init")
	}
	st := h.Status()
	if st.State != string(StateError) || st.LastError == "" {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestInitMissingDir(t *testing.T) {
	f := &fakeRuntime{}
	h := New(f, zerolog.Nop())
	if err := h.Init(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing model dir")
	}
	if f.loadedPath != "" {
		t.Fatalf("runtime must not be loaded when dir resolution fails")
	}
}

func TestRunMissingPrompt(t *testing.T) {
	f := &fakeRuntime{}
	h := newReady(t, f)
	for _, raw := range []string{`{}`, `{"prompt":""}`} {
		resp, err := h.Run(context.Background(), []byte(raw))
		if resp.Error != "No prompt provided" {
			t.Fatalf("raw=%s: unexpected error %q", raw, resp.Error)
		}
		if !IsEmptyPrompt(err) {
			t.Fatalf("raw=%s: expected empty prompt error, got %v", raw, err)
		}
	}
	if f.calls != 0 {
		t.Fatalf("runtime must not be invoked without a prompt, got %d calls", f.calls)
	}
}

func TestRunWhitespacePromptIsServed(t *testing.T) {
	f := &fakeRuntime{promptTokens: 1, totalTokens: 2}
	h := newReady(t, f)
	resp, err := h.Run(context.Background(), []byte(`{"prompt":"   "}`))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if resp.Error != "" {
		t.Fatalf("whitespace prompt must not be rejected: %q", resp.Error)
	}
	if f.calls != 1 || f.lastPrompt != "   " {
		t.Fatalf("expected one generation with the raw prompt, got calls=%d prompt=%q", f.calls, f.lastPrompt)
	}
}

func TestRunMalformedJSON(t *testing.T) {
	f := &fakeRuntime{}
	h := newReady(t, f)
	resp, err := h.Run(context.Background(), []byte(`{"prompt": `))
	if !IsMalformedInput(err) {
		t.Fatalf("expected malformed input error, got %v", err)
	}
	if resp.Error == "" || resp.Result != "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if f.calls != 0 {
		t.Fatalf("runtime must not be invoked on malformed input")
	}
}

func TestRunDefaults(t *testing.T) {
	f := &fakeRuntime{promptTokens: 2, totalTokens: 10}
	h := newReady(t, f)
	if _, err := h.Run(context.Background(), []byte(`{"prompt":"Hello"}`)); err != nil {
		t.Fatalf("run: %v", err)
	}
	p := f.lastParams
	if p.MaxNewTokens != 512 || p.Temperature != 0.7 || p.TopP != 0.9 || p.TopK != 50 || !p.DoSample {
		t.Fatalf("defaults not applied: %+v", p)
	}
}

func TestRunExplicitParamsPassThrough(t *testing.T) {
	f := &fakeRuntime{promptTokens: 1, totalTokens: 3}
	h := newReady(t, f)
	raw := `{"prompt":"Hi","max_new_tokens":5,"temperature":0,"top_p":1.5,"top_k":0,"do_sample":false}`
	if _, err := h.Run(context.Background(), []byte(raw)); err != nil {
		t.Fatalf("run: %v", err)
	}
	p := f.lastParams
	// Out-of-range values are forwarded unclamped.
	if p.MaxNewTokens != 5 || p.Temperature != 0 || p.TopP != 1.5 || p.TopK != 0 || p.DoSample {
		t.Fatalf("explicit params not passed through: %+v", p)
	}
}

func TestRunTokenAccounting(t *testing.T) {
	f := &fakeRuntime{text: "Hello world", promptTokens: 3, totalTokens: 11}
	h := newReady(t, f)
	resp, err := h.Run(context.Background(), []byte(`{"prompt":"Hello"}`))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if resp.PromptLength != 3 {
		t.Fatalf("prompt_length=%d", resp.PromptLength)
	}
	if resp.GeneratedLength != 8 {
		t.Fatalf("generated_length=%d, want total-prompt=8", resp.GeneratedLength)
	}
	if resp.Result != "Hello world" {
		t.Fatalf("result=%q", resp.Result)
	}
}

func TestRunGenerationError(t *testing.T) {
	f := &fakeRuntime{genErr: errors.New("kv cache overflow")}
	h := newReady(t, f)
	resp, err := h.Run(context.Background(), []byte(`{"prompt":"Hello"}`))
	if err == nil || resp.Error != "kv cache overflow" {
		t.Fatalf("expected error response, got %+v err=%v", resp, err)
	}
	if IsMalformedInput(err) || IsEmptyPrompt(err) {
		t.Fatalf("generation errors must not be tagged as input errors")
	}
	// Handler stays ready for subsequent requests.
	if !h.Ready() {
		t.Fatalf("handler must survive per-request failures")
	}
}

func TestStatusCounters(t *testing.T) {
	f := &fakeRuntime{promptTokens: 1, totalTokens: 4}
	h := newReady(t, f)
	if _, err := h.Run(context.Background(), []byte(`{"prompt":"a"}`)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := h.Run(context.Background(), []byte(`{}`)); err == nil {
		t.Fatalf("expected error for empty request")
	}
	st := h.Status()
	if st.RequestsTotal != 2 {
		t.Fatalf("requests_total=%d", st.RequestsTotal)
	}
	if st.TokensTotal != 3 {
		t.Fatalf("tokens_total=%d", st.TokensTotal)
	}
	if st.State != string(StateReady) {
		t.Fatalf("state=%s", st.State)
	}
}
