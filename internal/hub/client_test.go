package hub

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnsureRepoIdempotent(t *testing.T) {
	var calls int
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/repos/create" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["type"] != "model" || body["private"] != true {
			t.Errorf("unexpected body: %v", body)
		}
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusOK)
			return
		}
		// Second creation: repository already exists.
		w.WriteHeader(http.StatusConflict)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "hf_test")
	for i := 0; i < 2; i++ {
		if err := c.EnsureRepo(context.Background(), "alice", "qwen-7b-private"); err != nil {
			t.Fatalf("ensure repo call %d: %v", i+1, err)
		}
	}
	if calls != 2 {
		t.Fatalf("expected 2 create calls, got %d", calls)
	}
	if gotAuth != "Bearer hf_test" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
}

func TestEnsureRepoTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "bad")
	err := c.EnsureRepo(context.Background(), "alice", "r")
	if err == nil || !IsTransportError(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if !strings.Contains(err.Error(), "401") {
		t.Fatalf("error should carry status: %v", err)
	}
}

func TestUploadFolder(t *testing.T) {
	folder := t.TempDir()
	files := map[string]string{
		"config.json":          `{"model_type":"qwen"}`,
		"weights/model-00.bin": "binarydata",
	}
	for rel, content := range files {
		p := filepath.Join(folder, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	var lines []map[string]json.RawMessage
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/models/alice/qwen-7b-private/commit/main" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); !strings.Contains(ct, "application/x-ndjson") {
			t.Errorf("unexpected content type: %s", ct)
		}
		sc := bufio.NewScanner(r.Body)
		for sc.Scan() {
			var line map[string]json.RawMessage
			if err := json.Unmarshal(sc.Bytes(), &line); err != nil {
				t.Errorf("bad ndjson line: %v", err)
				continue
			}
			lines = append(lines, line)
		}
		_, _ = io.WriteString(w, `{"commitUrl":"x"}`)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "hf_test")
	n, err := c.UploadFolder(context.Background(), "alice", "qwen-7b-private", folder)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 files, got %d", n)
	}
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 file lines, got %d", len(lines))
	}

	var key string
	if err := json.Unmarshal(lines[0]["key"], &key); err != nil || key != "header" {
		t.Fatalf("first line must be the header, got %v", lines[0])
	}
	seen := map[string]string{}
	for _, line := range lines[1:] {
		var k string
		if err := json.Unmarshal(line["key"], &k); err != nil || k != "file" {
			t.Fatalf("expected file line, got %v", line)
		}
		var f struct {
			Path     string `json:"path"`
			Content  string `json:"content"`
			Encoding string `json:"encoding"`
		}
		if err := json.Unmarshal(line["value"], &f); err != nil {
			t.Fatalf("decode file value: %v", err)
		}
		if f.Encoding != "base64" {
			t.Fatalf("unexpected encoding: %s", f.Encoding)
		}
		raw, err := base64.StdEncoding.DecodeString(f.Content)
		if err != nil {
			t.Fatalf("decode content: %v", err)
		}
		seen[f.Path] = string(raw)
	}
	for rel, content := range files {
		if seen[rel] != content {
			t.Fatalf("file %s: got %q, want %q", rel, seen[rel], content)
		}
	}
}

func TestUploadFolderEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no commit expected for an empty folder")
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "hf_test")
	n, err := c.UploadFolder(context.Background(), "alice", "r", t.TempDir())
	if err != nil || n != 0 {
		t.Fatalf("expected 0 files and no error, got n=%d err=%v", n, err)
	}
}

func TestUploadFolderServerError(t *testing.T) {
	folder := t.TempDir()
	if err := os.WriteFile(filepath.Join(folder, "f"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "hf_test")
	if _, err := c.UploadFolder(context.Background(), "alice", "r", folder); !IsTransportError(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
}
