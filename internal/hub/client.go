// Package hub talks to a Hugging Face style model hub: owner/name
// repositories with idempotent creation and whole-folder commits.
package hub

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client is a thin REST client for the hub API.
type Client struct {
	http *resty.Client
}

// NewClient builds a client against endpoint authenticated with a write
// token.
func NewClient(endpoint, token string) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(endpoint, "/")).
		SetAuthToken(token).
		SetTimeout(5 * time.Minute)
	return &Client{http: c}
}

type createRepoRequest struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Private bool   `json:"private"`
}

// EnsureRepo creates the private model repository owner/name if it does not
// exist. Creation is idempotent: an already-existing repository (409) counts
// as success, so calling this twice with the same identifiers succeeds both
// times.
func (c *Client) EnsureRepo(ctx context.Context, owner, name string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(createRepoRequest{Type: "model", Name: name, Private: true}).
		Post("/api/repos/create")
	if err != nil {
		return transportError{op: "create repo", msg: err.Error()}
	}
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated, http.StatusConflict:
		return nil
	default:
		return transportError{op: "create repo", status: resp.StatusCode(), msg: strings.TrimSpace(resp.String())}
	}
}

// commit line shapes for the NDJSON commit endpoint.
type commitHeader struct {
	Summary string `json:"summary"`
}

type commitFile struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type commitLine struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// UploadFolder commits every regular file under folder to owner/name on the
// main revision, preserving relative paths. Returns the number of files
// committed. There is no partial-upload recovery: a failed commit means the
// whole upload must be re-run.
func (c *Client) UploadFolder(ctx context.Context, owner, name, folder string) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(commitLine{Key: "header", Value: commitHeader{
		Summary: fmt.Sprintf("Upload %s", filepath.Base(folder)),
	}}); err != nil {
		return 0, err
	}

	count := 0
	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(folder, path)
		if err != nil {
			return err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		count++
		return enc.Encode(commitLine{Key: "file", Value: commitFile{
			Path:     filepath.ToSlash(rel),
			Content:  base64.StdEncoding.EncodeToString(b),
			Encoding: "base64",
		}})
	})
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-ndjson").
		SetBody(buf.Bytes()).
		Post(fmt.Sprintf("/api/models/%s/%s/commit/main", owner, name))
	if err != nil {
		return 0, transportError{op: "upload folder", msg: err.Error()}
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, transportError{op: "upload folder", status: resp.StatusCode(), msg: strings.TrimSpace(resp.String())}
	}
	return count, nil
}

// RepoURL returns the browsable URL of owner/name.
func (c *Client) RepoURL(owner, name string) string {
	return fmt.Sprintf("%s/%s/%s", c.http.BaseURL, owner, name)
}
