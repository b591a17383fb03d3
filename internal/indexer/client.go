// Package indexer is the HTTP client for the external document-indexing
// service. The service owns vector storage and retrieval; this core only
// submits and purges content over its multipart contract.
package indexer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const (
	// DefaultTimeout is the default HTTP timeout for indexing requests.
	// Uploads carry file bytes, so this is deliberately generous.
	DefaultTimeout = 60 * time.Second

	uploadPath = "/api/upload/"
	deletePath = "/api/delete/"
)

// Client talks to the indexing service
type Client struct {
	baseURL    string
	apiKey     string
	index      string
	httpClient *http.Client
}

// NewClient creates a new indexing service client
func NewClient(baseURL, apiKey, index string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		index:   index,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// UploadRequest describes a document submission to the index
type UploadRequest struct {
	FileID       string
	Filename     string
	WorkspaceID  string
	Filepath     string
	IsOriginal   bool
	ParentID     string // original document's ID, for revisions/amendments
	ParentName   string // original document's file name
	RevisionDate string // YYYY-MM-DD, for revisions/amendments
	Batch        bool
	Content      io.Reader
}

// UploadDocument submits a stored file to the index. A non-2xx response is
// returned as an error with the service's body folded in.
func (c *Client) UploadDocument(ctx context.Context, req *UploadRequest) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"key":        c.apiKey,
		"filename":   req.Filename,
		"fileID":     req.FileID,
		"index":      c.index,
		"workspace":  req.WorkspaceID,
		"filepath":   req.Filepath,
		"isOriginal": boolString(req.IsOriginal),
		"isRevision": boolString(!req.IsOriginal),
	}
	if req.ParentID != "" {
		fields["parentID"] = req.ParentID
		fields["parentName"] = req.ParentName
	}
	if req.RevisionDate != "" {
		fields["revisionDate"] = req.RevisionDate
	}
	if req.Batch {
		fields["batch"] = "true"
	}

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("write field %s: %w", name, err)
		}
	}

	part, err := writer.CreateFormFile("file", req.Filename)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, req.Content); err != nil {
		return fmt.Errorf("copy file content: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	return c.post(ctx, c.baseURL+uploadPath, writer.FormDataContentType(), &body)
}

// PurgeWorkspace asks the index to drop every document of a workspace
func (c *Client) PurgeWorkspace(ctx context.Context, workspaceID string) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"key":             c.apiKey,
		"index":           c.index,
		"workspace":       workspaceID,
		"deleteWorkspace": "true",
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("write field %s: %w", name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	return c.post(ctx, c.baseURL+deletePath, writer.FormDataContentType(), &body)
}

func (c *Client) post(ctx context.Context, url, contentType string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("indexing service request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("indexing service error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
