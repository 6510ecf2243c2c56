package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// FileUploadResult is what the httpapi layer renders back for both
// /api/fetch-and-upload and /api/upload-to-notion.
type FileUploadResult struct {
	FileUploadID string
	FileName     string
}

// UploadFile drives Notion's two-step file upload flow: create a
// file_upload object, then send the file content to it. The SDK this
// client otherwise wraps has no file-upload support, so this talks to the
// REST endpoint directly, the same way the rest of the corpus falls back
// to raw HTTP for Notion calls its SDK of choice doesn't cover.
func (c *Client) UploadFile(ctx context.Context, filename, contentType string, content []byte) (*FileUploadResult, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	uploadID, err := c.createFileUpload(ctx, filename, contentType)
	if err != nil {
		return nil, fmt.Errorf("create file upload: %w", err)
	}

	if err := c.sendFileUpload(ctx, uploadID, filename, contentType, content); err != nil {
		return nil, fmt.Errorf("send file upload: %w", err)
	}

	return &FileUploadResult{FileUploadID: uploadID, FileName: filename}, nil
}

type fileUploadCreateResponse struct {
	ID string `json:"id"`
}

func (c *Client) createFileUpload(ctx context.Context, filename, contentType string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"filename":     filename,
		"content_type": contentType,
	})
	if err != nil {
		return "", fmt.Errorf("marshal create request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.notion.com/v1/file_uploads", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	c.setNotionHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", notionRESTError(resp)
	}

	var decoded fileUploadCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return decoded.ID, nil
}

func (c *Client) sendFileUpload(ctx context.Context, uploadID, filename, contentType string, content []byte) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(content); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	url := fmt.Sprintf("https://api.notion.com/v1/file_uploads/%s/send", uploadID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return err
	}
	c.setNotionHeaders(req)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return notionRESTError(resp)
	}
	return nil
}

func (c *Client) setNotionHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	if c.apiVersion != "" {
		req.Header.Set("Notion-Version", c.apiVersion)
	}
}

func notionRESTError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("notion API returned status %d: %s", resp.StatusCode, string(body))
}
