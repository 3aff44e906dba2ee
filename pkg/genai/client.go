package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

type chatPart struct {
	Text     string    `json:"text,omitempty"`
	FileData *fileData `json:"file_data,omitempty"`
}

type fileData struct {
	MimeType string `json:"mime_type"`
	FileURI  string `json:"file_uri"`
}

type chatContent struct {
	Parts []chatPart `json:"parts"`
	Role  string     `json:"role,omitempty"`
}

type chatRequest struct {
	Contents []chatContent `json:"contents"`
}

type chatCandidate struct {
	Content *chatContent `json:"content"`
}

type chatResponse struct {
	Candidates []chatCandidate `json:"candidates"`
}

// FileInfo describes an uploaded file in the Files API.
type FileInfo struct {
	Name     string `json:"name"`
	URI      string `json:"uri"`
	State    string `json:"state"`
	MimeType string `json:"mimeType"`
}

type uploadResponse struct {
	File FileInfo `json:"file"`
}

// Client talks to the Gemini REST API for text generation and video
// understanding through the Files API.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewClient(apiKey string, model string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		client:  &http.Client{},
	}
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("x-goog-api-key", c.apiKey)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}

	return resBody, nil
}

func (c *Client) generate(ctx context.Context, parts []chatPart) (string, error) {
	payload := chatRequest{
		Contents: []chatContent{
			{Parts: parts, Role: "user"},
		},
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(payloadJson))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resBody, err := c.do(req)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(resBody, &parsed); err != nil {
		return "", err
	}

	if len(parsed.Candidates) == 0 || parsed.Candidates[0].Content == nil || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// GenerateText sends a single-turn prompt and returns the model's text reply.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, []chatPart{{Text: prompt}})
}

// GenerateWithVideo sends a prompt alongside a previously uploaded video.
func (c *Client) GenerateWithVideo(ctx context.Context, prompt string, file FileInfo) (string, error) {
	return c.generate(ctx, []chatPart{
		{FileData: &fileData{MimeType: file.MimeType, FileURI: file.URI}},
		{Text: prompt},
	})
}

// UploadFile pushes a local file into the Files API using the raw upload
// protocol and returns its descriptor. The file may still be in state
// PROCESSING; call WaitForFileActive before using it in a prompt.
func (c *Client) UploadFile(ctx context.Context, path string, mimeType string) (FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileInfo{}, err
	}
	defer f.Close()

	endpoint := fmt.Sprintf("%s/upload/v1beta/files", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, f)
	if err != nil {
		return FileInfo{}, err
	}
	req.Header.Set("X-Goog-Upload-Protocol", "raw")
	req.Header.Set("Content-Type", mimeType)

	resBody, err := c.do(req)
	if err != nil {
		return FileInfo{}, err
	}

	var parsed uploadResponse
	if err := json.Unmarshal(resBody, &parsed); err != nil {
		return FileInfo{}, err
	}

	return parsed.File, nil
}

// GetFile fetches the current state of an uploaded file.
func (c *Client) GetFile(ctx context.Context, name string) (FileInfo, error) {
	endpoint := fmt.Sprintf("%s/v1beta/%s", c.baseURL, name)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return FileInfo{}, err
	}

	resBody, err := c.do(req)
	if err != nil {
		return FileInfo{}, err
	}

	var info FileInfo
	if err := json.Unmarshal(resBody, &info); err != nil {
		return FileInfo{}, err
	}

	return info, nil
}

// WaitForFileActive polls until the file leaves the PROCESSING state.
func (c *Client) WaitForFileActive(ctx context.Context, file FileInfo) (FileInfo, error) {
	for file.State == "PROCESSING" {
		select {
		case <-ctx.Done():
			return file, ctx.Err()
		case <-time.After(2 * time.Second):
		}

		var err error
		file, err = c.GetFile(ctx, file.Name)
		if err != nil {
			return file, err
		}
	}

	if file.State != "ACTIVE" {
		return file, fmt.Errorf("file %s ended in state %s", file.Name, file.State)
	}

	return file, nil
}

// DeleteFile removes an uploaded file. Best effort on cleanup paths.
func (c *Client) DeleteFile(ctx context.Context, name string) error {
	endpoint := fmt.Sprintf("%s/v1beta/%s", c.baseURL, name)

	req, err := http.NewRequestWithContext(ctx, "DELETE", endpoint, nil)
	if err != nil {
		return err
	}

	_, err = c.do(req)
	return err
}
