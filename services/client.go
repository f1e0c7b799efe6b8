// Package services talks to the document extraction, image generation and
// outline generation services.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	slideshow "github.com/VantageDataChat/GoSlideshow"
)

const (
	// MaxFileSize is the largest PDF accepted by Upload.
	MaxFileSize = 5 << 20 // 5 MB
	// maxResponseSize caps service response bodies.
	maxResponseSize = 64 << 20
	defaultTimeout  = 2 * time.Minute
)

// Error is returned for failed service calls.
type Error struct {
	Op         string
	StatusCode int // 0 for local and network failures
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return e.Op + ": " + e.Message
}

// FileResult is the extraction outcome of one uploaded file.
type FileResult = slideshow.UploadResult

// UploadResponse is the body returned by the extraction service.
type UploadResponse struct {
	Success bool         `json:"success"`
	Results []FileResult `json:"results"`
	Error   string       `json:"error,omitempty"`
}

// File is a document to upload.
type File struct {
	Name string
	Data []byte
}

// Client calls the services rooted at BaseURL.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  slideshow.Logger
}

// NewClient creates a client for baseURL with a default timeout.
func NewClient(baseURL string, logger slideshow.Logger) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: defaultTimeout},
		Logger:  logger,
	}
}

func (c *Client) logf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Logf(format, args...)
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) url(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

// Upload sends PDFs to the extraction service. Files are checked locally
// first: at least one file, a .pdf extension and at most MaxFileSize bytes
// each. Relative extracted image paths are resolved against BaseURL.
func (c *Client) Upload(ctx context.Context, files []File, generateImage bool) (*UploadResponse, error) {
	const op = "upload"
	if len(files) == 0 {
		return nil, &Error{Op: op, Message: "no files selected"}
	}
	for _, f := range files {
		if !strings.EqualFold(filepath.Ext(f.Name), ".pdf") {
			return nil, &Error{Op: op, Message: fmt.Sprintf("%s: file must be a PDF", f.Name)}
		}
		if len(f.Data) > MaxFileSize {
			return nil, &Error{Op: op, Message: fmt.Sprintf("%s: file exceeds %d bytes", f.Name, MaxFileSize)}
		}
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := mw.CreateFormFile("file", filepath.Base(f.Name))
		if err != nil {
			return nil, &Error{Op: op, Message: err.Error()}
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, &Error{Op: op, Message: err.Error()}
		}
	}
	mw.WriteField("generate_image", strconv.FormatBool(generateImage))
	if err := mw.Close(); err != nil {
		return nil, &Error{Op: op, Message: err.Error()}
	}

	var resp UploadResponse
	if err := c.do(ctx, op, http.MethodPost, "/upload", mw.FormDataContentType(), &body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "unknown error"
		}
		return nil, &Error{Op: op, Message: msg}
	}
	for i := range resp.Results {
		for j, p := range resp.Results[i].ExtractedImages {
			resp.Results[i].ExtractedImages[j] = c.resolve(p)
		}
	}
	c.logf("[SERVICES] Uploaded %d file(s), %d result(s)", len(files), len(resp.Results))
	return &resp, nil
}

// resolve turns a service-relative path into an absolute URL.
func (c *Client) resolve(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") || strings.HasPrefix(p, "data:") {
		return p
	}
	return c.url("/" + strings.TrimLeft(p, "/"))
}

// GenerateImage asks the image service for a picture of prompt and returns
// it as a PNG data URI.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	const op = "generate image"
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", &Error{Op: op, Message: "please enter a prompt"}
	}
	payload, _ := json.Marshal(map[string]string{"prompt": prompt})

	var resp struct {
		ImageBase64 string `json:"image_base64"`
		Error       string `json:"error"`
	}
	if err := c.do(ctx, op, http.MethodPost, "/generate-image", "application/json", bytes.NewReader(payload), &resp); err != nil {
		return "", err
	}
	if resp.ImageBase64 == "" {
		return "", &Error{Op: op, Message: "no image data received"}
	}
	return "data:image/png;base64," + resp.ImageBase64, nil
}

// GenerateTOC asks the outline service for a table of contents of text.
// Every failure yields slideshow.DefaultTOC with fallback set; err then
// describes the failure.
func (c *Client) GenerateTOC(ctx context.Context, text string) (toc *slideshow.TOC, fallback bool, err error) {
	const op = "generate toc"
	payload, _ := json.Marshal(map[string]string{"text": text})

	var resp struct {
		Success bool           `json:"success"`
		TOC     *slideshow.TOC `json:"toc"`
		Error   string         `json:"error"`
	}
	if err := c.do(ctx, op, http.MethodPost, "/generate-toc", "application/json", bytes.NewReader(payload), &resp); err != nil {
		c.logf("[SERVICES] TOC generation failed, using default: %v", err)
		return slideshow.DefaultTOC(), true, err
	}
	if !resp.Success || resp.TOC == nil {
		msg := resp.Error
		if msg == "" {
			msg = "failed to generate toc"
		}
		err := &Error{Op: op, Message: msg}
		c.logf("[SERVICES] TOC generation failed, using default: %v", err)
		return slideshow.DefaultTOC(), true, err
	}
	if verr := slideshow.ValidateTOC(resp.TOC); verr != nil {
		c.logf("[SERVICES] TOC generation returned an invalid outline: %v", verr)
		return slideshow.DefaultTOC(), true, verr
	}
	return slideshow.NormalizeTOC(resp.TOC), false, nil
}

// do sends a request and decodes a JSON response into out. Non-2xx
// responses become *Error carrying the body's "error" field when present.
func (c *Client) do(ctx context.Context, op, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return &Error{Op: op, Message: fmt.Sprintf("failed to create request: %v", err)}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "GoSlideshow/"+slideshow.Version)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return &Error{Op: op, Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read response: %v", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: msg}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	return nil
}
