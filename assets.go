package slideshow

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// AssetLoader resolves an image reference to decoded pixels.
type AssetLoader interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

// Limits applied to every asset fetch.
const (
	DefaultAssetTimeout = 15 * time.Second
	maxAssetBytes       = 32 << 20 // 32 MB
)

// HTTPAssetLoader loads data URIs, http(s) URLs and local files.
type HTTPAssetLoader struct {
	Client   *http.Client
	Timeout  time.Duration
	MaxBytes int64
	// AllowFiles enables plain filesystem paths and file:// URLs.
	AllowFiles bool
}

// NewHTTPAssetLoader returns a loader with the default timeout and size cap.
func NewHTTPAssetLoader() *HTTPAssetLoader {
	return &HTTPAssetLoader{
		Client:     &http.Client{},
		Timeout:    DefaultAssetTimeout,
		MaxBytes:   maxAssetBytes,
		AllowFiles: true,
	}
}

// Load fetches and decodes src.
func (l *HTTPAssetLoader) Load(ctx context.Context, src string) (image.Image, error) {
	data, err := l.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Fetch returns the raw bytes behind src.
func (l *HTTPAssetLoader) Fetch(ctx context.Context, src string) ([]byte, error) {
	ref := strings.TrimSpace(src)
	if ref == "" {
		return nil, errors.New("empty image reference")
	}
	lower := strings.ToLower(ref)
	switch {
	case strings.HasPrefix(lower, "data:"):
		data, _, err := DecodeDataURI(ref)
		return data, err
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return l.fetchHTTP(ctx, ref)
	case l.AllowFiles:
		path := ref
		if strings.HasPrefix(lower, "file://") {
			u, err := url.Parse(ref)
			if err != nil {
				return nil, fmt.Errorf("parse file url: %w", err)
			}
			path = u.Path
		}
		return l.readFile(path)
	}
	return nil, fmt.Errorf("unsupported image reference %q", truncate(ref, 64))
}

func (l *HTTPAssetLoader) limit() int64 {
	if l.MaxBytes > 0 {
		return l.MaxBytes
	}
	return maxAssetBytes
}

func (l *HTTPAssetLoader) fetchHTTP(ctx context.Context, ref string) ([]byte, error) {
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultAssetTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected HTTP status %s", resp.Status)
	}
	return readLimited(resp.Body, l.limit())
}

func (l *HTTPAssetLoader) readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > l.limit() {
		return nil, fmt.Errorf("image file too large: %d bytes (max %d)", info.Size(), l.limit())
	}
	return os.ReadFile(path)
}

func readLimited(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("image exceeds %d bytes", max)
	}
	if len(data) == 0 {
		return nil, errors.New("empty image body")
	}
	return data, nil
}

var dataURIPattern = regexp.MustCompile(`(?is)^data:([^;,]+)?(;[^,]*)?,(.*)$`)

// DecodeDataURI decodes a base64 or percent-encoded data URI and returns its
// payload and media type.
func DecodeDataURI(value string) ([]byte, string, error) {
	match := dataURIPattern.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return nil, "", errors.New("invalid data URI")
	}
	mimeType := strings.TrimSpace(match[1])
	meta := strings.ToLower(match[2])
	payload := strings.TrimSpace(match[3])
	if payload == "" {
		return nil, "", errors.New("empty data URI payload")
	}

	var decoded []byte
	if strings.Contains(meta, "base64") {
		var err error
		decoded, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			// Some producers drop the padding.
			decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
			if err != nil {
				return nil, "", fmt.Errorf("decode data URI: %w", err)
			}
		}
	} else {
		s, err := url.PathUnescape(payload)
		if err != nil {
			return nil, "", fmt.Errorf("decode data URI: %w", err)
		}
		decoded = []byte(s)
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(decoded)
	}
	return decoded, mimeType, nil
}

// DataURI encodes data as a base64 data URI.
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
