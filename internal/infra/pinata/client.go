package pinata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"telegram-profile-bridge/internal/domain"
	"telegram-profile-bridge/internal/domain/ports/adapter"
)

const (
	DefaultAPIURL      = "https://api.pinata.cloud"
	DefaultGatewayURL  = "https://gateway.pinata.cloud"
	DefaultFileName    = "file"
	DefaultContentType = "application/octet-stream"

	// error bodies are truncated before they end up in error messages
	maxErrorBody = 2048
)

var _ adapter.PinningService = (*Client)(nil)

// Client talks to the Pinata pinning API and the public IPFS gateway with plain HTTP calls.
type Client struct {
	jwt          string
	apiURL       string
	gatewayURL   string
	fetchTimeout time.Duration
	client       *http.Client
}

type Options struct {
	JWT          string
	APIURL       string
	GatewayURL   string
	FetchTimeout time.Duration
	// UploadTimeout bounds the whole upload; zero leaves it unbounded.
	UploadTimeout time.Duration
	HTTPClient    *http.Client
}

func NewClient(opts Options) *Client {
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if opts.GatewayURL == "" {
		opts.GatewayURL = DefaultGatewayURL
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 10 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.UploadTimeout}
	}
	return &Client{
		jwt:          opts.JWT,
		apiURL:       strings.TrimRight(opts.APIURL, "/"),
		gatewayURL:   strings.TrimRight(opts.GatewayURL, "/"),
		fetchTimeout: opts.FetchTimeout,
		client:       hc,
	}
}

// pinFileResponse is the pinFileToIPFS success body.
type pinFileResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// Pin implements adapter.PinningService.Pin using pinning/pinFileToIPFS.
func (c *Client) Pin(ctx context.Context, b adapter.Blob) (string, error) {
	name := b.Name
	if name == "" {
		name = DefaultFileName
	}
	contentType := b.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(name)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := part.Write(b.Data); err != nil {
		return "", fmt.Errorf("failed to write multipart part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/pinning/pinFileToIPFS", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.jwt)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to send request: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response body: %v", domain.ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: pinata status %d, body: %s", domain.ErrUpstream, resp.StatusCode, truncate(raw))
	}

	var out pinFileResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: failed to unmarshal response: %v, body: %s", domain.ErrUpstream, err, truncate(raw))
	}
	if out.IpfsHash == "" {
		return "", fmt.Errorf("%w: response without IpfsHash", domain.ErrUpstream)
	}
	return out.IpfsHash, nil
}

// Fetch implements adapter.PinningService.Fetch against the gateway.
// The payload must be JSON; it is returned unchanged.
func (c *Client) Fetch(ctx context.Context, hash string) (json.RawMessage, error) {
	if strings.TrimSpace(hash) == "" {
		return nil, domain.ErrInvalidArgument
	}
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.gatewayURL+"/ipfs/"+url.PathEscape(hash), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send request: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", domain.ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: gateway status %d, body: %s", domain.ErrUpstream, resp.StatusCode, truncate(raw))
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: gateway returned non-JSON payload for %s", domain.ErrUpstream, hash)
	}
	return json.RawMessage(raw), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

func truncate(b []byte) string {
	if len(b) > maxErrorBody {
		return string(b[:maxErrorBody]) + "..."
	}
	return string(b)
}
