package imgbb

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samirrijal/roadwatch/internal/core/ports"
)

// DefaultEndpoint is the public ImgBB upload API.
const DefaultEndpoint = "https://api.imgbb.com/1/upload"

// Client implements ports.ImageStore against the ImgBB upload API. Images go
// up as base64 form fields; the response carries a public display URL.
type Client struct {
	endpoint    string
	credentials ports.CredentialSource
	httpClient  *http.Client
}

// New creates an ImgBB client. endpoint may be empty to use the public API.
func New(endpoint string, credentials ports.CredentialSource) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint:    endpoint,
		credentials: credentials,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		DisplayURL string `json:"display_url"`
	} `json:"data"`
}

// Upload sends one image and returns its public URL.
func (c *Client) Upload(ctx context.Context, name string, data []byte) (string, error) {
	key, err := c.credentials.Credential(ctx, "imgbb_key")
	if err != nil {
		return "", fmt.Errorf("resolve image host key: %w", err)
	}

	form := url.Values{}
	form.Set("key", key)
	form.Set("image", base64.StdEncoding.EncodeToString(data))
	if name != "" {
		form.Set("name", name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("image host request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image host returned %d", resp.StatusCode)
	}

	var body uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode image host response: %w", err)
	}
	if !body.Success || body.Data.DisplayURL == "" {
		return "", fmt.Errorf("image host rejected upload (status %d)", body.Status)
	}
	return body.Data.DisplayURL, nil
}
