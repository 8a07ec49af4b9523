package imgur

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/slok/renderci/internal/log"
	"github.com/slok/renderci/internal/model"
)

const (
	// DefaultTimeout bounds every request to the API.
	DefaultTimeout = 10 * time.Second

	defaultAPIBase = "https://api.imgur.com"

	// Error bodies are kept in errors up to this size.
	maxErrorBodySize = 1024
)

// ClientConfig configures the Imgur API client.
type ClientConfig struct {
	// HTTPClient is the HTTP client for API requests, by default one with DefaultTimeout.
	HTTPClient *http.Client
	// Logger for logging.
	Logger log.Logger
}

func (c *ClientConfig) defaults() error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "imgur.Client"})
	return nil
}

// Client is an Imgur API client.
type Client struct {
	httpClient *http.Client
	logger     log.Logger

	// Base URL (overridable for testing).
	apiBaseURL string
}

// NewClient creates a new Imgur API client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Client{
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
		apiBaseURL: defaultAPIBase,
	}, nil
}

// NewClientWithBaseURL creates a client with a custom base URL (for testing).
func NewClientWithBaseURL(cfg ClientConfig, apiBaseURL string) (*Client, error) {
	c, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	c.apiBaseURL = strings.TrimSuffix(apiBaseURL, "/")
	return c, nil
}

// --- JSON wire types ---

type uploadResponseJSON struct {
	Data struct {
		Link  string `json:"link"`
		Title string `json:"title"`
	} `json:"data"`
}

type tokenResponseJSON struct {
	AccessToken string `json:"access_token"`
}

// UploadRequest is an image upload to an album.
type UploadRequest struct {
	AlbumID     string
	Title       string
	Description string
	Name        string
	// Type is the image file type (e.g. "jpg").
	Type     string
	Filename string
	Image    io.Reader
}

// Upload uploads an image and returns its public location.
func (c *Client) Upload(ctx context.Context, token string, req UploadRequest) (*model.UploadedImage, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fields := []struct{ k, v string }{
		{"album", req.AlbumID},
		{"title", req.Title},
		{"description", req.Description},
		{"name", req.Name},
		{"type", req.Type},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.k, f.v); err != nil {
			return nil, fmt.Errorf("writing %s field: %w", f.k, err)
		}
	}

	filename := req.Filename
	if filename == "" {
		filename = req.Name
	}
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("creating image part: %w", err)
	}
	if _, err := io.Copy(part, req.Image); err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, "/3/image", token, mw.FormDataContentType(), &body)
	if err != nil {
		return nil, err
	}

	var resp uploadResponseJSON
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parsing upload response: %w", err)
	}
	if resp.Data.Link == "" {
		return nil, fmt.Errorf("upload response is missing the image link: %w", model.ErrRemoteAPI)
	}

	c.logger.WithCtxValues(ctx).Debugf("Uploaded %s to %s", filename, resp.Data.Link)

	return &model.UploadedImage{
		Link:  resp.Data.Link,
		Title: resp.Data.Title,
	}, nil
}

// CheckToken does a cheap authenticated request to know if the token is still accepted.
// A rejected token returns a *model.APIError.
func (c *Client) CheckToken(ctx context.Context, token string) error {
	_, err := c.do(ctx, http.MethodGet, "/3/account/me/settings", token, "", nil)
	return err
}

// RefreshToken obtains a new access token using the OAuth2 refresh token grant.
func (c *Client) RefreshToken(ctx context.Context, creds model.ClientCredentials) (string, error) {
	form := url.Values{
		"refresh_token": {creds.RefreshToken},
		"client_id":     {creds.ClientID},
		"client_secret": {creds.ClientSecret},
		"grant_type":    {"refresh_token"},
	}

	data, err := c.do(ctx, http.MethodPost, "/oauth2/token", "", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}

	var resp tokenResponseJSON
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("parsing token response: %w", err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("token response is missing the access token: %w", model.ErrRemoteAPI)
	}

	return resp.AccessToken, nil
}

func (c *Client) do(ctx context.Context, method, path, token, contentType string, body io.Reader) ([]byte, error) {
	u := c.apiBaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, &model.APIError{
			Method:     method,
			URL:        u,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(errBody)),
		}
	}

	return io.ReadAll(resp.Body)
}
