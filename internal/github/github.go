package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/slok/renderci/internal/log"
	"github.com/slok/renderci/internal/model"
)

const (
	// DefaultTimeout bounds every request to the API.
	DefaultTimeout = 10 * time.Second

	defaultGitHubAPIBase = "https://api.github.com"
	apiVersion           = "2022-11-28"
	maxErrorBodySize     = 1024
)

// ClientConfig configures the GitHub Actions secrets client.
type ClientConfig struct {
	// Repo is the GitHub repository (e.g. "owner/name").
	Repo string
	// Token is the bearer token used to authenticate.
	Token string
	// HTTPClient is the HTTP client for API requests, by default one with DefaultTimeout.
	HTTPClient *http.Client
	// Logger for logging.
	Logger log.Logger
}

func (c *ClientConfig) defaults() error {
	if c.Repo == "" {
		return fmt.Errorf("repo is required")
	}
	if owner, name, ok := strings.Cut(c.Repo, "/"); !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("repo must be in owner/name format, got: %q", c.Repo)
	}
	if c.Token == "" {
		return fmt.Errorf("token is required")
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "github.Client"})
	return nil
}

// Client manages GitHub Actions repository secrets.
type Client struct {
	repo       string
	token      string
	httpClient *http.Client
	logger     log.Logger

	// Base URL (overridable for testing).
	apiBaseURL string
}

// NewClient creates a new GitHub client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Client{
		repo:       cfg.Repo,
		token:      cfg.Token,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
		apiBaseURL: defaultGitHubAPIBase,
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

type publicKeyJSON struct {
	KeyID string `json:"key_id"`
	Key   string `json:"key"`
}

type secretJSON struct {
	KeyID          string `json:"key_id"`
	EncryptedValue string `json:"encrypted_value"`
}

// GetPublicKey returns the repository public key used to encrypt secrets.
func (c *Client) GetPublicKey(ctx context.Context) (*model.PublicKey, error) {
	url := fmt.Sprintf("%s/repos/%s/actions/secrets/public-key", c.apiBaseURL, c.repo)
	data, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching public key: %w", err)
	}

	var pk publicKeyJSON
	if err := json.Unmarshal(data, &pk); err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	if pk.KeyID == "" || pk.Key == "" {
		return nil, fmt.Errorf("public key response is missing key_id or key: %w", model.ErrRemoteAPI)
	}

	return &model.PublicKey{ID: pk.KeyID, Key: pk.Key}, nil
}

// PutSecret creates or updates a repository secret with an already encrypted value.
func (c *Client) PutSecret(ctx context.Context, name string, secret model.EncryptedSecret) error {
	body, err := json.Marshal(secretJSON{
		KeyID:          secret.KeyID,
		EncryptedValue: secret.EncryptedValue,
	})
	if err != nil {
		return fmt.Errorf("encoding secret: %w", err)
	}

	url := fmt.Sprintf("%s/repos/%s/actions/secrets/%s", c.apiBaseURL, c.repo, name)
	if _, err := c.do(ctx, http.MethodPut, url, bytes.NewReader(body)); err != nil {
		return fmt.Errorf("updating secret %s: %w", name, err)
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
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
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(errBody)),
		}
	}

	return io.ReadAll(resp.Body)
}
