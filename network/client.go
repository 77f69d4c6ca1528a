package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"chainclient/config"
	"chainclient/models"
)

// ErrInvalidVersion indicates a zero or unknown API version was supplied.
var ErrInvalidVersion = errors.New("network: invalid API version")

// peersPath is the peer-list endpoint, identical under both versions; the
// API-Version header selects the response shape on version-2 nodes.
const peersPath = "api/peers"

// Options configures an HTTP API client.
type Options struct {
	// Target is the base URL of the bound peer, e.g. "http://1.2.3.4:4001".
	// Discovery clients start unbound and retarget per probe.
	Target string
	// Version selects the request formatting and response decoding. 0
	// defaults to 1.
	Version int
	// Timeout bounds each request.
	Timeout time.Duration
	// Nonce identifies this client instance to peers so nodes can detect
	// requests from themselves. Defaults to a random UUID.
	Nonce string

	httpClient *http.Client
}

func (o Options) withDefaults() Options {
	out := o
	if out.Version == 0 {
		out.Version = 1
	}
	if out.Timeout <= 0 {
		out.Timeout = config.DefaultRequestTimeout
	}
	if out.Nonce == "" {
		out.Nonce = uuid.NewString()
	}
	if out.httpClient == nil {
		out.httpClient = &http.Client{}
	}
	return out
}

// Client issues versioned REST calls against one target peer at a time.
// It is not safe for concurrent use; discovery drives it sequentially.
type Client struct {
	http    *http.Client
	target  string
	version int
	nonce   string
}

// New creates a client. The target may be empty and set later.
func New(options Options) (*Client, error) {
	opts := options.withDefaults()
	if opts.Version != 1 && opts.Version != 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, opts.Version)
	}

	httpClient := *opts.httpClient
	httpClient.Timeout = opts.Timeout

	return &Client{
		http:    &httpClient,
		target:  normalizeTarget(opts.Target),
		version: opts.Version,
		nonce:   opts.Nonce,
	}, nil
}

// SetTimeout replaces the per-request timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.http.Timeout = timeout
}

// SetTarget rebinds the client to a new peer base URL. The previous target
// is fully forgotten; nothing else about the client changes.
func (c *Client) SetTarget(target string) {
	c.target = normalizeTarget(target)
}

// Target returns the currently bound peer base URL.
func (c *Client) Target() string {
	return c.target
}

// SetVersion rebinds the client to an API version.
func (c *Client) SetVersion(version int) error {
	if version != 1 && version != 2 {
		return fmt.Errorf("%w: %d", ErrInvalidVersion, version)
	}
	c.version = version
	return nil
}

// Version returns the bound API version.
func (c *Client) Version() int {
	return c.version
}

// ListPeers requests the bound peer's own peer list.
func (c *Client) ListPeers(ctx context.Context) ([]models.Peer, error) {
	return c.ListPeersAt(ctx, c.target)
}

// ListPeersAt requests the peer list from an explicit target without
// rebinding the client. The response shape depends on the bound version:
// version 1 wraps the list in a success envelope and the list is only
// accepted when the call reports success; version 2 returns it as the data
// payload.
func (c *Client) ListPeersAt(ctx context.Context, target string) ([]models.Peer, error) {
	body, err := c.do(ctx, target, peersPath)
	if err != nil {
		return nil, err
	}

	if c.version == 1 {
		var envelope struct {
			Success bool          `json:"success"`
			Peers   []models.Peer `json:"peers"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("decode peer list from %q: %w", target, err)
		}
		if !envelope.Success {
			return nil, fmt.Errorf("peer list request to %q reported failure", target)
		}
		return envelope.Peers, nil
	}

	var envelope struct {
		Data []models.Peer `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode peer list from %q: %w", target, err)
	}
	return envelope.Data, nil
}

// Get issues a GET against the bound peer and returns the data payload.
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.GetAt(ctx, c.target, path)
}

// GetAt issues a GET against an explicit target without rebinding the
// client. An empty path requests the target's root.
func (c *Client) GetAt(ctx context.Context, target, path string) (json.RawMessage, error) {
	body, err := c.do(ctx, target, path)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode response from %q: %w", target, err)
	}
	return envelope.Data, nil
}

func (c *Client) do(ctx context.Context, target, path string) ([]byte, error) {
	if target == "" {
		return nil, errors.New("network: no target bound")
	}

	url := target
	if path != "" {
		url = target + "/" + strings.TrimLeft(path, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %q: %w", url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("nonce", c.nonce)
	if c.version == 2 {
		req.Header.Set("API-Version", "2")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %q: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("request %q: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %q: %w", url, err)
	}
	return body, nil
}

func normalizeTarget(target string) string {
	return strings.TrimRight(target, "/")
}
