package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	lru "github.com/hashicorp/golang-lru/v2"

	"chainclient/config"
	"chainclient/models"
	"chainclient/network"
)

const (
	// configPath is the endpoint serving a node's configuration document.
	configPath = "config"
	// defaultConfigCacheSize bounds the per-host cache of fetched configs.
	defaultConfigCacheSize = 32
)

type fetchFunc func(ctx context.Context, target, path string) (json.RawMessage, error)

// ResolverConfig controls API sub-service discovery on version-2 networks.
type ResolverConfig struct {
	// ConfigPort is the fixed alternate port tried when a node does not
	// answer on its advertised peer port.
	ConfigPort int
	// Plugin is the sub-service that must be enabled on a peer before it
	// qualifies as an API peer.
	Plugin string
	// Timeout bounds each configuration fetch attempt.
	Timeout time.Duration
	// CacheSize bounds the per-host cache of successfully fetched
	// configuration documents.
	CacheSize int
	// Logger receives fetch outcomes. Defaults to a nop logger.
	Logger log.Logger

	fetchFn fetchFunc
}

func (c ResolverConfig) withDefaults() (ResolverConfig, error) {
	out := c
	if out.ConfigPort == 0 {
		out.ConfigPort = config.DefaultConfigPort
	}
	if out.Plugin == "" {
		out.Plugin = config.APIPluginName
	}
	if out.Timeout <= 0 {
		out.Timeout = config.DefaultProbeTimeout
	}
	if out.CacheSize <= 0 {
		out.CacheSize = defaultConfigCacheSize
	}
	if out.Logger == nil {
		out.Logger = log.NewNopLogger()
	}
	if out.fetchFn == nil {
		scratch, err := network.New(network.Options{
			Version: 2,
			Timeout: out.Timeout,
		})
		if err != nil {
			return ResolverConfig{}, err
		}
		out.fetchFn = scratch.GetAt
	}
	return out, nil
}

// Resolver locates version-2 peers exposing the API sub-service by probing
// node configuration endpoints.
type Resolver struct {
	cfg   ResolverConfig
	cache *lru.Cache[string, models.NodeConfig]
}

// NewResolver creates a resolver with config defaults applied.
func NewResolver(cfg ResolverConfig) (*Resolver, error) {
	withDefaults, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	withDefaults.Logger = log.WithPrefix(withDefaults.Logger, "component", "resolver")

	cache, err := lru.New[string, models.NodeConfig](withDefaults.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create config cache: %w", err)
	}

	return &Resolver{cfg: withDefaults, cache: cache}, nil
}

// FetchConfig retrieves a node's configuration document given its base URL.
// Three locations are tried in order: the host's own config endpoint, the
// companion host (same address, alternate port) config endpoint, and the
// companion host root. The first non-empty data payload wins; failures are
// swallowed and exhausting all attempts yields nil. Absent configuration is
// an expected outcome, not an error.
func (r *Resolver) FetchConfig(ctx context.Context, host string) *models.NodeConfig {
	if cached, ok := r.cache.Get(host); ok {
		return &cached
	}

	companion, err := replacePort(host, r.cfg.ConfigPort)
	if err != nil {
		level.Debug(r.cfg.Logger).Log("msg", "unparseable host", "host", host, "err", err)
		return nil
	}

	attempts := []struct {
		target string
		path   string
	}{
		{host, configPath},
		{companion, configPath},
		{companion, ""},
	}

	for _, attempt := range attempts {
		data, err := r.cfg.fetchFn(ctx, attempt.target, attempt.path)
		if err != nil {
			level.Debug(r.cfg.Logger).Log("msg", "config fetch failed", "target", attempt.target, "path", attempt.path, "err", err)
			continue
		}
		if emptyPayload(data) {
			continue
		}

		var nodeConfig models.NodeConfig
		if err := json.Unmarshal(data, &nodeConfig); err != nil {
			level.Debug(r.cfg.Logger).Log("msg", "malformed config document", "target", attempt.target, "err", err)
			continue
		}

		r.cache.Add(host, nodeConfig)
		return &nodeConfig
	}

	return nil
}

// SelectAPIPeer walks an already ranked peer list and returns the first
// peer whose configuration enables the API sub-service, with its port
// replaced by the sub-service's configured port. No qualifying peer yields
// nil; the caller decides whether that is fatal.
func (r *Resolver) SelectAPIPeer(ctx context.Context, peers []models.Peer) *models.Peer {
	for _, peer := range peers {
		nodeConfig := r.FetchConfig(ctx, peer.BaseURL())
		if nodeConfig == nil {
			continue
		}

		plugin, ok := nodeConfig.Plugin(r.cfg.Plugin)
		if !ok || !plugin.Enabled {
			continue
		}

		apiPeer := peer
		apiPeer.Port = plugin.Port
		return &apiPeer
	}
	return nil
}

func replacePort(host string, port int) (string, error) {
	parsed, err := url.Parse(host)
	if err != nil {
		return "", err
	}
	parsed.Host = net.JoinHostPort(parsed.Hostname(), strconv.Itoa(port))
	return parsed.String(), nil
}

func emptyPayload(data json.RawMessage) bool {
	return len(data) == 0 || string(data) == "null" || string(data) == "{}"
}
