// Package chainclient connects to nodes of a decentralized network and
// issues versioned REST calls against whichever peer discovery selects.
package chainclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"chainclient/api"
	"chainclient/config"
	"chainclient/discovery"
	"chainclient/models"
	"chainclient/network"
	"chainclient/storage"
)

// ErrNoAPIPeerFound indicates the version-2 connect flow exhausted every
// discovered peer without finding one with the API sub-service enabled.
var ErrNoAPIPeerFound = errors.New("chainclient: no peer with the API sub-service enabled")

type discoverFunc func(ctx context.Context, network string, override []models.Peer) ([]models.Peer, error)
type selectAPIPeerFunc func(ctx context.Context, peers []models.Peer) *models.Peer

// Options configures Connect.
type Options struct {
	// Version is the protocol version to speak. Must be non-zero.
	Version int
	// Peers overrides the network's seed table as the candidate list.
	Peers []models.Peer
	// Networks supplies the seed tables. Defaults to the bundled tables.
	Networks config.SeedTables
	// Quorum, ProbeTimeout and RequestTimeout tune discovery and the
	// connected client; zero values take the package defaults.
	Quorum         int
	ProbeTimeout   time.Duration
	RequestTimeout time.Duration
	// ConfigPort and APIPlugin tune version-2 sub-service discovery.
	ConfigPort int
	APIPlugin  string
	// Cache, when set, persists discovery results and warm-starts the
	// candidate list on later connects.
	Cache *storage.Store
	// Logger receives discovery progress. Defaults to a nop logger.
	Logger log.Logger

	discoverFn      discoverFunc
	selectAPIPeerFn selectAPIPeerFunc
}

func (o Options) withDefaults() Options {
	out := o
	if out.Logger == nil {
		out.Logger = log.NewNopLogger()
	}
	if out.RequestTimeout <= 0 {
		out.RequestTimeout = config.DefaultRequestTimeout
	}
	return out
}

// Client is a handle bound to one chosen peer and protocol version.
type Client struct {
	peer      models.Peer
	version   int
	transport *network.Client
}

// Connect discovers live peers for the named network and returns a client
// bound to the best one. Version 1 binds the first peer of the ranked
// discovery result; version 2 additionally requires the peer to expose the
// API sub-service and fails with ErrNoAPIPeerFound when none does.
func Connect(ctx context.Context, networkName string, options Options) (*Client, error) {
	opts := options.withDefaults()
	if opts.Version == 0 {
		return nil, fmt.Errorf("%w: version is required", network.ErrInvalidVersion)
	}

	candidates := opts.Peers
	if len(candidates) == 0 && opts.Cache != nil {
		if cached, err := opts.Cache.GetPeers(networkName); err == nil {
			level.Debug(opts.Logger).Log("msg", "warm-starting discovery from peer cache", "network", networkName, "peers", len(cached))
			candidates = cached
		}
	}

	discover := opts.discoverFn
	if discover == nil {
		prober, err := discovery.NewProber(discovery.ProberConfig{
			Version:      opts.Version,
			Networks:     opts.Networks,
			Quorum:       opts.Quorum,
			ProbeTimeout: opts.ProbeTimeout,
			Logger:       opts.Logger,
		})
		if err != nil {
			return nil, err
		}
		discover = prober.Discover
	}

	peers, err := discover(ctx, networkName, candidates)
	if err != nil {
		return nil, err
	}
	if len(peers) == 0 {
		return nil, fmt.Errorf("chainclient: no peers available for network %q", networkName)
	}

	chosen := peers[0]
	if opts.Version == 2 {
		selectAPIPeer := opts.selectAPIPeerFn
		if selectAPIPeer == nil {
			resolver, err := discovery.NewResolver(discovery.ResolverConfig{
				ConfigPort: opts.ConfigPort,
				Plugin:     opts.APIPlugin,
				Timeout:    opts.ProbeTimeout,
				Logger:     opts.Logger,
			})
			if err != nil {
				return nil, err
			}
			selectAPIPeer = resolver.SelectAPIPeer
		}

		apiPeer := selectAPIPeer(ctx, peers)
		if apiPeer == nil {
			return nil, ErrNoAPIPeerFound
		}
		chosen = *apiPeer
	}

	if opts.Cache != nil {
		if err := opts.Cache.ReplacePeers(networkName, peers); err != nil {
			level.Warn(opts.Logger).Log("msg", "persist peer cache failed", "network", networkName, "err", err)
		}
	}

	transport, err := network.New(network.Options{
		Target:  chosen.BaseURL(),
		Version: opts.Version,
		Timeout: opts.RequestTimeout,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		peer:      chosen,
		version:   opts.Version,
		transport: transport,
	}, nil
}

// Peer returns the peer this client is bound to.
func (c *Client) Peer() models.Peer {
	return c.peer
}

// Version returns the bound protocol version.
func (c *Client) Version() int {
	return c.version
}

// Transport exposes the bound transport for raw calls.
func (c *Client) Transport() *network.Client {
	return c.transport
}

// Resource returns the request object for a named resource under the bound
// version.
func (c *Client) Resource(name string) (api.Resource, error) {
	return api.For(c.transport, c.version, name)
}
