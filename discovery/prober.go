package discovery

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"chainclient/config"
	"chainclient/models"
	"chainclient/network"
)

// ErrUnsupportedNetwork indicates the requested network has no seed table
// and no override candidate list was supplied.
var ErrUnsupportedNetwork = errors.New("discovery: unsupported network")

type listPeersFunc func(ctx context.Context, target string) ([]models.Peer, error)
type shuffleFunc func(peers []models.Peer)

// ProberConfig controls peer discovery behavior.
type ProberConfig struct {
	// Version is the protocol version being probed for. 0 defaults to 1.
	Version int
	// Networks supplies the seed tables consulted when no override list
	// is given. Defaults to the bundled tables.
	Networks config.SeedTables
	// Quorum is the number of successful probes after which discovery
	// stops early.
	Quorum int
	// ProbeTimeout bounds each individual probe so a dead or slow
	// candidate cannot stall discovery.
	ProbeTimeout time.Duration
	// Logger receives probe outcomes. Defaults to a nop logger.
	Logger log.Logger

	listPeersFn listPeersFunc
	shuffleFn   shuffleFunc
}

func (c ProberConfig) withDefaults() (ProberConfig, error) {
	out := c
	if out.Version == 0 {
		out.Version = 1
	}
	if out.Networks == nil {
		out.Networks = config.DefaultNetworks
	}
	if out.Quorum <= 0 {
		out.Quorum = config.DefaultQuorum
	}
	if out.ProbeTimeout <= 0 {
		out.ProbeTimeout = config.DefaultProbeTimeout
	}
	if out.Logger == nil {
		out.Logger = log.NewNopLogger()
	}
	if out.shuffleFn == nil {
		out.shuffleFn = func(peers []models.Peer) {
			rand.Shuffle(len(peers), func(i, j int) {
				peers[i], peers[j] = peers[j], peers[i]
			})
		}
	}
	if out.listPeersFn == nil {
		scratch, err := network.New(network.Options{
			Version: out.Version,
			Timeout: out.ProbeTimeout,
		})
		if err != nil {
			return ProberConfig{}, err
		}
		out.listPeersFn = scratch.ListPeersAt
	}
	return out, nil
}

// Prober discovers live peers for a named network by sequentially probing
// shuffled seed candidates and merging their peer lists.
type Prober struct {
	cfg ProberConfig
}

// NewProber creates a prober with config defaults applied.
func NewProber(cfg ProberConfig) (*Prober, error) {
	withDefaults, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	withDefaults.Logger = log.WithPrefix(withDefaults.Logger, "component", "prober")
	return &Prober{cfg: withDefaults}, nil
}

// Discover probes candidates for the named network until a quorum of
// successful peer-list responses has been merged or candidates run out.
// An override list replaces the network's seed table entirely.
//
// Probes run strictly one at a time and any per-candidate failure is
// swallowed; when every probe fails the original candidates are returned,
// so a non-empty candidate list never yields an empty result. The result
// is always an independent copy, sorted by height then delay.
func (p *Prober) Discover(ctx context.Context, networkName string, override []models.Peer) ([]models.Peer, error) {
	candidates := models.ClonePeers(override)
	if len(candidates) == 0 {
		seeds, ok := p.cfg.Networks.Peers(networkName)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedNetwork, networkName)
		}
		candidates = seeds
	}

	shuffled := models.ClonePeers(candidates)
	p.cfg.shuffleFn(shuffled)

	var found []models.Peer
	checks := 0
	for _, candidate := range shuffled {
		if ctx.Err() != nil {
			break
		}

		peers, err := p.cfg.listPeersFn(ctx, candidate.BaseURL())
		if err != nil {
			level.Debug(p.cfg.Logger).Log("msg", "probe failed", "peer", candidate.IP, "err", err)
			continue
		}

		peers = p.filterPeers(peers)
		if len(peers) == 0 {
			continue
		}

		found = MergePeers(found, peers)
		checks++
		if checks >= p.cfg.Quorum {
			break
		}
	}

	if len(found) > 0 {
		return SortPeers(found), nil
	}

	level.Debug(p.cfg.Logger).Log("msg", "no probe succeeded, falling back to candidates", "network", networkName)
	return SortPeers(candidates), nil
}

// filterPeers drops peers that cannot serve this client: self addresses,
// version-1 peers reporting an unhealthy status, and peers whose classified
// version does not match the version being probed for.
func (p *Prober) filterPeers(peers []models.Peer) []models.Peer {
	out := make([]models.Peer, 0, len(peers))
	for _, peer := range peers {
		if config.IsSelfAddress(peer.IP) {
			continue
		}
		if p.cfg.Version == 1 && !peer.Status.OK() {
			continue
		}
		if !matchesVersion(peer, p.cfg.Version) {
			continue
		}
		out = append(out, peer)
	}
	return out
}
