package discovery

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/grandcat/zeroconf"

	"chainclient/models"
)

const (
	// DefaultService is the mDNS service name nodes advertise on a LAN.
	DefaultService = "_chainnode._tcp"
	// DefaultDomain is the mDNS domain.
	DefaultDomain = "local."
	// DefaultScanTimeout bounds one browse window.
	DefaultScanTimeout = 3 * time.Second
)

type browseFunc func(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error

// LocalSourceConfig controls LAN candidate discovery.
type LocalSourceConfig struct {
	Service     string
	Domain      string
	ScanTimeout time.Duration
	Logger      log.Logger

	browseFn browseFunc
}

func (c LocalSourceConfig) withDefaults() LocalSourceConfig {
	out := c
	if out.Service == "" {
		out.Service = DefaultService
	}
	if out.Domain == "" {
		out.Domain = DefaultDomain
	}
	if out.ScanTimeout <= 0 {
		out.ScanTimeout = DefaultScanTimeout
	}
	if out.Logger == nil {
		out.Logger = log.NewNopLogger()
	}
	return out
}

// LocalSource finds nodes advertising themselves on the local network via
// mDNS. Its results are meant to be fed to the prober as an override
// candidate list for private or development networks.
type LocalSource struct {
	cfg    LocalSourceConfig
	browse browseFunc
}

// NewLocalSource creates a LAN candidate source with defaults applied.
func NewLocalSource(cfg LocalSourceConfig) (*LocalSource, error) {
	withDefaults := cfg.withDefaults()

	browse := withDefaults.browseFn
	if browse == nil {
		resolver, err := zeroconf.NewResolver(nil)
		if err != nil {
			return nil, err
		}
		browse = resolver.Browse
	}

	return &LocalSource{cfg: withDefaults, browse: browse}, nil
}

// Candidates runs one browse window and returns the nodes seen, deduplicated
// by address. An empty LAN yields an empty list, not an error.
func (s *LocalSource) Candidates(ctx context.Context) ([]models.Peer, error) {
	scanCtx, cancel := context.WithTimeout(ctx, s.cfg.ScanTimeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry, 32)
	var peers []models.Peer
	seen := make(map[string]struct{})
	collectorDone := make(chan struct{})

	go func() {
		defer close(collectorDone)
		for {
			select {
			case <-scanCtx.Done():
				return
			case entry := <-entries:
				if entry == nil {
					continue
				}
				peer, ok := entryToPeer(entry)
				if !ok {
					continue
				}
				if _, dup := seen[peer.IP]; dup {
					continue
				}
				seen[peer.IP] = struct{}{}
				peers = append(peers, peer)
			}
		}
	}()

	if err := s.browse(scanCtx, s.cfg.Service, s.cfg.Domain, entries); err != nil {
		cancel()
		<-collectorDone
		return nil, err
	}

	<-scanCtx.Done()
	<-collectorDone

	// The deadline firing just means the browse window ended naturally.
	if err := scanCtx.Err(); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return nil, err
	}

	level.Debug(s.cfg.Logger).Log("msg", "LAN scan finished", "peers", len(peers))
	return peers, nil
}

func entryToPeer(entry *zeroconf.ServiceEntry) (models.Peer, bool) {
	txt := txtToMap(entry.Text)

	var ip string
	switch {
	case len(entry.AddrIPv4) > 0 && entry.AddrIPv4[0] != nil:
		ip = entry.AddrIPv4[0].String()
	case len(entry.AddrIPv6) > 0 && entry.AddrIPv6[0] != nil:
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" || entry.Port == 0 {
		return models.Peer{}, false
	}

	return models.Peer{
		IP:      ip,
		Port:    entry.Port,
		HTTPS:   txt["https"] == "true",
		Version: txt["version"],
	}, true
}

func txtToMap(text []string) map[string]string {
	out := make(map[string]string, len(text))
	for _, entry := range text {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		if key == "" {
			continue
		}
		out[key] = strings.TrimSpace(parts[1])
	}
	return out
}
