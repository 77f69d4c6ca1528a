package discovery

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainclient/models"
)

func testServiceEntry(ip string, port int, text []string) *zeroconf.ServiceEntry {
	entry := &zeroconf.ServiceEntry{
		HostName: "node.local.",
		Port:     port,
		Text:     text,
	}
	if parsed := net.ParseIP(ip); parsed != nil {
		if parsed.To4() != nil {
			entry.AddrIPv4 = []net.IP{parsed}
		} else {
			entry.AddrIPv6 = []net.IP{parsed}
		}
	}
	return entry
}

func TestLocalSourceCollectsAndDeduplicates(t *testing.T) {
	source, err := NewLocalSource(LocalSourceConfig{
		ScanTimeout: 50 * time.Millisecond,
		browseFn: func(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error {
			entries <- testServiceEntry("192.168.1.10", 4001, []string{"version=2.1.0"})
			entries <- testServiceEntry("192.168.1.10", 4002, nil)
			entries <- testServiceEntry("192.168.1.11", 4001, []string{"https=true"})
			entries <- testServiceEntry("", 4001, nil)
			return nil
		},
	})
	require.NoError(t, err)

	peers, err := source.Candidates(context.Background())
	require.NoError(t, err)

	require.Equal(t, []models.Peer{
		{IP: "192.168.1.10", Port: 4001, Version: "2.1.0"},
		{IP: "192.168.1.11", Port: 4001, HTTPS: true},
	}, peers)
}

func TestLocalSourceBrowseError(t *testing.T) {
	source, err := NewLocalSource(LocalSourceConfig{
		ScanTimeout: 50 * time.Millisecond,
		browseFn: func(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error {
			return assert.AnError
		},
	})
	require.NoError(t, err)

	_, err = source.Candidates(context.Background())
	require.ErrorIs(t, err, assert.AnError)
}

func TestLocalSourceEmptyLAN(t *testing.T) {
	source, err := NewLocalSource(LocalSourceConfig{
		ScanTimeout: 20 * time.Millisecond,
		browseFn: func(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error {
			<-ctx.Done()
			return nil
		},
	})
	require.NoError(t, err)

	peers, err := source.Candidates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, peers)
}
