package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainclient/models"
)

func TestMergePeersOverlayAndOrdering(t *testing.T) {
	base := []models.Peer{
		{IP: "A", Port: 1},
		{IP: "B", Port: 2},
	}
	incoming := []models.Peer{
		{IP: "B", Port: 22, Version: "2"},
		{IP: "C", Port: 3},
	}

	merged := MergePeers(base, incoming)

	require.Equal(t, []models.Peer{
		{IP: "A", Port: 1},
		{IP: "B", Port: 22, Version: "2"},
		{IP: "C", Port: 3},
	}, merged)
}

func TestMergePeersEmptyIncomingIsIdentity(t *testing.T) {
	base := []models.Peer{
		{IP: "A", Port: 1, Height: 10},
		{IP: "B", Port: 2},
	}

	assert.Equal(t, base, MergePeers(base, nil))
	assert.Equal(t, base, MergePeers(base, []models.Peer{}))
}

func TestMergePeersKeepsOldFieldsWhenIncomingIsSilent(t *testing.T) {
	base := []models.Peer{
		{IP: "A", Port: 1, HTTPS: true, Version: "1.0.1", Status: "OK", Height: 50, Delay: 10},
	}
	incoming := []models.Peer{
		{IP: "A", Height: 60},
	}

	merged := MergePeers(base, incoming)

	require.Len(t, merged, 1)
	assert.Equal(t, models.Peer{
		IP: "A", Port: 1, HTTPS: true, Version: "1.0.1", Status: "OK", Height: 60, Delay: 10,
	}, merged[0])
}

func TestMergePeersDeduplicatesIncoming(t *testing.T) {
	incoming := []models.Peer{
		{IP: "C", Port: 3},
		{IP: "C", Port: 33},
		{IP: "D", Port: 4},
	}

	merged := MergePeers(nil, incoming)

	require.Equal(t, []models.Peer{
		{IP: "C", Port: 3},
		{IP: "D", Port: 4},
	}, merged)
}
