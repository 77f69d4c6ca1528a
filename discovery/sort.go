package discovery

import (
	"sort"

	"chainclient/models"
)

// SortPeers returns an independent copy of the peer list ordered by quality:
// highest advertised height first, lowest round-trip delay breaking ties.
// The sort is stable so equally ranked peers keep their merge order.
func SortPeers(peers []models.Peer) []models.Peer {
	out := models.ClonePeers(peers)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Height != out[j].Height {
			return out[i].Height > out[j].Height
		}
		return out[i].Delay < out[j].Delay
	})
	return out
}
