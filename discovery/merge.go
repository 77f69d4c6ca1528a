package discovery

import "chainclient/models"

// MergePeers folds a newer observation set into an older one, deduplicated
// by IP. Every base record keeps its position, overlaid with the fields of
// the first same-IP incoming record; incoming records whose IP is not yet
// in the output are appended afterward in incoming order.
func MergePeers(base, incoming []models.Peer) []models.Peer {
	merged := make([]models.Peer, 0, len(base)+len(incoming))
	placed := make(map[string]struct{}, len(base))

	for _, old := range base {
		placed[old.IP] = struct{}{}
		if update, ok := firstByIP(incoming, old.IP); ok {
			merged = append(merged, overlayPeer(old, update))
			continue
		}
		merged = append(merged, old)
	}

	for _, peer := range incoming {
		if _, dup := placed[peer.IP]; dup {
			continue
		}
		placed[peer.IP] = struct{}{}
		merged = append(merged, peer)
	}

	return merged
}

func firstByIP(peers []models.Peer, ip string) (models.Peer, bool) {
	for _, peer := range peers {
		if peer.IP == ip {
			return peer, true
		}
	}
	return models.Peer{}, false
}

// overlayPeer merges two sightings of the same peer. Update fields win;
// fields the update is silent on (zero values) keep the old sighting's value.
func overlayPeer(old, update models.Peer) models.Peer {
	out := old
	if update.Port != 0 {
		out.Port = update.Port
	}
	if update.HTTPS {
		out.HTTPS = true
	}
	if update.Version != "" {
		out.Version = update.Version
	}
	if update.Status != "" {
		out.Status = update.Status
	}
	if update.Height != 0 {
		out.Height = update.Height
	}
	if update.Delay != 0 {
		out.Delay = update.Delay
	}
	return out
}
