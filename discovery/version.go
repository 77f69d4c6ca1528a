package discovery

import (
	"strings"

	"chainclient/models"
)

// ClassifyVersion maps a peer's advertised version string to its protocol
// generation. Peers that predate version reporting are legacy version-1
// nodes, as is anything in the 1.x line; everything else is version 2.
func ClassifyVersion(version string) int {
	if version == "" || strings.HasPrefix(version, "1.") {
		return 1
	}
	return 2
}

func matchesVersion(peer models.Peer, version int) bool {
	return ClassifyVersion(peer.Version) == version
}
