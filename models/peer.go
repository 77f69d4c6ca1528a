package models

import (
	"encoding/json"
	"fmt"
	"net"
	"strconv"
)

// Peer represents one node of the target network as reported by a seed
// table or by another peer's peer list.
//
// IP is the identity of a peer: two records with the same IP describe the
// same node even when port, version or status differ between sightings.
type Peer struct {
	IP      string     `json:"ip"`
	Port    int        `json:"port"`
	HTTPS   bool       `json:"https,omitempty"`
	Version string     `json:"version,omitempty"`
	Status  PeerStatus `json:"status,omitempty"`
	Height  int64      `json:"height,omitempty"`
	Delay   int        `json:"delay,omitempty"`
}

// BaseURL builds the peer's request base URL from its scheme, address and port.
func (p Peer) BaseURL() string {
	scheme := "http"
	if p.HTTPS {
		scheme = "https"
	}
	return scheme + "://" + net.JoinHostPort(p.IP, strconv.Itoa(p.Port))
}

// ClonePeers returns an independent copy of a peer list.
func ClonePeers(peers []Peer) []Peer {
	if peers == nil {
		return nil
	}
	out := make([]Peer, len(peers))
	copy(out, peers)
	return out
}

// PeerStatus is a liveness indicator reported by version-1 networks. Nodes
// disagree on its wire type, so both the textual form ("OK") and the numeric
// form (200) decode into the same string representation.
type PeerStatus string

// PeerStatusOK is the textual healthy status.
const PeerStatusOK PeerStatus = "OK"

// OK reports whether the status is in the recognized healthy set.
func (s PeerStatus) OK() bool {
	return s == PeerStatusOK || s == "200"
}

// UnmarshalJSON accepts a JSON string or number.
func (s *PeerStatus) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}

	if data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("decode peer status: %w", err)
		}
		*s = PeerStatus(text)
		return nil
	}

	var code json.Number
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("decode peer status: %w", err)
	}
	*s = PeerStatus(code.String())
	return nil
}
