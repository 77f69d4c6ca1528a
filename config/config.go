package config

import (
	"net"
	"time"
)

const (
	// DefaultQuorum is the number of successful peer-list probes after
	// which discovery stops early.
	DefaultQuorum = 2
	// DefaultProbeTimeout bounds each discovery probe request.
	DefaultProbeTimeout = 3 * time.Second
	// DefaultRequestTimeout bounds requests on a connected client.
	DefaultRequestTimeout = 60 * time.Second
	// DefaultConfigPort is the companion port tried when a node does not
	// serve its configuration document on the advertised peer port.
	DefaultConfigPort = 4040
	// APIPluginName is the sub-service a version-2 peer must expose
	// before the client will bind to it.
	APIPluginName = "core-api"
)

// SelfAddresses lists addresses recognized as referring to the local host.
// Loopback forms not in this list are caught by the parsed-IP check.
var SelfAddresses = []string{
	"127.0.0.1",
	"::ffff:127.0.0.1",
	"::1",
	"localhost",
}

// IsSelfAddress reports whether an address refers to the local host,
// treating IPv4 and IPv6 loopback forms as equivalent.
func IsSelfAddress(address string) bool {
	for _, self := range SelfAddresses {
		if address == self {
			return true
		}
	}
	if ip := net.ParseIP(address); ip != nil {
		return ip.IsLoopback()
	}
	return false
}
