// Package api defines the per-resource request objects dispatched by the
// client facade. Resources are thin forwarders over the bound transport;
// all decision logic lives in the discovery package.
package api

import (
	"fmt"

	"chainclient/network"
)

// Resource is a version-specific request object bound to a transport.
type Resource interface {
	resource()
}

// For returns the request object for a resource name under the client's
// bound API version. An unknown version/name pair is a configuration error.
func For(client *network.Client, version int, name string) (Resource, error) {
	switch version {
	case 1:
		switch name {
		case "peers":
			return &PeersV1{client: client}, nil
		case "blocks":
			return &BlocksV1{client: client}, nil
		case "transactions":
			return &TransactionsV1{client: client}, nil
		}
	case 2:
		switch name {
		case "peers":
			return &PeersV2{client: client}, nil
		case "blocks":
			return &BlocksV2{client: client}, nil
		case "transactions":
			return &TransactionsV2{client: client}, nil
		}
	}
	return nil, fmt.Errorf("api: no resource %q for version %d", name, version)
}
