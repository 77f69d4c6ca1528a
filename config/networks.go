package config

import "chainclient/models"

// SeedTables maps a network name to its ordered seed peer list.
type SeedTables map[string][]models.Peer

// Exists reports whether a seed table is known for the network.
func (t SeedTables) Exists(network string) bool {
	_, ok := t[network]
	return ok
}

// Peers returns an independent copy of a network's seed list so callers
// cannot mutate the table through the result.
func (t SeedTables) Peers(network string) ([]models.Peer, bool) {
	seeds, ok := t[network]
	if !ok {
		return nil, false
	}
	return models.ClonePeers(seeds), true
}

// DefaultNetworks holds the bundled seed tables. Treat as immutable; tests
// and embedders supply their own SeedTables instead of editing these.
var DefaultNetworks = SeedTables{
	"mainnet": {
		{IP: "5.196.105.32", Port: 4001},
		{IP: "5.196.105.33", Port: 4001},
		{IP: "51.255.105.52", Port: 4001},
		{IP: "93.115.28.54", Port: 4001},
		{IP: "137.74.79.16", Port: 4001},
		{IP: "149.56.24.154", Port: 4001},
		{IP: "159.203.42.124", Port: 4001},
		{IP: "167.114.29.32", Port: 4001},
		{IP: "167.114.29.33", Port: 4001},
		{IP: "193.70.72.80", Port: 4001},
	},
	"devnet": {
		{IP: "167.114.29.51", Port: 4002},
		{IP: "167.114.29.52", Port: 4002},
		{IP: "167.114.29.53", Port: 4002},
		{IP: "167.114.29.54", Port: 4002},
		{IP: "167.114.29.55", Port: 4002},
	},
}
