package api

import (
	"context"
	"encoding/json"
	"net/url"

	"chainclient/network"
)

// PeersV2 issues version-2 peer resource calls.
type PeersV2 struct {
	client *network.Client
}

func (*PeersV2) resource() {}

// All returns the bound peer's peer list payload.
func (r *PeersV2) All(ctx context.Context) (json.RawMessage, error) {
	return r.client.Get(ctx, "api/peers")
}

// Get returns one peer by address.
func (r *PeersV2) Get(ctx context.Context, ip string) (json.RawMessage, error) {
	return r.client.Get(ctx, "api/peers/"+url.PathEscape(ip))
}

// BlocksV2 issues version-2 block resource calls.
type BlocksV2 struct {
	client *network.Client
}

func (*BlocksV2) resource() {}

// All returns the latest blocks payload.
func (r *BlocksV2) All(ctx context.Context) (json.RawMessage, error) {
	return r.client.Get(ctx, "api/blocks")
}

// Get returns one block by ID.
func (r *BlocksV2) Get(ctx context.Context, id string) (json.RawMessage, error) {
	return r.client.Get(ctx, "api/blocks/"+url.PathEscape(id))
}

// TransactionsV2 issues version-2 transaction resource calls.
type TransactionsV2 struct {
	client *network.Client
}

func (*TransactionsV2) resource() {}

// All returns the latest transactions payload.
func (r *TransactionsV2) All(ctx context.Context) (json.RawMessage, error) {
	return r.client.Get(ctx, "api/transactions")
}

// Get returns one transaction by ID.
func (r *TransactionsV2) Get(ctx context.Context, id string) (json.RawMessage, error) {
	return r.client.Get(ctx, "api/transactions/"+url.PathEscape(id))
}
