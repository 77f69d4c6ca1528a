package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"chainclient/network"
)

// PeersV1 issues version-1 peer resource calls.
type PeersV1 struct {
	client *network.Client
}

func (*PeersV1) resource() {}

// All returns the bound peer's peer list payload.
func (r *PeersV1) All(ctx context.Context) (json.RawMessage, error) {
	return r.client.Get(ctx, "api/peers")
}

// Get returns one peer by address and port.
func (r *PeersV1) Get(ctx context.Context, ip string, port int) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("ip", ip)
	query.Set("port", strconv.Itoa(port))
	return r.client.Get(ctx, "api/peers/get?"+query.Encode())
}

// BlocksV1 issues version-1 block resource calls.
type BlocksV1 struct {
	client *network.Client
}

func (*BlocksV1) resource() {}

// All returns the latest blocks payload.
func (r *BlocksV1) All(ctx context.Context) (json.RawMessage, error) {
	return r.client.Get(ctx, "api/blocks")
}

// Get returns one block by ID.
func (r *BlocksV1) Get(ctx context.Context, id string) (json.RawMessage, error) {
	return r.client.Get(ctx, "api/blocks/get?id="+url.QueryEscape(id))
}

// TransactionsV1 issues version-1 transaction resource calls.
type TransactionsV1 struct {
	client *network.Client
}

func (*TransactionsV1) resource() {}

// All returns the latest transactions payload.
func (r *TransactionsV1) All(ctx context.Context) (json.RawMessage, error) {
	return r.client.Get(ctx, "api/transactions")
}

// Get returns one transaction by ID.
func (r *TransactionsV1) Get(ctx context.Context, id string) (json.RawMessage, error) {
	return r.client.Get(ctx, "api/transactions/get?id="+url.QueryEscape(id))
}
