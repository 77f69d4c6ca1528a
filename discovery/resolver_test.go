package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainclient/models"
)

type fetchAttempt struct {
	target string
	path   string
}

func TestFetchConfigTriesAllFallbacksInOrder(t *testing.T) {
	var attempts []fetchAttempt
	resolver, err := NewResolver(ResolverConfig{
		fetchFn: func(ctx context.Context, target, path string) (json.RawMessage, error) {
			attempts = append(attempts, fetchAttempt{target, path})
			return nil, errors.New("connection refused")
		},
	})
	require.NoError(t, err)

	nodeConfig := resolver.FetchConfig(context.Background(), "http://10.0.0.1:4001")

	assert.Nil(t, nodeConfig)
	require.Equal(t, []fetchAttempt{
		{"http://10.0.0.1:4001", "config"},
		{"http://10.0.0.1:4040", "config"},
		{"http://10.0.0.1:4040", ""},
	}, attempts)
}

func TestFetchConfigStopsAtFirstNonEmptyPayload(t *testing.T) {
	var attempts []fetchAttempt
	resolver, err := NewResolver(ResolverConfig{
		fetchFn: func(ctx context.Context, target, path string) (json.RawMessage, error) {
			attempts = append(attempts, fetchAttempt{target, path})
			if len(attempts) == 2 {
				return json.RawMessage(`{"version":"2.1.0","plugins":{"core-api":{"enabled":true,"port":4003}}}`), nil
			}
			return nil, errors.New("timeout")
		},
	})
	require.NoError(t, err)

	nodeConfig := resolver.FetchConfig(context.Background(), "http://10.0.0.1:4001")

	require.NotNil(t, nodeConfig)
	assert.Equal(t, "2.1.0", nodeConfig.Version)
	assert.Len(t, attempts, 2, "a success on attempt two must skip attempt three")
}

func TestFetchConfigIgnoresEmptyPayloads(t *testing.T) {
	payloads := []json.RawMessage{
		json.RawMessage(`null`),
		json.RawMessage(`{}`),
		json.RawMessage(`{"plugins":{"core-api":{"enabled":true,"port":4003}}}`),
	}
	call := 0
	resolver, err := NewResolver(ResolverConfig{
		fetchFn: func(ctx context.Context, target, path string) (json.RawMessage, error) {
			payload := payloads[call]
			call++
			return payload, nil
		},
	})
	require.NoError(t, err)

	nodeConfig := resolver.FetchConfig(context.Background(), "http://10.0.0.1:4001")

	require.NotNil(t, nodeConfig)
	assert.Equal(t, 3, call)
}

func TestFetchConfigCachesSuccessfulDocuments(t *testing.T) {
	calls := 0
	resolver, err := NewResolver(ResolverConfig{
		fetchFn: func(ctx context.Context, target, path string) (json.RawMessage, error) {
			calls++
			return json.RawMessage(`{"version":"2.1.0"}`), nil
		},
	})
	require.NoError(t, err)

	first := resolver.FetchConfig(context.Background(), "http://10.0.0.1:4001")
	second := resolver.FetchConfig(context.Background(), "http://10.0.0.1:4001")

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, 1, calls)
}

func TestSelectAPIPeerFirstMatchWins(t *testing.T) {
	configs := map[string]json.RawMessage{
		"http://10.0.0.2:4001/config": json.RawMessage(`{"plugins":{"@vendor/core-api":{"enabled":true,"port":4003}}}`),
		"http://10.0.0.3:4001/config": json.RawMessage(`{"plugins":{"core-api":{"enabled":true,"port":4003}}}`),
	}
	var probed []string
	resolver, err := NewResolver(ResolverConfig{
		fetchFn: func(ctx context.Context, target, path string) (json.RawMessage, error) {
			key := target
			if path != "" {
				key += "/" + path
			}
			probed = append(probed, key)
			payload, ok := configs[key]
			if !ok {
				return nil, errors.New("connection refused")
			}
			return payload, nil
		},
	})
	require.NoError(t, err)

	peers := []models.Peer{
		{IP: "10.0.0.1", Port: 4001},
		{IP: "10.0.0.2", Port: 4001},
		{IP: "10.0.0.3", Port: 4001},
	}

	apiPeer := resolver.SelectAPIPeer(context.Background(), peers)

	require.NotNil(t, apiPeer)
	assert.Equal(t, "10.0.0.2", apiPeer.IP)
	assert.Equal(t, 4003, apiPeer.Port, "port must be overridden to the sub-service port")
	assert.NotContains(t, probed, "http://10.0.0.3:4001/config", "selection must stop at the first match")
}

func TestSelectAPIPeerNoMatch(t *testing.T) {
	resolver, err := NewResolver(ResolverConfig{
		fetchFn: func(ctx context.Context, target, path string) (json.RawMessage, error) {
			return json.RawMessage(`{"plugins":{"core-api":{"enabled":false,"port":4003}}}`), nil
		},
	})
	require.NoError(t, err)

	assert.Nil(t, resolver.SelectAPIPeer(context.Background(), nil))
	assert.Nil(t, resolver.SelectAPIPeer(context.Background(), []models.Peer{{IP: "10.0.0.1", Port: 4001}}))
}
