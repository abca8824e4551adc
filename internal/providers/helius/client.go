package helius

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tickettoken/gatekeeper/internal/adapter"
	"github.com/tickettoken/gatekeeper/internal/domain"
	"github.com/tickettoken/gatekeeper/internal/ratelimit"
)

const PROVIDER_NAME = "helius"

var ErrNoAPIKey = errors.New("no API key provided")

// Client defines the interface for the Helius DAS API, used as the
// availability fallback when direct ledger queries fail. Results carry a
// different trust profile than a ledger hit but keep checks answerable
// during RPC outages.
//
//go:generate mockgen -source=client.go -destination=../../mocks/helius_client.go -package=mocks -mock_names=Client=MockHeliusClient
type Client interface {
	// GetTokenAccounts returns the wallet's holdings of a mint as seen by
	// the indexer
	GetTokenAccounts(ctx context.Context, walletAddress, mintAddress string) ([]TokenAccount, error)

	// GetAsset fetches indexed display metadata for a mint. Returns nil
	// when the indexer does not know the asset.
	GetAsset(ctx context.Context, mintAddress string) (*domain.TokenMetadata, error)
}

// TokenAccount is one indexed token account
type TokenAccount struct {
	Address string `json:"address"`
	Mint    string `json:"mint"`
	Owner   string `json:"owner"`
	Amount  uint64 `json:"amount"`
}

type dasRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type dasError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type dasResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *dasError       `json:"error"`
}

type tokenAccountsResult struct {
	Total         int            `json:"total"`
	TokenAccounts []TokenAccount `json:"token_accounts"`
}

type assetResult struct {
	ID      string `json:"id"`
	Content struct {
		Metadata struct {
			Name        string `json:"name"`
			Symbol      string `json:"symbol"`
			Description string `json:"description"`
		} `json:"metadata"`
		Links struct {
			Image string `json:"image"`
		} `json:"links"`
	} `json:"content"`
	Grouping []struct {
		GroupKey   string `json:"group_key"`
		GroupValue string `json:"group_value"`
	} `json:"grouping"`
}

type heliusClient struct {
	httpClient     adapter.HTTPClient
	rateLimitProxy ratelimit.Proxy
	apiURL         string
	apiKey         string
}

// NewClient creates a new Helius DAS client
func NewClient(httpClient adapter.HTTPClient, rateLimitProxy ratelimit.Proxy, apiURL string, apiKey string) Client {
	return &heliusClient{
		httpClient:     httpClient,
		rateLimitProxy: rateLimitProxy,
		apiURL:         apiURL,
		apiKey:         apiKey,
	}
}

// call performs a DAS JSON-RPC request, keyed by the API credential
func (c *heliusClient) call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	url := fmt.Sprintf("%s/?api-key=%s", c.apiURL, c.apiKey)
	req := dasRequest{
		JSONRPC: "2.0",
		ID:      "gatekeeper",
		Method:  method,
		Params:  params,
	}

	respBody, err := ratelimit.Do(ctx, c.rateLimitProxy, PROVIDER_NAME, func(ctx context.Context) ([]byte, error) {
		return c.httpClient.PostJSON(ctx, url, req, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call Helius API %s: %w", method, err)
	}

	var resp dasResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Helius response: %w", err)
	}

	if resp.Error != nil {
		return nil, fmt.Errorf("Helius API error %d: %s", resp.Error.Code, resp.Error.Message)
	}

	return resp.Result, nil
}

// GetTokenAccounts returns the wallet's holdings of a mint as seen by the indexer
func (c *heliusClient) GetTokenAccounts(ctx context.Context, walletAddress, mintAddress string) ([]TokenAccount, error) {
	result, err := c.call(ctx, "getTokenAccounts", map[string]interface{}{
		"owner": walletAddress,
		"mint":  mintAddress,
	})
	if err != nil {
		return nil, err
	}

	var parsed tokenAccountsResult
	if err := json.Unmarshal(result, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse token accounts: %w", err)
	}

	return parsed.TokenAccounts, nil
}

// GetAsset fetches indexed display metadata for a mint
func (c *heliusClient) GetAsset(ctx context.Context, mintAddress string) (*domain.TokenMetadata, error) {
	result, err := c.call(ctx, "getAsset", map[string]interface{}{
		"id": mintAddress,
	})
	if err != nil {
		return nil, err
	}

	if string(result) == "null" {
		return nil, nil
	}

	var parsed assetResult
	if err := json.Unmarshal(result, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse asset: %w", err)
	}

	metadata := &domain.TokenMetadata{
		Name:        parsed.Content.Metadata.Name,
		Symbol:      parsed.Content.Metadata.Symbol,
		Description: parsed.Content.Metadata.Description,
		ImageURL:    parsed.Content.Links.Image,
	}
	for _, g := range parsed.Grouping {
		if g.GroupKey == "collection" {
			metadata.Collection = g.GroupValue
			break
		}
	}

	return metadata, nil
}
