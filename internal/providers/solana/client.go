package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tickettoken/gatekeeper/internal/adapter"
	"github.com/tickettoken/gatekeeper/internal/ratelimit"
)

const PROVIDER_NAME = "solana"

// TokenAccount is one token account held by a wallet for a mint
type TokenAccount struct {
	Address string
	Amount  uint64
}

// MintInfo is the on-chain state of a mint account
type MintInfo struct {
	Supply   uint64
	Decimals int
}

// Client defines the interface for Solana RPC operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/solana_client.go -package=mocks -mock_names=Client=MockSolanaClient
type Client interface {
	// QueryTokenAccounts returns the wallet's token accounts for a mint.
	// An empty slice means the wallet verifiably holds no such token; an
	// error means the ledger could not be asked.
	QueryTokenAccounts(ctx context.Context, walletAddress, mintAddress string) ([]TokenAccount, error)

	// GetMintInfo fetches the mint account state. Returns nil when the
	// mint account does not exist.
	GetMintInfo(ctx context.Context, mintAddress string) (*MintInfo, error)
}

// rpcRequest is a JSON-RPC 2.0 request envelope
type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// rpcError is a JSON-RPC 2.0 error object
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// tokenAccountsResult mirrors getTokenAccountsByOwner with jsonParsed encoding
type tokenAccountsResult struct {
	Value []struct {
		Pubkey  string `json:"pubkey"`
		Account struct {
			Data struct {
				Parsed struct {
					Info struct {
						TokenAmount struct {
							Amount   string `json:"amount"`
							Decimals int    `json:"decimals"`
						} `json:"tokenAmount"`
					} `json:"info"`
				} `json:"parsed"`
			} `json:"data"`
		} `json:"account"`
	} `json:"value"`
}

// mintAccountResult mirrors getAccountInfo with jsonParsed encoding for a mint
type mintAccountResult struct {
	Value *struct {
		Data struct {
			Parsed struct {
				Info struct {
					Supply   string `json:"supply"`
					Decimals int    `json:"decimals"`
				} `json:"info"`
			} `json:"parsed"`
		} `json:"data"`
	} `json:"value"`
}

type solanaClient struct {
	httpClient     adapter.HTTPClient
	rateLimitProxy ratelimit.Proxy
	rpcURL         string
}

// NewClient creates a new Solana RPC client
func NewClient(httpClient adapter.HTTPClient, rateLimitProxy ratelimit.Proxy, rpcURL string) Client {
	return &solanaClient{
		httpClient:     httpClient,
		rateLimitProxy: rateLimitProxy,
		rpcURL:         rpcURL,
	}
}

// call performs a JSON-RPC request against the configured endpoint
func (c *solanaClient) call(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	}

	respBody, err := ratelimit.Do(ctx, c.rateLimitProxy, PROVIDER_NAME, func(ctx context.Context) ([]byte, error) {
		return c.httpClient.PostJSON(ctx, c.rpcURL, req, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call Solana RPC %s: %w", method, err)
	}

	var resp rpcResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Solana RPC response: %w", err)
	}

	if resp.Error != nil {
		return nil, fmt.Errorf("Solana RPC error %d: %s", resp.Error.Code, resp.Error.Message)
	}

	return resp.Result, nil
}

// QueryTokenAccounts returns the wallet's token accounts for a mint
func (c *solanaClient) QueryTokenAccounts(ctx context.Context, walletAddress, mintAddress string) ([]TokenAccount, error) {
	result, err := c.call(ctx, "getTokenAccountsByOwner", []interface{}{
		walletAddress,
		map[string]string{"mint": mintAddress},
		map[string]string{"encoding": "jsonParsed"},
	})
	if err != nil {
		return nil, err
	}

	var parsed tokenAccountsResult
	if err := json.Unmarshal(result, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse token accounts: %w", err)
	}

	accounts := make([]TokenAccount, 0, len(parsed.Value))
	for _, v := range parsed.Value {
		amount, err := strconv.ParseUint(v.Account.Data.Parsed.Info.TokenAmount.Amount, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse token amount %q: %w", v.Account.Data.Parsed.Info.TokenAmount.Amount, err)
		}
		accounts = append(accounts, TokenAccount{
			Address: v.Pubkey,
			Amount:  amount,
		})
	}

	return accounts, nil
}

// GetMintInfo fetches the mint account state
func (c *solanaClient) GetMintInfo(ctx context.Context, mintAddress string) (*MintInfo, error) {
	result, err := c.call(ctx, "getAccountInfo", []interface{}{
		mintAddress,
		map[string]string{"encoding": "jsonParsed"},
	})
	if err != nil {
		return nil, err
	}

	var parsed mintAccountResult
	if err := json.Unmarshal(result, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse mint account: %w", err)
	}

	if parsed.Value == nil {
		return nil, nil
	}

	supply, err := strconv.ParseUint(parsed.Value.Data.Parsed.Info.Supply, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mint supply %q: %w", parsed.Value.Data.Parsed.Info.Supply, err)
	}

	return &MintInfo{
		Supply:   supply,
		Decimals: parsed.Value.Data.Parsed.Info.Decimals,
	}, nil
}
