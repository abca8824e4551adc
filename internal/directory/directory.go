package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tickettoken/gatekeeper/internal/adapter"
	"github.com/tickettoken/gatekeeper/internal/domain"
)

// WalletDirectory resolves the wallet addresses linked to a platform user.
// Wallet linking is owned by the accounts service; this client only reads.
//
//go:generate mockgen -source=directory.go -destination=../mocks/directory.go -package=mocks -mock_names=WalletDirectory=MockWalletDirectory,ResourceDirectory=MockResourceDirectory
type WalletDirectory interface {
	// GetWallets returns every wallet currently linked to the user. An
	// empty slice is a valid answer, not an error.
	GetWallets(ctx context.Context, userID string) ([]string, error)
}

// ResourceDirectory resolves resource descriptors from the authoring
// service (ownership, visibility, display snapshots).
type ResourceDirectory interface {
	// GetResource fetches the descriptor for a resource. Returns
	// domain.ErrResourceNotFound when the resource does not exist.
	GetResource(ctx context.Context, resourceID string, kind domain.ResourceKind) (*domain.Resource, error)
}

type walletsResponse struct {
	Wallets []struct {
		Address string `json:"address"`
		Chain   string `json:"chain"`
	} `json:"wallets"`
}

type resourceResponse struct {
	ID            string `json:"id"`
	Kind          string `json:"kind"`
	OwnerID       string `json:"owner_id"`
	AccessControl string `json:"access_control"`
	Title         string `json:"title"`
	DisplayType   string `json:"display_type"`
}

type httpDirectory struct {
	httpClient adapter.HTTPClient
	baseURL    string
	apiToken   string
}

// NewHTTPDirectory creates a directory client for the internal platform
// API. The same upstream serves both wallet and resource lookups.
func NewHTTPDirectory(httpClient adapter.HTTPClient, baseURL, apiToken string) (WalletDirectory, ResourceDirectory) {
	d := &httpDirectory{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiToken:   apiToken,
	}
	return d, d
}

func (d *httpDirectory) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + d.apiToken,
	}
}

// GetWallets returns every wallet currently linked to the user
func (d *httpDirectory) GetWallets(ctx context.Context, userID string) ([]string, error) {
	u := fmt.Sprintf("%s/v1/users/%s/wallets", d.baseURL, url.PathEscape(userID))

	body, err := d.httpClient.GetBytes(ctx, u, d.headers())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wallets for user %s: %w", userID, err)
	}

	var resp walletsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallets response: %w", err)
	}

	addresses := make([]string, 0, len(resp.Wallets))
	for _, w := range resp.Wallets {
		// Only Solana wallets can hold the gating tokens
		if w.Chain != "" && w.Chain != "solana" {
			continue
		}
		addresses = append(addresses, w.Address)
	}
	return addresses, nil
}

// GetResource fetches the descriptor for a resource
func (d *httpDirectory) GetResource(ctx context.Context, resourceID string, kind domain.ResourceKind) (*domain.Resource, error) {
	u := fmt.Sprintf("%s/v1/resources/%s/%s", d.baseURL, url.PathEscape(string(kind)), url.PathEscape(resourceID))

	body, err := d.httpClient.GetBytes(ctx, u, d.headers())
	if err != nil {
		if errors.Is(err, adapter.ErrNotFound) {
			return nil, domain.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to fetch resource %s/%s: %w", kind, resourceID, err)
	}

	var resp resourceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resource response: %w", err)
	}

	return &domain.Resource{
		ID:            resp.ID,
		Kind:          domain.ResourceKind(resp.Kind),
		OwnerID:       resp.OwnerID,
		AccessControl: domain.AccessControl(resp.AccessControl),
		Title:         resp.Title,
		DisplayType:   resp.DisplayType,
	}, nil
}
