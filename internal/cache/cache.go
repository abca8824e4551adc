package cache

import (
	"sync"
	"time"

	"github.com/tickettoken/gatekeeper/internal/adapter"
	"github.com/tickettoken/gatekeeper/internal/domain"
)

// pruneThreshold is the entry count above which Put opportunistically
// drops expired entries instead of letting the map grow unbounded.
const pruneThreshold = 10000

type ownershipEntry struct {
	owned    bool
	cachedAt time.Time
}

// OwnershipCache is an in-process TTL cache for (token, wallet) ownership
// answers. It absorbs bursts of checks for the same pair within a request
// storm; durable caching lives in the store. Local per process by design;
// cross-process staleness is acceptable given the short TTL.
type OwnershipCache struct {
	ttl   time.Duration
	clock adapter.Clock

	mu      sync.RWMutex
	entries map[string]ownershipEntry
}

// NewOwnershipCache creates an ownership cache with the given TTL
func NewOwnershipCache(ttl time.Duration, clock adapter.Clock) *OwnershipCache {
	return &OwnershipCache{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]ownershipEntry),
	}
}

func ownershipKey(tokenAddress, walletAddress string) string {
	return tokenAddress + "/" + walletAddress
}

// Get returns the cached ownership answer for a pair, if fresh
func (c *OwnershipCache) Get(tokenAddress, walletAddress string) (bool, bool) {
	c.mu.RLock()
	entry, ok := c.entries[ownershipKey(tokenAddress, walletAddress)]
	c.mu.RUnlock()

	if !ok || c.clock.Now().Sub(entry.cachedAt) >= c.ttl {
		return false, false
	}
	return entry.owned, true
}

// Put records an ownership answer for a pair
func (c *OwnershipCache) Put(tokenAddress, walletAddress string, owned bool) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= pruneThreshold {
		for key, entry := range c.entries {
			if now.Sub(entry.cachedAt) >= c.ttl {
				delete(c.entries, key)
			}
		}
	}

	c.entries[ownershipKey(tokenAddress, walletAddress)] = ownershipEntry{
		owned:    owned,
		cachedAt: now,
	}
}

type metadataEntry struct {
	metadata *domain.TokenMetadata
	cachedAt time.Time
}

// MetadataCache is an in-process TTL cache for token display metadata.
// Metadata changes rarely, so the TTL is much longer than for ownership.
type MetadataCache struct {
	ttl   time.Duration
	clock adapter.Clock

	mu      sync.RWMutex
	entries map[string]metadataEntry
}

// NewMetadataCache creates a metadata cache with the given TTL
func NewMetadataCache(ttl time.Duration, clock adapter.Clock) *MetadataCache {
	return &MetadataCache{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]metadataEntry),
	}
}

// Get returns the cached metadata for a token, if fresh
func (c *MetadataCache) Get(tokenAddress string) (*domain.TokenMetadata, bool) {
	c.mu.RLock()
	entry, ok := c.entries[tokenAddress]
	c.mu.RUnlock()

	if !ok || c.clock.Now().Sub(entry.cachedAt) >= c.ttl {
		return nil, false
	}
	return entry.metadata, true
}

// Put records metadata for a token
func (c *MetadataCache) Put(tokenAddress string, metadata *domain.TokenMetadata) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= pruneThreshold {
		for key, entry := range c.entries {
			if now.Sub(entry.cachedAt) >= c.ttl {
				delete(c.entries, key)
			}
		}
	}

	c.entries[tokenAddress] = metadataEntry{
		metadata: metadata,
		cachedAt: now,
	}
}
