package auth

import "sync"

// Blacklist is the set of revoked token strings. It is constructed once in
// main and injected wherever revocation matters, so ownership and lifecycle
// are explicit. Entries are keyed by the raw token string and accumulate for
// the process lifetime; the set lives in memory and resets on restart.
// Expiry-based eviction is a known gap, deliberately not papered over here.
type Blacklist struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

// NewBlacklist returns an empty blacklist ready for concurrent use.
func NewBlacklist() *Blacklist {
	return &Blacklist{tokens: make(map[string]struct{})}
}

// Add records a token as revoked. Adding the same token twice is a no-op, so
// concurrent logouts with one token are idempotent. Empty strings are ignored.
func (b *Blacklist) Add(token string) {
	if token == "" {
		return
	}
	b.mu.Lock()
	b.tokens[token] = struct{}{}
	b.mu.Unlock()
}

// Contains reports whether the exact token string has been revoked.
func (b *Blacklist) Contains(token string) bool {
	if token == "" {
		return false
	}
	b.mu.RLock()
	_, ok := b.tokens[token]
	b.mu.RUnlock()
	return ok
}

// Len returns the number of revoked tokens currently held.
func (b *Blacklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.tokens)
}
