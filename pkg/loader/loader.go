// Package loader implements DocumentLoader: a write-through cache of
// VerificationDocument keyed by URL, backed by an ordered chain of
// fallback resolvers.
//
// The cache is grounded on the teacher's CachingDocumentLoader
// (pkg/vc20/credential) and TrustCache (pkg/trust): both wrap
// github.com/jellydator/ttlcache/v3 around a fallback lookup. This
// loader does the same, but every entry is inserted with ttlcache.NoTTL
// so the map grows monotonically and never evicts, per the no-eviction
// invariant.
package loader

import (
	"sync"

	"github.com/jellydator/ttlcache/v3"

	"github.com/Fidenz/fi-verifiable-data/pkg/document"
	"github.com/Fidenz/fi-verifiable-data/pkg/logger"
)

// Resolver resolves a URL to a VerificationDocument. Resolvers are
// consulted in the order they were added to a DocumentLoader, and must
// not re-enter the loader that is calling them.
type Resolver interface {
	Resolve(url string) (document.VerificationDocument, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(url string) (document.VerificationDocument, bool)

// Resolve calls f.
func (f ResolverFunc) Resolve(url string) (document.VerificationDocument, bool) {
	return f(url)
}

// DocumentLoader maps URL to VerificationDocument, consulting an ordered
// chain of resolvers on a cache miss and caching the first hit.
//
// A DocumentLoader is single-owner: its own mutex only serializes the
// check-resolve-insert sequence against itself, it is not a substitute
// for the caller's own synchronization if the loader is shared across
// goroutines that also mutate it concurrently with AddResolver.
type DocumentLoader struct {
	mu        sync.Mutex
	cache     *ttlcache.Cache[string, document.VerificationDocument]
	resolvers []Resolver
	log       *logger.Log
}

// Option configures a DocumentLoader at construction time.
type Option func(*DocumentLoader)

// WithLogger attaches a diagnostic logger. Diagnostics are limited to
// URLs and cache/resolver outcomes — key material is never logged.
func WithLogger(log *logger.Log) Option {
	return func(l *DocumentLoader) { l.log = log }
}

// New constructs an empty DocumentLoader, optionally seeded from initial.
func New(initial map[string]document.VerificationDocument, opts ...Option) *DocumentLoader {
	l := &DocumentLoader{
		cache: ttlcache.New[string, document.VerificationDocument](),
	}
	for _, opt := range opts {
		opt(l)
	}
	for url, doc := range initial {
		l.cache.Set(url, doc, ttlcache.NoTTL)
	}
	return l
}

// AddResolver appends resolver to the end of the resolver chain.
func (l *DocumentLoader) AddResolver(resolver Resolver) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resolvers = append(l.resolvers, resolver)
}

// Get implements the lookup protocol: return a cached document if one
// exists; otherwise consult resolvers in insertion order, caching and
// returning the first hit. Returns ok=false if url is cached nowhere and
// no resolver claims it.
func (l *DocumentLoader) Get(url string) (document.VerificationDocument, bool) {
	if item := l.cache.Get(url); item != nil {
		l.log.Debug("document loader cache hit", "url", url)
		return item.Value(), true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Re-check under the lock: another goroutine may have resolved and
	// cached url while we were waiting for the mutex.
	if item := l.cache.Get(url); item != nil {
		return item.Value(), true
	}

	for i, resolver := range l.resolvers {
		doc, ok := resolver.Resolve(url)
		if !ok {
			continue
		}
		l.cache.Set(url, doc, ttlcache.NoTTL)
		l.log.Debug("document loader resolver hit", "url", url, "resolverIndex", i)
		return doc, true
	}

	l.log.Debug("document loader miss", "url", url)
	return document.VerificationDocument{}, false
}

// Len returns the number of cached entries.
func (l *DocumentLoader) Len() int {
	return l.cache.Len()
}
