package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fidenz/fi-verifiable-data/pkg/document"
)

// countingResolver records how many times Resolve was called.
type countingResolver struct {
	calls int
	doc   document.VerificationDocument
	hit   bool
}

func (r *countingResolver) Resolve(url string) (document.VerificationDocument, bool) {
	r.calls++
	return r.doc, r.hit
}

func TestGetCachesAcrossRepeatedLookups(t *testing.T) {
	l := New(nil)
	resolver := &countingResolver{doc: document.New("u", nil, []byte("pk")), hit: true}
	l.AddResolver(resolver)

	doc1, ok := l.Get("u")
	require.True(t, ok)
	assert.Equal(t, 1, resolver.calls)

	doc2, ok := l.Get("u")
	require.True(t, ok)
	assert.Equal(t, 1, resolver.calls, "second lookup must not re-consult the resolver")
	assert.Equal(t, doc1.ID(), doc2.ID())
	assert.Equal(t, 1, l.Len())
}

func TestResolverOrderFirstWins(t *testing.T) {
	l := New(nil)
	a := &countingResolver{doc: document.New("from-a", nil, nil), hit: true}
	b := &countingResolver{doc: document.New("from-b", nil, nil), hit: true}
	l.AddResolver(a)
	l.AddResolver(b)

	doc, ok := l.Get("u")
	require.True(t, ok)
	assert.Equal(t, "from-a", doc.ID())
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 0, b.calls)
}

func TestCacheSurvivesResolverRemoval(t *testing.T) {
	// S5: R1 misses, R2 hits on u; after cutting the same loader's chain
	// back to R1 alone, it still returns the cached document for u
	// because u was already cached by the first Get.
	l := New(nil)
	r1 := &countingResolver{hit: false}
	r2 := &countingResolver{doc: document.New("d", nil, nil), hit: true}
	l.AddResolver(r1)
	l.AddResolver(r2)

	doc, ok := l.Get("u")
	require.True(t, ok)
	assert.Equal(t, "d", doc.ID())

	l.resolvers = []Resolver{r1}

	doc2, ok := l.Get("u")
	require.True(t, ok)
	assert.Equal(t, "d", doc2.ID())
	assert.Equal(t, 1, r2.calls)
}

func TestGetReturnsFalseWhenNoResolverClaimsURL(t *testing.T) {
	l := New(nil)
	l.AddResolver(&countingResolver{hit: false})

	_, ok := l.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 0, l.Len())
}

func TestNewSeedsFromInitialMap(t *testing.T) {
	seed := map[string]document.VerificationDocument{
		"u": document.New("seeded", nil, nil),
	}
	l := New(seed)

	doc, ok := l.Get("u")
	require.True(t, ok)
	assert.Equal(t, "seeded", doc.ID())
	assert.Equal(t, 1, l.Len())
}
