package tokens

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-wallet-lab/internal/domain"
)

func TestResolveKnownMint(t *testing.T) {
	r, err := NewResolver()
	require.NoError(t, err)
	require.Positive(t, r.Size())

	info := r.Resolve("DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263")
	assert.Equal(t, "BONK", info.Symbol)
	assert.Equal(t, 5, info.Decimals)

	sol := r.Resolve(domain.SOLMint)
	assert.Equal(t, "SOL", sol.Symbol)
}

func TestResolveUnknownMint(t *testing.T) {
	r, err := NewResolver()
	require.NoError(t, err)

	const mint = "UnknownMint11111111111111111111111111111111"
	info := r.Resolve(mint)
	assert.Equal(t, domain.UnknownSymbol, info.Symbol)
	assert.Equal(t, mint, info.Mint)

	// The sentinel is cached like any other resolution.
	assert.Equal(t, info, r.Resolve(mint))
}

func TestReloadReplacesRegistry(t *testing.T) {
	r, err := NewResolver()
	require.NoError(t, err)

	const mint = "NewMint1111111111111111111111111111111111111"
	assert.Equal(t, domain.UnknownSymbol, r.Resolve(mint).Symbol)

	snapshot := []byte(`[{"mint":"` + mint + `","symbol":"NEW","decimals":6}]`)
	require.NoError(t, r.Reload(snapshot))

	// Reload drops the cached sentinel along with the old registry.
	assert.Equal(t, "NEW", r.Resolve(mint).Symbol)
	assert.Equal(t, 1, r.Size())
}

func TestReloadRejectsMalformedSnapshot(t *testing.T) {
	r, err := NewResolver()
	require.NoError(t, err)
	before := r.Size()

	assert.Error(t, r.Reload([]byte(`{not json`)))
	assert.Error(t, r.Reload([]byte(`[{"mint":"","symbol":"X"}]`)))

	// Failed reloads leave the registry untouched.
	assert.Equal(t, before, r.Size())
}

func TestResolveConcurrent(t *testing.T) {
	r, err := NewResolver()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Resolve("DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263")
				r.Resolve("UnknownMint11111111111111111111111111111111")
			}
		}()
	}
	wg.Wait()
}
