package testutil

import (
	"bytes"
	"crypto/ed25519"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func GenerateSolanaKeys(t *testing.T, n int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, n)
	for i := 0; i < n; i++ {
		p, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = p
	}
	return keys
}

// GenerateSortedSolanaKeys returns n random keys in ascending byte order,
// which makes expected account orderings easy to write down.
func GenerateSortedSolanaKeys(t *testing.T, n int) []ed25519.PublicKey {
	keys := GenerateSolanaKeys(t, n)
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i], keys[j]) < 0
	})
	return keys
}
