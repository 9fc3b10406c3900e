package addresslookuptable

import (
	"crypto/ed25519"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/multisig-sdk/pkg/solana"
	"github.com/code-payments/multisig-sdk/pkg/testutil"
)

func setupTables(t *testing.T, client *testutil.SolanaClient, n int) ([]ed25519.PublicKey, [][]ed25519.PublicKey) {
	keys := testutil.GenerateSolanaKeys(t, n)
	contents := make([][]ed25519.PublicKey, n)
	for i, key := range keys {
		contents[i] = testutil.GenerateSolanaKeys(t, i+1)
		client.SetAccount(key, ProgramKey, marshalAccount(math.MaxUint64, 0, 0, nil, contents[i]))
	}
	return keys, contents
}

func TestFetcher_CallerOrderAndCaching(t *testing.T) {
	client := testutil.NewSolanaClient()
	keys, contents := setupTables(t, client, 3)

	fetcher := NewFetcher(client, solana.CommitmentFinalized, 10)

	tables, err := fetcher.GetAddressLookupTables(keys[2], keys[0])
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.EqualValues(t, keys[2], tables[0].PublicKey)
	assert.Equal(t, contents[2], tables[0].Addresses)
	assert.EqualValues(t, keys[0], tables[1].PublicKey)
	assert.Equal(t, contents[0], tables[1].Addresses)
	assert.Equal(t, 1, client.CallCount("getMultipleAccounts"))

	// Only the uncached table is requested.
	tables, err = fetcher.GetAddressLookupTables(keys[0], keys[1], keys[2])
	require.NoError(t, err)
	require.Len(t, tables, 3)
	for i, table := range tables {
		assert.EqualValues(t, keys[i], table.PublicKey)
		assert.Equal(t, contents[i], table.Addresses)
	}
	assert.Equal(t, 2, client.CallCount("getMultipleAccounts"))

	_, err = fetcher.GetAddressLookupTables(keys...)
	require.NoError(t, err)
	assert.Equal(t, 2, client.CallCount("getMultipleAccounts"))
}

func TestFetcher_ReturnedTablesAreCopies(t *testing.T) {
	client := testutil.NewSolanaClient()
	keys, contents := setupTables(t, client, 1)

	fetcher := NewFetcher(client, solana.CommitmentFinalized, 10)

	tables, err := fetcher.GetAddressLookupTables(keys[0])
	require.NoError(t, err)
	tables[0].Addresses[0] = nil

	tables, err = fetcher.GetAddressLookupTables(keys[0])
	require.NoError(t, err)
	assert.Equal(t, contents[0], tables[0].Addresses)
}

func TestFetcher_Invalidate(t *testing.T) {
	client := testutil.NewSolanaClient()
	keys, _ := setupTables(t, client, 1)

	fetcher := NewFetcher(client, solana.CommitmentFinalized, 10)

	_, err := fetcher.GetAddressLookupTables(keys[0])
	require.NoError(t, err)

	extended := testutil.GenerateSolanaKeys(t, 5)
	client.SetAccount(keys[0], ProgramKey, marshalAccount(math.MaxUint64, 1, 1, nil, extended))

	tables, err := fetcher.GetAddressLookupTables(keys[0])
	require.NoError(t, err)
	assert.Len(t, tables[0].Addresses, 1)

	fetcher.Invalidate(keys[0])

	tables, err = fetcher.GetAddressLookupTables(keys[0])
	require.NoError(t, err)
	assert.Equal(t, extended, tables[0].Addresses)
	assert.Equal(t, 2, client.CallCount("getMultipleAccounts"))
}

func TestFetcher_Errors(t *testing.T) {
	client := testutil.NewSolanaClient()
	keys, _ := setupTables(t, client, 1)
	missing := testutil.GenerateSolanaKeys(t, 1)[0]

	fetcher := NewFetcher(client, solana.CommitmentFinalized, 10)

	_, err := fetcher.GetAddressLookupTables(keys[0], missing)
	assert.ErrorIs(t, err, ErrLookupTableNotFound)

	wrongOwner := testutil.GenerateSolanaKeys(t, 1)[0]
	client.SetAccount(wrongOwner, testutil.GenerateSolanaKeys(t, 1)[0], marshalAccount(math.MaxUint64, 0, 0, nil, nil))
	_, err = fetcher.GetAddressLookupTables(wrongOwner)
	assert.ErrorIs(t, err, ErrInvalidOwner)

	garbage := testutil.GenerateSolanaKeys(t, 1)[0]
	client.SetAccount(garbage, ProgramKey, []byte{1, 2, 3})
	_, err = fetcher.GetAddressLookupTables(garbage)
	assert.ErrorIs(t, err, ErrInvalidAccountSize)

	rpcErr := errors.New("connection refused")
	client.Err = rpcErr
	_, err = NewFetcher(client, solana.CommitmentFinalized, 10).GetAddressLookupTables(keys[0])
	assert.ErrorIs(t, err, rpcErr)
}

func TestFetcher_NoKeys(t *testing.T) {
	client := testutil.NewSolanaClient()
	fetcher := NewFetcher(client, solana.CommitmentFinalized, 10)

	tables, err := fetcher.GetAddressLookupTables()
	require.NoError(t, err)
	assert.Empty(t, tables)
	assert.Equal(t, 0, client.CallCount("getMultipleAccounts"))
}
