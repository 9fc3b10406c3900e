package multisig

import (
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/multisig-sdk/pkg/solana"
	"github.com/code-payments/multisig-sdk/pkg/solana/token"
	"github.com/code-payments/multisig-sdk/pkg/testutil"
)

func TestAddresses(t *testing.T) {
	programConfig, bump, err := GetProgramConfigAddress(&GetProgramConfigAddressArgs{})
	require.NoError(t, err)
	assert.Equal(t, "BSTq9w3kZwNwpBXJEvTZz2G9ZTNyKBvoSeXMvwb4cNZr", base58.Encode(programConfig))
	assert.EqualValues(t, 255, bump)

	multisig, bump, err := GetMultisigAddress(&GetMultisigAddressArgs{CreateKey: token.ProgramKey})
	require.NoError(t, err)
	assert.Equal(t, "HpvfX9K1LLgPDNxThvV9iXn3QKLpsoSzN9YY5WUdmR4e", base58.Encode(multisig))
	assert.EqualValues(t, 254, bump)

	for _, tc := range []struct {
		index    uint8
		expected string
		bump     uint8
	}{
		{0, "3V9iuFro5sgF5fmPaCX4B3ZvTLGUyxHT4P2hh5GTsage", 253},
		{1, "EPb1JcSMzqeCsnfFWtykbt27fcvrvMZqcvV67FWrzfof", 255},
	} {
		vault, bump, err := GetVaultAddress(&GetVaultAddressArgs{Multisig: multisig, Index: tc.index})
		require.NoError(t, err)
		assert.Equal(t, tc.expected, base58.Encode(vault))
		assert.Equal(t, tc.bump, bump)
	}

	transaction, bump, err := GetTransactionAddress(&GetTransactionAddressArgs{Multisig: multisig, TransactionIndex: 5})
	require.NoError(t, err)
	assert.Equal(t, "FsapXQeGhKvmKni7QYaDoU2SvY6Nb4SfeUJwsWQoixqC", base58.Encode(transaction))
	assert.EqualValues(t, 253, bump)

	proposal, bump, err := GetProposalAddress(&GetProposalAddressArgs{Multisig: multisig, TransactionIndex: 5})
	require.NoError(t, err)
	assert.Equal(t, "Gw7Mt9nmN7PF4TRZ7XtMvtQyaGCnAdKeoo7Chucom3qL", base58.Encode(proposal))
	assert.EqualValues(t, 254, bump)

	batchTransaction, bump, err := GetBatchTransactionAddress(&GetBatchTransactionAddressArgs{Multisig: multisig, BatchIndex: 5, TransactionIndex: 2})
	require.NoError(t, err)
	assert.Equal(t, "6M2B6QhjTUJ4snrgtH2mzNcPqwmosZfiWKX1yXkraA6t", base58.Encode(batchTransaction))
	assert.EqualValues(t, 255, bump)

	ephemeralSigner, bump, err := GetEphemeralSignerAddress(&GetEphemeralSignerAddressArgs{Transaction: transaction})
	require.NoError(t, err)
	assert.Equal(t, "5e19wy9u8oTfHgAtyDfhvbSLtzZJJk3wDdweEQiLe5Go", base58.Encode(ephemeralSigner))
	assert.EqualValues(t, 255, bump)

	spendingLimit, bump, err := GetSpendingLimitAddress(&GetSpendingLimitAddressArgs{Multisig: multisig, CreateKey: token.ProgramKey})
	require.NoError(t, err)
	assert.Equal(t, "5qj9ydsW4fFH1SRD1Tpdaee4Y8jxDRjtaA4UfQF4PT5G", base58.Encode(spendingLimit))
	assert.EqualValues(t, 255, bump)
}

func TestAddresses_ProgramIdOverride(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 2)
	createKey, programId := keys[0], keys[1]

	canonical, _, err := GetMultisigAddress(&GetMultisigAddressArgs{CreateKey: createKey})
	require.NoError(t, err)
	explicit, _, err := GetMultisigAddress(&GetMultisigAddressArgs{CreateKey: createKey, ProgramId: PROGRAM_ID})
	require.NoError(t, err)
	assert.Equal(t, canonical, explicit)

	overridden, bump, err := GetMultisigAddress(&GetMultisigAddressArgs{CreateKey: createKey, ProgramId: programId})
	require.NoError(t, err)
	assert.NotEqual(t, canonical, overridden)

	expected, err := solana.CreateProgramAddress(programId, SeedPrefix, SeedMultisig, createKey, []byte{bump})
	require.NoError(t, err)
	assert.Equal(t, expected, overridden)
	assert.Len(t, overridden, ed25519.PublicKeySize)
}
