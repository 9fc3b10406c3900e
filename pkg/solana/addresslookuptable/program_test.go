package addresslookuptable

import (
	"crypto/ed25519"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/multisig-sdk/pkg/solana"
	"github.com/code-payments/multisig-sdk/pkg/solana/system"
	"github.com/code-payments/multisig-sdk/pkg/testutil"
)

func TestProgramKey(t *testing.T) {
	assert.EqualValues(t, solana.MustPublicKeyFromBase58("AddressLookupTab1e1111111111111111111111111"), ProgramKey)
}

func TestGetAddress(t *testing.T) {
	authority := testutil.GenerateSolanaKeys(t, 1)[0]

	address, bump, err := GetAddress(authority, 42)
	require.NoError(t, err)

	var slot [8]byte
	binary.LittleEndian.PutUint64(slot[:], 42)
	expected, err := solana.CreateProgramAddress(ProgramKey, authority, slot[:], []byte{bump})
	require.NoError(t, err)
	assert.EqualValues(t, expected, address)

	other, _, err := GetAddress(authority, 43)
	require.NoError(t, err)
	assert.NotEqualValues(t, address, other)
}

func TestCreate(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 3)
	alt, authority, payer := keys[0], keys[1], keys[2]

	ix := Create(alt, authority, payer, 1000, 254)

	assert.EqualValues(t, ProgramKey, ix.Program)
	require.Len(t, ix.Data, 13)
	assert.EqualValues(t, commandCreateLookupTable, binary.LittleEndian.Uint32(ix.Data))
	assert.EqualValues(t, 1000, binary.LittleEndian.Uint64(ix.Data[4:]))
	assert.EqualValues(t, 254, ix.Data[12])

	assert.Equal(t, []solana.AccountMeta{
		solana.NewAccountMeta(alt, false),
		solana.NewReadonlyAccountMeta(authority, true),
		solana.NewAccountMeta(payer, true),
		solana.NewReadonlyAccountMeta(system.ProgramKey, false),
	}, ix.Accounts)
}

func TestExtend(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 6)
	alt, authority, payer, addresses := keys[0], keys[1], keys[2], keys[3:]

	ix := Extend(alt, authority, payer, addresses...)

	require.Len(t, ix.Data, 12+3*ed25519.PublicKeySize)
	assert.EqualValues(t, commandExtendLookupTable, binary.LittleEndian.Uint32(ix.Data))
	assert.EqualValues(t, 3, binary.LittleEndian.Uint64(ix.Data[4:]))
	for i, address := range addresses {
		start := 12 + i*ed25519.PublicKeySize
		assert.EqualValues(t, address, ix.Data[start:start+ed25519.PublicKeySize])
	}
	assert.Len(t, ix.Accounts, 4)
}

func TestAuthorityCommands(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 3)
	alt, authority, recipient := keys[0], keys[1], keys[2]

	for _, tc := range []struct {
		ix       solana.Instruction
		command  uint32
		accounts int
	}{
		{Freeze(alt, authority), commandFreezeLookupTable, 2},
		{Deactivate(alt, authority), commandDeactivateLookupTable, 2},
		{Close(alt, authority, recipient), commandCloseLookupTable, 3},
	} {
		require.Len(t, tc.ix.Data, 4)
		assert.Equal(t, tc.command, binary.LittleEndian.Uint32(tc.ix.Data))
		require.Len(t, tc.ix.Accounts, tc.accounts)
		assert.EqualValues(t, alt, tc.ix.Accounts[0].PublicKey)
		assert.True(t, tc.ix.Accounts[0].IsWritable)
		assert.True(t, tc.ix.Accounts[1].IsSigner)
	}

	ix := Close(alt, authority, recipient)
	assert.Equal(t, solana.NewAccountMeta(recipient, false), ix.Accounts[2])
}
