package addresslookuptable

import (
	"crypto/ed25519"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/multisig-sdk/pkg/solana/binary"
	"github.com/code-payments/multisig-sdk/pkg/testutil"
)

func marshalAccount(deactivationSlot, lastExtendedSlot uint64, startIndex uint8, authority ed25519.PublicKey, addresses []ed25519.PublicKey) []byte {
	data := make([]byte, metadataSize+len(addresses)*ed25519.PublicKeySize)

	var offset int
	binary.PutUint32(data[offset:], lookupTableDiscriminator, &offset)
	binary.PutUint64(data[offset:], deactivationSlot, &offset)
	binary.PutUint64(data[offset:], lastExtendedSlot, &offset)
	binary.PutUint8(data[offset:], startIndex, &offset)
	if len(authority) > 0 {
		binary.PutUint8(data[offset:], 1, &offset)
		binary.PutKey32(data[offset:], authority, &offset)
	}

	offset = metadataSize
	for _, address := range addresses {
		binary.PutKey32(data[offset:], address, &offset)
	}
	return data
}

func TestAccount_Unmarshal(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 4)
	authority, addresses := keys[0], keys[1:]

	var account AddressLookupTableAccount
	require.NoError(t, account.Unmarshal(marshalAccount(math.MaxUint64, 1234, 2, authority, addresses)))

	assert.EqualValues(t, uint64(math.MaxUint64), account.DeactivationSlot)
	assert.EqualValues(t, 1234, account.LastExtendedSlot)
	assert.EqualValues(t, 2, account.LastExtendedSlotStartIndex)
	assert.EqualValues(t, authority, account.Authority)
	assert.Equal(t, addresses, account.Addresses)
	assert.True(t, account.IsActive())
	assert.False(t, account.IsFrozen())

	table := account.ToAddressLookupTable(keys[0])
	assert.EqualValues(t, keys[0], table.PublicKey)
	assert.Equal(t, addresses, table.Addresses)
	assert.Equal(t, 1, table.IndexOf(addresses[1]))
}

func TestAccount_UnmarshalFrozenAndDeactivated(t *testing.T) {
	addresses := testutil.GenerateSolanaKeys(t, 2)

	var account AddressLookupTableAccount
	require.NoError(t, account.Unmarshal(marshalAccount(100, 50, 0, nil, addresses)))

	assert.Empty(t, account.Authority)
	assert.True(t, account.IsFrozen())
	assert.False(t, account.IsActive())
	assert.Len(t, account.Addresses, 2)
}

func TestAccount_UnmarshalEmpty(t *testing.T) {
	var account AddressLookupTableAccount
	require.NoError(t, account.Unmarshal(marshalAccount(math.MaxUint64, 0, 0, nil, nil)))
	assert.Empty(t, account.Addresses)
}

func TestAccount_UnmarshalInvalid(t *testing.T) {
	addresses := testutil.GenerateSolanaKeys(t, 2)
	valid := marshalAccount(math.MaxUint64, 0, 0, nil, addresses)

	var account AddressLookupTableAccount

	assert.ErrorIs(t, account.Unmarshal(valid[:metadataSize-1]), ErrInvalidAccountSize)
	assert.ErrorIs(t, account.Unmarshal(valid[:len(valid)-1]), ErrInvalidAccountSize)

	uninitialized := append([]byte{}, valid...)
	uninitialized[0] = 0
	assert.ErrorIs(t, account.Unmarshal(uninitialized), ErrInvalidAccountType)

	tooMany := make([]byte, metadataSize+(maxAddresses+1)*ed25519.PublicKeySize)
	copy(tooMany, valid[:metadataSize])
	assert.ErrorIs(t, account.Unmarshal(tooMany), ErrInvalidAccountSize)
}
