package addresslookuptable

import (
	"crypto/ed25519"
	"fmt"
	"math"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/multisig-sdk/pkg/solana"
	"github.com/code-payments/multisig-sdk/pkg/solana/binary"
)

var (
	ErrInvalidAccountSize = errors.New("invalid address lookup table account size")
	ErrInvalidAccountType = errors.New("invalid account type")
)

const (
	lookupTableDiscriminator = 1

	metadataSize = 56
	maxAddresses = 256

	optionSize = 1
)

type AddressLookupTableAccount struct {
	DeactivationSlot           uint64
	LastExtendedSlot           uint64
	LastExtendedSlotStartIndex uint8
	Authority                  ed25519.PublicKey
	Addresses                  []ed25519.PublicKey
}

// Unmarshal decodes the 56 byte metadata header followed by the packed
// list of addresses.
func (obj *AddressLookupTableAccount) Unmarshal(data []byte) error {
	if len(data) < metadataSize {
		return ErrInvalidAccountSize
	}

	var offset int

	var discriminator uint32
	binary.GetUint32(data[offset:], &discriminator, &offset)
	if discriminator != lookupTableDiscriminator {
		return ErrInvalidAccountType
	}

	binary.GetUint64(data[offset:], &obj.DeactivationSlot, &offset)
	binary.GetUint64(data[offset:], &obj.LastExtendedSlot, &offset)
	binary.GetUint8(data[offset:], &obj.LastExtendedSlotStartIndex, &offset)

	obj.Authority = nil
	binary.GetOptionalKey32(data[offset:], &obj.Authority, &offset, optionSize)

	// Two bytes of padding separate the metadata from the addresses.
	offset = metadataSize

	addressBufferSize := len(data) - offset
	if addressBufferSize%ed25519.PublicKeySize != 0 {
		return ErrInvalidAccountSize
	}
	addressCount := addressBufferSize / ed25519.PublicKeySize
	if addressCount > maxAddresses {
		return ErrInvalidAccountSize
	}

	obj.Addresses = make([]ed25519.PublicKey, addressCount)
	for i := range obj.Addresses {
		binary.GetKey32(data[offset:], &obj.Addresses[i], &offset)
	}

	return nil
}

// IsActive reports whether the table has not been deactivated.
func (obj *AddressLookupTableAccount) IsActive() bool {
	return obj.DeactivationSlot == math.MaxUint64
}

// IsFrozen reports whether the table can no longer be extended.
func (obj *AddressLookupTableAccount) IsFrozen() bool {
	return len(obj.Authority) == 0
}

// ToAddressLookupTable returns the view of the table used by message
// compilers.
func (obj *AddressLookupTableAccount) ToAddressLookupTable(key ed25519.PublicKey) solana.AddressLookupTable {
	addresses := make([]ed25519.PublicKey, len(obj.Addresses))
	copy(addresses, obj.Addresses)

	return solana.AddressLookupTable{
		PublicKey: key,
		Addresses: addresses,
	}
}

func (obj *AddressLookupTableAccount) String() string {
	addresses := make([]string, len(obj.Addresses))
	for i, address := range obj.Addresses {
		addresses[i] = fmt.Sprintf("%d:%s", i, base58.Encode(address))
	}

	authority := "none"
	if len(obj.Authority) > 0 {
		authority = base58.Encode(obj.Authority)
	}

	return fmt.Sprintf(
		"AddressLookupTableAccount{deactivation_slot=%d,last_extended_slot=%d,last_extended_slot_start_index=%d,authority=%s,addresses=[%s]}",
		obj.DeactivationSlot,
		obj.LastExtendedSlot,
		obj.LastExtendedSlotStartIndex,
		authority,
		strings.Join(addresses, ","),
	)
}
