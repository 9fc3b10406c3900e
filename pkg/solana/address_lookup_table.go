package solana

import (
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// AddressLookupTable is the client-side view of an address lookup table
// account: its address plus the ordered list of addresses it stores.
// Addresses[i] is referenced in a message by index i.
type AddressLookupTable struct {
	PublicKey ed25519.PublicKey
	Addresses []ed25519.PublicKey
}

// IndexOf returns the first index of key in the table, or -1.
func (t AddressLookupTable) IndexOf(key ed25519.PublicKey) int {
	return indexOf(t.Addresses, key)
}

func (t AddressLookupTable) String() string {
	addresses := make([]string, len(t.Addresses))
	for i, address := range t.Addresses {
		addresses[i] = fmt.Sprintf("%d:%s", i, base58.Encode(address))
	}
	return fmt.Sprintf("AddressLookupTable{key=%s,addresses=[%s]}", base58.Encode(t.PublicKey), strings.Join(addresses, ","))
}
