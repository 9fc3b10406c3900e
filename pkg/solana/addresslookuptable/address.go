package addresslookuptable

import (
	"crypto/ed25519"

	"github.com/code-payments/multisig-sdk/pkg/solana"
	"github.com/code-payments/multisig-sdk/pkg/solana/binary"
)

// GetAddress derives the table address created by authority at recentSlot.
func GetAddress(authority ed25519.PublicKey, recentSlot uint64) (ed25519.PublicKey, uint8, error) {
	var recentSlotBytes [8]byte
	var offset int
	binary.PutUint64(recentSlotBytes[:], recentSlot, &offset)

	return solana.FindProgramAddressAndBump(
		ProgramKey,
		authority,
		recentSlotBytes[:],
	)
}
