// Package multisig is a client for the Squads v4 multisig program: PDA
// derivation, account decoding, instruction builders and the vault
// transaction message compiler.
package multisig

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/multisig-sdk/pkg/solana"
)

var (
	ErrInvalidProgram         = errors.New("invalid program id")
	ErrInvalidAccountData     = errors.New("unexpected account data")
	ErrInvalidInstructionData = errors.New("unexpected instruction data")

	// ErrInvalidAddressLookupTableAccount is returned when a lookup table
	// cannot serve the keys requested from it.
	ErrInvalidAddressLookupTableAccount = errors.New("invalid address lookup table account")

	// ErrInvalidTransactionMessage is returned when instructions cannot be
	// compiled into, or decoded from, a vault transaction message.
	ErrInvalidTransactionMessage = errors.New("invalid transaction message")

	// ErrDeserialization is returned by the account fetchers when chain
	// state cannot be decoded.
	ErrDeserialization = errors.New("failed to deserialize account data")
)

var (
	PROGRAM_ADDRESS = solana.MustPublicKeyFromBase58("SQDS4ep65T869zMMBKyuUq6aD6EgTu8psMjkvj52pCf")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)

// programIdOrDefault lets callers target a deployment other than the
// canonical one.
func programIdOrDefault(programId ed25519.PublicKey) ed25519.PublicKey {
	if len(programId) == 0 {
		return PROGRAM_ID
	}
	return programId
}

// optionalAccountMeta fills an Anchor optional account slot. An absent
// account is passed as the program id.
func optionalAccountMeta(key ed25519.PublicKey, isWritable, isSigner bool) solana.AccountMeta {
	if len(key) == 0 {
		return solana.NewReadonlyAccountMeta(PROGRAM_ID, false)
	}
	return solana.AccountMeta{
		PublicKey:  key,
		IsWritable: isWritable,
		IsSigner:   isSigner,
	}
}
