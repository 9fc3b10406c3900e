package multisig

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/code-payments/multisig-sdk/pkg/solana"
)

var (
	SeedPrefix           = []byte("multisig")
	SeedProgramConfig    = []byte("program_config")
	SeedMultisig         = []byte("multisig")
	SeedVault            = []byte("vault")
	SeedTransaction      = []byte("transaction")
	SeedProposal         = []byte("proposal")
	SeedBatchTransaction = []byte("batch_transaction")
	SeedEphemeralSigner  = []byte("ephemeral_signer")
	SeedSpendingLimit    = []byte("spending_limit")
)

// Every Get*AddressArgs carries an optional ProgramId; PROGRAM_ID is used
// when it is unset.

type GetProgramConfigAddressArgs struct {
	ProgramId ed25519.PublicKey
}

func GetProgramConfigAddress(args *GetProgramConfigAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		programIdOrDefault(args.ProgramId),
		SeedPrefix,
		SeedProgramConfig,
	)
}

type GetMultisigAddressArgs struct {
	CreateKey ed25519.PublicKey
	ProgramId ed25519.PublicKey
}

func GetMultisigAddress(args *GetMultisigAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		programIdOrDefault(args.ProgramId),
		SeedPrefix,
		SeedMultisig,
		args.CreateKey,
	)
}

type GetVaultAddressArgs struct {
	Multisig  ed25519.PublicKey
	Index     uint8
	ProgramId ed25519.PublicKey
}

func GetVaultAddress(args *GetVaultAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		programIdOrDefault(args.ProgramId),
		SeedPrefix,
		args.Multisig,
		SeedVault,
		[]byte{args.Index},
	)
}

type GetTransactionAddressArgs struct {
	Multisig         ed25519.PublicKey
	TransactionIndex uint64
	ProgramId        ed25519.PublicKey
}

// GetTransactionAddress derives the address shared by vault, config and
// batch transactions at an index.
func GetTransactionAddress(args *GetTransactionAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		programIdOrDefault(args.ProgramId),
		SeedPrefix,
		args.Multisig,
		SeedTransaction,
		uint64Seed(args.TransactionIndex),
	)
}

type GetProposalAddressArgs struct {
	Multisig         ed25519.PublicKey
	TransactionIndex uint64
	ProgramId        ed25519.PublicKey
}

func GetProposalAddress(args *GetProposalAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		programIdOrDefault(args.ProgramId),
		SeedPrefix,
		args.Multisig,
		SeedTransaction,
		uint64Seed(args.TransactionIndex),
		SeedProposal,
	)
}

type GetBatchTransactionAddressArgs struct {
	Multisig         ed25519.PublicKey
	BatchIndex       uint64
	// TransactionIndex is the position of the transaction within the batch,
	// starting at 1.
	TransactionIndex uint32
	ProgramId        ed25519.PublicKey
}

func GetBatchTransactionAddress(args *GetBatchTransactionAddressArgs) (ed25519.PublicKey, uint8, error) {
	var transactionIndex [4]byte
	binary.LittleEndian.PutUint32(transactionIndex[:], args.TransactionIndex)

	return solana.FindProgramAddressAndBump(
		programIdOrDefault(args.ProgramId),
		SeedPrefix,
		args.Multisig,
		SeedTransaction,
		uint64Seed(args.BatchIndex),
		SeedBatchTransaction,
		transactionIndex[:],
	)
}

type GetEphemeralSignerAddressArgs struct {
	Transaction ed25519.PublicKey
	Index       uint8
	ProgramId   ed25519.PublicKey
}

// GetEphemeralSignerAddress derives a signer the program signs for while
// executing the transaction. Ephemeral signers enter compiled messages as
// ordinary signers.
func GetEphemeralSignerAddress(args *GetEphemeralSignerAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		programIdOrDefault(args.ProgramId),
		SeedPrefix,
		args.Transaction,
		SeedEphemeralSigner,
		[]byte{args.Index},
	)
}

type GetSpendingLimitAddressArgs struct {
	Multisig  ed25519.PublicKey
	CreateKey ed25519.PublicKey
	ProgramId ed25519.PublicKey
}

func GetSpendingLimitAddress(args *GetSpendingLimitAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		programIdOrDefault(args.ProgramId),
		SeedPrefix,
		args.Multisig,
		SeedSpendingLimit,
		args.CreateKey,
	)
}

func uint64Seed(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}
