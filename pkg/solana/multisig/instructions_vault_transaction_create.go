package multisig

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/multisig-sdk/pkg/solana"
	"github.com/code-payments/multisig-sdk/pkg/solana/system"
)

var VaultTransactionCreateInstructionDiscriminator = instructionDiscriminator("vault_transaction_create")

type VaultTransactionCreateInstructionArgs struct {
	VaultIndex       uint8
	EphemeralSigners uint8
	// TransactionMessage is a marshalled VaultTransactionMessage.
	TransactionMessage []byte
	Memo               *string
}

type VaultTransactionCreateInstructionAccounts struct {
	Multisig    ed25519.PublicKey
	Transaction ed25519.PublicKey
	Creator     ed25519.PublicKey
	RentPayer   ed25519.PublicKey
}

func NewVaultTransactionCreateInstruction(
	accounts *VaultTransactionCreateInstructionAccounts,
	args *VaultTransactionCreateInstructionArgs,
) solana.Instruction {
	e := newBorshEncoder()
	e.raw(VaultTransactionCreateInstructionDiscriminator)
	e.uint8(args.VaultIndex)
	e.uint8(args.EphemeralSigners)
	e.bytes(args.TransactionMessage)
	e.optionalString(args.Memo)

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: e.Bytes(),

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Multisig,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Transaction,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Creator,
				IsWritable: false,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.RentPayer,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  system.ProgramKey,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}

type VaultTransactionCreateFromInstructionsArgs struct {
	Multisig         ed25519.PublicKey
	TransactionIndex uint64
	VaultIndex       uint8
	EphemeralSigners uint8
	Creator          ed25519.PublicKey
	// RentPayer defaults to Creator.
	RentPayer ed25519.PublicKey
	Memo      *string

	Instructions        []solana.Instruction
	AddressLookupTables []solana.AddressLookupTable

	ProgramId ed25519.PublicKey
}

// NewVaultTransactionCreateFromInstructions compiles instructions with the
// vault as payer and wraps the result in a vault_transaction_create
// instruction for the transaction at TransactionIndex. The compiled message
// is returned alongside so callers can build the matching execute
// instruction later.
func NewVaultTransactionCreateFromInstructions(args *VaultTransactionCreateFromInstructionsArgs) (solana.Instruction, VaultTransactionMessage, error) {
	vault, _, err := GetVaultAddress(&GetVaultAddressArgs{
		Multisig:  args.Multisig,
		Index:     args.VaultIndex,
		ProgramId: args.ProgramId,
	})
	if err != nil {
		return solana.Instruction{}, VaultTransactionMessage{}, err
	}

	transaction, _, err := GetTransactionAddress(&GetTransactionAddressArgs{
		Multisig:         args.Multisig,
		TransactionIndex: args.TransactionIndex,
		ProgramId:        args.ProgramId,
	})
	if err != nil {
		return solana.Instruction{}, VaultTransactionMessage{}, err
	}

	message, err := CompileVaultTransactionMessage(vault, args.Instructions, args.AddressLookupTables)
	if err != nil {
		return solana.Instruction{}, VaultTransactionMessage{}, err
	}

	marshalled, err := message.Marshal()
	if err != nil {
		return solana.Instruction{}, VaultTransactionMessage{}, err
	}

	rentPayer := args.RentPayer
	if len(rentPayer) == 0 {
		rentPayer = args.Creator
	}

	ix := NewVaultTransactionCreateInstruction(
		&VaultTransactionCreateInstructionAccounts{
			Multisig:    args.Multisig,
			Transaction: transaction,
			Creator:     args.Creator,
			RentPayer:   rentPayer,
		},
		&VaultTransactionCreateInstructionArgs{
			VaultIndex:         args.VaultIndex,
			EphemeralSigners:   args.EphemeralSigners,
			TransactionMessage: marshalled,
			Memo:               args.Memo,
		},
	)
	if len(args.ProgramId) > 0 {
		ix.Program = args.ProgramId
	}
	return ix, message, nil
}

type DecompiledVaultTransactionCreate struct {
	Accounts VaultTransactionCreateInstructionAccounts
	Args     VaultTransactionCreateInstructionArgs
	Message  VaultTransactionMessage
}

// DecompileVaultTransactionCreateInstruction parses a vault_transaction_create
// instruction targeting programId, or the canonical program when nil, and
// decodes the message it carries.
func DecompileVaultTransactionCreateInstruction(ix solana.Instruction, programId ed25519.PublicKey) (*DecompiledVaultTransactionCreate, error) {
	if !bytes.Equal(ix.Program, programIdOrDefault(programId)) {
		return nil, ErrInvalidProgram
	}
	if len(ix.Accounts) != 5 {
		return nil, errors.Wrapf(ErrInvalidInstructionData, "expected 5 accounts, got %d", len(ix.Accounts))
	}

	var decompiled DecompiledVaultTransactionCreate

	d := newBorshDecoder(ix.Data)
	d.discriminator(VaultTransactionCreateInstructionDiscriminator)
	d.uint8(&decompiled.Args.VaultIndex)
	d.uint8(&decompiled.Args.EphemeralSigners)
	d.bytes(&decompiled.Args.TransactionMessage)
	d.optionalString(&decompiled.Args.Memo)
	if err := d.doneExact(); err != nil {
		return nil, errors.Wrap(ErrInvalidInstructionData, err.Error())
	}

	message, err := UnmarshalVaultTransactionMessage(decompiled.Args.TransactionMessage)
	if err != nil {
		return nil, err
	}
	decompiled.Message = message

	decompiled.Accounts = VaultTransactionCreateInstructionAccounts{
		Multisig:    ix.Accounts[0].PublicKey,
		Transaction: ix.Accounts[1].PublicKey,
		Creator:     ix.Accounts[2].PublicKey,
		RentPayer:   ix.Accounts[3].PublicKey,
	}
	return &decompiled, nil
}
