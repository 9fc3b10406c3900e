package multisig

import (
	"crypto/ed25519"

	"github.com/code-payments/multisig-sdk/pkg/solana"
	"github.com/code-payments/multisig-sdk/pkg/solana/system"
)

var MultisigCreateV2InstructionDiscriminator = instructionDiscriminator("multisig_create_v2")

type MultisigCreateV2InstructionArgs struct {
	// ConfigAuthority is nil for an autonomous multisig.
	ConfigAuthority ed25519.PublicKey
	Threshold       uint16
	Members         []Member
	TimeLock        uint32
	RentCollector   ed25519.PublicKey
	Memo            *string
}

type MultisigCreateV2InstructionAccounts struct {
	ProgramConfig ed25519.PublicKey
	Treasury      ed25519.PublicKey
	Multisig      ed25519.PublicKey
	CreateKey     ed25519.PublicKey
	Creator       ed25519.PublicKey
}

func NewMultisigCreateV2Instruction(
	accounts *MultisigCreateV2InstructionAccounts,
	args *MultisigCreateV2InstructionArgs,
) solana.Instruction {
	e := newBorshEncoder()
	e.raw(MultisigCreateV2InstructionDiscriminator)
	e.optionalKey(args.ConfigAuthority)
	e.uint16(args.Threshold)
	e.members(args.Members)
	e.uint32(args.TimeLock)
	e.optionalKey(args.RentCollector)
	e.optionalString(args.Memo)

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: e.Bytes(),

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.ProgramConfig,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Treasury,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Multisig,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.CreateKey,
				IsWritable: false,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Creator,
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
