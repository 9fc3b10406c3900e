package multisig

import (
	"crypto/ed25519"

	"github.com/code-payments/multisig-sdk/pkg/solana"
	"github.com/code-payments/multisig-sdk/pkg/solana/system"
)

var ProposalCreateInstructionDiscriminator = instructionDiscriminator("proposal_create")

const ProposalCreateInstructionArgsSize = (8 + // transaction_index
	1) // draft

type ProposalCreateInstructionArgs struct {
	TransactionIndex uint64
	// Draft proposals cannot be voted on until activated.
	Draft bool
}

type ProposalCreateInstructionAccounts struct {
	Multisig  ed25519.PublicKey
	Proposal  ed25519.PublicKey
	Creator   ed25519.PublicKey
	RentPayer ed25519.PublicKey
}

func NewProposalCreateInstruction(
	accounts *ProposalCreateInstructionAccounts,
	args *ProposalCreateInstructionArgs,
) solana.Instruction {
	e := newBorshEncoder()
	e.raw(ProposalCreateInstructionDiscriminator)
	e.uint64(args.TransactionIndex)
	e.bool(args.Draft)

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: e.Bytes(),

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Multisig,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Proposal,
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
