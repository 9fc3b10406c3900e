package multisig

import (
	"crypto/ed25519"

	"github.com/code-payments/multisig-sdk/pkg/solana"
)

var (
	ProposalActivateInstructionDiscriminator = instructionDiscriminator("proposal_activate")
	ProposalApproveInstructionDiscriminator  = instructionDiscriminator("proposal_approve")
	ProposalRejectInstructionDiscriminator   = instructionDiscriminator("proposal_reject")
	ProposalCancelInstructionDiscriminator   = instructionDiscriminator("proposal_cancel")
)

// ProposalVoteInstructionAccounts are shared by activate, approve, reject
// and cancel.
type ProposalVoteInstructionAccounts struct {
	Multisig ed25519.PublicKey
	Member   ed25519.PublicKey
	Proposal ed25519.PublicKey
}

type ProposalVoteInstructionArgs struct {
	Memo *string
}

func NewProposalActivateInstruction(accounts *ProposalVoteInstructionAccounts) solana.Instruction {
	return newProposalVoteInstruction(
		accounts,
		append([]byte{}, ProposalActivateInstructionDiscriminator...),
	)
}

func NewProposalApproveInstruction(accounts *ProposalVoteInstructionAccounts, args *ProposalVoteInstructionArgs) solana.Instruction {
	return newProposalVoteInstruction(accounts, proposalVoteData(ProposalApproveInstructionDiscriminator, args))
}

func NewProposalRejectInstruction(accounts *ProposalVoteInstructionAccounts, args *ProposalVoteInstructionArgs) solana.Instruction {
	return newProposalVoteInstruction(accounts, proposalVoteData(ProposalRejectInstructionDiscriminator, args))
}

// NewProposalCancelInstruction cancels an approved proposal, which is only
// possible before it executes.
func NewProposalCancelInstruction(accounts *ProposalVoteInstructionAccounts, args *ProposalVoteInstructionArgs) solana.Instruction {
	return newProposalVoteInstruction(accounts, proposalVoteData(ProposalCancelInstructionDiscriminator, args))
}

func proposalVoteData(discriminator []byte, args *ProposalVoteInstructionArgs) []byte {
	e := newBorshEncoder()
	e.raw(discriminator)
	e.optionalString(args.Memo)
	return e.Bytes()
}

func newProposalVoteInstruction(accounts *ProposalVoteInstructionAccounts, data []byte) solana.Instruction {
	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Multisig,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Member,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Proposal,
				IsWritable: true,
				IsSigner:   false,
			},
		},
	}
}
