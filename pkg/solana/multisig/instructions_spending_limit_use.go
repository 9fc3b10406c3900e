package multisig

import (
	"crypto/ed25519"

	"github.com/code-payments/multisig-sdk/pkg/solana"
	"github.com/code-payments/multisig-sdk/pkg/solana/system"
	"github.com/code-payments/multisig-sdk/pkg/solana/token"
)

var SpendingLimitUseInstructionDiscriminator = instructionDiscriminator("spending_limit_use")

type SpendingLimitUseInstructionArgs struct {
	Amount   uint64
	Decimals uint8
	Memo     *string
}

// SpendingLimitUseInstructionAccounts takes token accounts only for SPL
// spending limits. They are left unset for SOL limits.
type SpendingLimitUseInstructionAccounts struct {
	Multisig      ed25519.PublicKey
	Member        ed25519.PublicKey
	SpendingLimit ed25519.PublicKey
	Vault         ed25519.PublicKey
	Destination   ed25519.PublicKey

	Mint                    ed25519.PublicKey
	VaultTokenAccount       ed25519.PublicKey
	DestinationTokenAccount ed25519.PublicKey
}

func NewSpendingLimitUseInstruction(
	accounts *SpendingLimitUseInstructionAccounts,
	args *SpendingLimitUseInstructionArgs,
) solana.Instruction {
	e := newBorshEncoder()
	e.raw(SpendingLimitUseInstructionDiscriminator)
	e.uint64(args.Amount)
	e.uint8(args.Decimals)
	e.optionalString(args.Memo)

	var systemProgram, tokenProgram ed25519.PublicKey
	if len(accounts.Mint) == 0 {
		systemProgram = system.ProgramKey
	} else {
		tokenProgram = token.ProgramKey
	}

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
				PublicKey:  accounts.Member,
				IsWritable: false,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.SpendingLimit,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Vault,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Destination,
				IsWritable: true,
				IsSigner:   false,
			},
			optionalAccountMeta(systemProgram, false, false),
			optionalAccountMeta(accounts.Mint, false, false),
			optionalAccountMeta(accounts.VaultTokenAccount, true, false),
			optionalAccountMeta(accounts.DestinationTokenAccount, true, false),
			optionalAccountMeta(tokenProgram, false, false),
		},
	}
}
