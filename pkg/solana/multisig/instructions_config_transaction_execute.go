package multisig

import (
	"crypto/ed25519"

	"github.com/code-payments/multisig-sdk/pkg/solana"
	"github.com/code-payments/multisig-sdk/pkg/solana/system"
)

var ConfigTransactionExecuteInstructionDiscriminator = instructionDiscriminator("config_transaction_execute")

type ConfigTransactionExecuteInstructionAccounts struct {
	Multisig    ed25519.PublicKey
	Member      ed25519.PublicKey
	Proposal    ed25519.PublicKey
	Transaction ed25519.PublicKey
	// RentPayer is required when the actions add spending limits; the system
	// program is passed along with it.
	RentPayer ed25519.PublicKey
	// SpendingLimits are the accounts added or removed by the actions. See
	// ConfigTransactionAccount.SpendingLimits.
	SpendingLimits []ed25519.PublicKey
}

func NewConfigTransactionExecuteInstruction(
	accounts *ConfigTransactionExecuteInstructionAccounts,
) solana.Instruction {
	var systemProgram ed25519.PublicKey
	if len(accounts.RentPayer) > 0 {
		systemProgram = system.ProgramKey
	}

	metas := []solana.AccountMeta{
		{
			PublicKey:  accounts.Multisig,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.Member,
			IsWritable: false,
			IsSigner:   true,
		},
		{
			PublicKey:  accounts.Proposal,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.Transaction,
			IsWritable: false,
			IsSigner:   false,
		},
		optionalAccountMeta(accounts.RentPayer, true, true),
		optionalAccountMeta(systemProgram, false, false),
	}
	for _, spendingLimit := range accounts.SpendingLimits {
		metas = append(metas, solana.NewAccountMeta(spendingLimit, false))
	}

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: append([]byte{}, ConfigTransactionExecuteInstructionDiscriminator...),

		// Instruction accounts
		Accounts: metas,
	}
}
