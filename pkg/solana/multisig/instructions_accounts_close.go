package multisig

import (
	"crypto/ed25519"

	"github.com/code-payments/multisig-sdk/pkg/solana"
	"github.com/code-payments/multisig-sdk/pkg/solana/system"
)

var (
	VaultTransactionAccountsCloseInstructionDiscriminator  = instructionDiscriminator("vault_transaction_accounts_close")
	ConfigTransactionAccountsCloseInstructionDiscriminator = instructionDiscriminator("config_transaction_accounts_close")
)

// AccountsCloseInstructionAccounts close a proposal and its transaction
// once the proposal is terminal or stale, returning rent to RentCollector.
type AccountsCloseInstructionAccounts struct {
	Multisig      ed25519.PublicKey
	Proposal      ed25519.PublicKey
	Transaction   ed25519.PublicKey
	RentCollector ed25519.PublicKey
}

func NewVaultTransactionAccountsCloseInstruction(accounts *AccountsCloseInstructionAccounts) solana.Instruction {
	return newAccountsCloseInstruction(accounts, VaultTransactionAccountsCloseInstructionDiscriminator)
}

func NewConfigTransactionAccountsCloseInstruction(accounts *AccountsCloseInstructionAccounts) solana.Instruction {
	return newAccountsCloseInstruction(accounts, ConfigTransactionAccountsCloseInstructionDiscriminator)
}

func newAccountsCloseInstruction(accounts *AccountsCloseInstructionAccounts, discriminator []byte) solana.Instruction {
	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: append([]byte{}, discriminator...),

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
				PublicKey:  accounts.Transaction,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.RentCollector,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  system.ProgramKey,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}
