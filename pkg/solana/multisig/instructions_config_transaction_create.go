package multisig

import (
	"crypto/ed25519"

	"github.com/code-payments/multisig-sdk/pkg/solana"
	"github.com/code-payments/multisig-sdk/pkg/solana/system"
)

var ConfigTransactionCreateInstructionDiscriminator = instructionDiscriminator("config_transaction_create")

type ConfigTransactionCreateInstructionArgs struct {
	Actions []ConfigAction
	Memo    *string
}

type ConfigTransactionCreateInstructionAccounts struct {
	Multisig    ed25519.PublicKey
	Transaction ed25519.PublicKey
	Creator     ed25519.PublicKey
	RentPayer   ed25519.PublicKey
}

func NewConfigTransactionCreateInstruction(
	accounts *ConfigTransactionCreateInstructionAccounts,
	args *ConfigTransactionCreateInstructionArgs,
) solana.Instruction {
	e := newBorshEncoder()
	e.raw(ConfigTransactionCreateInstructionDiscriminator)
	e.configActions(args.Actions)
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
