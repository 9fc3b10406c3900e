package multisig

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/multisig-sdk/pkg/solana"
)

var VaultTransactionExecuteInstructionDiscriminator = instructionDiscriminator("vault_transaction_execute")

type VaultTransactionExecuteInstructionAccounts struct {
	Multisig    ed25519.PublicKey
	Proposal    ed25519.PublicKey
	Transaction ed25519.PublicKey
	Member      ed25519.PublicKey
	// RemainingAccounts are the accounts the inner message needs. See
	// VaultTransactionExecuteRemainingAccounts.
	RemainingAccounts []solana.AccountMeta
}

func NewVaultTransactionExecuteInstruction(
	accounts *VaultTransactionExecuteInstructionAccounts,
) solana.Instruction {
	metas := []solana.AccountMeta{
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
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.Member,
			IsWritable: false,
			IsSigner:   true,
		},
	}
	metas = append(metas, accounts.RemainingAccounts...)

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: append([]byte{}, VaultTransactionExecuteInstructionDiscriminator...),

		// Instruction accounts
		Accounts: metas,
	}
}

type VaultTransactionExecuteRemainingAccountsArgs struct {
	Message             VaultTransactionMessage
	AddressLookupTables []solana.AddressLookupTable

	// Vault and Transaction locate the PDAs the program signs for, which
	// must not be passed as signers.
	Vault               ed25519.PublicKey
	Transaction         ed25519.PublicKey
	NumEphemeralSigners uint8

	ProgramId ed25519.PublicKey
}

// VaultTransactionExecuteRemainingAccounts lists the accounts
// vault_transaction_execute expects after its fixed accounts: the lookup
// tables referenced by the message, then the static keys, then the keys
// loaded as writable, then the keys loaded as readonly.
func VaultTransactionExecuteRemainingAccounts(args *VaultTransactionExecuteRemainingAccountsArgs) ([]solana.AccountMeta, error) {
	m := args.Message

	if err := m.Validate(); err != nil {
		return nil, err
	}

	programSigners := map[string]struct{}{
		string(args.Vault): {},
	}
	for i := uint8(0); i < args.NumEphemeralSigners; i++ {
		ephemeralSigner, _, err := GetEphemeralSignerAddress(&GetEphemeralSignerAddressArgs{
			Transaction: args.Transaction,
			Index:       i,
			ProgramId:   args.ProgramId,
		})
		if err != nil {
			return nil, err
		}
		programSigners[string(ephemeralSigner)] = struct{}{}
	}

	metas := make([]solana.AccountMeta, 0, len(m.AddressTableLookups)+m.NumAllAccountKeys())

	for _, lookup := range m.AddressTableLookups {
		if _, ok := findAddressLookupTable(args.AddressLookupTables, lookup.AccountKey); !ok {
			return nil, errors.Wrapf(ErrInvalidAddressLookupTableAccount, "missing table %s", base58.Encode(lookup.AccountKey))
		}
		metas = append(metas, solana.NewReadonlyAccountMeta(lookup.AccountKey, false))
	}

	for i, key := range m.AccountKeys {
		_, isProgramSigner := programSigners[string(key)]
		metas = append(metas, solana.AccountMeta{
			PublicKey:  key,
			IsSigner:   m.IsSignerIndex(i) && !isProgramSigner,
			IsWritable: m.IsStaticWritableIndex(i),
		})
	}

	loadedWritable, loadedReadonly, err := m.loadAddresses(args.AddressLookupTables)
	if err != nil {
		return nil, err
	}
	for _, key := range loadedWritable {
		metas = append(metas, solana.NewAccountMeta(key, false))
	}
	for _, key := range loadedReadonly {
		metas = append(metas, solana.NewReadonlyAccountMeta(key, false))
	}

	return metas, nil
}
