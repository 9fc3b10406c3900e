package main

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/code-payments/multisig-sdk/pkg/solana"
	"github.com/code-payments/multisig-sdk/pkg/solana/multisig"
)

var (
	vaultIndexFlag = &cli.UintFlag{
		Name:  "vault-index",
		Usage: "vault index",
	}
	transactionIndexFlag = &cli.Uint64Flag{
		Name:  "transaction-index",
		Usage: "transaction index",
	}
	ephemeralSignersFlag = &cli.UintFlag{
		Name:  "ephemeral-signers",
		Usage: "number of ephemeral signer addresses to derive",
	}
)

func commandPDA(provider ConfigProvider) *cli.Command {
	return &cli.Command{
		Name:      "pda",
		Usage:     "derive the addresses of a multisig",
		ArgsUsage: "<create-key>",
		Flags: []cli.Flag{
			vaultIndexFlag,
			transactionIndexFlag,
			ephemeralSignersFlag,
		},
		Action: func(c *cli.Context) error {
			createKey, err := keyArg(c, 0, "create key")
			if err != nil {
				return err
			}

			programId, err := solana.PublicKeyFromBase58(provider().programId.Get(context.Background()))
			if err != nil {
				return errors.Wrap(err, "invalid program id")
			}

			return printPDAs(c, programId, createKey)
		},
	}
}

func printPDAs(c *cli.Context, programId, createKey ed25519.PublicKey) error {
	vaultIndex := c.Uint(vaultIndexFlag.Name)
	if vaultIndex > 255 {
		return errors.Errorf("vault index out of range: %d", vaultIndex)
	}
	ephemeralSigners := c.Uint(ephemeralSignersFlag.Name)
	if ephemeralSigners > 255 {
		return errors.Errorf("ephemeral signers out of range: %d", ephemeralSigners)
	}
	transactionIndex := c.Uint64(transactionIndexFlag.Name)

	programConfig, _, err := multisig.GetProgramConfigAddress(&multisig.GetProgramConfigAddressArgs{ProgramId: programId})
	if err != nil {
		return err
	}
	multisigAddress, _, err := multisig.GetMultisigAddress(&multisig.GetMultisigAddressArgs{
		CreateKey: createKey,
		ProgramId: programId,
	})
	if err != nil {
		return err
	}
	vault, _, err := multisig.GetVaultAddress(&multisig.GetVaultAddressArgs{
		Multisig:  multisigAddress,
		Index:     uint8(vaultIndex),
		ProgramId: programId,
	})
	if err != nil {
		return err
	}

	printKey(c, "program_config", programConfig)
	printKey(c, "multisig", multisigAddress)
	printKey(c, fmt.Sprintf("vault[%d]", vaultIndex), vault)

	if !c.IsSet(transactionIndexFlag.Name) {
		return nil
	}

	transaction, _, err := multisig.GetTransactionAddress(&multisig.GetTransactionAddressArgs{
		Multisig:         multisigAddress,
		TransactionIndex: transactionIndex,
		ProgramId:        programId,
	})
	if err != nil {
		return err
	}
	proposal, _, err := multisig.GetProposalAddress(&multisig.GetProposalAddressArgs{
		Multisig:         multisigAddress,
		TransactionIndex: transactionIndex,
		ProgramId:        programId,
	})
	if err != nil {
		return err
	}

	printKey(c, fmt.Sprintf("transaction[%d]", transactionIndex), transaction)
	printKey(c, fmt.Sprintf("proposal[%d]", transactionIndex), proposal)

	for i := uint(0); i < ephemeralSigners; i++ {
		ephemeralSigner, _, err := multisig.GetEphemeralSignerAddress(&multisig.GetEphemeralSignerAddressArgs{
			Transaction: transaction,
			Index:       uint8(i),
			ProgramId:   programId,
		})
		if err != nil {
			return err
		}
		printKey(c, fmt.Sprintf("ephemeral_signer[%d]", i), ephemeralSigner)
	}

	return nil
}

func commandProgramConfig(provider ConfigProvider, newClient clientCtor) *cli.Command {
	return &cli.Command{
		Name:  "program-config",
		Usage: "show the program config account",
		Action: func(c *cli.Context) error {
			env, err := newEnvironment(c, provider, newClient)
			if err != nil {
				return err
			}

			address, _, err := multisig.GetProgramConfigAddress(&multisig.GetProgramConfigAddressArgs{ProgramId: env.programId})
			if err != nil {
				return err
			}

			programConfig, err := multisig.GetProgramConfig(env.client, address, env.commitment)
			if err != nil {
				return err
			}

			printKey(c, "address", address)
			fmt.Fprintln(c.App.Writer, programConfig.String())
			return nil
		},
	}
}

func commandMultisig(provider ConfigProvider, newClient clientCtor) *cli.Command {
	return &cli.Command{
		Name:      "multisig",
		Usage:     "show a multisig account",
		ArgsUsage: "<multisig>",
		Flags: []cli.Flag{
			vaultIndexFlag,
		},
		Action: func(c *cli.Context) error {
			env, err := newEnvironment(c, provider, newClient)
			if err != nil {
				return err
			}

			address, err := keyArg(c, 0, "multisig")
			if err != nil {
				return err
			}

			account, err := multisig.GetMultisig(env.client, address, env.commitment)
			if err != nil {
				return err
			}

			vaultIndex := c.Uint(vaultIndexFlag.Name)
			if vaultIndex > 255 {
				return errors.Errorf("vault index out of range: %d", vaultIndex)
			}
			vault, _, err := multisig.GetVaultAddress(&multisig.GetVaultAddressArgs{
				Multisig:  address,
				Index:     uint8(vaultIndex),
				ProgramId: env.programId,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(c.App.Writer, account.String())
			printKey(c, fmt.Sprintf("vault[%d]", vaultIndex), vault)
			fmt.Fprintf(c.App.Writer, "autonomous: %v\n", account.IsAutonomous())
			fmt.Fprintf(c.App.Writer, "voters: %d\n", account.NumVoters())
			return nil
		},
	}
}

func commandSpendingLimit(provider ConfigProvider, newClient clientCtor) *cli.Command {
	return &cli.Command{
		Name:      "spending-limit",
		Usage:     "show a spending limit account",
		ArgsUsage: "<multisig> <create-key>",
		Action: func(c *cli.Context) error {
			env, err := newEnvironment(c, provider, newClient)
			if err != nil {
				return err
			}

			multisigAddress, err := keyArg(c, 0, "multisig")
			if err != nil {
				return err
			}
			createKey, err := keyArg(c, 1, "create key")
			if err != nil {
				return err
			}

			address, _, err := multisig.GetSpendingLimitAddress(&multisig.GetSpendingLimitAddressArgs{
				Multisig:  multisigAddress,
				CreateKey: createKey,
				ProgramId: env.programId,
			})
			if err != nil {
				return err
			}

			spendingLimit, err := multisig.GetSpendingLimit(env.client, address, env.commitment)
			if err != nil {
				return err
			}

			printKey(c, "address", address)
			fmt.Fprintln(c.App.Writer, spendingLimit.String())
			return nil
		},
	}
}

func commandProposal(provider ConfigProvider, newClient clientCtor) *cli.Command {
	return &cli.Command{
		Name:      "proposal",
		Usage:     "show the proposal for a transaction",
		ArgsUsage: "<multisig> [transaction-index]",
		Action: func(c *cli.Context) error {
			env, err := newEnvironment(c, provider, newClient)
			if err != nil {
				return err
			}

			multisigAddress, transactionIndex, err := transactionArgs(c, env)
			if err != nil {
				return err
			}

			address, _, err := multisig.GetProposalAddress(&multisig.GetProposalAddressArgs{
				Multisig:         multisigAddress,
				TransactionIndex: transactionIndex,
				ProgramId:        env.programId,
			})
			if err != nil {
				return err
			}

			proposal, err := multisig.GetProposal(env.client, address, env.commitment)
			if err != nil {
				return err
			}

			printKey(c, "address", address)
			fmt.Fprintln(c.App.Writer, proposal.String())
			return nil
		},
	}
}

func commandConfigTransaction(provider ConfigProvider, newClient clientCtor) *cli.Command {
	return &cli.Command{
		Name:      "config-transaction",
		Usage:     "show a config transaction",
		ArgsUsage: "<multisig> [transaction-index]",
		Action: func(c *cli.Context) error {
			env, err := newEnvironment(c, provider, newClient)
			if err != nil {
				return err
			}

			multisigAddress, transactionIndex, err := transactionArgs(c, env)
			if err != nil {
				return err
			}

			address, _, err := multisig.GetTransactionAddress(&multisig.GetTransactionAddressArgs{
				Multisig:         multisigAddress,
				TransactionIndex: transactionIndex,
				ProgramId:        env.programId,
			})
			if err != nil {
				return err
			}

			transaction, err := multisig.GetConfigTransaction(env.client, address, env.commitment)
			if err != nil {
				return err
			}

			spendingLimits, err := transaction.SpendingLimits(env.programId)
			if err != nil {
				return err
			}

			printKey(c, "address", address)
			fmt.Fprintln(c.App.Writer, transaction.String())
			for i, spendingLimit := range spendingLimits {
				printKey(c, fmt.Sprintf("spending_limit[%d]", i), spendingLimit)
			}
			return nil
		},
	}
}

func commandVaultTransaction(provider ConfigProvider, newClient clientCtor) *cli.Command {
	return &cli.Command{
		Name:      "vault-transaction",
		Usage:     "show and decompile a vault transaction",
		ArgsUsage: "<multisig> [transaction-index]",
		Action: func(c *cli.Context) error {
			env, err := newEnvironment(c, provider, newClient)
			if err != nil {
				return err
			}

			multisigAddress, transactionIndex, err := transactionArgs(c, env)
			if err != nil {
				return err
			}

			address, _, err := multisig.GetTransactionAddress(&multisig.GetTransactionAddressArgs{
				Multisig:         multisigAddress,
				TransactionIndex: transactionIndex,
				ProgramId:        env.programId,
			})
			if err != nil {
				return err
			}

			transaction, err := multisig.GetVaultTransaction(env.client, address, env.commitment)
			if err != nil {
				return err
			}

			tableKeys := make([]ed25519.PublicKey, len(transaction.Message.AddressTableLookups))
			for i, lookup := range transaction.Message.AddressTableLookups {
				tableKeys[i] = lookup.AccountKey
			}
			tables, err := env.fetcher.GetAddressLookupTables(tableKeys...)
			if err != nil {
				return err
			}

			instructions, err := multisig.DecompileVaultTransactionMessage(transaction.Message, tables)
			if err != nil {
				return err
			}

			vault, _, err := multisig.GetVaultAddress(&multisig.GetVaultAddressArgs{
				Multisig:  multisigAddress,
				Index:     transaction.VaultIndex,
				ProgramId: env.programId,
			})
			if err != nil {
				return err
			}

			remainingAccounts, err := multisig.VaultTransactionExecuteRemainingAccounts(&multisig.VaultTransactionExecuteRemainingAccountsArgs{
				Message:             transaction.Message,
				AddressLookupTables: tables,
				Vault:               vault,
				Transaction:         address,
				NumEphemeralSigners: transaction.NumEphemeralSigners(),
				ProgramId:           env.programId,
			})
			if err != nil {
				return err
			}

			printKey(c, "address", address)
			fmt.Fprintln(c.App.Writer, transaction.String())
			for i, ix := range instructions {
				fmt.Fprintf(c.App.Writer, "instruction[%d]: %s\n", i, ix.String())
			}
			for i, account := range remainingAccounts {
				fmt.Fprintf(c.App.Writer, "execute_account[%d]: %s\n", i, account.String())
			}
			return nil
		},
	}
}

func commandLookupTable(provider ConfigProvider, newClient clientCtor) *cli.Command {
	return &cli.Command{
		Name:      "lookup-table",
		Usage:     "show address lookup tables",
		ArgsUsage: "<table>...",
		Action: func(c *cli.Context) error {
			env, err := newEnvironment(c, provider, newClient)
			if err != nil {
				return err
			}

			if c.NArg() == 0 {
				return errors.New("missing table")
			}
			keys := make([]ed25519.PublicKey, c.NArg())
			for i := range keys {
				if keys[i], err = keyArg(c, i, "table"); err != nil {
					return err
				}
			}

			tables, err := env.fetcher.GetAddressLookupTables(keys...)
			if err != nil {
				return err
			}
			for _, table := range tables {
				fmt.Fprintln(c.App.Writer, table.String())
			}
			return nil
		},
	}
}

// transactionArgs reads a multisig and an optional transaction index,
// defaulting to the multisig's latest transaction.
func transactionArgs(c *cli.Context, env *environment) (ed25519.PublicKey, uint64, error) {
	multisigAddress, err := keyArg(c, 0, "multisig")
	if err != nil {
		return nil, 0, err
	}

	if c.NArg() > 1 {
		transactionIndex, err := uint64Arg(c, 1, "transaction index")
		if err != nil {
			return nil, 0, err
		}
		return multisigAddress, transactionIndex, nil
	}

	account, err := multisig.GetMultisig(env.client, multisigAddress, env.commitment)
	if err != nil {
		return nil, 0, err
	}
	env.log.WithField("transaction_index", account.TransactionIndex).Debug("using latest transaction")
	return multisigAddress, account.TransactionIndex, nil
}

func printKey(c *cli.Context, name string, key ed25519.PublicKey) {
	fmt.Fprintf(c.App.Writer, "%s: %s\n", name, base58.Encode(key))
}
