package main

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"
	"io"
	"math"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/multisig-sdk/pkg/solana"
	"github.com/code-payments/multisig-sdk/pkg/solana/addresslookuptable"
	solanabinary "github.com/code-payments/multisig-sdk/pkg/solana/binary"
	"github.com/code-payments/multisig-sdk/pkg/solana/multisig"
	"github.com/code-payments/multisig-sdk/pkg/testutil"
)

func runApp(t *testing.T, client *testutil.SolanaClient, args ...string) (string, error) {
	overrides := &testOverrides{rpcEndpoint: "http://localhost:8899"}
	app := newApp(withManualTestOverrides(overrides), func(endpoint string, _ ...solana.ClientOption) solana.Client {
		assert.Equal(t, overrides.rpcEndpoint, endpoint)
		return client
	})

	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = io.Discard

	err := app.Run(append([]string{"multisig"}, args...))
	return out.String(), err
}

func TestPDA(t *testing.T) {
	createKey := testutil.GenerateSolanaKeys(t, 1)[0]

	out, err := runApp(t, nil, "pda", "--transaction-index", "5", "--ephemeral-signers", "2", base58.Encode(createKey))
	require.NoError(t, err)

	multisigAddress, _, err := multisig.GetMultisigAddress(&multisig.GetMultisigAddressArgs{CreateKey: createKey})
	require.NoError(t, err)
	proposal, _, err := multisig.GetProposalAddress(&multisig.GetProposalAddressArgs{Multisig: multisigAddress, TransactionIndex: 5})
	require.NoError(t, err)

	assert.Contains(t, out, "program_config: BSTq9w3kZwNwpBXJEvTZz2G9ZTNyKBvoSeXMvwb4cNZr\n")
	assert.Contains(t, out, fmt.Sprintf("multisig: %s\n", base58.Encode(multisigAddress)))
	assert.Contains(t, out, fmt.Sprintf("proposal[5]: %s\n", base58.Encode(proposal)))
	assert.Contains(t, out, "ephemeral_signer[1]: ")
	assert.NotContains(t, out, "ephemeral_signer[2]: ")

	out, err = runApp(t, nil, "pda", base58.Encode(createKey))
	require.NoError(t, err)
	assert.NotContains(t, out, "transaction[")

	_, err = runApp(t, nil, "pda", "not-a-key")
	assert.Error(t, err)
	_, err = runApp(t, nil, "pda")
	assert.Error(t, err)
}

func TestVaultTransaction(t *testing.T) {
	client := testutil.NewSolanaClient()
	keys := testutil.GenerateSolanaKeys(t, 6)
	multisigAddress, member, destination, program, tableKey, creator := keys[0], keys[1], keys[2], keys[3], keys[4], keys[5]

	client.SetAccount(multisigAddress, multisig.PROGRAM_ID, encodeMultisig(member, 1))

	vault, _, err := multisig.GetVaultAddress(&multisig.GetVaultAddressArgs{Multisig: multisigAddress})
	require.NoError(t, err)
	transaction, _, err := multisig.GetTransactionAddress(&multisig.GetTransactionAddressArgs{Multisig: multisigAddress, TransactionIndex: 1})
	require.NoError(t, err)

	table := solana.AddressLookupTable{PublicKey: tableKey, Addresses: []ed25519.PublicKey{program, destination}}
	client.SetAccount(tableKey, addresslookuptable.ProgramKey, encodeLookupTable(table.Addresses))

	ix := solana.NewInstruction(program, []byte{9}, solana.NewAccountMeta(vault, true), solana.NewAccountMeta(destination, false))
	message, err := multisig.CompileVaultTransactionMessage(vault, []solana.Instruction{ix}, []solana.AddressLookupTable{table})
	require.NoError(t, err)
	client.SetAccount(transaction, multisig.PROGRAM_ID, encodeVaultTransaction(multisigAddress, creator, 1, message))

	out, err := runApp(t, client, "vault-transaction", base58.Encode(multisigAddress))
	require.NoError(t, err)

	assert.Contains(t, out, fmt.Sprintf("address: %s\n", base58.Encode(transaction)))
	assert.Contains(t, out, fmt.Sprintf("instruction[0]: %s\n", ix.String()))
	assert.Contains(t, out, fmt.Sprintf("execute_account[0]: %s\n", solana.NewReadonlyAccountMeta(tableKey, false).String()))
	assert.Contains(t, out, fmt.Sprintf("execute_account[1]: %s\n", solana.NewAccountMeta(vault, false).String()))
	assert.Contains(t, out, fmt.Sprintf("execute_account[2]: %s\n", solana.NewAccountMeta(destination, false).String()))
	assert.Contains(t, out, fmt.Sprintf("execute_account[3]: %s\n", solana.NewReadonlyAccountMeta(program, false).String()))

	// An explicit index skips the multisig lookup.
	calls := client.CallCount("getAccountInfo")
	_, err = runApp(t, client, "vault-transaction", base58.Encode(multisigAddress), "1")
	require.NoError(t, err)
	assert.Equal(t, calls+1, client.CallCount("getAccountInfo"))

	_, err = runApp(t, client, "vault-transaction", base58.Encode(multisigAddress), "2")
	assert.ErrorIs(t, err, solana.ErrNoAccountInfo)

	_, err = runApp(t, client, "proposal", base58.Encode(multisigAddress))
	assert.ErrorIs(t, err, solana.ErrNoAccountInfo)

	_, err = runApp(t, client, "config-transaction", base58.Encode(multisigAddress))
	assert.ErrorIs(t, err, multisig.ErrDeserialization)
}

func TestMultisigAndLookupTable(t *testing.T) {
	client := testutil.NewSolanaClient()
	keys := testutil.GenerateSolanaKeys(t, 4)
	multisigAddress, member, tableKey := keys[0], keys[1], keys[2]

	client.SetAccount(multisigAddress, multisig.PROGRAM_ID, encodeMultisig(member, 7))
	client.SetAccount(tableKey, addresslookuptable.ProgramKey, encodeLookupTable([]ed25519.PublicKey{keys[3]}))

	out, err := runApp(t, client, "multisig", "--vault-index", "1", base58.Encode(multisigAddress))
	require.NoError(t, err)
	assert.Contains(t, out, "transaction_index=7")
	assert.Contains(t, out, "autonomous: true\n")
	assert.Contains(t, out, "voters: 1\n")

	vault, _, err := multisig.GetVaultAddress(&multisig.GetVaultAddressArgs{Multisig: multisigAddress, Index: 1})
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("vault[1]: %s\n", base58.Encode(vault)))

	out, err = runApp(t, client, "lookup-table", base58.Encode(tableKey))
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("0:%s", base58.Encode(keys[3])))

	_, err = runApp(t, client, "lookup-table", base58.Encode(multisigAddress))
	assert.ErrorIs(t, err, addresslookuptable.ErrInvalidOwner)

	_, err = runApp(t, client, "--commitment", "eventual", "multisig", base58.Encode(multisigAddress))
	assert.Error(t, err)

	_, err = runApp(t, client, "--cluster", "nowhere", "multisig", base58.Encode(multisigAddress))
	assert.Error(t, err)
}

func anchorDiscriminator(name string) []byte {
	h := sha256.Sum256([]byte(name))
	return h[:8]
}

func encodeMultisig(member ed25519.PublicKey, transactionIndex uint64) []byte {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)

	_ = enc.WriteBytes(anchorDiscriminator("account:Multisig"), false)
	_ = enc.WriteBytes(make([]byte, 32), false) // create_key
	_ = enc.WriteBytes(make([]byte, 32), false) // config_authority
	_ = enc.WriteUint16(1, bin.LE)
	_ = enc.WriteUint32(0, bin.LE)
	_ = enc.WriteUint64(transactionIndex, bin.LE)
	_ = enc.WriteUint64(0, bin.LE)
	_ = enc.WriteOption(false)
	_ = enc.WriteUint8(255)
	_ = enc.WriteLength(1)
	_ = enc.WriteBytes(member, false)
	_ = enc.WriteUint8(uint8(multisig.PermissionsAll))
	return buf.Bytes()
}

func encodeVaultTransaction(multisigAddress, creator ed25519.PublicKey, index uint64, m multisig.VaultTransactionMessage) []byte {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)

	_ = enc.WriteBytes(anchorDiscriminator("account:VaultTransaction"), false)
	_ = enc.WriteBytes(multisigAddress, false)
	_ = enc.WriteBytes(creator, false)
	_ = enc.WriteUint64(index, bin.LE)
	_ = enc.WriteUint8(255)            // bump
	_ = enc.WriteUint8(0)              // vault_index
	_ = enc.WriteUint8(254)            // vault_bump
	_ = enc.WriteBytes([]byte{}, true) // ephemeral_signer_bumps

	_ = enc.WriteUint8(m.NumSigners)
	_ = enc.WriteUint8(m.NumWritableSigners)
	_ = enc.WriteUint8(m.NumWritableNonSigners)
	_ = enc.WriteLength(len(m.AccountKeys))
	for _, key := range m.AccountKeys {
		_ = enc.WriteBytes(key, false)
	}
	_ = enc.WriteLength(len(m.Instructions))
	for _, ix := range m.Instructions {
		_ = enc.WriteUint8(ix.ProgramIdIndex)
		_ = enc.WriteBytes(ix.AccountIndexes, true)
		_ = enc.WriteBytes(ix.Data, true)
	}
	_ = enc.WriteLength(len(m.AddressTableLookups))
	for _, lookup := range m.AddressTableLookups {
		_ = enc.WriteBytes(lookup.AccountKey, false)
		_ = enc.WriteBytes(lookup.WritableIndexes, true)
		_ = enc.WriteBytes(lookup.ReadonlyIndexes, true)
	}
	return buf.Bytes()
}

func encodeLookupTable(addresses []ed25519.PublicKey) []byte {
	data := make([]byte, 56+len(addresses)*ed25519.PublicKeySize)

	var offset int
	solanabinary.PutUint32(data[offset:], 1, &offset)
	solanabinary.PutUint64(data[offset:], math.MaxUint64, &offset)

	offset = 56
	for _, address := range addresses {
		solanabinary.PutKey32(data[offset:], address, &offset)
	}
	return data
}
