package token

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/multisig-sdk/pkg/solana"
	"github.com/code-payments/multisig-sdk/pkg/solana/binary"
)

// ProgramKey is the address of the token program.
//
// Current key: TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA
var ProgramKey = ed25519.PublicKey{6, 221, 246, 225, 215, 101, 161, 147, 217, 203, 225, 70, 206, 235, 121, 172, 28, 180, 133, 237, 95, 91, 55, 145, 58, 140, 245, 133, 126, 255, 0, 169}

type Command byte

const (
	CommandTransfer        Command = 3
	CommandTransferChecked Command = 12
)

// Transfer moves amount tokens between two accounts of the same mint.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/b011698251981b5a12088acba18fad1d41c3719a/token/program/src/instruction.rs#L76-L91
func Transfer(source, dest, owner ed25519.PublicKey, amount uint64) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   0. `[writable]` The source account.
	//   1. `[writable]` The destination account.
	//   2. `[signer]` The source account's owner/delegate.
	data := make([]byte, 1+8)

	offset := 1
	data[0] = byte(CommandTransfer)
	binary.PutUint64(data[offset:], amount, &offset)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(source, false),
		solana.NewAccountMeta(dest, false),
		solana.NewReadonlyAccountMeta(owner, true),
	)
}

type DecompiledTransfer struct {
	Source      ed25519.PublicKey
	Destination ed25519.PublicKey
	Owner       ed25519.PublicKey
	Amount      uint64
}

func DecompileTransfer(ix solana.Instruction) (*DecompiledTransfer, error) {
	if err := checkCommand(ix, CommandTransfer); err != nil {
		return nil, err
	}
	if len(ix.Accounts) != 3 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(ix.Accounts))
	}
	if len(ix.Data) != 9 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(ix.Data))
	}

	v := &DecompiledTransfer{
		Source:      ix.Accounts[0].PublicKey,
		Destination: ix.Accounts[1].PublicKey,
		Owner:       ix.Accounts[2].PublicKey,
	}

	offset := 1
	binary.GetUint64(ix.Data[offset:], &v.Amount, &offset)

	return v, nil
}

// TransferChecked is like Transfer, but also asserts the mint and its decimals.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/b011698251981b5a12088acba18fad1d41c3719a/token/program/src/instruction.rs#L257-L281
func TransferChecked(source, mint, dest, owner ed25519.PublicKey, amount uint64, decimals uint8) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   0. `[writable]` The source account.
	//   1. `[]` The token mint.
	//   2. `[writable]` The destination account.
	//   3. `[signer]` The source account's owner/delegate.
	data := make([]byte, 1+8+1)

	offset := 1
	data[0] = byte(CommandTransferChecked)
	binary.PutUint64(data[offset:], amount, &offset)
	binary.PutUint8(data[offset:], decimals, &offset)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(source, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewAccountMeta(dest, false),
		solana.NewReadonlyAccountMeta(owner, true),
	)
}

type DecompiledTransferChecked struct {
	Source      ed25519.PublicKey
	Mint        ed25519.PublicKey
	Destination ed25519.PublicKey
	Owner       ed25519.PublicKey
	Amount      uint64
	Decimals    uint8
}

func DecompileTransferChecked(ix solana.Instruction) (*DecompiledTransferChecked, error) {
	if err := checkCommand(ix, CommandTransferChecked); err != nil {
		return nil, err
	}
	if len(ix.Accounts) != 4 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(ix.Accounts))
	}
	if len(ix.Data) != 10 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(ix.Data))
	}

	v := &DecompiledTransferChecked{
		Source:      ix.Accounts[0].PublicKey,
		Mint:        ix.Accounts[1].PublicKey,
		Destination: ix.Accounts[2].PublicKey,
		Owner:       ix.Accounts[3].PublicKey,
	}

	offset := 1
	binary.GetUint64(ix.Data[offset:], &v.Amount, &offset)
	binary.GetUint8(ix.Data[offset:], &v.Decimals, &offset)

	return v, nil
}

// GetCommand returns the token command of ix.
func GetCommand(ix solana.Instruction) (Command, error) {
	if !bytes.Equal(ix.Program, ProgramKey) {
		return 0, solana.ErrIncorrectProgram
	}
	if len(ix.Data) == 0 {
		return 0, errors.New("token instruction missing data")
	}

	return Command(ix.Data[0]), nil
}

func checkCommand(ix solana.Instruction, expected Command) error {
	command, err := GetCommand(ix)
	if err != nil {
		return err
	}
	if command != expected {
		return solana.ErrIncorrectInstruction
	}
	return nil
}
