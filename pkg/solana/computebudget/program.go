package computebudget

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/multisig-sdk/pkg/solana"
	"github.com/code-payments/multisig-sdk/pkg/solana/binary"
)

// ProgramKey is ComputeBudget111111111111111111111111111111
var ProgramKey = ed25519.PublicKey{3, 6, 70, 111, 229, 33, 23, 50, 255, 236, 173, 186, 114, 195, 155, 231, 188, 140, 229, 187, 197, 247, 18, 107, 44, 67, 155, 58, 64, 0, 0, 0}

const (
	commandSetComputeUnitLimit uint8 = 2
	commandSetComputeUnitPrice uint8 = 3
)

// SetComputeUnitLimit caps the compute units the transaction may consume.
func SetComputeUnitLimit(computeUnitLimit uint32) solana.Instruction {
	data := make([]byte, 1+4)

	var offset int
	binary.PutUint8(data[offset:], commandSetComputeUnitLimit, &offset)
	binary.PutUint32(data[offset:], computeUnitLimit, &offset)

	return solana.NewInstruction(ProgramKey, data)
}

// SetComputeUnitPrice sets the priority fee, in micro-lamports per compute unit.
func SetComputeUnitPrice(microLamports uint64) solana.Instruction {
	data := make([]byte, 1+8)

	var offset int
	binary.PutUint8(data[offset:], commandSetComputeUnitPrice, &offset)
	binary.PutUint64(data[offset:], microLamports, &offset)

	return solana.NewInstruction(ProgramKey, data)
}

func DecompileSetComputeUnitLimit(ix solana.Instruction) (uint32, error) {
	if err := checkCommand(ix, commandSetComputeUnitLimit, 5); err != nil {
		return 0, err
	}

	var limit uint32
	offset := 1
	binary.GetUint32(ix.Data[offset:], &limit, &offset)
	return limit, nil
}

func DecompileSetComputeUnitPrice(ix solana.Instruction) (uint64, error) {
	if err := checkCommand(ix, commandSetComputeUnitPrice, 9); err != nil {
		return 0, err
	}

	var price uint64
	offset := 1
	binary.GetUint64(ix.Data[offset:], &price, &offset)
	return price, nil
}

func checkCommand(ix solana.Instruction, command uint8, size int) error {
	if !bytes.Equal(ix.Program, ProgramKey) {
		return solana.ErrIncorrectProgram
	}
	if len(ix.Data) == 0 || ix.Data[0] != command {
		return solana.ErrIncorrectInstruction
	}
	if len(ix.Data) != size {
		return errors.Errorf("invalid instruction data size: %d", len(ix.Data))
	}
	return nil
}
