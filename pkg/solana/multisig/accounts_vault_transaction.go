package multisig

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const MinVaultTransactionAccountSize = (8 + // discriminator
	32 + // multisig
	32 + // creator
	8 + // index
	1 + // bump
	1 + // vault_index
	1 + // vault_bump
	4 + // ephemeral_signer_bumps
	3 + // message header
	4 + // message account_keys
	4 + // message instructions
	4) // message address_table_lookups

var VaultTransactionAccountDiscriminator = accountDiscriminator("VaultTransaction")

type VaultTransactionAccount struct {
	Multisig             ed25519.PublicKey
	Creator              ed25519.PublicKey
	Index                uint64
	Bump                 uint8
	VaultIndex           uint8
	VaultBump            uint8
	EphemeralSignerBumps []byte
	Message              VaultTransactionMessage
}

func (obj *VaultTransactionAccount) Unmarshal(data []byte) error {
	if len(data) < MinVaultTransactionAccountSize {
		return ErrInvalidAccountData
	}

	d := newBorshDecoder(data)
	d.discriminator(VaultTransactionAccountDiscriminator)
	d.key(&obj.Multisig)
	d.key(&obj.Creator)
	d.uint64(&obj.Index)
	d.uint8(&obj.Bump)
	d.uint8(&obj.VaultIndex)
	d.uint8(&obj.VaultBump)
	d.bytes(&obj.EphemeralSignerBumps)
	d.vaultTransactionMessage(&obj.Message)
	if err := d.done(); err != nil {
		return errors.Wrap(ErrInvalidAccountData, err.Error())
	}
	return nil
}

// NumEphemeralSigners is the number of ephemeral signer PDAs the program
// signs for when executing this transaction.
func (obj *VaultTransactionAccount) NumEphemeralSigners() uint8 {
	return uint8(len(obj.EphemeralSignerBumps))
}

func (obj *VaultTransactionAccount) String() string {
	return fmt.Sprintf(
		"VaultTransactionAccount{multisig=%s,creator=%s,index=%d,bump=%d,vault_index=%d,vault_bump=%d,ephemeral_signer_bumps=%v,message=%s}",
		base58.Encode(obj.Multisig),
		base58.Encode(obj.Creator),
		obj.Index,
		obj.Bump,
		obj.VaultIndex,
		obj.VaultBump,
		obj.EphemeralSignerBumps,
		obj.Message.String(),
	)
}
