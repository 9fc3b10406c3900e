package multisig

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const ProgramConfigAccountSize = (8 + // discriminator
	32 + // authority
	8 + // multisig_creation_fee
	32 + // treasury
	64) // reserved

var ProgramConfigAccountDiscriminator = accountDiscriminator("ProgramConfig")

type ProgramConfigAccount struct {
	Authority           ed25519.PublicKey
	MultisigCreationFee uint64
	Treasury            ed25519.PublicKey
}

func (obj *ProgramConfigAccount) Unmarshal(data []byte) error {
	if len(data) < ProgramConfigAccountSize {
		return ErrInvalidAccountData
	}

	d := newBorshDecoder(data)
	d.discriminator(ProgramConfigAccountDiscriminator)
	d.key(&obj.Authority)
	d.uint64(&obj.MultisigCreationFee)
	d.key(&obj.Treasury)
	if err := d.done(); err != nil {
		return errors.Wrap(ErrInvalidAccountData, err.Error())
	}
	return nil
}

func (obj *ProgramConfigAccount) String() string {
	return fmt.Sprintf(
		"ProgramConfigAccount{authority=%s,multisig_creation_fee=%d,treasury=%s}",
		base58.Encode(obj.Authority),
		obj.MultisigCreationFee,
		base58.Encode(obj.Treasury),
	)
}
