package multisig

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const MinProposalAccountSize = (8 + // discriminator
	32 + // multisig
	8 + // transaction_index
	1 + // status
	1 + // bump
	4 + // approved
	4 + // rejected
	4) // cancelled

var ProposalAccountDiscriminator = accountDiscriminator("Proposal")

type ProposalAccount struct {
	Multisig         ed25519.PublicKey
	TransactionIndex uint64
	Status           ProposalStatus
	Bump             uint8
	Approved         []ed25519.PublicKey
	Rejected         []ed25519.PublicKey
	Cancelled        []ed25519.PublicKey
}

func (obj *ProposalAccount) Unmarshal(data []byte) error {
	if len(data) < MinProposalAccountSize {
		return ErrInvalidAccountData
	}

	d := newBorshDecoder(data)
	d.discriminator(ProposalAccountDiscriminator)
	d.key(&obj.Multisig)
	d.uint64(&obj.TransactionIndex)
	d.proposalStatus(&obj.Status)
	d.uint8(&obj.Bump)
	d.keys(&obj.Approved)
	d.keys(&obj.Rejected)
	d.keys(&obj.Cancelled)
	if err := d.done(); err != nil {
		return errors.Wrap(ErrInvalidAccountData, err.Error())
	}
	return nil
}

func (obj *ProposalAccount) String() string {
	return fmt.Sprintf(
		"ProposalAccount{multisig=%s,transaction_index=%d,status=%s,bump=%d,approved=%s,rejected=%s,cancelled=%s}",
		base58.Encode(obj.Multisig),
		obj.TransactionIndex,
		obj.Status,
		obj.Bump,
		keysString(obj.Approved),
		keysString(obj.Rejected),
		keysString(obj.Cancelled),
	)
}
