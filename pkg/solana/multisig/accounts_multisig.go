package multisig

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const MinMultisigAccountSize = (8 + // discriminator
	32 + // create_key
	32 + // config_authority
	2 + // threshold
	4 + // time_lock
	8 + // transaction_index
	8 + // stale_transaction_index
	1 + // rent_collector option
	1 + // bump
	4) // members

var MultisigAccountDiscriminator = accountDiscriminator("Multisig")

type MultisigAccount struct {
	CreateKey ed25519.PublicKey
	// ConfigAuthority is the zero key for autonomous multisigs, which change
	// their settings through config transactions.
	ConfigAuthority       ed25519.PublicKey
	Threshold             uint16
	TimeLock              uint32
	TransactionIndex      uint64
	StaleTransactionIndex uint64
	RentCollector         ed25519.PublicKey
	Bump                  uint8
	Members               []Member
}

func (obj *MultisigAccount) Unmarshal(data []byte) error {
	if len(data) < MinMultisigAccountSize {
		return ErrInvalidAccountData
	}

	d := newBorshDecoder(data)
	d.discriminator(MultisigAccountDiscriminator)
	d.key(&obj.CreateKey)
	d.key(&obj.ConfigAuthority)
	d.uint16(&obj.Threshold)
	d.uint32(&obj.TimeLock)
	d.uint64(&obj.TransactionIndex)
	d.uint64(&obj.StaleTransactionIndex)
	d.optionalKey(&obj.RentCollector)
	d.uint8(&obj.Bump)
	d.members(&obj.Members)
	if err := d.done(); err != nil {
		return errors.Wrap(ErrInvalidAccountData, err.Error())
	}
	return nil
}

// IsAutonomous reports whether settings can only change through config
// transactions voted on by members.
func (obj *MultisigAccount) IsAutonomous() bool {
	for _, b := range obj.ConfigAuthority {
		if b != 0 {
			return false
		}
	}
	return true
}

func (obj *MultisigAccount) GetMember(key ed25519.PublicKey) (Member, bool) {
	for _, member := range obj.Members {
		if string(member.Key) == string(key) {
			return member, true
		}
	}
	return Member{}, false
}

// NumVoters is the number of members allowed to vote, which bounds the
// threshold.
func (obj *MultisigAccount) NumVoters() int {
	var n int
	for _, member := range obj.Members {
		if member.Permissions.Has(PermissionVote) {
			n++
		}
	}
	return n
}

func (obj *MultisigAccount) String() string {
	return fmt.Sprintf(
		"MultisigAccount{create_key=%s,config_authority=%s,threshold=%d,time_lock=%d,transaction_index=%d,stale_transaction_index=%d,rent_collector=%s,bump=%d,members=%s}",
		base58.Encode(obj.CreateKey),
		base58.Encode(obj.ConfigAuthority),
		obj.Threshold,
		obj.TimeLock,
		obj.TransactionIndex,
		obj.StaleTransactionIndex,
		optionalKeyString(obj.RentCollector),
		obj.Bump,
		membersString(obj.Members),
	)
}
