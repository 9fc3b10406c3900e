package multisig

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const MinSpendingLimitAccountSize = (8 + // discriminator
	32 + // multisig
	32 + // create_key
	1 + // vault_index
	32 + // mint
	8 + // amount
	1 + // period
	8 + // remaining_amount
	8 + // last_reset
	1 + // bump
	4 + // members
	4) // destinations

var SpendingLimitAccountDiscriminator = accountDiscriminator("SpendingLimit")

// SpendingLimitAccount lets Members move up to Amount of Mint out of a vault
// per Period without a proposal. The zero Mint means SOL; empty Destinations
// allows any destination.
type SpendingLimitAccount struct {
	Multisig        ed25519.PublicKey
	CreateKey       ed25519.PublicKey
	VaultIndex      uint8
	Mint            ed25519.PublicKey
	Amount          uint64
	Period          Period
	RemainingAmount uint64
	LastReset       int64
	Bump            uint8
	Members         []ed25519.PublicKey
	Destinations    []ed25519.PublicKey
}

func (obj *SpendingLimitAccount) Unmarshal(data []byte) error {
	if len(data) < MinSpendingLimitAccountSize {
		return ErrInvalidAccountData
	}

	d := newBorshDecoder(data)
	d.discriminator(SpendingLimitAccountDiscriminator)
	d.key(&obj.Multisig)
	d.key(&obj.CreateKey)
	d.uint8(&obj.VaultIndex)
	d.key(&obj.Mint)
	d.uint64(&obj.Amount)
	d.period(&obj.Period)
	d.uint64(&obj.RemainingAmount)
	d.int64(&obj.LastReset)
	d.uint8(&obj.Bump)
	d.keys(&obj.Members)
	d.keys(&obj.Destinations)
	if err := d.done(); err != nil {
		return errors.Wrap(ErrInvalidAccountData, err.Error())
	}
	return nil
}

func (obj *SpendingLimitAccount) IsSol() bool {
	for _, b := range obj.Mint {
		if b != 0 {
			return false
		}
	}
	return true
}

func (obj *SpendingLimitAccount) String() string {
	return fmt.Sprintf(
		"SpendingLimitAccount{multisig=%s,create_key=%s,vault_index=%d,mint=%s,amount=%d,period=%s,remaining_amount=%d,last_reset=%d,bump=%d,members=%s,destinations=%s}",
		base58.Encode(obj.Multisig),
		base58.Encode(obj.CreateKey),
		obj.VaultIndex,
		base58.Encode(obj.Mint),
		obj.Amount,
		obj.Period,
		obj.RemainingAmount,
		obj.LastReset,
		obj.Bump,
		keysString(obj.Members),
		keysString(obj.Destinations),
	)
}
