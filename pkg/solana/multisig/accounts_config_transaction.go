package multisig

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const MinConfigTransactionAccountSize = (8 + // discriminator
	32 + // multisig
	32 + // creator
	8 + // index
	1 + // bump
	4) // actions

var ConfigTransactionAccountDiscriminator = accountDiscriminator("ConfigTransaction")

type ConfigTransactionAccount struct {
	Multisig ed25519.PublicKey
	Creator  ed25519.PublicKey
	Index    uint64
	Bump     uint8
	Actions  []ConfigAction
}

func (obj *ConfigTransactionAccount) Unmarshal(data []byte) error {
	if len(data) < MinConfigTransactionAccountSize {
		return ErrInvalidAccountData
	}

	d := newBorshDecoder(data)
	d.discriminator(ConfigTransactionAccountDiscriminator)
	d.key(&obj.Multisig)
	d.key(&obj.Creator)
	d.uint64(&obj.Index)
	d.uint8(&obj.Bump)
	d.configActions(&obj.Actions)
	if err := d.done(); err != nil {
		return errors.Wrap(ErrInvalidAccountData, err.Error())
	}
	return nil
}

// SpendingLimits returns the spending limit accounts touched by the actions,
// which config_transaction_execute takes as remaining accounts.
func (obj *ConfigTransactionAccount) SpendingLimits(programId ed25519.PublicKey) ([]ed25519.PublicKey, error) {
	var spendingLimits []ed25519.PublicKey
	for _, action := range obj.Actions {
		switch a := action.(type) {
		case AddSpendingLimitAction:
			address, _, err := GetSpendingLimitAddress(&GetSpendingLimitAddressArgs{
				Multisig:  obj.Multisig,
				CreateKey: a.CreateKey,
				ProgramId: programId,
			})
			if err != nil {
				return nil, err
			}
			spendingLimits = append(spendingLimits, address)
		case RemoveSpendingLimitAction:
			spendingLimits = append(spendingLimits, a.SpendingLimit)
		}
	}
	return spendingLimits, nil
}

func (obj *ConfigTransactionAccount) String() string {
	return fmt.Sprintf(
		"ConfigTransactionAccount{multisig=%s,creator=%s,index=%d,bump=%d,actions=%s}",
		base58.Encode(obj.Multisig),
		base58.Encode(obj.Creator),
		obj.Index,
		obj.Bump,
		configActionsString(obj.Actions),
	)
}
