package multisig

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/multisig-sdk/pkg/solana"
)

// account is implemented by every decodable program account.
type account interface {
	Unmarshal(data []byte) error
}

func getAccount(client solana.Client, address ed25519.PublicKey, commitment solana.Commitment, dst account) error {
	info, err := client.GetAccountInfo(address, commitment)
	if err != nil {
		return errors.Wrapf(err, "failed to get account %s", base58.Encode(address))
	}

	if err := dst.Unmarshal(info.Data); err != nil {
		return errors.Wrapf(ErrDeserialization, "%s: %s", base58.Encode(address), err.Error())
	}
	return nil
}

func GetProgramConfig(client solana.Client, address ed25519.PublicKey, commitment solana.Commitment) (*ProgramConfigAccount, error) {
	var obj ProgramConfigAccount
	if err := getAccount(client, address, commitment, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

func GetMultisig(client solana.Client, address ed25519.PublicKey, commitment solana.Commitment) (*MultisigAccount, error) {
	var obj MultisigAccount
	if err := getAccount(client, address, commitment, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

func GetSpendingLimit(client solana.Client, address ed25519.PublicKey, commitment solana.Commitment) (*SpendingLimitAccount, error) {
	var obj SpendingLimitAccount
	if err := getAccount(client, address, commitment, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

func GetProposal(client solana.Client, address ed25519.PublicKey, commitment solana.Commitment) (*ProposalAccount, error) {
	var obj ProposalAccount
	if err := getAccount(client, address, commitment, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

func GetVaultTransaction(client solana.Client, address ed25519.PublicKey, commitment solana.Commitment) (*VaultTransactionAccount, error) {
	var obj VaultTransactionAccount
	if err := getAccount(client, address, commitment, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

func GetConfigTransaction(client solana.Client, address ed25519.PublicKey, commitment solana.Commitment) (*ConfigTransactionAccount, error) {
	var obj ConfigTransactionAccount
	if err := getAccount(client, address, commitment, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}
