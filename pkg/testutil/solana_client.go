package testutil

import (
	"crypto/ed25519"
	"sync"

	"github.com/pkg/errors"

	"github.com/code-payments/multisig-sdk/pkg/solana"
)

// SolanaClient is an in-memory solana.Client. Accounts are served from a map
// and every call is counted so tests can assert on RPC traffic.
type SolanaClient struct {
	sync.Mutex

	Accounts  map[string]solana.AccountInfo
	Blockhash solana.Blockhash
	Slot      uint64
	Rent      uint64

	// Err, when set, is returned from every call.
	Err error

	Calls map[string]int
}

var _ solana.Client = (*SolanaClient)(nil)

func NewSolanaClient() *SolanaClient {
	return &SolanaClient{
		Accounts: make(map[string]solana.AccountInfo),
		Calls:    make(map[string]int),
	}
}

// SetAccount stores data owned by owner at key.
func (c *SolanaClient) SetAccount(key, owner ed25519.PublicKey, data []byte) {
	c.Lock()
	defer c.Unlock()

	c.Accounts[string(key)] = solana.AccountInfo{
		Data:     append([]byte{}, data...),
		Owner:    owner,
		Lamports: 1,
	}
}

// CallCount returns how many times method was invoked.
func (c *SolanaClient) CallCount(method string) int {
	c.Lock()
	defer c.Unlock()

	return c.Calls[method]
}

func (c *SolanaClient) GetAccountInfo(key ed25519.PublicKey, _ solana.Commitment) (solana.AccountInfo, error) {
	c.Lock()
	defer c.Unlock()

	c.Calls["getAccountInfo"]++
	if c.Err != nil {
		return solana.AccountInfo{}, c.Err
	}

	info, ok := c.Accounts[string(key)]
	if !ok {
		return solana.AccountInfo{}, solana.ErrNoAccountInfo
	}
	return info, nil
}

func (c *SolanaClient) GetMultipleAccounts(keys []ed25519.PublicKey, _ solana.Commitment) ([]*solana.AccountInfo, error) {
	c.Lock()
	defer c.Unlock()

	c.Calls["getMultipleAccounts"]++
	if c.Err != nil {
		return nil, c.Err
	}

	infos := make([]*solana.AccountInfo, len(keys))
	for i, key := range keys {
		if info, ok := c.Accounts[string(key)]; ok {
			infos[i] = &info
		}
	}
	return infos, nil
}

func (c *SolanaClient) GetLatestBlockhash() (solana.Blockhash, error) {
	c.Lock()
	defer c.Unlock()

	c.Calls["getLatestBlockhash"]++
	if c.Err != nil {
		return solana.Blockhash{}, c.Err
	}
	return c.Blockhash, nil
}

func (c *SolanaClient) GetMinimumBalanceForRentExemption(size uint64) (uint64, error) {
	c.Lock()
	defer c.Unlock()

	c.Calls["getMinimumBalanceForRentExemption"]++
	if c.Err != nil {
		return 0, c.Err
	}
	if c.Rent == 0 {
		return 0, errors.New("rent not configured")
	}
	return c.Rent, nil
}

func (c *SolanaClient) GetSlot(_ solana.Commitment) (uint64, error) {
	c.Lock()
	defer c.Unlock()

	c.Calls["getSlot"]++
	if c.Err != nil {
		return 0, c.Err
	}
	return c.Slot, nil
}
