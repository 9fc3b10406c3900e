package addresslookuptable

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/multisig-sdk/pkg/cache"
	"github.com/code-payments/multisig-sdk/pkg/solana"
)

var (
	ErrLookupTableNotFound = errors.New("address lookup table not found")
	ErrInvalidOwner        = errors.New("account is not owned by the address lookup table program")
)

// Fetcher loads address lookup tables over RPC, keeping decoded tables in a
// weighted LRU cache. Every cached table weighs one unit.
type Fetcher struct {
	log        *logrus.Entry
	client     solana.Client
	commitment solana.Commitment
	cache      cache.Cache
}

// NewFetcher returns a Fetcher that caches up to cacheBudget tables.
func NewFetcher(client solana.Client, commitment solana.Commitment, cacheBudget int) *Fetcher {
	return &Fetcher{
		log:        logrus.StandardLogger().WithField("type", "addresslookuptable/fetcher"),
		client:     client,
		commitment: commitment,
		cache:      cache.NewCache(cacheBudget),
	}
}

// GetAddressLookupTables returns the tables for keys, in the same order.
// Tables already in the cache are not fetched again.
func (f *Fetcher) GetAddressLookupTables(keys ...ed25519.PublicKey) ([]solana.AddressLookupTable, error) {
	accounts := make([]*AddressLookupTableAccount, len(keys))

	var missing []ed25519.PublicKey
	var missingIndexes []int
	for i, key := range keys {
		if cached, ok := f.cache.Retrieve(cacheKey(key)); ok {
			accounts[i] = cached.(*AddressLookupTableAccount)
			continue
		}

		missing = append(missing, key)
		missingIndexes = append(missingIndexes, i)
	}

	if len(missing) > 0 {
		log := f.log.WithField("count", len(missing))
		log.Debug("fetching address lookup tables")

		infos, err := f.client.GetMultipleAccounts(missing, f.commitment)
		if err != nil {
			log.WithError(err).Warn("failed to fetch address lookup tables")
			return nil, errors.Wrap(err, "error fetching address lookup tables")
		}
		if len(infos) != len(missing) {
			return nil, errors.Errorf("expected %d accounts, got %d", len(missing), len(infos))
		}

		for i, info := range infos {
			key := missing[i]

			account, err := decodeAccount(info)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid address lookup table %s", base58.Encode(key))
			}

			if err := f.cache.Insert(cacheKey(key), account, 1); err != nil && err != cache.ErrKeyExists {
				return nil, errors.Wrap(err, "error caching address lookup table")
			}
			accounts[missingIndexes[i]] = account
		}
	}

	tables := make([]solana.AddressLookupTable, len(keys))
	for i, account := range accounts {
		tables[i] = account.ToAddressLookupTable(keys[i])
	}
	return tables, nil
}

// Invalidate evicts key from the cache, forcing the next lookup to refetch
// it. Call it after extending a table.
func (f *Fetcher) Invalidate(key ed25519.PublicKey) {
	if f.cache.Delete(cacheKey(key)) {
		f.log.WithField("table", base58.Encode(key)).Debug("invalidated cached address lookup table")
	}
}

func decodeAccount(info *solana.AccountInfo) (*AddressLookupTableAccount, error) {
	if info == nil {
		return nil, ErrLookupTableNotFound
	}
	if !bytes.Equal(info.Owner, ProgramKey) {
		return nil, ErrInvalidOwner
	}

	var account AddressLookupTableAccount
	if err := account.Unmarshal(info.Data); err != nil {
		return nil, err
	}
	return &account, nil
}

func cacheKey(key ed25519.PublicKey) string {
	return string(key)
}
