package multisig

import (
	"bytes"
	"crypto/ed25519"
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/code-payments/multisig-sdk/pkg/solana"
)

type compiledKeyMeta struct {
	isSigner   bool
	isWritable bool
	isInvoked  bool
}

// compiledKeys collects the keys referenced by a set of instructions.
//
// Unlike the runtime's message compiler, instruction program ids are not
// marked as invoked. The multisig program invokes them through CPI after
// loading lookup tables itself, so they may be resolved through a table.
type compiledKeys struct {
	payer      ed25519.PublicKey
	keyMetaMap map[string]*compiledKeyMeta
}

func compileKeys(payer ed25519.PublicKey, instructions []solana.Instruction) *compiledKeys {
	c := &compiledKeys{
		payer:      payer,
		keyMetaMap: make(map[string]*compiledKeyMeta),
	}

	for _, ix := range instructions {
		meta := c.getOrCreate(ix.Program)
		meta.isInvoked = false

		for _, account := range ix.Accounts {
			meta := c.getOrCreate(account.PublicKey)
			meta.isSigner = meta.isSigner || account.IsSigner
			meta.isWritable = meta.isWritable || account.IsWritable
		}
	}

	if len(payer) > 0 {
		meta := c.getOrCreate(payer)
		meta.isSigner = true
		meta.isWritable = true
	}

	return c
}

func (c *compiledKeys) getOrCreate(key ed25519.PublicKey) *compiledKeyMeta {
	meta, ok := c.keyMetaMap[string(key)]
	if !ok {
		meta = &compiledKeyMeta{}
		c.keyMetaMap[string(key)] = meta
	}
	return meta
}

// sortedKeys returns the remaining keys ordered by their bytes.
func (c *compiledKeys) sortedKeys() []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, 0, len(c.keyMetaMap))
	for key := range c.keyMetaMap {
		keys = append(keys, ed25519.PublicKey(key))
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i], keys[j]) < 0
	})
	return keys
}

// isLoadable reports whether meta allows the key to move into a lookup
// table. Signers must stay static; so would invoked programs, which never
// happens here.
func (meta *compiledKeyMeta) isLoadable() bool {
	return !meta.isSigner && !meta.isInvoked
}

// extractTableLookup removes every loadable key found in table, walking the
// table in index order. It returns nil when the table holds none of the
// remaining keys.
func (c *compiledKeys) extractTableLookup(table solana.AddressLookupTable) (*MessageAddressTableLookup, []ed25519.PublicKey, []ed25519.PublicKey, error) {
	writableIndexes := make([]uint8, 0)
	readonlyIndexes := make([]uint8, 0)
	var writableKeys, readonlyKeys []ed25519.PublicKey

	for i, address := range table.Addresses {
		meta, ok := c.keyMetaMap[string(address)]
		if !ok || !meta.isLoadable() {
			continue
		}
		if i > math.MaxUint8 {
			return nil, nil, nil, errors.Wrapf(ErrInvalidAddressLookupTableAccount, "index %d exceeds u8", i)
		}

		delete(c.keyMetaMap, string(address))
		if meta.isWritable {
			writableIndexes = append(writableIndexes, uint8(i))
			writableKeys = append(writableKeys, address)
		} else {
			readonlyIndexes = append(readonlyIndexes, uint8(i))
			readonlyKeys = append(readonlyKeys, address)
		}
	}

	if len(writableIndexes) == 0 && len(readonlyIndexes) == 0 {
		return nil, nil, nil, nil
	}

	return &MessageAddressTableLookup{
		AccountKey:      append(ed25519.PublicKey{}, table.PublicKey...),
		WritableIndexes: writableIndexes,
		ReadonlyIndexes: readonlyIndexes,
	}, writableKeys, readonlyKeys, nil
}

type messageHeader struct {
	numSigners            uint8
	numWritableSigners    uint8
	numWritableNonSigners uint8
}

// intoMessageComponents orders the remaining keys as writable signers,
// readonly signers, writable non-signers and readonly non-signers, each group
// sorted by key bytes, with the payer first.
func (c *compiledKeys) intoMessageComponents() (messageHeader, []ed25519.PublicKey, error) {
	var writableSigners, readonlySigners, writableNonSigners, readonlyNonSigners []ed25519.PublicKey

	if len(c.payer) > 0 {
		writableSigners = append(writableSigners, c.payer)
	}

	for _, key := range c.sortedKeys() {
		if len(c.payer) > 0 && bytes.Equal(key, c.payer) {
			continue
		}

		meta := c.keyMetaMap[string(key)]
		switch {
		case meta.isSigner && meta.isWritable:
			writableSigners = append(writableSigners, key)
		case meta.isSigner:
			readonlySigners = append(readonlySigners, key)
		case meta.isWritable:
			writableNonSigners = append(writableNonSigners, key)
		default:
			readonlyNonSigners = append(readonlyNonSigners, key)
		}
	}

	numSigners := len(writableSigners) + len(readonlySigners)
	if numSigners > math.MaxUint8 || len(writableNonSigners) > math.MaxUint8 {
		return messageHeader{}, nil, errors.Wrap(ErrInvalidTransactionMessage, "too many account keys")
	}

	header := messageHeader{
		numSigners:            uint8(numSigners),
		numWritableSigners:    uint8(len(writableSigners)),
		numWritableNonSigners: uint8(len(writableNonSigners)),
	}

	staticKeys := make([]ed25519.PublicKey, 0, len(c.keyMetaMap)+1)
	staticKeys = append(staticKeys, writableSigners...)
	staticKeys = append(staticKeys, readonlySigners...)
	staticKeys = append(staticKeys, writableNonSigners...)
	staticKeys = append(staticKeys, readonlyNonSigners...)

	return header, staticKeys, nil
}
