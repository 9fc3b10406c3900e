package multisig

import (
	"bytes"
	"crypto/ed25519"
	"fmt"
	"math"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/multisig-sdk/pkg/solana"
)

// CompiledInstruction indexes into the message's combined key view: static
// keys, then every loaded writable key, then every loaded readonly key.
type CompiledInstruction struct {
	ProgramIdIndex uint8
	AccountIndexes []uint8
	Data           []byte
}

type MessageAddressTableLookup struct {
	AccountKey      ed25519.PublicKey
	WritableIndexes []uint8
	ReadonlyIndexes []uint8
}

// VaultTransactionMessage is the inner transaction a multisig vault replays.
// It carries no blockhash; the program supplies one at execution.
type VaultTransactionMessage struct {
	NumSigners            uint8
	NumWritableSigners    uint8
	NumWritableNonSigners uint8
	AccountKeys           []ed25519.PublicKey
	Instructions          []CompiledInstruction
	AddressTableLookups   []MessageAddressTableLookup
}

// CompileVaultTransactionMessage compiles instructions into a vault
// transaction message. Non-signer keys found in addressLookupTables are
// loaded from them, program ids included. Tables are consumed in the order
// given and a key found in several tables is taken from the first.
//
// payer is optional. When set it becomes the first writable signer; vault
// transactions use the vault as payer.
func CompileVaultTransactionMessage(payer ed25519.PublicKey, instructions []solana.Instruction, addressLookupTables []solana.AddressLookupTable) (VaultTransactionMessage, error) {
	if len(instructions) > math.MaxUint8 {
		return VaultTransactionMessage{}, errors.Wrapf(ErrInvalidTransactionMessage, "too many instructions: %d", len(instructions))
	}

	keys := compileKeys(payer, instructions)

	lookups := make([]MessageAddressTableLookup, 0)
	var loadedWritable, loadedReadonly []ed25519.PublicKey
	for _, table := range addressLookupTables {
		if err := validateAddressLookupTable(table); err != nil {
			return VaultTransactionMessage{}, err
		}

		lookup, writable, readonly, err := keys.extractTableLookup(table)
		if err != nil {
			return VaultTransactionMessage{}, err
		}
		if lookup == nil {
			continue
		}

		lookups = append(lookups, *lookup)
		loadedWritable = append(loadedWritable, writable...)
		loadedReadonly = append(loadedReadonly, readonly...)
	}
	if len(lookups) > math.MaxUint8 {
		return VaultTransactionMessage{}, errors.Wrapf(ErrInvalidTransactionMessage, "too many address table lookups: %d", len(lookups))
	}

	header, staticKeys, err := keys.intoMessageComponents()
	if err != nil {
		return VaultTransactionMessage{}, err
	}
	if len(staticKeys) > math.MaxUint8 {
		return VaultTransactionMessage{}, errors.Wrapf(ErrInvalidTransactionMessage, "too many static account keys: %d", len(staticKeys))
	}

	combined := make([]ed25519.PublicKey, 0, len(staticKeys)+len(loadedWritable)+len(loadedReadonly))
	combined = append(combined, staticKeys...)
	combined = append(combined, loadedWritable...)
	combined = append(combined, loadedReadonly...)
	if len(combined) > math.MaxUint8+1 {
		return VaultTransactionMessage{}, errors.Wrapf(ErrInvalidTransactionMessage, "too many account keys: %d", len(combined))
	}

	keyIndexes := make(map[string]uint8, len(combined))
	for i, key := range combined {
		if _, ok := keyIndexes[string(key)]; !ok {
			keyIndexes[string(key)] = uint8(i)
		}
	}
	resolve := func(key ed25519.PublicKey) (uint8, error) {
		index, ok := keyIndexes[string(key)]
		if !ok {
			return 0, errors.Wrapf(ErrInvalidTransactionMessage, "unresolved account key %s", base58.Encode(key))
		}
		return index, nil
	}

	compiled := make([]CompiledInstruction, len(instructions))
	for i, ix := range instructions {
		if len(ix.Accounts) > math.MaxUint8 {
			return VaultTransactionMessage{}, errors.Wrapf(ErrInvalidTransactionMessage, "instruction %d has too many accounts: %d", i, len(ix.Accounts))
		}
		if len(ix.Data) > math.MaxUint16 {
			return VaultTransactionMessage{}, errors.Wrapf(ErrInvalidTransactionMessage, "instruction %d data too large: %d", i, len(ix.Data))
		}

		programIdIndex, err := resolve(ix.Program)
		if err != nil {
			return VaultTransactionMessage{}, err
		}

		accountIndexes := make([]uint8, len(ix.Accounts))
		for j, account := range ix.Accounts {
			if accountIndexes[j], err = resolve(account.PublicKey); err != nil {
				return VaultTransactionMessage{}, err
			}
		}

		compiled[i] = CompiledInstruction{
			ProgramIdIndex: programIdIndex,
			AccountIndexes: accountIndexes,
			Data:           append([]byte{}, ix.Data...),
		}
	}

	return VaultTransactionMessage{
		NumSigners:            header.numSigners,
		NumWritableSigners:    header.numWritableSigners,
		NumWritableNonSigners: header.numWritableNonSigners,
		AccountKeys:           staticKeys,
		Instructions:          compiled,
		AddressTableLookups:   lookups,
	}, nil
}

func validateAddressLookupTable(table solana.AddressLookupTable) error {
	if len(table.PublicKey) != ed25519.PublicKeySize {
		return errors.Wrap(ErrInvalidAddressLookupTableAccount, "invalid table key")
	}
	for i, address := range table.Addresses {
		if len(address) != ed25519.PublicKeySize {
			return errors.Wrapf(ErrInvalidAddressLookupTableAccount, "invalid address at index %d in %s", i, base58.Encode(table.PublicKey))
		}
	}
	return nil
}

// NumLoadedAccounts is the number of keys resolved through lookup tables.
func (m *VaultTransactionMessage) NumLoadedAccounts() int {
	var n int
	for _, lookup := range m.AddressTableLookups {
		n += len(lookup.WritableIndexes) + len(lookup.ReadonlyIndexes)
	}
	return n
}

// NumAllAccountKeys is the size of the combined key view instructions index
// into.
func (m *VaultTransactionMessage) NumAllAccountKeys() int {
	return len(m.AccountKeys) + m.NumLoadedAccounts()
}

// IsSignerIndex reports whether the static key at index is a signer.
func (m *VaultTransactionMessage) IsSignerIndex(index int) bool {
	return index < int(m.NumSigners)
}

// IsStaticWritableIndex reports whether the static key at index is
// writable.
func (m *VaultTransactionMessage) IsStaticWritableIndex(index int) bool {
	if index >= len(m.AccountKeys) {
		return false
	}
	if index < int(m.NumWritableSigners) {
		return true
	}
	if index >= int(m.NumSigners) {
		return index-int(m.NumSigners) < int(m.NumWritableNonSigners)
	}
	return false
}

// Validate applies the consistency checks the program runs before storing a
// message.
func (m *VaultTransactionMessage) Validate() error {
	if int(m.NumSigners) > len(m.AccountKeys) {
		return errors.Wrap(ErrInvalidTransactionMessage, "num_signers exceeds account keys")
	}
	if m.NumWritableSigners > m.NumSigners {
		return errors.Wrap(ErrInvalidTransactionMessage, "num_writable_signers exceeds num_signers")
	}
	if int(m.NumWritableNonSigners) > len(m.AccountKeys)-int(m.NumSigners) {
		return errors.Wrap(ErrInvalidTransactionMessage, "num_writable_non_signers exceeds non-signer keys")
	}

	numAllKeys := m.NumAllAccountKeys()
	for i, ix := range m.Instructions {
		if int(ix.ProgramIdIndex) >= numAllKeys {
			return errors.Wrapf(ErrInvalidTransactionMessage, "program index out of range: %d:%d", i, ix.ProgramIdIndex)
		}
		for _, index := range ix.AccountIndexes {
			if int(index) >= numAllKeys {
				return errors.Wrapf(ErrInvalidTransactionMessage, "account index out of range: %d:%d", i, index)
			}
		}
	}
	return nil
}

// Marshal encodes the message as the compact transaction_message argument of
// vault_transaction_create: u8 length prefixes everywhere except instruction
// data, which has a u16 prefix.
func (m *VaultTransactionMessage) Marshal() ([]byte, error) {
	if len(m.AccountKeys) > math.MaxUint8 || len(m.Instructions) > math.MaxUint8 || len(m.AddressTableLookups) > math.MaxUint8 {
		return nil, errors.Wrap(ErrInvalidTransactionMessage, "message exceeds u8 length prefixes")
	}

	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)

	_ = enc.WriteUint8(m.NumSigners)
	_ = enc.WriteUint8(m.NumWritableSigners)
	_ = enc.WriteUint8(m.NumWritableNonSigners)

	_ = enc.WriteUint8(uint8(len(m.AccountKeys)))
	for _, key := range m.AccountKeys {
		_ = enc.WriteBytes(key, false)
	}

	_ = enc.WriteUint8(uint8(len(m.Instructions)))
	for i, ix := range m.Instructions {
		if len(ix.AccountIndexes) > math.MaxUint8 || len(ix.Data) > math.MaxUint16 {
			return nil, errors.Wrapf(ErrInvalidTransactionMessage, "instruction %d exceeds length prefixes", i)
		}

		_ = enc.WriteUint8(ix.ProgramIdIndex)
		_ = enc.WriteUint8(uint8(len(ix.AccountIndexes)))
		_ = enc.WriteBytes(ix.AccountIndexes, false)
		_ = enc.WriteUint16(uint16(len(ix.Data)), bin.LE)
		_ = enc.WriteBytes(ix.Data, false)
	}

	_ = enc.WriteUint8(uint8(len(m.AddressTableLookups)))
	for i, lookup := range m.AddressTableLookups {
		if len(lookup.WritableIndexes) > math.MaxUint8 || len(lookup.ReadonlyIndexes) > math.MaxUint8 {
			return nil, errors.Wrapf(ErrInvalidTransactionMessage, "address table lookup %d exceeds length prefixes", i)
		}

		_ = enc.WriteBytes(lookup.AccountKey, false)
		_ = enc.WriteUint8(uint8(len(lookup.WritableIndexes)))
		_ = enc.WriteBytes(lookup.WritableIndexes, false)
		_ = enc.WriteUint8(uint8(len(lookup.ReadonlyIndexes)))
		_ = enc.WriteBytes(lookup.ReadonlyIndexes, false)
	}

	return buf.Bytes(), nil
}

// UnmarshalVaultTransactionMessage decodes the compact form produced by
// Marshal and validates it.
func UnmarshalVaultTransactionMessage(data []byte) (VaultTransactionMessage, error) {
	var m VaultTransactionMessage

	dec := bin.NewBinDecoder(data)
	if err := m.unmarshalCompact(dec); err != nil {
		return VaultTransactionMessage{}, errors.Wrap(ErrInvalidTransactionMessage, err.Error())
	}
	if dec.HasRemaining() {
		return VaultTransactionMessage{}, errors.Wrapf(ErrInvalidTransactionMessage, "%d trailing bytes", dec.Remaining())
	}
	if err := m.Validate(); err != nil {
		return VaultTransactionMessage{}, err
	}
	return m, nil
}

func (m *VaultTransactionMessage) unmarshalCompact(dec *bin.Decoder) (err error) {
	if m.NumSigners, err = dec.ReadUint8(); err != nil {
		return errors.Wrap(err, "failed to read num signers")
	}
	if m.NumWritableSigners, err = dec.ReadUint8(); err != nil {
		return errors.Wrap(err, "failed to read num writable signers")
	}
	if m.NumWritableNonSigners, err = dec.ReadUint8(); err != nil {
		return errors.Wrap(err, "failed to read num writable non signers")
	}

	numKeys, err := dec.ReadUint8()
	if err != nil {
		return errors.Wrap(err, "failed to read account keys len")
	}
	m.AccountKeys = make([]ed25519.PublicKey, numKeys)
	for i := range m.AccountKeys {
		key, err := dec.ReadNBytes(ed25519.PublicKeySize)
		if err != nil {
			return errors.Wrapf(err, "failed to read account key at index %d", i)
		}
		m.AccountKeys[i] = append(ed25519.PublicKey{}, key...)
	}

	numInstructions, err := dec.ReadUint8()
	if err != nil {
		return errors.Wrap(err, "failed to read instructions len")
	}
	m.Instructions = make([]CompiledInstruction, numInstructions)
	for i := range m.Instructions {
		ix := &m.Instructions[i]

		if ix.ProgramIdIndex, err = dec.ReadUint8(); err != nil {
			return errors.Wrapf(err, "failed to read program index of instruction %d", i)
		}

		numAccounts, err := dec.ReadUint8()
		if err != nil {
			return errors.Wrapf(err, "failed to read accounts len of instruction %d", i)
		}
		if ix.AccountIndexes, err = readCopy(dec, int(numAccounts)); err != nil {
			return errors.Wrapf(err, "failed to read accounts of instruction %d", i)
		}

		dataLen, err := dec.ReadUint16(bin.LE)
		if err != nil {
			return errors.Wrapf(err, "failed to read data len of instruction %d", i)
		}
		if ix.Data, err = readCopy(dec, int(dataLen)); err != nil {
			return errors.Wrapf(err, "failed to read data of instruction %d", i)
		}
	}

	numLookups, err := dec.ReadUint8()
	if err != nil {
		return errors.Wrap(err, "failed to read address table lookups len")
	}
	m.AddressTableLookups = make([]MessageAddressTableLookup, numLookups)
	for i := range m.AddressTableLookups {
		lookup := &m.AddressTableLookups[i]

		key, err := dec.ReadNBytes(ed25519.PublicKeySize)
		if err != nil {
			return errors.Wrapf(err, "failed to read key of address table lookup %d", i)
		}
		lookup.AccountKey = append(ed25519.PublicKey{}, key...)

		numWritable, err := dec.ReadUint8()
		if err != nil {
			return errors.Wrapf(err, "failed to read writable indexes len of address table lookup %d", i)
		}
		if lookup.WritableIndexes, err = readCopy(dec, int(numWritable)); err != nil {
			return errors.Wrapf(err, "failed to read writable indexes of address table lookup %d", i)
		}

		numReadonly, err := dec.ReadUint8()
		if err != nil {
			return errors.Wrapf(err, "failed to read readonly indexes len of address table lookup %d", i)
		}
		if lookup.ReadonlyIndexes, err = readCopy(dec, int(numReadonly)); err != nil {
			return errors.Wrapf(err, "failed to read readonly indexes of address table lookup %d", i)
		}
	}

	return nil
}

func readCopy(dec *bin.Decoder, n int) ([]byte, error) {
	b, err := dec.ReadNBytes(n)
	if err != nil {
		return nil, err
	}
	return append(make([]byte, 0, n), b...), nil
}

// vaultTransactionMessage reads the message as stored in a VaultTransaction
// account, where every vector has a u32 prefix.
func (d *borshDecoder) vaultTransactionMessage(dst *VaultTransactionMessage) {
	d.uint8(&dst.NumSigners)
	d.uint8(&dst.NumWritableSigners)
	d.uint8(&dst.NumWritableNonSigners)
	d.keys(&dst.AccountKeys)

	// program index, then two vector prefixes
	numInstructions := d.length(1 + 4 + 4)
	if d.err != nil {
		return
	}
	dst.Instructions = make([]CompiledInstruction, numInstructions)
	for i := range dst.Instructions {
		ix := &dst.Instructions[i]
		d.uint8(&ix.ProgramIdIndex)
		d.bytes(&ix.AccountIndexes)
		d.bytes(&ix.Data)
	}

	// key, then two vector prefixes
	numLookups := d.length(ed25519.PublicKeySize + 4 + 4)
	if d.err != nil {
		return
	}
	dst.AddressTableLookups = make([]MessageAddressTableLookup, numLookups)
	for i := range dst.AddressTableLookups {
		lookup := &dst.AddressTableLookups[i]
		d.key(&lookup.AccountKey)
		d.bytes(&lookup.WritableIndexes)
		d.bytes(&lookup.ReadonlyIndexes)
	}
}

// DecompileVaultTransactionMessage resolves a message back into
// instructions, loading addresses from addressLookupTables. Account flags
// come from the message header, so a key used with different flags by
// different instructions decompiles with the merged flags.
func DecompileVaultTransactionMessage(m VaultTransactionMessage, addressLookupTables []solana.AddressLookupTable) ([]solana.Instruction, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	loadedWritable, loadedReadonly, err := m.loadAddresses(addressLookupTables)
	if err != nil {
		return nil, err
	}

	metas := make([]solana.AccountMeta, 0, m.NumAllAccountKeys())
	for i, key := range m.AccountKeys {
		metas = append(metas, solana.AccountMeta{
			PublicKey:  key,
			IsSigner:   m.IsSignerIndex(i),
			IsWritable: m.IsStaticWritableIndex(i),
		})
	}
	for _, key := range loadedWritable {
		metas = append(metas, solana.NewAccountMeta(key, false))
	}
	for _, key := range loadedReadonly {
		metas = append(metas, solana.NewReadonlyAccountMeta(key, false))
	}

	instructions := make([]solana.Instruction, len(m.Instructions))
	for i, compiled := range m.Instructions {
		accounts := make([]solana.AccountMeta, len(compiled.AccountIndexes))
		for j, index := range compiled.AccountIndexes {
			accounts[j] = metas[index]
		}

		instructions[i] = solana.NewInstruction(
			metas[compiled.ProgramIdIndex].PublicKey,
			append([]byte{}, compiled.Data...),
			accounts...,
		)
	}
	return instructions, nil
}

// loadAddresses resolves every lookup, returning the loaded writable keys
// followed by the loaded readonly keys across all lookups.
func (m *VaultTransactionMessage) loadAddresses(addressLookupTables []solana.AddressLookupTable) ([]ed25519.PublicKey, []ed25519.PublicKey, error) {
	var writable, readonly []ed25519.PublicKey
	for _, lookup := range m.AddressTableLookups {
		table, ok := findAddressLookupTable(addressLookupTables, lookup.AccountKey)
		if !ok {
			return nil, nil, errors.Wrapf(ErrInvalidAddressLookupTableAccount, "missing table %s", base58.Encode(lookup.AccountKey))
		}

		for _, index := range lookup.WritableIndexes {
			if int(index) >= len(table.Addresses) {
				return nil, nil, errors.Wrapf(ErrInvalidAddressLookupTableAccount, "index %d out of range in %s", index, base58.Encode(lookup.AccountKey))
			}
			writable = append(writable, table.Addresses[index])
		}
		for _, index := range lookup.ReadonlyIndexes {
			if int(index) >= len(table.Addresses) {
				return nil, nil, errors.Wrapf(ErrInvalidAddressLookupTableAccount, "index %d out of range in %s", index, base58.Encode(lookup.AccountKey))
			}
			readonly = append(readonly, table.Addresses[index])
		}
	}
	return writable, readonly, nil
}

func findAddressLookupTable(tables []solana.AddressLookupTable, key ed25519.PublicKey) (solana.AddressLookupTable, bool) {
	for _, table := range tables {
		if bytes.Equal(table.PublicKey, key) {
			return table, true
		}
	}
	return solana.AddressLookupTable{}, false
}

func (ix CompiledInstruction) String() string {
	return fmt.Sprintf("CompiledInstruction{program_id_index=%d,account_indexes=%v,data=%x}", ix.ProgramIdIndex, ix.AccountIndexes, ix.Data)
}

func (l MessageAddressTableLookup) String() string {
	return fmt.Sprintf("MessageAddressTableLookup{account_key=%s,writable_indexes=%v,readonly_indexes=%v}", base58.Encode(l.AccountKey), l.WritableIndexes, l.ReadonlyIndexes)
}

func (m *VaultTransactionMessage) String() string {
	instructions := make([]string, len(m.Instructions))
	for i, ix := range m.Instructions {
		instructions[i] = ix.String()
	}
	lookups := make([]string, len(m.AddressTableLookups))
	for i, lookup := range m.AddressTableLookups {
		lookups[i] = lookup.String()
	}

	return fmt.Sprintf(
		"VaultTransactionMessage{num_signers=%d,num_writable_signers=%d,num_writable_non_signers=%d,account_keys=%s,instructions=[%s],address_table_lookups=[%s]}",
		m.NumSigners,
		m.NumWritableSigners,
		m.NumWritableNonSigners,
		keysString(m.AccountKeys),
		strings.Join(instructions, ","),
		strings.Join(lookups, ","),
	)
}
