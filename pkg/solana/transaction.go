package solana

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"github.com/mr-tron/base58"
)

const (
	// MaxTransactionSize is the largest serialized transaction that fits in a
	// single network packet.
	MaxTransactionSize = 1232
)

type Signature [ed25519.SignatureSize]byte
type Blockhash [sha256.Size]byte

type MessageVersion uint8

const (
	MessageVersionLegacy MessageVersion = iota
	MessageVersion0
)

type Header struct {
	NumSignatures     byte
	NumReadonlySigned byte
	NumReadOnly       byte
}

type MessageAddressTableLookup struct {
	PublicKey       ed25519.PublicKey
	WritableIndexes []byte
	ReadonlyIndexes []byte
}

// Message is the outer Solana message. Program ids are always kept static,
// unlike the vault transaction message compiled by the multisig package.
type Message struct {
	Version             MessageVersion
	Header              Header
	Accounts            []ed25519.PublicKey
	RecentBlockhash     Blockhash
	Instructions        []CompiledInstruction
	AddressTableLookups []MessageAddressTableLookup
}

// Transaction is an unsigned transaction. Signature slots are allocated for
// every required signer and left zeroed; signing happens elsewhere.
type Transaction struct {
	Signatures []Signature
	Message    Message
}

// NewTransaction compiles a legacy transaction.
func NewTransaction(payer ed25519.PublicKey, instructions ...Instruction) Transaction {
	return compileTransaction(payer, nil, instructions)
}

// NewVersionedTransaction compiles a transaction that may load non-signer
// accounts from the provided lookup tables. The result is a v0 transaction
// only when at least one account was loaded from a table.
func NewVersionedTransaction(payer ed25519.PublicKey, addressLookupTables []AddressLookupTable, instructions []Instruction) Transaction {
	return compileTransaction(payer, addressLookupTables, instructions)
}

func compileTransaction(payer ed25519.PublicKey, addressLookupTables []AddressLookupTable, instructions []Instruction) Transaction {
	accounts := []AccountMeta{
		{
			PublicKey:  payer,
			IsSigner:   true,
			IsWritable: true,
			isPayer:    true,
		},
	}
	for _, ix := range instructions {
		accounts = append(accounts, AccountMeta{
			PublicKey: ix.Program,
			isProgram: true,
		})
		accounts = append(accounts, ix.Accounts...)
	}

	// Payer first, then signers before non-signers, writable before readonly,
	// and program ids after everything else.
	accounts = filterUnique(accounts)
	sort.SliceStable(accounts, func(i, j int) bool {
		return lessAccountMeta(accounts[i], accounts[j])
	})

	tables := make([]AddressLookupTable, len(addressLookupTables))
	copy(tables, addressLookupTables)
	sort.Slice(tables, func(i, j int) bool {
		return bytes.Compare(tables[i].PublicKey, tables[j].PublicKey) < 0
	})

	writable := make([][]byte, len(tables))
	readonly := make([][]byte, len(tables))

	var m Message
	for _, account := range accounts {
		if account.isLoadable() {
			tableIndex, addressIndex := findInTables(tables, account.PublicKey)
			if tableIndex >= 0 {
				if account.IsWritable {
					writable[tableIndex] = append(writable[tableIndex], byte(addressIndex))
				} else {
					readonly[tableIndex] = append(readonly[tableIndex], byte(addressIndex))
				}
				continue
			}
		}

		m.Accounts = append(m.Accounts, account.PublicKey)
		switch {
		case account.IsSigner:
			m.Header.NumSignatures++
			if !account.IsWritable {
				m.Header.NumReadonlySigned++
			}
		case !account.IsWritable:
			m.Header.NumReadOnly++
		}
	}

	// Index references resolve against static keys, then all loaded writable
	// keys, then all loaded readonly keys.
	resolved := append([]ed25519.PublicKey{}, m.Accounts...)
	for i, indexes := range writable {
		for _, index := range indexes {
			resolved = append(resolved, tables[i].Addresses[index])
		}
	}
	for i, indexes := range readonly {
		for _, index := range indexes {
			resolved = append(resolved, tables[i].Addresses[index])
		}
	}

	for _, ix := range instructions {
		compiled := CompiledInstruction{
			ProgramIndex: byte(indexOf(resolved, ix.Program)),
			Data:         ix.Data,
		}
		for _, a := range ix.Accounts {
			compiled.Accounts = append(compiled.Accounts, byte(indexOf(resolved, a.PublicKey)))
		}
		m.Instructions = append(m.Instructions, compiled)
	}

	for i, table := range tables {
		if len(writable[i]) == 0 && len(readonly[i]) == 0 {
			continue
		}
		m.AddressTableLookups = append(m.AddressTableLookups, MessageAddressTableLookup{
			PublicKey:       table.PublicKey,
			WritableIndexes: writable[i],
			ReadonlyIndexes: readonly[i],
		})
	}
	if len(m.AddressTableLookups) > 0 {
		m.Version = MessageVersion0
	}

	return Transaction{
		Signatures: make([]Signature, m.Header.NumSignatures),
		Message:    m,
	}
}

func (a AccountMeta) isLoadable() bool {
	return !a.isPayer && !a.IsSigner && !a.isProgram
}

// findInTables returns the first table, and the first index within it,
// containing key.
func findInTables(tables []AddressLookupTable, key ed25519.PublicKey) (int, int) {
	for i, table := range tables {
		if j := table.IndexOf(key); j >= 0 && j <= 255 {
			return i, j
		}
	}
	return -1, -1
}

// SetBlockhash sets the recent blockhash of the message.
func (t *Transaction) SetBlockhash(bh Blockhash) {
	t.Message.RecentBlockhash = bh
}

// Size is the length of the serialized transaction, signatures included.
func (t *Transaction) Size() int {
	return len(t.Marshal())
}

// FitsInPacket reports whether the serialized transaction fits in a single
// network packet.
func (t *Transaction) FitsInPacket() bool {
	return t.Size() <= MaxTransactionSize
}

func (t *Transaction) String() string {
	var sb strings.Builder
	sb.WriteString("Signatures:\n")
	for i, s := range t.Signatures {
		sb.WriteString(fmt.Sprintf("  %d: %s\n", i, base58.Encode(s[:])))
	}
	sb.WriteString("Message:\n")
	sb.WriteString(fmt.Sprintf("  Version: %s\n", t.Message.Version.String()))
	sb.WriteString("  Header:\n")
	sb.WriteString(fmt.Sprintf("    NumSignatures: %d\n", t.Message.Header.NumSignatures))
	sb.WriteString(fmt.Sprintf("    NumReadOnly: %d\n", t.Message.Header.NumReadOnly))
	sb.WriteString(fmt.Sprintf("    NumReadOnlySigned: %d\n", t.Message.Header.NumReadonlySigned))
	sb.WriteString("  Static Accounts:\n")
	for i, a := range t.Message.Accounts {
		sb.WriteString(fmt.Sprintf("    %d: %s\n", i, base58.Encode(a)))
	}
	sb.WriteString("  Instructions:\n")
	for i, ix := range t.Message.Instructions {
		sb.WriteString(fmt.Sprintf("    %d: program=%d accounts=%v data=%x\n", i, ix.ProgramIndex, ix.Accounts, ix.Data))
	}
	for _, lookup := range t.Message.AddressTableLookups {
		sb.WriteString(fmt.Sprintf("  Lookup %s: writable=%v readonly=%v\n", base58.Encode(lookup.PublicKey), lookup.WritableIndexes, lookup.ReadonlyIndexes))
	}
	return sb.String()
}

// filterUnique merges duplicate account metas, promoting permissions so that
// a key is a signer or writable if any of its occurrences is.
func filterUnique(accounts []AccountMeta) []AccountMeta {
	filtered := make([]AccountMeta, 0, len(accounts))

outer:
	for _, account := range accounts {
		for j := range filtered {
			if !bytes.Equal(account.PublicKey, filtered[j].PublicKey) {
				continue
			}

			filtered[j].IsSigner = filtered[j].IsSigner || account.IsSigner
			filtered[j].IsWritable = filtered[j].IsWritable || account.IsWritable
			filtered[j].isPayer = filtered[j].isPayer || account.isPayer
			continue outer
		}

		filtered = append(filtered, account)
	}

	return filtered
}

func indexOf(slice []ed25519.PublicKey, item ed25519.PublicKey) int {
	for i, val := range slice {
		if bytes.Equal(val, item) {
			return i
		}
	}

	return -1
}

func (v MessageVersion) String() string {
	switch v {
	case MessageVersionLegacy:
		return "legacy"
	case MessageVersion0:
		return "v0"
	}
	return "unknown"
}
