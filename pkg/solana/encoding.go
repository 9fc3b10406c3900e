package solana

import (
	"bytes"
	"crypto/ed25519"
	"io"

	"github.com/pkg/errors"

	"github.com/code-payments/multisig-sdk/pkg/solana/shortvec"
)

// versionPrefix is set on the first byte of every versioned message. Legacy
// messages start with the signer count, which never has the high bit set.
const versionPrefix = 0x80

func (t Transaction) Marshal() []byte {
	b := bytes.NewBuffer(nil)

	_, _ = shortvec.EncodeLen(b, len(t.Signatures))
	for _, s := range t.Signatures {
		_, _ = b.Write(s[:])
	}

	_, _ = b.Write(t.Message.Marshal())

	return b.Bytes()
}

func (t *Transaction) Unmarshal(b []byte) error {
	buf := bytes.NewBuffer(b)

	sigLen, err := shortvec.DecodeLen(buf)
	if err != nil {
		return errors.Wrap(err, "failed to read signature length")
	}

	t.Signatures = make([]Signature, sigLen)
	for i := 0; i < sigLen; i++ {
		if _, err = io.ReadFull(buf, t.Signatures[i][:]); err != nil {
			return errors.Wrapf(err, "failed to read signature at %d", i)
		}
	}

	return (&t.Message).Unmarshal(buf.Bytes())
}

func (m Message) Marshal() []byte {
	b := bytes.NewBuffer(nil)

	switch m.Version {
	case MessageVersionLegacy:
	case MessageVersion0:
		_ = b.WriteByte(versionPrefix | byte(m.Version-1))
	default:
		panic("unsupported message version")
	}

	_ = b.WriteByte(m.Header.NumSignatures)
	_ = b.WriteByte(m.Header.NumReadonlySigned)
	_ = b.WriteByte(m.Header.NumReadOnly)

	_, _ = shortvec.EncodeLen(b, len(m.Accounts))
	for _, a := range m.Accounts {
		_, _ = b.Write(a)
	}

	_, _ = b.Write(m.RecentBlockhash[:])

	_, _ = shortvec.EncodeLen(b, len(m.Instructions))
	for _, i := range m.Instructions {
		_ = b.WriteByte(i.ProgramIndex)

		_, _ = shortvec.EncodeLen(b, len(i.Accounts))
		_, _ = b.Write(i.Accounts)

		_, _ = shortvec.EncodeLen(b, len(i.Data))
		_, _ = b.Write(i.Data)
	}

	if m.Version == MessageVersionLegacy {
		return b.Bytes()
	}

	_, _ = shortvec.EncodeLen(b, len(m.AddressTableLookups))
	for _, lookup := range m.AddressTableLookups {
		_, _ = b.Write(lookup.PublicKey)

		_, _ = shortvec.EncodeLen(b, len(lookup.WritableIndexes))
		_, _ = b.Write(lookup.WritableIndexes)

		_, _ = shortvec.EncodeLen(b, len(lookup.ReadonlyIndexes))
		_, _ = b.Write(lookup.ReadonlyIndexes)
	}

	return b.Bytes()
}

func (m *Message) Unmarshal(b []byte) (err error) {
	if len(b) == 0 {
		return errors.New("empty message")
	}

	buf := bytes.NewBuffer(b)

	m.Version = MessageVersionLegacy
	if b[0]&versionPrefix != 0 {
		version, _ := buf.ReadByte()
		if version&^versionPrefix != 0 {
			return errors.Errorf("unsupported message version: %d", version&^versionPrefix)
		}
		m.Version = MessageVersion0
	}

	if m.Header.NumSignatures, err = buf.ReadByte(); err != nil {
		return errors.Wrap(err, "failed to read num signatures")
	}
	if m.Header.NumReadonlySigned, err = buf.ReadByte(); err != nil {
		return errors.Wrap(err, "failed to read num readonly signatures")
	}
	if m.Header.NumReadOnly, err = buf.ReadByte(); err != nil {
		return errors.Wrap(err, "failed to read num readonly")
	}

	accountLen, err := shortvec.DecodeLen(buf)
	if err != nil {
		return errors.Wrap(err, "failed to read account len")
	}
	m.Accounts = make([]ed25519.PublicKey, accountLen)
	for i := 0; i < accountLen; i++ {
		m.Accounts[i] = make([]byte, ed25519.PublicKeySize)
		if _, err = io.ReadFull(buf, m.Accounts[i]); err != nil {
			return errors.Wrapf(err, "failed to read account at index %d", i)
		}
	}

	if _, err = io.ReadFull(buf, m.RecentBlockhash[:]); err != nil {
		return errors.Wrap(err, "failed to read recent block hash")
	}

	instructionLen, err := shortvec.DecodeLen(buf)
	if err != nil {
		return errors.Wrap(err, "failed to read instruction len")
	}
	m.Instructions = make([]CompiledInstruction, instructionLen)
	for i := 0; i < instructionLen; i++ {
		if m.Instructions[i], err = unmarshalCompiledInstruction(buf); err != nil {
			return errors.Wrapf(err, "failed to read instruction[%d]", i)
		}
	}

	m.AddressTableLookups = nil
	if m.Version == MessageVersion0 {
		lookupLen, err := shortvec.DecodeLen(buf)
		if err != nil {
			return errors.Wrap(err, "failed to read address table lookup len")
		}
		m.AddressTableLookups = make([]MessageAddressTableLookup, lookupLen)
		for i := 0; i < lookupLen; i++ {
			if m.AddressTableLookups[i], err = unmarshalAddressTableLookup(buf); err != nil {
				return errors.Wrapf(err, "failed to read address table lookup[%d]", i)
			}
		}
	}

	// Indexes may point past the static keys into loaded addresses, which
	// can only be bounded once the lookups are known.
	maxIndex := len(m.Accounts)
	for _, lookup := range m.AddressTableLookups {
		maxIndex += len(lookup.WritableIndexes) + len(lookup.ReadonlyIndexes)
	}
	for i, c := range m.Instructions {
		if int(c.ProgramIndex) >= maxIndex {
			return errors.Errorf("program index out of range: %d:%d", i, c.ProgramIndex)
		}
		for _, index := range c.Accounts {
			if int(index) >= maxIndex {
				return errors.Errorf("account index out of range: %d:%d", i, index)
			}
		}
	}

	return nil
}

func unmarshalCompiledInstruction(buf *bytes.Buffer) (c CompiledInstruction, err error) {
	if c.ProgramIndex, err = buf.ReadByte(); err != nil {
		return c, errors.Wrap(err, "failed to read program index")
	}

	accountLen, err := shortvec.DecodeLen(buf)
	if err != nil {
		return c, errors.Wrap(err, "failed to read account len")
	}
	c.Accounts = make([]byte, accountLen)
	if _, err = io.ReadFull(buf, c.Accounts); err != nil {
		return c, errors.Wrap(err, "failed to read accounts")
	}

	dataLen, err := shortvec.DecodeLen(buf)
	if err != nil {
		return c, errors.Wrap(err, "failed to read data len")
	}
	c.Data = make([]byte, dataLen)
	if _, err = io.ReadFull(buf, c.Data); err != nil {
		return c, errors.Wrap(err, "failed to read data")
	}

	return c, nil
}

func unmarshalAddressTableLookup(buf *bytes.Buffer) (l MessageAddressTableLookup, err error) {
	l.PublicKey = make([]byte, ed25519.PublicKeySize)
	if _, err = io.ReadFull(buf, l.PublicKey); err != nil {
		return l, errors.Wrap(err, "failed to read table key")
	}

	writableLen, err := shortvec.DecodeLen(buf)
	if err != nil {
		return l, errors.Wrap(err, "failed to read writable index len")
	}
	l.WritableIndexes = make([]byte, writableLen)
	if _, err = io.ReadFull(buf, l.WritableIndexes); err != nil {
		return l, errors.Wrap(err, "failed to read writable indexes")
	}

	readonlyLen, err := shortvec.DecodeLen(buf)
	if err != nil {
		return l, errors.Wrap(err, "failed to read readonly index len")
	}
	l.ReadonlyIndexes = make([]byte, readonlyLen)
	if _, err = io.ReadFull(buf, l.ReadonlyIndexes); err != nil {
		return l, errors.Wrap(err, "failed to read readonly indexes")
	}

	return l, nil
}
