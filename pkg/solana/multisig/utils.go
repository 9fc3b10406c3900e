package multisig

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const discriminatorSize = 8

// Anchor prefixes account data with sha256("account:<Name>")[:8] and
// instruction data with sha256("global:<name>")[:8].
func accountDiscriminator(name string) []byte {
	return anchorDiscriminator("account", name)
}

func instructionDiscriminator(name string) []byte {
	return anchorDiscriminator("global", name)
}

func anchorDiscriminator(namespace, name string) []byte {
	h := sha256.Sum256([]byte(namespace + ":" + name))
	return h[:discriminatorSize]
}

// borshDecoder wraps a bin.Decoder and keeps the first error, so account
// decoders can read field after field and check once at the end.
type borshDecoder struct {
	dec *bin.Decoder
	err error
}

func newBorshDecoder(data []byte) *borshDecoder {
	return &borshDecoder{dec: bin.NewBorshDecoder(data)}
}

func (d *borshDecoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *borshDecoder) discriminator(expected []byte) {
	if d.err != nil {
		return
	}
	actual, err := d.dec.ReadNBytes(discriminatorSize)
	if err != nil {
		d.fail(err)
		return
	}
	if !bytes.Equal(actual, expected) {
		d.fail(errors.Errorf("unexpected discriminator %x", actual))
	}
}

func (d *borshDecoder) key(dst *ed25519.PublicKey) {
	if d.err != nil {
		return
	}
	b, err := d.dec.ReadNBytes(ed25519.PublicKeySize)
	if err != nil {
		d.fail(err)
		return
	}
	*dst = append(ed25519.PublicKey{}, b...)
}

func (d *borshDecoder) optionalKey(dst *ed25519.PublicKey) {
	if !d.option() {
		*dst = nil
		return
	}
	d.key(dst)
}

// option reads a Borsh Option tag.
func (d *borshDecoder) option() bool {
	if d.err != nil {
		return false
	}
	tag, err := d.dec.ReadUint8()
	if err != nil {
		d.fail(err)
		return false
	}
	switch tag {
	case 0:
		return false
	case 1:
		return true
	}
	d.fail(errors.Errorf("invalid option tag %d", tag))
	return false
}

func (d *borshDecoder) bool(dst *bool) {
	if d.err != nil {
		return
	}
	v, err := d.dec.ReadUint8()
	if err != nil {
		d.fail(err)
		return
	}
	if v > 1 {
		d.fail(errors.Errorf("invalid bool %d", v))
		return
	}
	*dst = v == 1
}

func (d *borshDecoder) uint8(dst *uint8) {
	if d.err != nil {
		return
	}
	*dst, d.err = d.dec.ReadUint8()
}

func (d *borshDecoder) uint16(dst *uint16) {
	if d.err != nil {
		return
	}
	*dst, d.err = d.dec.ReadUint16(bin.LE)
}

func (d *borshDecoder) uint32(dst *uint32) {
	if d.err != nil {
		return
	}
	*dst, d.err = d.dec.ReadUint32(bin.LE)
}

func (d *borshDecoder) uint64(dst *uint64) {
	if d.err != nil {
		return
	}
	*dst, d.err = d.dec.ReadUint64(bin.LE)
}

func (d *borshDecoder) int64(dst *int64) {
	if d.err != nil {
		return
	}
	*dst, d.err = d.dec.ReadInt64(bin.LE)
}

// length reads a u32 vector length, rejecting lengths that cannot fit in
// the remaining data given the minimum element size.
func (d *borshDecoder) length(minElementSize int) int {
	if d.err != nil {
		return 0
	}
	n, err := d.dec.ReadLength()
	if err != nil {
		d.fail(err)
		return 0
	}
	if n*minElementSize > d.dec.Remaining() {
		d.fail(errors.Errorf("vector length %d exceeds remaining data", n))
		return 0
	}
	return n
}

func (d *borshDecoder) bytes(dst *[]byte) {
	n := d.length(1)
	if d.err != nil {
		return
	}
	b, err := d.dec.ReadNBytes(n)
	if err != nil {
		d.fail(err)
		return
	}
	*dst = append([]byte{}, b...)
}

func (d *borshDecoder) optionalString(dst **string) {
	if !d.option() {
		return
	}
	var b []byte
	d.bytes(&b)
	if d.err != nil {
		return
	}
	s := string(b)
	*dst = &s
}

func (d *borshDecoder) keys(dst *[]ed25519.PublicKey) {
	n := d.length(ed25519.PublicKeySize)
	if d.err != nil {
		return
	}
	*dst = make([]ed25519.PublicKey, n)
	for i := range *dst {
		d.key(&(*dst)[i])
	}
}

func (d *borshDecoder) done() error {
	return d.err
}

// doneExact is like done, but also rejects trailing bytes.
func (d *borshDecoder) doneExact() error {
	if d.err == nil && d.dec.HasRemaining() {
		d.fail(errors.Errorf("%d trailing bytes", d.dec.Remaining()))
	}
	return d.err
}

// borshEncoder mirrors borshDecoder for instruction arguments. Writes go to
// an in-memory buffer and cannot fail.
type borshEncoder struct {
	buf *bytes.Buffer
	enc *bin.Encoder
}

func newBorshEncoder() *borshEncoder {
	buf := new(bytes.Buffer)
	return &borshEncoder{
		buf: buf,
		enc: bin.NewBorshEncoder(buf),
	}
}

func (e *borshEncoder) raw(b []byte) {
	_ = e.enc.WriteBytes(b, false)
}

func (e *borshEncoder) key(key ed25519.PublicKey) {
	var fixed [ed25519.PublicKeySize]byte
	copy(fixed[:], key)
	e.raw(fixed[:])
}

func (e *borshEncoder) optionalKey(key ed25519.PublicKey) {
	_ = e.enc.WriteOption(len(key) > 0)
	if len(key) > 0 {
		e.key(key)
	}
}

func (e *borshEncoder) optionalString(s *string) {
	_ = e.enc.WriteOption(s != nil)
	if s != nil {
		_ = e.enc.WriteString(*s)
	}
}

func (e *borshEncoder) bool(v bool) {
	_ = e.enc.WriteBool(v)
}

func (e *borshEncoder) uint8(v uint8) {
	_ = e.enc.WriteUint8(v)
}

func (e *borshEncoder) uint16(v uint16) {
	_ = e.enc.WriteUint16(v, bin.LE)
}

func (e *borshEncoder) uint32(v uint32) {
	_ = e.enc.WriteUint32(v, bin.LE)
}

func (e *borshEncoder) uint64(v uint64) {
	_ = e.enc.WriteUint64(v, bin.LE)
}

func (e *borshEncoder) bytes(b []byte) {
	_ = e.enc.WriteBytes(b, true)
}

func (e *borshEncoder) keys(keys []ed25519.PublicKey) {
	_ = e.enc.WriteLength(len(keys))
	for _, key := range keys {
		e.key(key)
	}
}

func (e *borshEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

func keysString(keys []ed25519.PublicKey) string {
	values := make([]string, len(keys))
	for i, key := range keys {
		values[i] = base58.Encode(key)
	}
	return fmt.Sprintf("[%s]", strings.Join(values, ","))
}

func optionalKeyString(key ed25519.PublicKey) string {
	if len(key) == 0 {
		return "none"
	}
	return base58.Encode(key)
}
