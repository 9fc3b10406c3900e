package multisig

import (
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

type ConfigActionKind uint8

const (
	ConfigActionKindAddMember ConfigActionKind = iota
	ConfigActionKindRemoveMember
	ConfigActionKindChangeThreshold
	ConfigActionKindSetTimeLock
	ConfigActionKindAddSpendingLimit
	ConfigActionKindRemoveSpendingLimit
	ConfigActionKindSetRentCollector
)

// ConfigAction is a change to the multisig settings, applied when a config
// transaction executes.
type ConfigAction interface {
	Kind() ConfigActionKind
	String() string

	marshal(e *borshEncoder)
}

type AddMemberAction struct {
	NewMember Member
}

type RemoveMemberAction struct {
	OldMember ed25519.PublicKey
}

type ChangeThresholdAction struct {
	NewThreshold uint16
}

type SetTimeLockAction struct {
	NewTimeLock uint32
}

type AddSpendingLimitAction struct {
	// CreateKey seeds the spending limit address. See GetSpendingLimitAddress.
	CreateKey    ed25519.PublicKey
	VaultIndex   uint8
	Mint         ed25519.PublicKey
	Amount       uint64
	Period       Period
	Members      []ed25519.PublicKey
	Destinations []ed25519.PublicKey
}

type RemoveSpendingLimitAction struct {
	SpendingLimit ed25519.PublicKey
}

// SetRentCollectorAction clears the rent collector when NewRentCollector is
// nil.
type SetRentCollectorAction struct {
	NewRentCollector ed25519.PublicKey
}

func (AddMemberAction) Kind() ConfigActionKind           { return ConfigActionKindAddMember }
func (RemoveMemberAction) Kind() ConfigActionKind        { return ConfigActionKindRemoveMember }
func (ChangeThresholdAction) Kind() ConfigActionKind     { return ConfigActionKindChangeThreshold }
func (SetTimeLockAction) Kind() ConfigActionKind         { return ConfigActionKindSetTimeLock }
func (AddSpendingLimitAction) Kind() ConfigActionKind    { return ConfigActionKindAddSpendingLimit }
func (RemoveSpendingLimitAction) Kind() ConfigActionKind { return ConfigActionKindRemoveSpendingLimit }
func (SetRentCollectorAction) Kind() ConfigActionKind    { return ConfigActionKindSetRentCollector }

func (a AddMemberAction) marshal(e *borshEncoder) {
	e.uint8(uint8(a.Kind()))
	e.member(a.NewMember)
}

func (a RemoveMemberAction) marshal(e *borshEncoder) {
	e.uint8(uint8(a.Kind()))
	e.key(a.OldMember)
}

func (a ChangeThresholdAction) marshal(e *borshEncoder) {
	e.uint8(uint8(a.Kind()))
	e.uint16(a.NewThreshold)
}

func (a SetTimeLockAction) marshal(e *borshEncoder) {
	e.uint8(uint8(a.Kind()))
	e.uint32(a.NewTimeLock)
}

func (a AddSpendingLimitAction) marshal(e *borshEncoder) {
	e.uint8(uint8(a.Kind()))
	e.key(a.CreateKey)
	e.uint8(a.VaultIndex)
	e.key(a.Mint)
	e.uint64(a.Amount)
	e.uint8(uint8(a.Period))
	e.keys(a.Members)
	e.keys(a.Destinations)
}

func (a RemoveSpendingLimitAction) marshal(e *borshEncoder) {
	e.uint8(uint8(a.Kind()))
	e.key(a.SpendingLimit)
}

func (a SetRentCollectorAction) marshal(e *borshEncoder) {
	e.uint8(uint8(a.Kind()))
	e.optionalKey(a.NewRentCollector)
}

func (d *borshDecoder) configAction(dst *ConfigAction) {
	var kind uint8
	d.uint8(&kind)
	if d.err != nil {
		return
	}

	switch ConfigActionKind(kind) {
	case ConfigActionKindAddMember:
		var a AddMemberAction
		d.member(&a.NewMember)
		*dst = a
	case ConfigActionKindRemoveMember:
		var a RemoveMemberAction
		d.key(&a.OldMember)
		*dst = a
	case ConfigActionKindChangeThreshold:
		var a ChangeThresholdAction
		d.uint16(&a.NewThreshold)
		*dst = a
	case ConfigActionKindSetTimeLock:
		var a SetTimeLockAction
		d.uint32(&a.NewTimeLock)
		*dst = a
	case ConfigActionKindAddSpendingLimit:
		var a AddSpendingLimitAction
		d.key(&a.CreateKey)
		d.uint8(&a.VaultIndex)
		d.key(&a.Mint)
		d.uint64(&a.Amount)
		d.period(&a.Period)
		d.keys(&a.Members)
		d.keys(&a.Destinations)
		*dst = a
	case ConfigActionKindRemoveSpendingLimit:
		var a RemoveSpendingLimitAction
		d.key(&a.SpendingLimit)
		*dst = a
	case ConfigActionKindSetRentCollector:
		var a SetRentCollectorAction
		d.optionalKey(&a.NewRentCollector)
		*dst = a
	default:
		d.fail(errors.Errorf("invalid config action %d", kind))
	}
}

func (d *borshDecoder) configActions(dst *[]ConfigAction) {
	// The smallest action, clearing the rent collector, is two bytes.
	n := d.length(2)
	if d.err != nil {
		return
	}
	*dst = make([]ConfigAction, n)
	for i := range *dst {
		d.configAction(&(*dst)[i])
	}
}

func (e *borshEncoder) configActions(actions []ConfigAction) {
	_ = e.enc.WriteLength(len(actions))
	for _, a := range actions {
		a.marshal(e)
	}
}

func (a AddMemberAction) String() string {
	return fmt.Sprintf("AddMember{new_member=%s}", a.NewMember)
}

func (a RemoveMemberAction) String() string {
	return fmt.Sprintf("RemoveMember{old_member=%s}", base58.Encode(a.OldMember))
}

func (a ChangeThresholdAction) String() string {
	return fmt.Sprintf("ChangeThreshold{new_threshold=%d}", a.NewThreshold)
}

func (a SetTimeLockAction) String() string {
	return fmt.Sprintf("SetTimeLock{new_time_lock=%d}", a.NewTimeLock)
}

func (a AddSpendingLimitAction) String() string {
	return fmt.Sprintf(
		"AddSpendingLimit{create_key=%s,vault_index=%d,mint=%s,amount=%d,period=%s,members=%s,destinations=%s}",
		base58.Encode(a.CreateKey),
		a.VaultIndex,
		base58.Encode(a.Mint),
		a.Amount,
		a.Period,
		keysString(a.Members),
		keysString(a.Destinations),
	)
}

func (a RemoveSpendingLimitAction) String() string {
	return fmt.Sprintf("RemoveSpendingLimit{spending_limit=%s}", base58.Encode(a.SpendingLimit))
}

func (a SetRentCollectorAction) String() string {
	return fmt.Sprintf("SetRentCollector{new_rent_collector=%s}", optionalKeyString(a.NewRentCollector))
}

func configActionsString(actions []ConfigAction) string {
	values := make([]string, len(actions))
	for i, a := range actions {
		values[i] = a.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(values, ","))
}
