package multisig

import (
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

type Permission uint8

const (
	PermissionInitiate Permission = 1 << iota
	PermissionVote
	PermissionExecute
)

// Permissions is a bit mask of Permission values.
type Permissions uint8

const PermissionsAll = Permissions(PermissionInitiate | PermissionVote | PermissionExecute)

func NewPermissions(permissions ...Permission) Permissions {
	var mask Permissions
	for _, p := range permissions {
		mask |= Permissions(p)
	}
	return mask
}

func (p Permissions) Has(permission Permission) bool {
	return p&Permissions(permission) != 0
}

func (p Permissions) String() string {
	var names []string
	if p.Has(PermissionInitiate) {
		names = append(names, "initiate")
	}
	if p.Has(PermissionVote) {
		names = append(names, "vote")
	}
	if p.Has(PermissionExecute) {
		names = append(names, "execute")
	}
	return fmt.Sprintf("[%s]", strings.Join(names, ","))
}

const MemberSize = (32 + // key
	1) // permissions

type Member struct {
	Key         ed25519.PublicKey
	Permissions Permissions
}

func (d *borshDecoder) member(dst *Member) {
	d.key(&dst.Key)

	var mask uint8
	d.uint8(&mask)
	dst.Permissions = Permissions(mask)
}

func (d *borshDecoder) members(dst *[]Member) {
	n := d.length(MemberSize)
	if d.err != nil {
		return
	}
	*dst = make([]Member, n)
	for i := range *dst {
		d.member(&(*dst)[i])
	}
}

func (e *borshEncoder) member(m Member) {
	e.key(m.Key)
	e.uint8(uint8(m.Permissions))
}

func (e *borshEncoder) members(members []Member) {
	_ = e.enc.WriteLength(len(members))
	for _, m := range members {
		e.member(m)
	}
}

func (m Member) String() string {
	return fmt.Sprintf("Member{key=%s,permissions=%s}", base58.Encode(m.Key), m.Permissions)
}

func membersString(members []Member) string {
	values := make([]string, len(members))
	for i, m := range members {
		values[i] = m.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(values, ","))
}
