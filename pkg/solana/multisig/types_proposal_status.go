package multisig

import (
	"fmt"

	"github.com/pkg/errors"
)

type ProposalStatusKind uint8

const (
	ProposalStatusDraft ProposalStatusKind = iota
	ProposalStatusActive
	ProposalStatusRejected
	ProposalStatusApproved
	// ProposalStatusExecuting is only found on proposals from older program
	// versions and carries no timestamp.
	ProposalStatusExecuting
	ProposalStatusExecuted
	ProposalStatusCancelled
)

type ProposalStatus struct {
	Kind      ProposalStatusKind
	Timestamp int64
}

func (d *borshDecoder) proposalStatus(dst *ProposalStatus) {
	var kind uint8
	d.uint8(&kind)
	if d.err != nil {
		return
	}

	dst.Kind = ProposalStatusKind(kind)
	dst.Timestamp = 0
	switch dst.Kind {
	case ProposalStatusExecuting:
	case ProposalStatusDraft, ProposalStatusActive, ProposalStatusRejected, ProposalStatusApproved, ProposalStatusExecuted, ProposalStatusCancelled:
		d.int64(&dst.Timestamp)
	default:
		d.fail(errors.Errorf("invalid proposal status %d", kind))
	}
}

// IsTerminal reports whether the proposal can no longer change state,
// other than being closed.
func (s ProposalStatus) IsTerminal() bool {
	switch s.Kind {
	case ProposalStatusRejected, ProposalStatusExecuted, ProposalStatusCancelled:
		return true
	}
	return false
}

func (k ProposalStatusKind) String() string {
	switch k {
	case ProposalStatusDraft:
		return "draft"
	case ProposalStatusActive:
		return "active"
	case ProposalStatusRejected:
		return "rejected"
	case ProposalStatusApproved:
		return "approved"
	case ProposalStatusExecuting:
		return "executing"
	case ProposalStatusExecuted:
		return "executed"
	case ProposalStatusCancelled:
		return "cancelled"
	}
	return "unknown"
}

func (s ProposalStatus) String() string {
	if s.Kind == ProposalStatusExecuting {
		return s.Kind.String()
	}
	return fmt.Sprintf("%s(%d)", s.Kind, s.Timestamp)
}
