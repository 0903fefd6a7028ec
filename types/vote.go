// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"fmt"

	"github.com/luxfi/ids"
)

// VoteType distinguishes the two voting steps of a round.
type VoteType uint8

const (
	VoteTypePrevote VoteType = iota
	VoteTypePrecommit
)

func (t VoteType) String() string {
	switch t {
	case VoteTypePrevote:
		return "prevote"
	case VoteTypePrecommit:
		return "precommit"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Vote is a single consensus vote. A vote for ids.Empty is a nil vote.
type Vote struct {
	Type      VoteType
	Height    Height
	Round     Round
	ValueID   ids.ID
	Validator ids.NodeID
}

// IsNilVote returns true iff the vote is for the nil value.
func (v Vote) IsNilVote() bool {
	return v.ValueID == ids.Empty
}

// SignedVote is a vote together with the validator's signature over it.
type SignedVote struct {
	Vote      Vote
	Signature []byte
}
