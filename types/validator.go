// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import "github.com/luxfi/ids"

// Validator is a member of a validator set.
type Validator struct {
	Address     ids.NodeID
	PublicKey   []byte
	VotingPower uint64
}

// ValidatorSet is the set of validators for a height.
type ValidatorSet struct {
	Validators []Validator
}

// TotalVotingPower returns the sum of the voting power of all validators.
func (vs ValidatorSet) TotalVotingPower() uint64 {
	var total uint64
	for _, v := range vs.Validators {
		total += v.VotingPower
	}
	return total
}

// GetByAddress returns the validator with the given address, if present.
func (vs ValidatorSet) GetByAddress(addr ids.NodeID) (Validator, bool) {
	for _, v := range vs.Validators {
		if v.Address == addr {
			return v, true
		}
	}
	return Validator{}, false
}

// Len returns the number of validators in the set.
func (vs ValidatorSet) Len() int {
	return len(vs.Validators)
}
