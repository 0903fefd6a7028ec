// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import "strconv"

// Round is a within-height ballot number. RoundNil denotes the absence of a
// round; all real rounds are non-negative.
type Round int64

// RoundNil is the nil round.
const RoundNil Round = -1

// NewRound returns a Round for the given value, mapping negatives to RoundNil.
func NewRound(r int64) Round {
	if r < 0 {
		return RoundNil
	}
	return Round(r)
}

// IsNil returns true iff the round is the nil round.
func (r Round) IsNil() bool {
	return r == RoundNil
}

// IsDefined returns true iff the round is a real, non-negative round.
func (r Round) IsDefined() bool {
	return r >= 0
}

func (r Round) String() string {
	if r.IsNil() {
		return "nil"
	}
	return strconv.FormatInt(int64(r), 10)
}
