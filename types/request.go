// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

// ValueRequest asks a peer for the decided value at a height.
type ValueRequest struct {
	Height Height
}

// ValueResponse answers a ValueRequest. Value is nil when the responder does
// not have the requested height.
type ValueResponse struct {
	Height Height
	Value  *RawDecidedValue
}

// VoteSetRequest asks a peer for the votes it has seen for a height and
// round, to let a stuck round recover.
type VoteSetRequest struct {
	Height Height
	Round  Round
}

// VoteSetResponse answers a VoteSetRequest.
type VoteSetResponse struct {
	Height Height
	Round  Round
	Votes  []SignedVote
}

// Request is either a ValueRequest or a VoteSetRequest.
type Request interface {
	isRequest()
}

func (ValueRequest) isRequest()   {}
func (VoteSetRequest) isRequest() {}
