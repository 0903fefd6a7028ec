// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sync

import (
	"github.com/luxfi/sync/peer"
	"github.com/luxfi/sync/types"
)

// InboundRequestID identifies a request received from a peer. It is assigned
// by the host transport and echoed back when responding.
type InboundRequestID uint64

// OutboundRequestID identifies a request we sent to a peer. It is assigned
// by the host transport when interpreting a send effect.
type OutboundRequestID uint64

// Input is an event delivered to the sync engine. Exactly one input is
// processed at a time, and each produces a deterministic ordered sequence of
// effects.
type Input interface {
	isInput()
}

// Tick is the periodic input driven by the host timer.
type Tick struct{}

// Status is a status update received from a peer.
type Status struct {
	Status types.Status
}

// StartHeight signals that consensus just started a new height.
type StartHeight struct {
	Height types.Height
}

// UpdateHeight signals that consensus just decided a new value.
type UpdateHeight struct {
	Height types.Height
}

// ValueRequest is a request for a decided value received from a peer.
type ValueRequest struct {
	RequestID InboundRequestID
	Peer      peer.ID
	Request   types.ValueRequest
}

// ValueResponse is a response to one of our value requests.
type ValueResponse struct {
	RequestID OutboundRequestID
	Peer      peer.ID
	Response  types.ValueResponse
}

// GotDecidedValue is the application's answer to a GetValue effect.
type GotDecidedValue struct {
	RequestID InboundRequestID
	Height    types.Height
	Value     *types.RawDecidedValue
}

// SyncRequestTimedOut signals that an outbound request expired without a
// response.
type SyncRequestTimedOut struct {
	Peer    peer.ID
	Request types.Request
}

// InvalidCertificate signals that a synced value's commit certificate failed
// validation by the consensus engine.
type InvalidCertificate struct {
	Peer        peer.ID
	Certificate types.CommitCertificate
	Err         error
}

// GetVoteSet signals that consensus needs the votes for a height and round
// to recover a stuck round.
type GetVoteSet struct {
	Height types.Height
	Round  types.Round
}

// VoteSetRequest is a request for a vote set received from a peer.
type VoteSetRequest struct {
	RequestID InboundRequestID
	Peer      peer.ID
	Request   types.VoteSetRequest
}

// GotVoteSet signals that the host answered an inbound vote set request.
type GotVoteSet struct {
	RequestID InboundRequestID
	Height    types.Height
	Round     types.Round
}

// VoteSetResponse is a response to one of our vote set requests.
type VoteSetResponse struct {
	RequestID OutboundRequestID
	Peer      peer.ID
	Response  types.VoteSetResponse
}

func (Tick) isInput()                {}
func (Status) isInput()              {}
func (StartHeight) isInput()         {}
func (UpdateHeight) isInput()        {}
func (ValueRequest) isInput()        {}
func (ValueResponse) isInput()       {}
func (GotDecidedValue) isInput()     {}
func (SyncRequestTimedOut) isInput() {}
func (InvalidCertificate) isInput()  {}
func (GetVoteSet) isInput()          {}
func (VoteSetRequest) isInput()      {}
func (GotVoteSet) isInput()          {}
func (VoteSetResponse) isInput()     {}
