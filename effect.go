// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sync

import (
	"github.com/luxfi/sync/peer"
	"github.com/luxfi/sync/types"
)

// Effect is an externally-interpreted action produced by the engine. The
// host executes each effect in order: sends go out on the network, GetValue
// is answered by the application and fed back as a GotDecidedValue input.
type Effect interface {
	isEffect()
}

// BroadcastStatus instructs the host to gossip our status to direct peers.
type BroadcastStatus struct {
	Height types.Height
}

// SendValueRequest instructs the host to deliver a value request to a peer,
// assign it an OutboundRequestID, and start a timeout.
type SendValueRequest struct {
	Peer    peer.ID
	Request types.ValueRequest
}

// SendValueResponse instructs the host to reply on the inbound request
// identified by RequestID.
type SendValueResponse struct {
	RequestID InboundRequestID
	Response  types.ValueResponse
}

// GetValue instructs the host to ask the application for the decided value
// at a height and deliver the result back as a GotDecidedValue input.
type GetValue struct {
	RequestID InboundRequestID
	Height    types.Height
}

// SendVoteSetRequest instructs the host to deliver a vote set request to a
// peer, assign it an OutboundRequestID, and start a timeout.
type SendVoteSetRequest struct {
	Peer    peer.ID
	Request types.VoteSetRequest
}

func (BroadcastStatus) isEffect()    {}
func (SendValueRequest) isEffect()   {}
func (SendValueResponse) isEffect()  {}
func (GetValue) isEffect()           {}
func (SendVoteSetRequest) isEffect() {}
