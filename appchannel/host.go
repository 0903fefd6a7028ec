// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package appchannel

import (
	"time"

	"github.com/luxfi/ids"

	"github.com/luxfi/sync/peer"
	"github.com/luxfi/sync/types"
)

// ConsensusRef is the consensus actor's address, used to cast directives
// back to it.
type ConsensusRef interface {
	Cast(ConsensusMsg) error
}

// HostMsg is a message sent from the consensus engine to the bridge. The
// ReplyTo slots belong to the original requester; the bridge forwards the
// application's answer to them.
type HostMsg interface {
	isHostMsg()
}

// HostConsensusReady signals that consensus is ready. The application's
// StartHeight reply is cast to Consensus.
type HostConsensusReady struct {
	Consensus ConsensusRef
}

// HostStartedRound signals that a new round has begun.
type HostStartedRound struct {
	Height   types.Height
	Round    types.Round
	Proposer ids.NodeID
}

// HostGetValue asks the application to build a value within Timeout.
type HostGetValue struct {
	Height  types.Height
	Round   types.Round
	Timeout time.Duration
	ReplyTo chan<- types.LocallyProposedValue
}

// HostRestreamValue asks the application to re-stream an already-seen
// proposal.
type HostRestreamValue struct {
	Height     types.Height
	Round      types.Round
	ValidRound types.Round
	Address    ids.NodeID
	ValueID    ids.ID
}

// HostGetHistoryMinHeight asks for the earliest height in the application's
// history.
type HostGetHistoryMinHeight struct {
	ReplyTo chan<- types.Height
}

// HostReceivedProposalPart forwards a proposal part received from the
// network. Only complete values are forwarded back to ReplyTo.
type HostReceivedProposalPart struct {
	From    peer.ID
	Part    types.StreamMessage
	ReplyTo chan<- types.ProposedValue
}

// HostGetValidatorSet asks for the validator set at a height.
type HostGetValidatorSet struct {
	Height  types.Height
	ReplyTo chan<- types.ValidatorSet
}

// HostDecided signals that consensus decided on a value. The application's
// StartHeight reply is cast to Consensus.
type HostDecided struct {
	Certificate types.CommitCertificate
	Consensus   ConsensusRef
}

// HostGetDecidedValue asks the application's storage for a decided value.
type HostGetDecidedValue struct {
	Height  types.Height
	ReplyTo chan<- *types.RawDecidedValue
}

// HostProcessSyncedValue asks the application to decode a value synced from
// the network.
type HostProcessSyncedValue struct {
	Height           types.Height
	Round            types.Round
	ValidatorAddress ids.NodeID
	ValueBytes       []byte
	ReplyTo          chan<- types.ProposedValue
}

// HostPeerJoined signals that a peer joined our local view of the network.
type HostPeerJoined struct {
	PeerID peer.ID
}

// HostPeerLeft signals that a peer left our local view of the network.
type HostPeerLeft struct {
	PeerID peer.ID
}

func (HostConsensusReady) isHostMsg()       {}
func (HostStartedRound) isHostMsg()         {}
func (HostGetValue) isHostMsg()             {}
func (HostRestreamValue) isHostMsg()        {}
func (HostGetHistoryMinHeight) isHostMsg()  {}
func (HostReceivedProposalPart) isHostMsg() {}
func (HostGetValidatorSet) isHostMsg()      {}
func (HostDecided) isHostMsg()              {}
func (HostGetDecidedValue) isHostMsg()      {}
func (HostProcessSyncedValue) isHostMsg()   {}
func (HostPeerJoined) isHostMsg()           {}
func (HostPeerLeft) isHostMsg()             {}
