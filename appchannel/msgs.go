// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package appchannel bridges the consensus engine and an externally-written
// application over a pair of channels.
//
// The consensus engine addresses the application through HostMsg values; the
// Connector translates each into an AppMsg pushed onto a bounded mailbox.
// Request/reply interactions allocate a single-use reply slot per request,
// and the reply is forwarded back to the original requester once the
// application answers.
package appchannel

import (
	"time"

	"github.com/luxfi/ids"

	"github.com/luxfi/sync/peer"
	"github.com/luxfi/sync/types"
)

// Channels is the application's side of the bridge.
type Channels struct {
	// Consensus delivers messages from consensus to the application.
	Consensus <-chan AppMsg

	// Network lets the application publish directly to the networking
	// layer, e.g. when re-streaming a proposal.
	Network chan<- NetworkMsg
}

// AppMsg is a message sent from consensus to the application. Messages that
// carry a Reply slot expect exactly one answer; the slot must be closed
// instead if the application cannot answer.
type AppMsg interface {
	isAppMsg()
}

// ConsensusReady notifies the application that consensus is ready. The
// application replies with a StartHeight directive naming the height and
// validator set to begin with.
type ConsensusReady struct {
	Reply chan<- ConsensusMsg
}

// StartedRound notifies the application that a new round has begun.
type StartedRound struct {
	Height   types.Height
	Round    types.Round
	Proposer ids.NodeID
}

// GetValue requests the application to build a value for consensus to run
// on. The application must reply within Timeout.
type GetValue struct {
	Height  types.Height
	Round   types.Round
	Timeout time.Duration
	Reply   chan<- types.LocallyProposedValue
}

// RestreamProposal requests the application to re-publish all proposal
// parts for a value it has already seen, via the network channel.
type RestreamProposal struct {
	Height     types.Height
	Round      types.Round
	ValidRound types.Round
	Address    ids.NodeID
	ValueID    ids.ID
}

// GetHistoryMinHeight requests the earliest height available in the
// application's history.
type GetHistoryMinHeight struct {
	Reply chan<- types.Height
}

// ReceivedProposalPart notifies the application of a proposal part received
// over the network. The application replies with the complete value once the
// part completes a proposal, or nil if the proposal is still incomplete.
type ReceivedProposalPart struct {
	From  peer.ID
	Part  types.StreamMessage
	Reply chan<- *types.ProposedValue
}

// GetValidatorSet requests the validator set for a height.
type GetValidatorSet struct {
	Height types.Height
	Reply  chan<- types.ValidatorSet
}

// Decided notifies the application that consensus decided on a value. The
// application replies with a StartHeight directive for the next height.
type Decided struct {
	Certificate types.CommitCertificate
	Reply       chan<- ConsensusMsg
}

// GetDecidedValue requests a previously decided value from the
// application's storage. The reply is nil when the value is unavailable.
type GetDecidedValue struct {
	Height types.Height
	Reply  chan<- *types.RawDecidedValue
}

// ProcessSyncedValue notifies the application of a value synced from the
// network. The application replies with the decoded proposed value.
type ProcessSyncedValue struct {
	Height     types.Height
	Round      types.Round
	Proposer   ids.NodeID
	ValueBytes []byte
	Reply      chan<- types.ProposedValue
}

// PeerJoined notifies the application that a peer joined our local view of
// the network.
type PeerJoined struct {
	PeerID peer.ID
}

// PeerLeft notifies the application that a peer left our local view of the
// network.
type PeerLeft struct {
	PeerID peer.ID
}

func (ConsensusReady) isAppMsg()       {}
func (StartedRound) isAppMsg()         {}
func (GetValue) isAppMsg()             {}
func (RestreamProposal) isAppMsg()     {}
func (GetHistoryMinHeight) isAppMsg()  {}
func (ReceivedProposalPart) isAppMsg() {}
func (GetValidatorSet) isAppMsg()      {}
func (Decided) isAppMsg()              {}
func (GetDecidedValue) isAppMsg()      {}
func (ProcessSyncedValue) isAppMsg()   {}
func (PeerJoined) isAppMsg()           {}
func (PeerLeft) isAppMsg()             {}

// ConsensusMsg is a directive sent from the application back to consensus.
type ConsensusMsg interface {
	isConsensusMsg()
}

// StartHeight instructs consensus to start a new height with the given
// validator set.
type StartHeight struct {
	Height       types.Height
	ValidatorSet types.ValidatorSet
}

func (StartHeight) isConsensusMsg() {}

// NetworkMsg is a message sent from the application to the networking layer.
type NetworkMsg interface {
	isNetworkMsg()
}

// PublishProposalPart publishes a proposal part to the network within a
// stream.
type PublishProposalPart struct {
	Part types.StreamMessage
}

func (PublishProposalPart) isNetworkMsg() {}
