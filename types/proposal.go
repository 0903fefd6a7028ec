// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"github.com/luxfi/ids"
)

// ProposalPart is one chunk of a streamed proposal.
type ProposalPart struct {
	Height   Height
	Round    Round
	Proposer ids.NodeID
	Data     []byte
}

// StreamID identifies one proposal stream.
type StreamID uint64

// StreamMessage carries one proposal part within a stream, or marks the end
// of the stream when Fin is set.
type StreamMessage struct {
	StreamID StreamID

	// Sequence orders parts within the stream. Parts may arrive out of
	// order over gossip.
	Sequence uint64

	Part *ProposalPart
	Fin  bool
}
