// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"fmt"

	"github.com/luxfi/sync/peer"
)

// Status is a peer's periodic advertisement of the range of decided values
// it can serve.
type Status struct {
	PeerID peer.ID

	// Height is the peer's tip, ie. the highest decided height it holds.
	Height Height

	// EarliestHeight is the lowest height still available from the peer.
	// Peers may prune their history, so this is not necessarily zero.
	EarliestHeight Height
}

// HasHeight returns true iff the peer advertised a decided value at height h.
func (s Status) HasHeight(h Height) bool {
	return s.EarliestHeight <= h && h <= s.Height
}

func (s Status) String() string {
	return fmt.Sprintf("%s@[%s, %s]", s.PeerID, s.EarliestHeight, s.Height)
}
