// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sync

import (
	"sort"

	"github.com/luxfi/sync/peer"
	"github.com/luxfi/sync/types"
	"github.com/luxfi/sync/utils/sampler"
)

// HeightRound keys a pending vote set request.
type HeightRound struct {
	Height types.Height
	Round  types.Round
}

// State is the sync engine's view of the world. It is owned exclusively by
// the engine and mutated only while handling an input.
//
// Invariants:
//   - syncHeight >= tipHeight
//   - at most one pending value request per height
//   - at most one pending vote set request per (height, round)
type State struct {
	rng sampler.Source

	// tipHeight is the highest height our consensus has decided.
	tipHeight types.Height

	// syncHeight is the height we are trying to catch up to.
	syncHeight types.Height

	peers map[peer.ID]types.Status

	pendingValueRequests   map[types.Height]peer.ID
	pendingVoteSetRequests map[HeightRound]peer.ID
}

// NewState returns a State starting at the given tip height, drawing peer
// selection randomness from rng.
func NewState(rng sampler.Source, tipHeight types.Height) *State {
	return &State{
		rng:                    rng,
		tipHeight:              tipHeight,
		syncHeight:             tipHeight,
		peers:                  make(map[peer.ID]types.Status),
		pendingValueRequests:   make(map[types.Height]peer.ID),
		pendingVoteSetRequests: make(map[HeightRound]peer.ID),
	}
}

// TipHeight returns the highest decided height.
func (s *State) TipHeight() types.Height {
	return s.tipHeight
}

// SyncHeight returns the height currently being caught up to.
func (s *State) SyncHeight() types.Height {
	return s.syncHeight
}

// PeerCount returns the number of peers with a known status.
func (s *State) PeerCount() int {
	return len(s.peers)
}

func (s *State) updateStatus(status types.Status) {
	s.peers[status.PeerID] = status
}

func (s *State) hasPendingValueRequest(height types.Height) bool {
	_, ok := s.pendingValueRequests[height]
	return ok
}

func (s *State) storePendingValueRequest(height types.Height, p peer.ID) {
	s.pendingValueRequests[height] = p
}

func (s *State) removePendingValueRequest(height types.Height) {
	delete(s.pendingValueRequests, height)
}

func (s *State) hasPendingVoteSetRequest(height types.Height, round types.Round) bool {
	_, ok := s.pendingVoteSetRequests[HeightRound{height, round}]
	return ok
}

func (s *State) storePendingVoteSetRequest(height types.Height, round types.Round, p peer.ID) {
	s.pendingVoteSetRequests[HeightRound{height, round}] = p
}

func (s *State) removePendingVoteSetRequest(height types.Height, round types.Round) {
	delete(s.pendingVoteSetRequests, HeightRound{height, round})
}

// randomPeerWithValue picks a uniform random peer that advertised a decided
// value at the given height.
func (s *State) randomPeerWithValue(height types.Height) (peer.ID, bool) {
	return s.pickPeer(func(status types.Status) bool {
		return status.HasHeight(height)
	}, "")
}

// randomPeerWithValueExcept is randomPeerWithValue excluding one peer.
func (s *State) randomPeerWithValueExcept(height types.Height, except peer.ID) (peer.ID, bool) {
	return s.pickPeer(func(status types.Status) bool {
		return status.HasHeight(height)
	}, except)
}

// randomPeerForVotes picks a uniform random peer whose tip is at or above
// the given height. Vote sets are not pruned history, so the earliest
// available height does not constrain the choice.
func (s *State) randomPeerForVotes(height types.Height) (peer.ID, bool) {
	return s.pickPeer(func(status types.Status) bool {
		return status.Height >= height
	}, "")
}

func (s *State) pickPeer(eligible func(types.Status) bool, except peer.ID) (peer.ID, bool) {
	candidates := make([]peer.ID, 0, len(s.peers))
	for p, status := range s.peers {
		if p == except {
			continue
		}
		if eligible(status) {
			candidates = append(candidates, p)
		}
	}

	// Sort before drawing so selection depends only on the rng, not on map
	// iteration order.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Compare(candidates[j]) < 0
	})

	return sampler.Pick(s.rng, candidates)
}
