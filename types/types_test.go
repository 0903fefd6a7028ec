// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"

	"github.com/luxfi/sync/peer"
)

func TestRound(t *testing.T) {
	require.True(t, RoundNil.IsNil())
	require.False(t, RoundNil.IsDefined())
	require.Equal(t, "nil", RoundNil.String())

	require.True(t, Round(0).IsDefined())
	require.Equal(t, "3", Round(3).String())

	require.Equal(t, RoundNil, NewRound(-7))
	require.Equal(t, Round(2), NewRound(2))
}

func TestStatusHasHeight(t *testing.T) {
	status := Status{
		PeerID:         peer.Random(),
		Height:         10,
		EarliestHeight: 4,
	}

	require.True(t, status.HasHeight(4))
	require.True(t, status.HasHeight(7))
	require.True(t, status.HasHeight(10))
	require.False(t, status.HasHeight(3))
	require.False(t, status.HasHeight(11))
}

func TestValidatorSet(t *testing.T) {
	a := Validator{Address: ids.GenerateTestNodeID(), VotingPower: 3}
	b := Validator{Address: ids.GenerateTestNodeID(), VotingPower: 5}
	vs := ValidatorSet{Validators: []Validator{a, b}}

	require.Equal(t, 2, vs.Len())
	require.Equal(t, uint64(8), vs.TotalVotingPower())

	got, ok := vs.GetByAddress(b.Address)
	require.True(t, ok)
	require.Equal(t, b, got)

	_, ok = vs.GetByAddress(ids.GenerateTestNodeID())
	require.False(t, ok)
}

func TestVoteNil(t *testing.T) {
	vote := Vote{Type: VoteTypePrevote, Height: 1, Round: 0}
	require.True(t, vote.IsNilVote())

	vote.ValueID = ids.GenerateTestID()
	require.False(t, vote.IsNilVote())
}
