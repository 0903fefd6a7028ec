// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"

	"github.com/luxfi/sync/peer"
	"github.com/luxfi/sync/types"
)

func TestStatusRoundTrip(t *testing.T) {
	status := types.Status{
		PeerID:         peer.Random(),
		Height:         42,
		EarliestHeight: 7,
	}

	b, err := Marshal(status)
	require.NoError(t, err)

	decoded, err := Unmarshal(b)
	require.NoError(t, err)
	require.Equal(t, status, decoded)
}

func TestValueRequestRoundTrip(t *testing.T) {
	b, err := Marshal(types.ValueRequest{Height: 99})
	require.NoError(t, err)

	decoded, err := Unmarshal(b)
	require.NoError(t, err)
	require.Equal(t, types.ValueRequest{Height: 99}, decoded)
}

func TestValueResponseRoundTrip(t *testing.T) {
	value := &types.RawDecidedValue{
		Certificate: types.CommitCertificate{
			Height:  12,
			Round:   1,
			ValueID: ids.GenerateTestID(),
			Signatures: []types.CommitSignature{
				{Address: ids.GenerateTestNodeID(), Signature: []byte("sig-1")},
				{Address: ids.GenerateTestNodeID(), Signature: []byte("sig-2")},
			},
		},
		ValueBytes: []byte("the decided value"),
	}

	b, err := Marshal(types.ValueResponse{Height: 12, Value: value})
	require.NoError(t, err)

	decoded, err := Unmarshal(b)
	require.NoError(t, err)
	require.Equal(t, types.ValueResponse{Height: 12, Value: value}, decoded)
}

func TestEmptyValueResponseRoundTrip(t *testing.T) {
	b, err := Marshal(types.ValueResponse{Height: 12})
	require.NoError(t, err)

	decoded, err := Unmarshal(b)
	require.NoError(t, err)
	require.Equal(t, types.ValueResponse{Height: 12}, decoded)
}

func TestVoteSetRequestNilRound(t *testing.T) {
	req := types.VoteSetRequest{Height: 8, Round: types.RoundNil}

	b, err := Marshal(req)
	require.NoError(t, err)

	decoded, err := Unmarshal(b)
	require.NoError(t, err)
	require.Equal(t, req, decoded)
}

func TestVoteSetResponseRoundTrip(t *testing.T) {
	resp := types.VoteSetResponse{
		Height: 8,
		Round:  3,
		Votes: []types.SignedVote{
			{
				Vote: types.Vote{
					Type:      types.VoteTypePrevote,
					Height:    8,
					Round:     3,
					ValueID:   ids.GenerateTestID(),
					Validator: ids.GenerateTestNodeID(),
				},
				Signature: []byte("prevote-sig"),
			},
			{
				Vote: types.Vote{
					Type:      types.VoteTypePrecommit,
					Height:    8,
					Round:     3,
					Validator: ids.GenerateTestNodeID(),
				},
				Signature: []byte("precommit-sig"),
			},
		},
	}

	b, err := Marshal(resp)
	require.NoError(t, err)

	decoded, err := Unmarshal(b)
	require.NoError(t, err)
	require.Equal(t, resp, decoded)
}

func TestDecidedValueRoundTrip(t *testing.T) {
	value := types.RawDecidedValue{
		Certificate: types.CommitCertificate{
			Height:  5,
			Round:   0,
			ValueID: ids.GenerateTestID(),
		},
		ValueBytes: []byte("stored"),
	}

	decoded, err := UnmarshalDecidedValue(MarshalDecidedValue(value))
	require.NoError(t, err)
	require.Equal(t, value, decoded)
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	_, err := Unmarshal([]byte{0xff, 0xff, 0xff})
	require.Error(t, err)
}

func TestMarshalRejectsUnknownMessage(t *testing.T) {
	_, err := Marshal(struct{}{})
	require.ErrorIs(t, err, ErrUnknownMessage)
}

func TestStatusRejectsBadPeerID(t *testing.T) {
	status := types.Status{PeerID: peer.ID("\x12"), Height: 1}

	b, err := Marshal(status)
	require.NoError(t, err)

	_, err = Unmarshal(b)
	require.Error(t, err)
}
