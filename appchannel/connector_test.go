// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package appchannel

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/sync/peer"
	"github.com/luxfi/sync/types"
)

type fakeConsensus struct {
	casts chan ConsensusMsg
}

func newFakeConsensus() *fakeConsensus {
	return &fakeConsensus{casts: make(chan ConsensusMsg, 8)}
}

func (f *fakeConsensus) Cast(msg ConsensusMsg) error {
	f.casts <- msg
	return nil
}

type bridgeHarness struct {
	host   chan HostMsg
	app    chan AppMsg
	done   chan struct{}
	runErr error
}

func startBridge(t *testing.T) *bridgeHarness {
	t.Helper()

	metrics, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	host := make(chan HostMsg)
	app := make(chan AppMsg, DefaultMailboxCapacity)
	connector := NewConnector(log.NewNoOpLogger(), app, metrics)

	ctx, cancel := context.WithCancel(context.Background())
	h := &bridgeHarness{host: host, app: app, done: make(chan struct{})}
	go func() {
		h.runErr = connector.Run(ctx, host)
		close(h.done)
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case <-h.done:
		case <-time.After(5 * time.Second):
			t.Error("connector did not shut down")
		}
	})
	return h
}

func recvApp[T AppMsg](t *testing.T, h *bridgeHarness) T {
	t.Helper()

	select {
	case msg := <-h.app:
		typed, ok := msg.(T)
		require.True(t, ok, "unexpected app message %T", msg)
		return typed
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for app message")
		panic("unreachable")
	}
}

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()

	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reply")
		panic("unreachable")
	}
}

func TestConsensusReadyCastsStartHeight(t *testing.T) {
	h := startBridge(t)
	consensus := newFakeConsensus()

	h.host <- HostConsensusReady{Consensus: consensus}

	msg := recvApp[ConsensusReady](t, h)
	directive := StartHeight{Height: 1, ValidatorSet: types.ValidatorSet{}}
	msg.Reply <- directive

	require.Equal(t, directive, recv(t, consensus.casts))
}

func TestDecidedCastsStartHeight(t *testing.T) {
	h := startBridge(t)
	consensus := newFakeConsensus()

	certificate := types.CommitCertificate{Height: 4, Round: 1}
	h.host <- HostDecided{Certificate: certificate, Consensus: consensus}

	msg := recvApp[Decided](t, h)
	require.Equal(t, certificate, msg.Certificate)

	directive := StartHeight{Height: 5}
	msg.Reply <- directive
	require.Equal(t, directive, recv(t, consensus.casts))
}

func TestFireAndForgetForwarding(t *testing.T) {
	h := startBridge(t)
	p := peer.Random()

	h.host <- HostStartedRound{Height: 3, Round: 0, Proposer: ids.GenerateTestNodeID()}
	recvApp[StartedRound](t, h)

	h.host <- HostPeerJoined{PeerID: p}
	require.Equal(t, PeerJoined{PeerID: p}, recvApp[PeerJoined](t, h))

	h.host <- HostPeerLeft{PeerID: p}
	require.Equal(t, PeerLeft{PeerID: p}, recvApp[PeerLeft](t, h))

	h.host <- HostRestreamValue{Height: 3, Round: 1, ValidRound: 0}
	restream := recvApp[RestreamProposal](t, h)
	require.Equal(t, types.Height(3), restream.Height)
}

func TestGetValueReplyForwarded(t *testing.T) {
	h := startBridge(t)

	replyTo := make(chan types.LocallyProposedValue, 1)
	h.host <- HostGetValue{Height: 9, Round: 0, Timeout: time.Second, ReplyTo: replyTo}

	msg := recvApp[GetValue](t, h)
	require.Equal(t, types.Height(9), msg.Height)
	require.Equal(t, time.Second, msg.Timeout)

	value := types.LocallyProposedValue{Height: 9, Value: []byte("block")}
	msg.Reply <- value

	require.Equal(t, value, recv(t, replyTo))
}

func TestGetHistoryMinHeightReplyForwarded(t *testing.T) {
	h := startBridge(t)

	replyTo := make(chan types.Height, 1)
	h.host <- HostGetHistoryMinHeight{ReplyTo: replyTo}

	msg := recvApp[GetHistoryMinHeight](t, h)
	msg.Reply <- 7

	require.Equal(t, types.Height(7), recv(t, replyTo))
}

func TestGetValidatorSetReplyForwarded(t *testing.T) {
	h := startBridge(t)

	replyTo := make(chan types.ValidatorSet, 1)
	h.host <- HostGetValidatorSet{Height: 2, ReplyTo: replyTo}

	msg := recvApp[GetValidatorSet](t, h)
	vals := types.ValidatorSet{Validators: []types.Validator{{
		Address:     ids.GenerateTestNodeID(),
		VotingPower: 10,
	}}}
	msg.Reply <- vals

	require.Equal(t, vals, recv(t, replyTo))
}

func TestGetDecidedValueReplyForwarded(t *testing.T) {
	h := startBridge(t)

	replyTo := make(chan *types.RawDecidedValue, 1)
	h.host <- HostGetDecidedValue{Height: 2, ReplyTo: replyTo}

	msg := recvApp[GetDecidedValue](t, h)
	value := &types.RawDecidedValue{
		Certificate: types.CommitCertificate{Height: 2},
		ValueBytes:  []byte("value"),
	}
	msg.Reply <- value

	require.Equal(t, value, recv(t, replyTo))
}

func TestProcessSyncedValueReplyForwarded(t *testing.T) {
	h := startBridge(t)

	replyTo := make(chan types.ProposedValue, 1)
	h.host <- HostProcessSyncedValue{
		Height:     6,
		Round:      0,
		ValueBytes: []byte("synced"),
		ReplyTo:    replyTo,
	}

	msg := recvApp[ProcessSyncedValue](t, h)
	require.Equal(t, []byte("synced"), msg.ValueBytes)

	value := types.ProposedValue{Height: 6, Value: []byte("synced"), Validity: types.Valid}
	msg.Reply <- value

	require.Equal(t, value, recv(t, replyTo))
}

func TestProposalPartCompleteValueForwarded(t *testing.T) {
	h := startBridge(t)
	p := peer.Random()

	replyTo := make(chan types.ProposedValue, 1)
	h.host <- HostReceivedProposalPart{
		From:    p,
		Part:    types.StreamMessage{StreamID: 1, Sequence: 0},
		ReplyTo: replyTo,
	}

	msg := recvApp[ReceivedProposalPart](t, h)
	require.Equal(t, p, msg.From)

	value := types.ProposedValue{Height: 1, Value: []byte("complete")}
	msg.Reply <- &value

	require.Equal(t, value, recv(t, replyTo))
}

func TestProposalPartIncompleteDropped(t *testing.T) {
	h := startBridge(t)

	replyTo := make(chan types.ProposedValue, 1)
	h.host <- HostReceivedProposalPart{
		From:    peer.Random(),
		Part:    types.StreamMessage{StreamID: 1, Sequence: 0},
		ReplyTo: replyTo,
	}

	msg := recvApp[ReceivedProposalPart](t, h)
	msg.Reply <- nil

	// The nil reply must be swallowed; the requester sees nothing. Verify
	// by pushing a second, complete part through and observing only its
	// reply.
	h.host <- HostReceivedProposalPart{
		From:    peer.Random(),
		Part:    types.StreamMessage{StreamID: 1, Sequence: 1},
		ReplyTo: replyTo,
	}

	msg = recvApp[ReceivedProposalPart](t, h)
	value := types.ProposedValue{Height: 1, Value: []byte("complete")}
	msg.Reply <- &value

	require.Equal(t, value, recv(t, replyTo))
	require.Empty(t, replyTo)
}

func TestDroppedReplySlotSurvived(t *testing.T) {
	h := startBridge(t)

	replyTo := make(chan types.Height, 1)
	h.host <- HostGetHistoryMinHeight{ReplyTo: replyTo}

	msg := recvApp[GetHistoryMinHeight](t, h)

	// The application closes the slot without answering. The bridge must
	// log and keep going.
	close(msg.Reply)

	h.host <- HostGetHistoryMinHeight{ReplyTo: replyTo}
	msg = recvApp[GetHistoryMinHeight](t, h)
	msg.Reply <- 3

	require.Equal(t, types.Height(3), recv(t, replyTo))
}

func TestRepliesMayCompleteOutOfOrder(t *testing.T) {
	h := startBridge(t)

	firstReply := make(chan types.Height, 1)
	secondReply := make(chan types.ValidatorSet, 1)

	h.host <- HostGetHistoryMinHeight{ReplyTo: firstReply}
	h.host <- HostGetValidatorSet{Height: 1, ReplyTo: secondReply}

	first := recvApp[GetHistoryMinHeight](t, h)
	second := recvApp[GetValidatorSet](t, h)

	// Answer the second request before the first.
	second.Reply <- types.ValidatorSet{}
	recv(t, secondReply)

	first.Reply <- 11
	require.Equal(t, types.Height(11), recv(t, firstReply))
}

func TestHostOrderPreserved(t *testing.T) {
	h := startBridge(t)
	p := peer.Random()

	for i := 0; i < 10; i++ {
		h.host <- HostStartedRound{Height: types.Height(i), Round: 0}
		h.host <- HostPeerJoined{PeerID: p}
	}

	for i := 0; i < 10; i++ {
		started := recvApp[StartedRound](t, h)
		require.Equal(t, types.Height(i), started.Height)
		recvApp[PeerJoined](t, h)
	}
}

func TestShutdownOnClosedHostChannel(t *testing.T) {
	h := startBridge(t)

	close(h.host)
	recv(t, h.done)
	require.NoError(t, h.runErr)
}
