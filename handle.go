// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sync implements the catch-up engine that sits beside a
// Tendermint-style consensus instance. When the node falls behind its peers
// it requests already-decided values together with their commit
// certificates, and missing vote sets that let a stuck round finish.
//
// The engine performs no I/O. Every call to Engine.Handle consumes one
// input, mutates the engine's state, and returns an ordered sequence of
// effects for the host to interpret: sending requests and responses on the
// network, broadcasting our status, and asking the application for stored
// values. Results of those actions come back as later inputs, which keeps
// the engine deterministic given an input trace.
package sync

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/luxfi/log"

	"github.com/luxfi/sync/peer"
	"github.com/luxfi/sync/types"
	"github.com/luxfi/sync/utils/sampler"
)

// ErrUnknownInput is returned when the host feeds the engine an input type
// it does not recognize. This is a programmer error and should abort the
// driver.
var ErrUnknownInput = errors.New("unknown sync input")

// Engine is the sync state machine. It is not safe for concurrent use; the
// host must process inputs one at a time.
type Engine struct {
	log     log.Logger
	config  Config
	metrics *Metrics
	state   *State
}

// New returns an Engine starting at the given tip height. Peer selection
// draws from rng, which tests may seed for determinism.
func New(
	config Config,
	logger log.Logger,
	metrics *Metrics,
	rng sampler.Source,
	tipHeight types.Height,
) *Engine {
	metrics.tipHeight.Set(float64(tipHeight))
	metrics.syncHeight.Set(float64(tipHeight))

	return &Engine{
		log:     logger,
		config:  config,
		metrics: metrics,
		state:   NewState(rng, tipHeight),
	}
}

// State returns the engine's state for inspection by the host.
func (e *Engine) State() *State {
	return e.state
}

// Handle processes one input and returns the effects it produced, in order.
func (e *Engine) Handle(input Input) ([]Effect, error) {
	var out effects

	switch input := input.(type) {
	case Tick:
		e.onTick(&out)
	case Status:
		e.onStatus(&out, input.Status)
	case StartHeight:
		e.onStartHeight(&out, input.Height)
	case UpdateHeight:
		e.onUpdateHeight(input.Height)
	case ValueRequest:
		e.onValueRequest(&out, input.RequestID, input.Peer, input.Request)
	case ValueResponse:
		e.onValueResponse(input.RequestID, input.Peer, input.Response)
	case GotDecidedValue:
		e.onGotDecidedValue(&out, input.RequestID, input.Height, input.Value)
	case SyncRequestTimedOut:
		e.onSyncRequestTimedOut(input.Peer, input.Request)
	case InvalidCertificate:
		e.onInvalidCertificate(&out, input.Peer, input.Certificate, input.Err)
	case GetVoteSet:
		e.onGetVoteSet(&out, input.Height, input.Round)
	case VoteSetRequest:
		e.onVoteSetRequest(input.RequestID, input.Peer, input.Request)
	case GotVoteSet:
		e.onGotVoteSet(input.RequestID, input.Height, input.Round)
	case VoteSetResponse:
		e.onVoteSetResponse(input.RequestID, input.Peer, input.Response)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownInput, input)
	}

	return []Effect(out), nil
}

type effects []Effect

func (e *effects) emit(effect Effect) {
	*e = append(*e, effect)
}

func (e *Engine) onTick(out *effects) {
	e.log.Debug("broadcasting status",
		zap.Stringer("height", e.state.tipHeight),
	)

	out.emit(BroadcastStatus{Height: e.state.tipHeight})
}

func (e *Engine) onStatus(out *effects, status types.Status) {
	e.log.Debug("received peer status",
		zap.Stringer("peer", status.PeerID),
		zap.Stringer("height", status.Height),
		zap.Stringer("earliestHeight", status.EarliestHeight),
	)

	peerHeight := status.Height
	e.state.updateStatus(status)

	if peerHeight > e.state.tipHeight {
		e.log.Info("SYNC REQUIRED: falling behind",
			zap.Stringer("tipHeight", e.state.tipHeight),
			zap.Stringer("syncHeight", e.state.syncHeight),
			zap.Stringer("peerHeight", peerHeight),
		)

		e.requestValue(out)
	}
}

func (e *Engine) onStartHeight(out *effects, height types.Height) {
	e.log.Debug("starting new height",
		zap.Stringer("height", height),
	)

	e.state.syncHeight = height
	e.metrics.syncHeight.Set(float64(height))

	// A peer may already be at or above the height we just started; if so,
	// catch up from it right away.
	e.requestValue(out)
}

func (e *Engine) onUpdateHeight(height types.Height) {
	if e.state.tipHeight >= height {
		return
	}

	e.log.Debug("updating tip height",
		zap.Stringer("height", height),
	)

	e.state.tipHeight = height
	if e.state.syncHeight < height {
		e.state.syncHeight = height
		e.metrics.syncHeight.Set(float64(height))
	}
	e.state.removePendingValueRequest(height)
	e.metrics.tipHeight.Set(float64(height))
}

func (e *Engine) onValueRequest(out *effects, requestID InboundRequestID, from peer.ID, request types.ValueRequest) {
	e.log.Debug("received request for value",
		zap.Stringer("height", request.Height),
		zap.Stringer("peer", from),
	)

	e.metrics.valueRequestsReceived.Inc()

	out.emit(GetValue{RequestID: requestID, Height: request.Height})
}

func (e *Engine) onValueResponse(requestID OutboundRequestID, from peer.ID, response types.ValueResponse) {
	e.log.Debug("received value response",
		zap.Stringer("height", response.Height),
		zap.Uint64("requestID", uint64(requestID)),
		zap.Stringer("peer", from),
	)

	// The pending entry is cleared once the certificate is validated, via
	// either UpdateHeight or InvalidCertificate.
	e.metrics.valueResponsesReceived.Inc()
}

func (e *Engine) onGotDecidedValue(out *effects, requestID InboundRequestID, height types.Height, value *types.RawDecidedValue) {
	switch {
	case value == nil:
		e.log.Error("no decided value for requested height",
			zap.Stringer("height", height),
		)
	case value.Certificate.Height != height:
		e.log.Error("received value for wrong height",
			zap.Stringer("height", height),
			zap.Stringer("valueHeight", value.Certificate.Height),
		)
		value = nil
	default:
		e.log.Debug("received decided value",
			zap.Stringer("height", height),
		)
	}

	out.emit(SendValueResponse{
		RequestID: requestID,
		Response:  types.ValueResponse{Height: height, Value: value},
	})

	e.metrics.valueResponsesSent.Inc()
}

func (e *Engine) onSyncRequestTimedOut(from peer.ID, request types.Request) {
	switch request := request.(type) {
	case types.ValueRequest:
		e.log.Warn("value request timed out",
			zap.Stringer("peer", from),
			zap.Stringer("height", request.Height),
		)
		e.state.removePendingValueRequest(request.Height)
		e.metrics.valueRequestTimeouts.Inc()

	case types.VoteSetRequest:
		e.log.Warn("vote set request timed out",
			zap.Stringer("peer", from),
			zap.Stringer("height", request.Height),
			zap.Stringer("round", request.Round),
		)
		e.state.removePendingVoteSetRequest(request.Height, request.Round)
		e.metrics.voteSetRequestTimeouts.Inc()
	}
}

func (e *Engine) onInvalidCertificate(out *effects, from peer.ID, certificate types.CommitCertificate, err error) {
	e.log.Error("received invalid certificate",
		zap.Error(err),
		zap.Stringer("height", certificate.Height),
		zap.Stringer("round", certificate.Round),
		zap.Stringer("peer", from),
	)

	e.metrics.invalidCertificates.Inc()
	e.state.removePendingValueRequest(certificate.Height)

	target, ok := e.state.randomPeerWithValueExcept(certificate.Height, from)
	if !ok {
		e.log.Error("no other peer to request sync from",
			zap.Stringer("height", certificate.Height),
		)
		return
	}

	e.log.Info("requesting sync from another peer",
		zap.Stringer("height", certificate.Height),
		zap.Stringer("peer", target),
	)

	e.requestValueFromPeer(out, certificate.Height, target)
}

func (e *Engine) onGetVoteSet(out *effects, height types.Height, round types.Round) {
	if e.state.hasPendingVoteSetRequest(height, round) {
		e.log.Debug("vote set request already pending",
			zap.Stringer("height", height),
			zap.Stringer("round", round),
		)
		return
	}

	target, ok := e.state.randomPeerForVotes(height)
	if !ok {
		e.log.Warn("no peer to request vote set from",
			zap.Stringer("height", height),
			zap.Stringer("round", round),
		)
		return
	}

	e.log.Debug("requesting vote set from peer",
		zap.Stringer("height", height),
		zap.Stringer("round", round),
		zap.Stringer("peer", target),
	)

	out.emit(SendVoteSetRequest{
		Peer:    target,
		Request: types.VoteSetRequest{Height: height, Round: round},
	})

	e.metrics.voteSetRequestsSent.Inc()
	e.state.storePendingVoteSetRequest(height, round, target)
}

func (e *Engine) onVoteSetRequest(requestID InboundRequestID, from peer.ID, request types.VoteSetRequest) {
	// The host's consensus actor assembles the response and reports it back
	// as a GotVoteSet input once sent.
	e.log.Debug("received request for vote set",
		zap.Stringer("height", request.Height),
		zap.Stringer("round", request.Round),
		zap.Uint64("requestID", uint64(requestID)),
		zap.Stringer("peer", from),
	)

	e.metrics.voteSetRequestsReceived.Inc()
}

func (e *Engine) onGotVoteSet(requestID InboundRequestID, height types.Height, round types.Round) {
	e.log.Debug("vote set response sent",
		zap.Stringer("height", height),
		zap.Stringer("round", round),
		zap.Uint64("requestID", uint64(requestID)),
	)

	e.metrics.voteSetResponsesSent.Inc()
}

func (e *Engine) onVoteSetResponse(requestID OutboundRequestID, from peer.ID, response types.VoteSetResponse) {
	e.log.Debug("received vote set response",
		zap.Uint64("requestID", uint64(requestID)),
		zap.Stringer("peer", from),
		zap.Stringer("height", response.Height),
		zap.Stringer("round", response.Round),
		zap.Int("votes", len(response.Votes)),
	)

	e.state.removePendingVoteSetRequest(response.Height, response.Round)
	e.metrics.voteSetResponsesReceived.Inc()
}

// requestValue requests the value at the sync height from a random peer that
// has it, unless such a request is already in flight.
func (e *Engine) requestValue(out *effects) {
	syncHeight := e.state.syncHeight

	if e.state.hasPendingValueRequest(syncHeight) {
		e.log.Debug("already have a pending value request for this height",
			zap.Stringer("syncHeight", syncHeight),
		)
		return
	}

	target, ok := e.state.randomPeerWithValue(syncHeight)
	if !ok {
		return
	}

	e.requestValueFromPeer(out, syncHeight, target)
}

func (e *Engine) requestValueFromPeer(out *effects, height types.Height, target peer.ID) {
	e.log.Debug("requesting value from peer",
		zap.Stringer("height", height),
		zap.Stringer("peer", target),
	)

	out.emit(SendValueRequest{
		Peer:    target,
		Request: types.ValueRequest{Height: height},
	})

	e.metrics.valueRequestsSent.Inc()
	e.state.storePendingValueRequest(height, target)
}
