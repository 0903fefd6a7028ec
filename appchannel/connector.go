// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package appchannel

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/luxfi/log"

	"github.com/luxfi/sync/types"
)

// DefaultMailboxCapacity bounds the bridge's outbound channel to the
// application. A small bound propagates backpressure to the consensus
// engine.
const DefaultMailboxCapacity = 128

// Connector forwards messages from the consensus engine to the application.
//
// It processes host messages strictly in arrival order. Request/reply
// messages allocate a single-use reply slot, and the reply is awaited in its
// own goroutine so that replies for different requests may complete out of
// order while the loop keeps forwarding. A failure to forward a message or a
// reply is logged and survived; the originating requester observes its own
// timeout or closed channel.
type Connector struct {
	log     log.Logger
	sender  chan<- AppMsg
	metrics *Metrics

	replies sync.WaitGroup
}

// NewConnector returns a Connector forwarding to the application over
// sender.
func NewConnector(logger log.Logger, sender chan<- AppMsg, metrics *Metrics) *Connector {
	return &Connector{
		log:     logger,
		sender:  sender,
		metrics: metrics,
	}
}

// Run processes host messages until the host channel closes or ctx is
// cancelled, then waits for in-flight replies to settle.
func (c *Connector) Run(ctx context.Context, host <-chan HostMsg) error {
	defer c.replies.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-host:
			if !ok {
				c.log.Debug("host channel closed, shutting down")
				return nil
			}
			if err := c.handle(ctx, msg); err != nil {
				c.log.Error("failed processing host message",
					zap.Error(err),
				)
			}
		}
	}
}

func (c *Connector) handle(ctx context.Context, msg HostMsg) error {
	c.metrics.messagesForwarded.Inc()

	switch msg := msg.(type) {
	case HostConsensusReady:
		reply := make(chan ConsensusMsg, 1)
		if err := c.send(ctx, ConsensusReady{Reply: reply}); err != nil {
			return err
		}
		awaitReply(c, ctx, "consensus ready", reply, func(directive ConsensusMsg) error {
			return msg.Consensus.Cast(directive)
		})

	case HostStartedRound:
		return c.send(ctx, StartedRound{
			Height:   msg.Height,
			Round:    msg.Round,
			Proposer: msg.Proposer,
		})

	case HostGetValue:
		reply := make(chan types.LocallyProposedValue, 1)
		err := c.send(ctx, GetValue{
			Height:  msg.Height,
			Round:   msg.Round,
			Timeout: msg.Timeout,
			Reply:   reply,
		})
		if err != nil {
			return err
		}
		awaitReply(c, ctx, "get value", reply, func(value types.LocallyProposedValue) error {
			return replyTo(ctx, msg.ReplyTo, value)
		})

	case HostRestreamValue:
		return c.send(ctx, RestreamProposal{
			Height:     msg.Height,
			Round:      msg.Round,
			ValidRound: msg.ValidRound,
			Address:    msg.Address,
			ValueID:    msg.ValueID,
		})

	case HostGetHistoryMinHeight:
		reply := make(chan types.Height, 1)
		if err := c.send(ctx, GetHistoryMinHeight{Reply: reply}); err != nil {
			return err
		}
		awaitReply(c, ctx, "get history min height", reply, func(height types.Height) error {
			return replyTo(ctx, msg.ReplyTo, height)
		})

	case HostReceivedProposalPart:
		reply := make(chan *types.ProposedValue, 1)
		err := c.send(ctx, ReceivedProposalPart{
			From:  msg.From,
			Part:  msg.Part,
			Reply: reply,
		})
		if err != nil {
			return err
		}
		awaitReply(c, ctx, "received proposal part", reply, func(value *types.ProposedValue) error {
			// The proposal is not complete yet; nothing to forward.
			if value == nil {
				return nil
			}
			return replyTo(ctx, msg.ReplyTo, *value)
		})

	case HostGetValidatorSet:
		reply := make(chan types.ValidatorSet, 1)
		if err := c.send(ctx, GetValidatorSet{Height: msg.Height, Reply: reply}); err != nil {
			return err
		}
		awaitReply(c, ctx, "get validator set", reply, func(vals types.ValidatorSet) error {
			return replyTo(ctx, msg.ReplyTo, vals)
		})

	case HostDecided:
		reply := make(chan ConsensusMsg, 1)
		if err := c.send(ctx, Decided{Certificate: msg.Certificate, Reply: reply}); err != nil {
			return err
		}
		awaitReply(c, ctx, "decided", reply, func(directive ConsensusMsg) error {
			return msg.Consensus.Cast(directive)
		})

	case HostGetDecidedValue:
		reply := make(chan *types.RawDecidedValue, 1)
		if err := c.send(ctx, GetDecidedValue{Height: msg.Height, Reply: reply}); err != nil {
			return err
		}
		awaitReply(c, ctx, "get decided value", reply, func(value *types.RawDecidedValue) error {
			return replyTo(ctx, msg.ReplyTo, value)
		})

	case HostProcessSyncedValue:
		reply := make(chan types.ProposedValue, 1)
		err := c.send(ctx, ProcessSyncedValue{
			Height:     msg.Height,
			Round:      msg.Round,
			Proposer:   msg.ValidatorAddress,
			ValueBytes: msg.ValueBytes,
			Reply:      reply,
		})
		if err != nil {
			return err
		}
		awaitReply(c, ctx, "process synced value", reply, func(value types.ProposedValue) error {
			return replyTo(ctx, msg.ReplyTo, value)
		})

	case HostPeerJoined:
		return c.send(ctx, PeerJoined{PeerID: msg.PeerID})

	case HostPeerLeft:
		return c.send(ctx, PeerLeft{PeerID: msg.PeerID})

	default:
		c.log.Error("dropping unknown host message")
	}

	return nil
}

// send pushes a message onto the application mailbox, blocking for
// backpressure until ctx is cancelled.
func (c *Connector) send(ctx context.Context, msg AppMsg) error {
	select {
	case c.sender <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// replyTo forwards a value to the original requester's reply slot.
func replyTo[T any](ctx context.Context, to chan<- T, value T) error {
	select {
	case to <- value:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// awaitReply waits for the application's answer on its own goroutine and
// delivers it to the original requester. A closed reply slot or a delivery
// failure is logged; the connector keeps processing other messages either
// way.
func awaitReply[T any](c *Connector, ctx context.Context, what string, reply <-chan T, deliver func(T) error) {
	c.replies.Add(1)
	go func() {
		defer c.replies.Done()

		select {
		case <-ctx.Done():
			return
		case value, ok := <-reply:
			if !ok {
				c.metrics.replyFailures.Inc()
				c.log.Error("application dropped reply",
					zap.String("request", what),
				)
				return
			}
			if err := deliver(value); err != nil {
				c.metrics.replyFailures.Inc()
				c.log.Error("failed forwarding reply",
					zap.String("request", what),
					zap.Error(err),
				)
			}
		}
	}()
}
