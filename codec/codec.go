// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package codec encodes the sync protocol messages in the protobuf wire
// format. Heights are varints, rounds are zig-zag encoded so the nil round
// stays a single byte, and peer IDs travel as raw multihash bytes.
package codec

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/luxfi/ids"

	"github.com/luxfi/sync/peer"
	"github.com/luxfi/sync/types"
)

var (
	// ErrMalformed is returned when a buffer does not parse as the
	// expected message.
	ErrMalformed = errors.New("malformed sync message")

	// ErrUnknownMessage is returned when an envelope carries an
	// unrecognized message kind.
	ErrUnknownMessage = errors.New("unknown sync message kind")
)

// Envelope field numbers, one per message kind.
const (
	fieldStatus          = 1
	fieldValueRequest    = 2
	fieldValueResponse   = 3
	fieldVoteSetRequest  = 4
	fieldVoteSetResponse = 5
)

// Marshal encodes a sync message into an envelope identifying its kind.
// The message must be one of types.Status, types.ValueRequest,
// types.ValueResponse, types.VoteSetRequest, or types.VoteSetResponse.
func Marshal(msg any) ([]byte, error) {
	var b []byte
	switch msg := msg.(type) {
	case types.Status:
		b = protowire.AppendTag(b, fieldStatus, protowire.BytesType)
		b = protowire.AppendBytes(b, appendStatus(nil, msg))
	case types.ValueRequest:
		b = protowire.AppendTag(b, fieldValueRequest, protowire.BytesType)
		b = protowire.AppendBytes(b, appendValueRequest(nil, msg))
	case types.ValueResponse:
		b = protowire.AppendTag(b, fieldValueResponse, protowire.BytesType)
		b = protowire.AppendBytes(b, appendValueResponse(nil, msg))
	case types.VoteSetRequest:
		b = protowire.AppendTag(b, fieldVoteSetRequest, protowire.BytesType)
		b = protowire.AppendBytes(b, appendVoteSetRequest(nil, msg))
	case types.VoteSetResponse:
		b = protowire.AppendTag(b, fieldVoteSetResponse, protowire.BytesType)
		b = protowire.AppendBytes(b, appendVoteSetResponse(nil, msg))
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownMessage, msg)
	}
	return b, nil
}

// Unmarshal decodes an envelope produced by Marshal.
func Unmarshal(b []byte) (any, error) {
	num, typ, n := protowire.ConsumeTag(b)
	if n < 0 || typ != protowire.BytesType {
		return nil, fmt.Errorf("%w: bad envelope tag", ErrMalformed)
	}
	payload, n2 := protowire.ConsumeBytes(b[n:])
	if n2 < 0 {
		return nil, fmt.Errorf("%w: bad envelope payload", ErrMalformed)
	}

	switch num {
	case fieldStatus:
		return parseStatus(payload)
	case fieldValueRequest:
		return parseValueRequest(payload)
	case fieldValueResponse:
		return parseValueResponse(payload)
	case fieldVoteSetRequest:
		return parseVoteSetRequest(payload)
	case fieldVoteSetResponse:
		return parseVoteSetResponse(payload)
	default:
		return nil, fmt.Errorf("%w: field %d", ErrUnknownMessage, num)
	}
}

// Status <-> (peer_id bytes, height u64, earliest u64)

func appendStatus(b []byte, status types.Status) []byte {
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, status.PeerID.Bytes())
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(status.Height))
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(status.EarliestHeight))
	return b
}

func parseStatus(b []byte) (types.Status, error) {
	var status types.Status
	err := eachField(b, func(num protowire.Number, payload []byte, varint uint64) error {
		switch num {
		case 1:
			id, err := peer.FromBytes(payload)
			if err != nil {
				return err
			}
			status.PeerID = id
		case 2:
			status.Height = types.Height(varint)
		case 3:
			status.EarliestHeight = types.Height(varint)
		}
		return nil
	})
	return status, err
}

// MarshalStatus encodes a bare status, outside the envelope.
func MarshalStatus(status types.Status) []byte {
	return appendStatus(nil, status)
}

// UnmarshalStatus decodes a bare status.
func UnmarshalStatus(b []byte) (types.Status, error) {
	return parseStatus(b)
}

// ValueRequest <-> (height u64)

func appendValueRequest(b []byte, req types.ValueRequest) []byte {
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(req.Height))
	return b
}

func parseValueRequest(b []byte) (types.ValueRequest, error) {
	var req types.ValueRequest
	err := eachField(b, func(num protowire.Number, payload []byte, varint uint64) error {
		if num == 1 {
			req.Height = types.Height(varint)
		}
		return nil
	})
	return req, err
}

// ValueResponse <-> (height u64, optional raw_decided_value)

func appendValueResponse(b []byte, resp types.ValueResponse) []byte {
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(resp.Height))
	if resp.Value != nil {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, appendRawDecidedValue(nil, *resp.Value))
	}
	return b
}

func parseValueResponse(b []byte) (types.ValueResponse, error) {
	var resp types.ValueResponse
	err := eachField(b, func(num protowire.Number, payload []byte, varint uint64) error {
		switch num {
		case 1:
			resp.Height = types.Height(varint)
		case 2:
			value, err := parseRawDecidedValue(payload)
			if err != nil {
				return err
			}
			resp.Value = &value
		}
		return nil
	})
	return resp, err
}

// VoteSetRequest <-> (height u64, round sint64)

func appendVoteSetRequest(b []byte, req types.VoteSetRequest) []byte {
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(req.Height))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(req.Round)))
	return b
}

func parseVoteSetRequest(b []byte) (types.VoteSetRequest, error) {
	var req types.VoteSetRequest
	err := eachField(b, func(num protowire.Number, payload []byte, varint uint64) error {
		switch num {
		case 1:
			req.Height = types.Height(varint)
		case 2:
			req.Round = types.NewRound(protowire.DecodeZigZag(varint))
		}
		return nil
	})
	return req, err
}

// VoteSetResponse <-> (height u64, round sint64, repeated signed_vote)

func appendVoteSetResponse(b []byte, resp types.VoteSetResponse) []byte {
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(resp.Height))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(resp.Round)))
	for _, vote := range resp.Votes {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, appendSignedVote(nil, vote))
	}
	return b
}

func parseVoteSetResponse(b []byte) (types.VoteSetResponse, error) {
	var resp types.VoteSetResponse
	err := eachField(b, func(num protowire.Number, payload []byte, varint uint64) error {
		switch num {
		case 1:
			resp.Height = types.Height(varint)
		case 2:
			resp.Round = types.NewRound(protowire.DecodeZigZag(varint))
		case 3:
			vote, err := parseSignedVote(payload)
			if err != nil {
				return err
			}
			resp.Votes = append(resp.Votes, vote)
		}
		return nil
	})
	return resp, err
}

// RawDecidedValue <-> (certificate, value bytes)

func appendRawDecidedValue(b []byte, value types.RawDecidedValue) []byte {
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, appendCertificate(nil, value.Certificate))
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, value.ValueBytes)
	return b
}

func parseRawDecidedValue(b []byte) (types.RawDecidedValue, error) {
	var value types.RawDecidedValue
	err := eachField(b, func(num protowire.Number, payload []byte, varint uint64) error {
		switch num {
		case 1:
			certificate, err := parseCertificate(payload)
			if err != nil {
				return err
			}
			value.Certificate = certificate
		case 2:
			value.ValueBytes = append([]byte(nil), payload...)
		}
		return nil
	})
	return value, err
}

// MarshalDecidedValue encodes a bare decided value, outside the envelope.
// This is the form the value store persists.
func MarshalDecidedValue(value types.RawDecidedValue) []byte {
	return appendRawDecidedValue(nil, value)
}

// UnmarshalDecidedValue decodes a bare decided value.
func UnmarshalDecidedValue(b []byte) (types.RawDecidedValue, error) {
	return parseRawDecidedValue(b)
}

// CommitCertificate <-> (height u64, round sint64, value_id, repeated signature)

func appendCertificate(b []byte, certificate types.CommitCertificate) []byte {
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(certificate.Height))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(certificate.Round)))
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, certificate.ValueID[:])
	for _, sig := range certificate.Signatures {
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendBytes(b, appendCommitSignature(nil, sig))
	}
	return b
}

func parseCertificate(b []byte) (types.CommitCertificate, error) {
	var certificate types.CommitCertificate
	err := eachField(b, func(num protowire.Number, payload []byte, varint uint64) error {
		switch num {
		case 1:
			certificate.Height = types.Height(varint)
		case 2:
			certificate.Round = types.NewRound(protowire.DecodeZigZag(varint))
		case 3:
			id, err := ids.ToID(payload)
			if err != nil {
				return err
			}
			certificate.ValueID = id
		case 4:
			sig, err := parseCommitSignature(payload)
			if err != nil {
				return err
			}
			certificate.Signatures = append(certificate.Signatures, sig)
		}
		return nil
	})
	return certificate, err
}

func appendCommitSignature(b []byte, sig types.CommitSignature) []byte {
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, sig.Address.Bytes())
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, sig.Signature)
	return b
}

func parseCommitSignature(b []byte) (types.CommitSignature, error) {
	var sig types.CommitSignature
	err := eachField(b, func(num protowire.Number, payload []byte, varint uint64) error {
		switch num {
		case 1:
			addr, err := ids.ToNodeID(payload)
			if err != nil {
				return err
			}
			sig.Address = addr
		case 2:
			sig.Signature = append([]byte(nil), payload...)
		}
		return nil
	})
	return sig, err
}

// SignedVote <-> (vote, signature)

func appendSignedVote(b []byte, vote types.SignedVote) []byte {
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, appendVote(nil, vote.Vote))
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, vote.Signature)
	return b
}

func parseSignedVote(b []byte) (types.SignedVote, error) {
	var vote types.SignedVote
	err := eachField(b, func(num protowire.Number, payload []byte, varint uint64) error {
		switch num {
		case 1:
			v, err := parseVote(payload)
			if err != nil {
				return err
			}
			vote.Vote = v
		case 2:
			vote.Signature = append([]byte(nil), payload...)
		}
		return nil
	})
	return vote, err
}

// Vote <-> (type, height u64, round sint64, value_id, validator)

func appendVote(b []byte, vote types.Vote) []byte {
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(vote.Type))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(vote.Height))
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(vote.Round)))
	b = protowire.AppendTag(b, 4, protowire.BytesType)
	b = protowire.AppendBytes(b, vote.ValueID[:])
	b = protowire.AppendTag(b, 5, protowire.BytesType)
	b = protowire.AppendBytes(b, vote.Validator.Bytes())
	return b
}

func parseVote(b []byte) (types.Vote, error) {
	var vote types.Vote
	err := eachField(b, func(num protowire.Number, payload []byte, varint uint64) error {
		switch num {
		case 1:
			vote.Type = types.VoteType(varint)
		case 2:
			vote.Height = types.Height(varint)
		case 3:
			vote.Round = types.NewRound(protowire.DecodeZigZag(varint))
		case 4:
			id, err := ids.ToID(payload)
			if err != nil {
				return err
			}
			vote.ValueID = id
		case 5:
			addr, err := ids.ToNodeID(payload)
			if err != nil {
				return err
			}
			vote.Validator = addr
		}
		return nil
	})
	return vote, err
}

// eachField walks a message's fields in order, invoking visit with the
// field number and either its bytes payload or its varint value. Unknown
// fields are skipped, matching protobuf semantics.
func eachField(b []byte, visit func(num protowire.Number, payload []byte, varint uint64) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: bad tag", ErrMalformed)
		}
		b = b[n:]

		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("%w: bad varint for field %d", ErrMalformed, num)
			}
			b = b[n:]
			if err := visit(num, nil, v); err != nil {
				return err
			}
		case protowire.BytesType:
			payload, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("%w: bad bytes for field %d", ErrMalformed, num)
			}
			b = b[n:]
			if err := visit(num, payload, 0); err != nil {
				return err
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("%w: bad field %d", ErrMalformed, num)
			}
			b = b[n:]
		}
	}
	return nil
}
