// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/luxfi/ids"

	"github.com/luxfi/sync/types"
)

// MarshalProposedValue encodes an undecided proposed value. This is the form
// the value store persists until the height is decided.
func MarshalProposedValue(value types.ProposedValue) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(value.Height))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(value.Round)))
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(value.ValidRound)))
	b = protowire.AppendTag(b, 4, protowire.BytesType)
	b = protowire.AppendBytes(b, value.Proposer.Bytes())
	b = protowire.AppendTag(b, 5, protowire.BytesType)
	b = protowire.AppendBytes(b, value.ValueID[:])
	b = protowire.AppendTag(b, 6, protowire.BytesType)
	b = protowire.AppendBytes(b, value.Value)
	if value.Validity == types.Valid {
		b = protowire.AppendTag(b, 7, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	return b
}

// UnmarshalProposedValue decodes an undecided proposed value.
func UnmarshalProposedValue(b []byte) (types.ProposedValue, error) {
	var value types.ProposedValue
	value.Round = types.RoundNil
	value.ValidRound = types.RoundNil

	err := eachField(b, func(num protowire.Number, payload []byte, varint uint64) error {
		switch num {
		case 1:
			value.Height = types.Height(varint)
		case 2:
			value.Round = types.NewRound(protowire.DecodeZigZag(varint))
		case 3:
			value.ValidRound = types.NewRound(protowire.DecodeZigZag(varint))
		case 4:
			addr, err := ids.ToNodeID(payload)
			if err != nil {
				return err
			}
			value.Proposer = addr
		case 5:
			id, err := ids.ToID(payload)
			if err != nil {
				return err
			}
			value.ValueID = id
		case 6:
			value.Value = append([]byte(nil), payload...)
		case 7:
			value.Validity = types.Validity(varint != 0)
		}
		return nil
	})
	return value, err
}
