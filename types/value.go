// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import "github.com/luxfi/ids"

// Validity reports whether a proposed value passed application validation.
type Validity bool

const (
	Valid   Validity = true
	Invalid Validity = false
)

// RawDecidedValue is a decided value as served over the sync protocol: the
// commit certificate plus the opaque value bytes.
type RawDecidedValue struct {
	Certificate CommitCertificate
	ValueBytes  []byte
}

// ProposedValue is a value proposed by a validator, as assembled by the
// application from proposal parts or from synced bytes.
type ProposedValue struct {
	Height     Height
	Round      Round
	ValidRound Round
	Proposer   ids.NodeID
	ValueID    ids.ID
	Value      []byte
	Validity   Validity
}

// LocallyProposedValue is a value built by this node when it is the
// proposer.
type LocallyProposedValue struct {
	Height  Height
	Round   Round
	ValueID ids.ID
	Value   []byte
}
