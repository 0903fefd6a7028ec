// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package types defines the message taxonomy shared between the consensus
// engine, the catch-up sync engine, and the application bridge.
package types

import "strconv"

// Height identifies a decision slot. Heights are monotone non-negative and
// totally ordered.
type Height uint64

// Increment returns the next height.
func (h Height) Increment() Height {
	return h + 1
}

func (h Height) String() string {
	return strconv.FormatUint(uint64(h), 10)
}
