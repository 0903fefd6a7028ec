// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package store

import (
	"encoding/binary"

	"github.com/luxfi/sync/types"
)

var (
	decidedPrefix   = []byte("decided/")
	undecidedPrefix = []byte("undecided/")
)

// decidedKey is decidedPrefix followed by the big-endian height, so that
// iteration over the prefix visits heights in increasing order.
func decidedKey(height types.Height) []byte {
	key := make([]byte, len(decidedPrefix)+8)
	copy(key, decidedPrefix)
	binary.BigEndian.PutUint64(key[len(decidedPrefix):], uint64(height))
	return key
}

func decidedKeyHeight(key []byte) types.Height {
	return types.Height(binary.BigEndian.Uint64(key[len(decidedPrefix):]))
}

// undecidedHeightPrefix keys every undecided value at a height, so a decide
// can drop all rounds with one prefix scan.
func undecidedHeightPrefix(height types.Height) []byte {
	key := make([]byte, len(undecidedPrefix)+8)
	copy(key, undecidedPrefix)
	binary.BigEndian.PutUint64(key[len(undecidedPrefix):], uint64(height))
	return key
}

// undecidedKey appends the round to the height prefix. Rounds are shifted
// by one so the nil round sorts first.
func undecidedKey(height types.Height, round types.Round) []byte {
	prefix := undecidedHeightPrefix(height)
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], uint64(int64(round)+1))
	return key
}
