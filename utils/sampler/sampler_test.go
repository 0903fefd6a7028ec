// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sampler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUniformSample(t *testing.T) {
	u := NewUniform(NewSource(1))

	indices, ok := u.Sample(10, 4)
	require.True(t, ok)
	require.Len(t, indices, 4)

	seen := make(map[int]struct{})
	for _, idx := range indices {
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 10)
		_, dup := seen[idx]
		require.False(t, dup)
		seen[idx] = struct{}{}
	}
}

func TestUniformSampleTooLarge(t *testing.T) {
	u := NewUniform(NewSource(1))

	_, ok := u.Sample(3, 4)
	require.False(t, ok)
}

func TestPick(t *testing.T) {
	rng := NewSource(42)

	_, ok := Pick(rng, []string{})
	require.False(t, ok)

	elems := []string{"a", "b", "c"}
	for i := 0; i < 32; i++ {
		elem, ok := Pick(rng, elems)
		require.True(t, ok)
		require.Contains(t, elems, elem)
	}
}

func TestDeterministicSource(t *testing.T) {
	a := NewSource(7)
	b := NewSource(7)

	for i := 0; i < 16; i++ {
		require.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}
