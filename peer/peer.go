// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package peer provides network peer identities derived from public keys.
//
// An identity is a multihash of the peer's public key. Public keys short
// enough to be carried inline (up to 42 bytes) use the identity hash code;
// longer keys are hashed with SHA2-256. Any other hash code is rejected.
package peer

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/multiformats/go-multihash"
)

// MaxInlineKeyLength is the longest public key that is carried inline as an
// identity multihash rather than hashed.
const MaxInlineKeyLength = 42

// DigestLength is the digest size of every hashed peer ID.
const DigestLength = 32

var (
	// ErrInvalidMultihash is returned when the multihash framing is malformed.
	ErrInvalidMultihash = errors.New("invalid multihash")

	// ErrOversizedInlineKey is returned when an identity multihash carries a
	// digest longer than MaxInlineKeyLength.
	ErrOversizedInlineKey = errors.New("identity digest exceeds inline limit")
)

// UnsupportedCodeError is returned when a multihash uses a hash algorithm
// that is not valid for peer IDs.
type UnsupportedCodeError struct {
	Code uint64
}

func (e *UnsupportedCodeError) Error() string {
	return fmt.Sprintf("unsupported multihash code %#x", e.Code)
}

// ID identifies a peer of the network.
//
// The underlying string holds the raw multihash bytes, which makes IDs
// comparable and usable as map keys. IDs are immutable after construction.
type ID string

// FromBytes parses an ID from raw multihash bytes.
func FromBytes(bs []byte) (ID, error) {
	dmh, err := multihash.Decode(bs)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidMultihash, err)
	}

	switch dmh.Code {
	case multihash.IDENTITY:
		if dmh.Length > MaxInlineKeyLength {
			return "", fmt.Errorf("%w: %d bytes", ErrOversizedInlineKey, dmh.Length)
		}
	case multihash.SHA2_256:
	default:
		return "", &UnsupportedCodeError{Code: dmh.Code}
	}

	return ID(bs), nil
}

// FromString parses an ID from its base-58 string form.
func FromString(s string) (ID, error) {
	bs, err := base58.Decode(s)
	if err != nil {
		return "", fmt.Errorf("base-58 decode: %w", err)
	}
	return FromBytes(bs)
}

// FromPublicKey derives an ID from a raw public key. Keys up to
// MaxInlineKeyLength bytes are inlined with the identity code, longer keys
// are hashed with SHA2-256.
func FromPublicKey(key []byte) (ID, error) {
	code := uint64(multihash.SHA2_256)
	if len(key) <= MaxInlineKeyLength {
		code = multihash.IDENTITY
	}
	mh, err := multihash.Sum(key, code, -1)
	if err != nil {
		return "", err
	}
	return ID(mh), nil
}

// Random returns an ID built from 32 uniformly random bytes wrapped as an
// identity multihash. Useful for tests and random DHT walks.
func Random() ID {
	digest := make([]byte, DigestLength)
	if _, err := rand.Read(digest); err != nil {
		panic(err)
	}
	mh, err := multihash.Encode(digest, multihash.IDENTITY)
	if err != nil {
		panic(err)
	}
	return ID(mh)
}

// Bytes returns the raw multihash bytes, including framing. This is the
// binary serialization of the ID.
func (id ID) Bytes() []byte {
	return []byte(id)
}

// Digest32 returns the 32-byte hash payload of the ID. The second return
// value reports whether the digest is exactly 32 bytes; inline identity
// digests of other lengths return false rather than truncating.
func (id ID) Digest32() ([DigestLength]byte, bool) {
	var out [DigestLength]byte
	dmh, err := multihash.Decode([]byte(id))
	if err != nil || dmh.Length != DigestLength {
		return out, false
	}
	copy(out[:], dmh.Digest)
	return out, true
}

// String returns the base-58 encoding of the full multihash bytes.
func (id ID) String() string {
	return base58.Encode([]byte(id))
}

// Compare orders IDs by their multihash bytes.
func (id ID) Compare(other ID) int {
	return strings.Compare(string(id), string(other))
}

// MarshalText implements encoding.TextMarshaler using the base-58 form.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, accepting the base-58
// form.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := FromString(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
