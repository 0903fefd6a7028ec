// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"errors"
	"fmt"

	"github.com/luxfi/ids"
)

// CommitSignature is a single validator's signature over a decided value.
type CommitSignature struct {
	Address   ids.NodeID
	Signature []byte
}

// CommitCertificate attests that a value was decided at a given height and
// round, carrying the aggregated signatures of the committing validators.
type CommitCertificate struct {
	Height     Height
	Round      Round
	ValueID    ids.ID
	Signatures []CommitSignature
}

func (c CommitCertificate) String() string {
	return fmt.Sprintf("certificate{height: %s, round: %s, value: %s, signatures: %d}",
		c.Height, c.Round, c.ValueID, len(c.Signatures))
}

// Certificate validation failure kinds, produced by the consensus engine and
// fed back to the sync engine.
var (
	ErrInvalidSignature     = errors.New("invalid commit signature")
	ErrNotEnoughVotingPower = errors.New("not enough voting power in certificate")
	ErrUnknownValidator     = errors.New("certificate signed by unknown validator")
	ErrCertificateHeight    = errors.New("certificate height does not match")
	ErrDuplicateVote        = errors.New("duplicate vote in certificate")
)

// CertificateError wraps a validation failure together with the address of
// the offending signature, when known.
type CertificateError struct {
	Err     error
	Address ids.NodeID
}

func (e *CertificateError) Error() string {
	if e.Address == ids.EmptyNodeID {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s (validator %s)", e.Err, e.Address)
}

func (e *CertificateError) Unwrap() error {
	return e.Err
}
