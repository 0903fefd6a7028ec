// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package store persists decided values with their commit certificates, and
// undecided values awaiting a decision. It backs the application's side of
// the sync protocol: served values come out of this store, and synced values
// go into it.
package store

import (
	"errors"

	"go.uber.org/zap"

	"github.com/luxfi/database"
	"github.com/luxfi/log"

	"github.com/luxfi/sync/codec"
	"github.com/luxfi/sync/types"
)

// Store is a value store over a key-value database.
type Store struct {
	log log.Logger
	db  database.Database
}

// New returns a Store backed by db.
func New(logger log.Logger, db database.Database) *Store {
	return &Store{
		log: logger,
		db:  db,
	}
}

// SetDecidedValue stores a decided value under its certificate height and
// drops any undecided values for that height.
func (s *Store) SetDecidedValue(value types.RawDecidedValue) error {
	height := value.Certificate.Height

	if err := s.db.Put(decidedKey(height), codec.MarshalDecidedValue(value)); err != nil {
		return err
	}
	return s.DeleteUndecidedValues(height)
}

// GetDecidedValue returns the decided value at the given height, or nil when
// the store does not have it.
func (s *Store) GetDecidedValue(height types.Height) (*types.RawDecidedValue, error) {
	bs, err := s.db.Get(decidedKey(height))
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	value, err := codec.UnmarshalDecidedValue(bs)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// MinDecidedHeight returns the earliest decided height in the store. The
// second return value is false when the store holds no decided values.
func (s *Store) MinDecidedHeight() (types.Height, bool, error) {
	it := s.db.NewIteratorWithPrefix(decidedPrefix)
	defer it.Release()

	if !it.Next() {
		return 0, false, it.Error()
	}
	return decidedKeyHeight(it.Key()), true, it.Error()
}

// MaxDecidedHeight returns the latest decided height in the store. The
// second return value is false when the store holds no decided values.
func (s *Store) MaxDecidedHeight() (types.Height, bool, error) {
	it := s.db.NewIteratorWithPrefix(decidedPrefix)
	defer it.Release()

	var (
		height types.Height
		found  bool
	)
	for it.Next() {
		height = decidedKeyHeight(it.Key())
		found = true
	}
	return height, found, it.Error()
}

// SetUndecidedValue stores a proposed value under its height and round,
// overwriting any previous value for that slot.
func (s *Store) SetUndecidedValue(value types.ProposedValue) error {
	return s.db.Put(undecidedKey(value.Height, value.Round), codec.MarshalProposedValue(value))
}

// GetUndecidedValue returns the proposed value at the given height and
// round, or nil when the store does not have it.
func (s *Store) GetUndecidedValue(height types.Height, round types.Round) (*types.ProposedValue, error) {
	bs, err := s.db.Get(undecidedKey(height, round))
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	value, err := codec.UnmarshalProposedValue(bs)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// DeleteUndecidedValues drops every undecided value at the given height.
func (s *Store) DeleteUndecidedValues(height types.Height) error {
	keys, err := s.collectKeys(undecidedHeightPrefix(height))
	if err != nil {
		return err
	}
	return s.deleteKeys(keys)
}

// Prune removes decided values below retainHeight, reclaiming history the
// node no longer serves. The earliest height advertised in our status moves
// up accordingly.
func (s *Store) Prune(retainHeight types.Height) error {
	it := s.db.NewIteratorWithPrefix(decidedPrefix)
	defer it.Release()

	var keys [][]byte
	for it.Next() {
		if decidedKeyHeight(it.Key()) >= retainHeight {
			break
		}
		keys = append(keys, append([]byte(nil), it.Key()...))
	}
	if err := it.Error(); err != nil {
		return err
	}

	s.log.Debug("pruning decided values",
		zap.Int("count", len(keys)),
		zap.Stringer("retainHeight", retainHeight),
	)

	return s.deleteKeys(keys)
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) collectKeys(prefix []byte) ([][]byte, error) {
	it := s.db.NewIteratorWithPrefix(prefix)
	defer it.Release()

	var keys [][]byte
	for it.Next() {
		keys = append(keys, append([]byte(nil), it.Key()...))
	}
	return keys, it.Error()
}

func (s *Store) deleteKeys(keys [][]byte) error {
	if len(keys) == 0 {
		return nil
	}

	batch := s.db.NewBatch()
	for _, key := range keys {
		if err := batch.Delete(key); err != nil {
			return err
		}
	}
	return batch.Write()
}
