// Package memory is an in-process Store for tests and ephemeral nodes.
package memory

import (
	"context"
	"sync"

	"github.com/dayanaadylkhanova/proof-of-inference/internal/entity"
	"github.com/dayanaadylkhanova/proof-of-inference/internal/ledger"
)

type subKey struct {
	miner [32]byte
	epoch uint64
}

type Store struct {
	mu    sync.Mutex
	state entity.MineState
	ok    bool
	subs  map[subKey]entity.SubmissionRecord
}

func New() *Store {
	return &Store{subs: make(map[subKey]entity.SubmissionRecord)}
}

func (s *Store) LoadState(ctx context.Context) (entity.MineState, bool, error) {
	if err := ctx.Err(); err != nil {
		return entity.MineState{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.ok, nil
}

func (s *Store) SaveState(ctx context.Context, st entity.MineState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	s.ok = true
	return nil
}

func (s *Store) InsertSubmission(ctx context.Context, rec entity.SubmissionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := subKey{miner: rec.Miner, epoch: rec.Epoch}
	if _, exists := s.subs[k]; exists {
		return ledger.ErrDuplicateSubmission
	}
	s.subs[k] = rec
	return nil
}

func (s *Store) GetSubmission(ctx context.Context, miner [32]byte, epoch uint64) (entity.SubmissionRecord, error) {
	if err := ctx.Err(); err != nil {
		return entity.SubmissionRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, exists := s.subs[subKey{miner: miner, epoch: epoch}]
	if !exists {
		return entity.SubmissionRecord{}, ledger.ErrNoSubmission
	}
	return rec, nil
}

func (s *Store) DeleteSubmission(ctx context.Context, miner [32]byte, epoch uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := subKey{miner: miner, epoch: epoch}
	if _, exists := s.subs[k]; !exists {
		return ledger.ErrNoSubmission
	}
	delete(s.subs, k)
	return nil
}

func (s *Store) CountSubmissions(ctx context.Context, epoch uint64) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n uint64
	for k := range s.subs {
		if k.epoch == epoch {
			n++
		}
	}
	return n, nil
}
