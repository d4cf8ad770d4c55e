// Package ledger is the single-writer state machine around the verification
// core: it owns the epoch parameters and emission counters, gates submissions
// and claims, and rotates epochs. Verification itself is pure and runs outside
// the lock; only state transitions serialize.
package ledger

import (
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dayanaadylkhanova/proof-of-inference/internal/entity"
	"github.com/dayanaadylkhanova/proof-of-inference/internal/poi"
)

type Ledger struct {
	log    *zap.Logger
	store  Store
	params poi.Params

	mu    sync.Mutex
	state entity.MineState
}

// Open loads the persisted mine state, or runs genesis when the store is
// empty.
func Open(ctx context.Context, store Store, params poi.Params, log *zap.Logger) (*Ledger, error) {
	st, ok, err := store.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	l := &Ledger{log: log, store: store, params: params}
	if ok {
		l.state = st
		return l, nil
	}

	now := time.Now()
	var entropy [32]byte
	if _, err := crand.Read(entropy[:]); err != nil {
		return nil, fmt.Errorf("genesis entropy: %w", err)
	}
	l.state = entity.MineState{
		Difficulty:     params.InitialDifficulty,
		ChallengeSeed:  poi.GenesisSeed(now.Unix(), uint64(now.UnixNano()), entropy),
		EpochStartTime: now.Unix(),
		EpochEndTime:   now.Unix() + params.EpochDuration,
	}
	if err := store.SaveState(ctx, l.state); err != nil {
		return nil, fmt.Errorf("save genesis state: %w", err)
	}
	log.Info("genesis state created",
		zap.Uint64("difficulty", l.state.Difficulty),
		zap.Int64("epoch_end", l.state.EpochEndTime),
	)
	return l, nil
}

// Snapshot returns a copy of the current mine state.
func (l *Ledger) Snapshot() entity.MineState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Challenge builds the wire challenge for the current epoch.
func (l *Ledger) Challenge(ctx context.Context) (entity.Challenge, error) {
	if err := ctx.Err(); err != nil {
		return entity.Challenge{}, err
	}
	st := l.Snapshot()
	rw := poi.DeriveWords(st.ChallengeSeed, st.Difficulty)
	return entity.Challenge{
		Epoch:      st.EpochNumber,
		SeedHex:    hex.EncodeToString(st.ChallengeSeed[:]),
		Difficulty: st.Difficulty,
		Words:      rw.Strings(),
		Expires:    st.EpochEndTime,
	}, nil
}

// Submit verifies a wire submission against the current epoch and records it
// on success. The heavy verification work runs on an immutable snapshot, so
// any number of submissions verify in parallel.
func (l *Ledger) Submit(ctx context.Context, sub entity.Submission) (entity.SubmissionRecord, error) {
	miner, err := DecodeMinerID(sub.MinerHex)
	if err != nil {
		return entity.SubmissionRecord{}, err
	}
	return l.submit(ctx, miner, []byte(sub.Text), sub.Nonce, time.Now())
}

func (l *Ledger) submit(ctx context.Context, miner [32]byte, text []byte, nonce uint64, now time.Time) (entity.SubmissionRecord, error) {
	st := l.Snapshot()

	if now.Unix() >= st.EpochEndTime {
		return entity.SubmissionRecord{}, ErrEpochEnded
	}
	if st.TotalSupply >= l.params.MaxSupply {
		return entity.SubmissionRecord{}, ErrMaxSupply
	}

	rw := poi.DeriveWords(st.ChallengeSeed, st.Difficulty)
	if !poi.VerifyText(text, rw.Words()) {
		return entity.SubmissionRecord{}, ErrInvalidText
	}

	digest := poi.SolutionDigest(st.ChallengeSeed, miner, text, nonce)
	if !poi.CheckDifficulty(digest, st.Difficulty) {
		return entity.SubmissionRecord{}, ErrInsufficientDifficulty
	}

	rec := entity.SubmissionRecord{
		ID:     uuid.NewString(),
		Miner:  miner,
		Epoch:  st.EpochNumber,
		Nonce:  nonce,
		Digest: digest,
	}
	if err := l.store.InsertSubmission(ctx, rec); err != nil {
		return entity.SubmissionRecord{}, err
	}
	l.log.Info("solution accepted",
		zap.String("miner", hex.EncodeToString(miner[:8])),
		zap.Uint64("epoch", rec.Epoch),
		zap.Uint64("nonce", nonce),
	)
	return rec, nil
}

// Claim pays out a recorded solution once its epoch is over and before the
// claim window lapses. Returns the amount actually emitted, which the supply
// cap may shrink to zero.
func (l *Ledger) Claim(ctx context.Context, miner [32]byte, epoch uint64, now time.Time) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, err := l.store.GetSubmission(ctx, miner, epoch)
	if err != nil {
		return 0, err
	}

	epochOver := rec.Epoch < l.state.EpochNumber ||
		(rec.Epoch == l.state.EpochNumber && now.Unix() >= l.state.EpochEndTime)
	if !epochOver {
		return 0, ErrEpochNotEnded
	}
	if l.state.EpochNumber-rec.Epoch >= l.params.ClaimExpiryEpochs {
		return 0, ErrClaimExpired
	}

	reward := poi.RewardFor(l.state.TotalMined, l.params)
	actual := poi.CappedReward(reward, l.state.TotalSupply, l.params)

	// the record goes away before emission is counted; a failed save puts it
	// back, so a retry can never pay the same record twice
	if err := l.store.DeleteSubmission(ctx, miner, epoch); err != nil {
		return 0, fmt.Errorf("delete submission: %w", err)
	}
	l.state.TotalMined++
	l.state.TotalSupply += actual
	if err := l.store.SaveState(ctx, l.state); err != nil {
		l.state.TotalMined--
		l.state.TotalSupply -= actual
		if rerr := l.store.InsertSubmission(ctx, rec); rerr != nil {
			l.log.Error("restore submission after failed save",
				zap.String("miner", hex.EncodeToString(miner[:8])),
				zap.Error(rerr),
			)
		}
		return 0, fmt.Errorf("save state: %w", err)
	}
	l.log.Info("reward claimed",
		zap.String("miner", hex.EncodeToString(miner[:8])),
		zap.Uint64("epoch", epoch),
		zap.Uint64("amount", actual),
		zap.Uint64("total_supply", l.state.TotalSupply),
	)
	return actual, nil
}

// CloseExpired removes a submission whose claim window has lapsed. The reward
// is forfeited.
func (l *Ledger) CloseExpired(ctx context.Context, miner [32]byte, epoch uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, err := l.store.GetSubmission(ctx, miner, epoch)
	if err != nil {
		return err
	}
	if l.state.EpochNumber < rec.Epoch || l.state.EpochNumber-rec.Epoch < l.params.ClaimExpiryEpochs {
		return ErrNotExpired
	}
	return l.store.DeleteSubmission(ctx, miner, epoch)
}

// AdvanceEpoch closes the current epoch: adjust difficulty from the observed
// solution count, rotate the challenge seed, and re-arm the window. The caller
// guards against double invocation; the end-time gate here rejects rotations
// that run early.
func (l *Ledger) AdvanceEpoch(ctx context.Context, solutionCount uint64, now time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.advanceLocked(ctx, solutionCount, now)
}

func (l *Ledger) advanceLocked(ctx context.Context, solutionCount uint64, now time.Time) error {
	if now.Unix() < l.state.EpochEndTime {
		return ErrEpochNotEnded
	}

	closing := l.state.EpochNumber
	l.state.Difficulty = poi.AdjustDifficulty(l.state.Difficulty, solutionCount, l.params)
	l.state.SolutionsInEpoch = solutionCount
	l.state.ChallengeSeed = poi.NextSeed(l.state.ChallengeSeed, now.Unix(), closing, uint64(now.UnixNano()))
	l.state.EpochNumber = closing + 1
	l.state.EpochStartTime = now.Unix()
	l.state.EpochEndTime = now.Unix() + l.params.EpochDuration

	if err := l.store.SaveState(ctx, l.state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	l.log.Info("epoch advanced",
		zap.Uint64("epoch", l.state.EpochNumber),
		zap.Uint64("solutions", solutionCount),
		zap.Uint64("difficulty", l.state.Difficulty),
	)
	return nil
}

// RotateIfDue advances the epoch when its end time has passed, counting the
// closing epoch's accepted submissions from the store. No-op before the end
// time. Returns whether a rotation happened.
func (l *Ledger) RotateIfDue(ctx context.Context, now time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Unix() < l.state.EpochEndTime {
		return false, nil
	}
	count, err := l.store.CountSubmissions(ctx, l.state.EpochNumber)
	if err != nil {
		return false, fmt.Errorf("count submissions: %w", err)
	}
	if err := l.advanceLocked(ctx, count, now); err != nil {
		return false, err
	}
	return true, nil
}

// DecodeMinerID parses a 32-byte hex miner identity.
func DecodeMinerID(s string) ([32]byte, error) {
	var id [32]byte
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("miner id: %w", err)
	}
	if len(raw) != len(id) {
		return id, fmt.Errorf("miner id: want %d bytes, got %d", len(id), len(raw))
	}
	copy(id[:], raw)
	return id, nil
}
