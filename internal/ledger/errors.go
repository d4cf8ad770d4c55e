package ledger

import "errors"

var (
	// ErrEpochEnded rejects submissions arriving after the epoch's end time.
	ErrEpochEnded = errors.New("epoch ended")
	// ErrMaxSupply rejects submissions once emission has reached the cap.
	ErrMaxSupply = errors.New("max supply reached")
	// ErrInvalidText rejects a submission whose text fails verification.
	// Deliberately carries no rule-level detail.
	ErrInvalidText = errors.New("text verification failed")
	// ErrInsufficientDifficulty rejects a digest missing the difficulty target.
	ErrInsufficientDifficulty = errors.New("insufficient difficulty")
	// ErrDuplicateSubmission rejects a second solution from the same miner in
	// the same epoch.
	ErrDuplicateSubmission = errors.New("duplicate submission")
	// ErrEpochNotEnded guards claims and rotations that run too early.
	ErrEpochNotEnded = errors.New("epoch not ended")
	// ErrClaimExpired rejects claims past the expiry window.
	ErrClaimExpired = errors.New("claim expired")
	// ErrNotExpired guards CloseExpired against premature cleanup.
	ErrNotExpired = errors.New("submission not expired")
	// ErrNoSubmission reports a missing (miner, epoch) record.
	ErrNoSubmission = errors.New("no such submission")
)
