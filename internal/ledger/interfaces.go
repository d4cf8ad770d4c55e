package ledger

import (
	"context"

	"github.com/dayanaadylkhanova/proof-of-inference/internal/entity"
)

// Store persists the mine state and pending submissions. Implementations must
// enforce (miner, epoch) uniqueness on insert by returning
// ErrDuplicateSubmission, and return ErrNoSubmission on lookups that miss.
type Store interface {
	LoadState(ctx context.Context) (entity.MineState, bool, error)
	SaveState(ctx context.Context, st entity.MineState) error
	InsertSubmission(ctx context.Context, rec entity.SubmissionRecord) error
	GetSubmission(ctx context.Context, miner [32]byte, epoch uint64) (entity.SubmissionRecord, error)
	DeleteSubmission(ctx context.Context, miner [32]byte, epoch uint64) error
	CountSubmissions(ctx context.Context, epoch uint64) (uint64, error)
}
