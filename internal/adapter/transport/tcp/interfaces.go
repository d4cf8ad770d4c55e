package tcp

import (
	"context"

	"github.com/dayanaadylkhanova/proof-of-inference/internal/entity"
)

//go:generate mockgen -source=interfaces.go -destination=./server_mock.go -package=tcp

type Ledger interface {
	Challenge(ctx context.Context) (entity.Challenge, error)
	Submit(ctx context.Context, sub entity.Submission) (entity.SubmissionRecord, error)
}
