package app

import (
	"context"
	"time"
)

//go:generate mockgen -source=interfaces.go -destination=./app_mock.go -package=app

type Runner interface {
	Run(ctx context.Context) error
}

type Rotator interface {
	RotateIfDue(ctx context.Context, now time.Time) (bool, error)
}
