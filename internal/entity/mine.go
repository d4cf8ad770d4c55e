package entity

// MineState is the shared epoch/emission state. A single writer (the ledger)
// mutates it at epoch rotation and claim time; verification reads snapshots.
type MineState struct {
	TotalMined       uint64
	Difficulty       uint64
	ChallengeSeed    [32]byte
	EpochNumber      uint64
	EpochStartTime   int64
	EpochEndTime     int64
	SolutionsInEpoch uint64
	TotalSupply      uint64
}

// SubmissionRecord is one accepted solution awaiting claim, keyed by
// (miner, epoch).
type SubmissionRecord struct {
	ID     string
	Miner  [32]byte
	Epoch  uint64
	Nonce  uint64
	Digest [32]byte
}
