package poi

// Params holds the protocol constants. A Params value is built once at startup
// and shared read-only between the verifiers and the ledger.
type Params struct {
	MaxSupply         uint64
	InitialReward     uint64
	HalvingInterval   uint64
	EpochDuration     int64 // seconds
	TargetSolutions   uint64
	InitialDifficulty uint64
	MinDifficulty     uint64
	MaxDifficulty     uint64
	MaxDifficultyAdj  uint64
	ClaimExpiryEpochs uint64
}

// DefaultParams returns the production constants: 2.1 quadrillion tokens at 3
// decimals, 5 billion initial reward, halving every 210k accepted solutions.
func DefaultParams() Params {
	return Params{
		MaxSupply:         2_100_000_000_000_000 * 1_000,
		InitialReward:     5_000_000_000 * 1_000,
		HalvingInterval:   210_000,
		EpochDuration:     600,
		TargetSolutions:   50,
		InitialDifficulty: 8,
		MinDifficulty:     4,
		MaxDifficulty:     250,
		MaxDifficultyAdj:  5,
		ClaimExpiryEpochs: 500,
	}
}
