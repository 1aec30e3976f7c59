package domain

// MaxRewardRateBps caps pool reward rates at 100% of principal.
const MaxRewardRateBps = 10000

// StakingPool represents the per-token staking program.
// Corresponds to staking_pools table in PostgreSQL.
type StakingPool struct {
	Address       string // PRIMARY KEY, PDA-equivalent derived from token
	Token         string // owning token address
	Duration      int64  // lock duration in seconds, > 0
	RewardRateBps uint16 // reward as basis points of principal, 1..10000
	TotalStaked   uint64 // sum of open position principals
	TotalRewards  uint64 // rewards paid out to date
	Active        bool
}

// StakingPosition is a depositor's lock within one pool.
// One record per (pool, owner); corresponds to staking_positions table.
type StakingPosition struct {
	Address   string // PRIMARY KEY, PDA-equivalent derived from (pool, owner)
	Owner     string
	Pool      string // owning pool address
	Amount    uint64 // locked principal, whole-token units
	StartTime int64  // Unix seconds
	EndTime   int64  // StartTime + pool.Duration
	Claimed   bool   // transitions false -> true exactly once at unlock
}
