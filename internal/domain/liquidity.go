package domain

// LiquidityFee is the fixed protocol fee, in native base units, charged
// when a liquidity record is created (6 SOL in lamports).
const LiquidityFee uint64 = 6_000_000_000

// LiquidityConfig records the external AMM coordinates for a token.
// One per token; corresponds to liquidity_configs table in PostgreSQL.
type LiquidityConfig struct {
	Address     string // PRIMARY KEY, PDA-equivalent derived from token
	Token       string // owning token address
	AMMProgram  string // external AMM program handle
	PoolAddress string // external pool address
	Initialized bool
}

// LiquidityRecord tracks funds committed to external liquidity.
// Lifecycle is create -> destroy; corresponds to liquidity_records table.
type LiquidityRecord struct {
	Address   string // PRIMARY KEY, PDA-equivalent derived from token
	Token     string // owning token address
	Amount    uint64
	CreatedAt int64 // Unix seconds
	Destroyed bool  // transitions false -> true exactly once
}
