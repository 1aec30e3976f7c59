package domain

// DefaultFeeRateBps is the protocol fee charged on every purchase (1%).
const DefaultFeeRateBps = 100

// BpsDenominator converts basis points to a fraction.
const BpsDenominator = 10000

// SaleConfig represents the per-token primary sale window.
// Corresponds to sale_configs table in PostgreSQL.
type SaleConfig struct {
	Address             string // PRIMARY KEY, PDA-equivalent derived from token
	Token               string // owning token address
	MinPrice            uint64 // native base units per whole token, > 0
	MaxPrice            uint64 // >= MinPrice; fixed-price sale when equal
	MinAmount           uint64 // smallest accepted purchase
	MaxAmount           uint64 // sale cap, > MinAmount
	StartTime           int64  // Unix seconds, inclusive
	EndTime             int64  // Unix seconds, inclusive, > StartTime
	LiquidityPercentage uint8  // share of proceeds reserved for liquidity
	StakingPercentage   uint8  // share of proceeds reserved for staking
	TotalMinted         uint64 // monotonically increasing, <= MaxAmount
	FeeRateBps          uint16 // protocol fee in basis points
	Active              bool   // cleared by admin to end the sale early
}

// PurchaseReceipt accumulates a buyer's purchases within one sale.
// One record per (sale, buyer); corresponds to purchase_receipts table.
type PurchaseReceipt struct {
	Address    string // PRIMARY KEY, PDA-equivalent derived from (sale, buyer)
	Sale       string // owning sale config address
	Buyer      string
	Amount     uint64 // accumulated purchased amount
	PaidAmount uint64 // accumulated gross payment
	FeeAmount  uint64 // accumulated protocol fees
	Claimed    bool   // transitions false -> true exactly once
	MintTime   int64  // last purchase time, Unix seconds
	CreatedAt  int64  // first purchase time, Unix seconds
}
