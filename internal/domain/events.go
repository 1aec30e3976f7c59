package domain

// Event is a domain event emitted for external indexing. Events are not
// consumed internally.
type Event interface {
	// EventKind returns the event name, e.g. "TokenInitialized".
	EventKind() string
	// EventToken returns the owning token address.
	EventToken() string
}

// Event kind constants.
const (
	KindTokenInitialized     = "TokenInitialized"
	KindTokenMetadataUpdated = "TokenMetadataUpdated"
	KindAdminUpdated         = "AdminUpdated"
	KindTreasuryUpdated      = "TreasuryUpdated"
	KindTokenMinted          = "TokenMinted"
	KindTokenBurned          = "TokenBurned"
	KindMintInitialized      = "MintInitialized"
	KindLiquidityInitialized = "LiquidityInitialized"
	KindLiquidityCreated     = "LiquidityCreated"
	KindLiquidityDestroyed   = "LiquidityDestroyed"
	KindStakingPoolCreated   = "StakingPoolCreated"
	KindTokenStaked          = "TokenStaked"
	KindStakeClaimed         = "StakeClaimed"
)

// TokenInitialized is emitted once when a token ledger is created.
type TokenInitialized struct {
	Token     string `json:"token"`
	Mint      string `json:"mint"`
	Authority string `json:"authority"`
	Decimals  uint8  `json:"decimals"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	URI       string `json:"uri"`
}

func (e TokenInitialized) EventKind() string  { return KindTokenInitialized }
func (e TokenInitialized) EventToken() string { return e.Token }

// TokenMetadataUpdated is emitted on metadata replacement.
type TokenMetadataUpdated struct {
	Token  string `json:"token"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	URI    string `json:"uri"`
}

func (e TokenMetadataUpdated) EventKind() string  { return KindTokenMetadataUpdated }
func (e TokenMetadataUpdated) EventToken() string { return e.Token }

// AdminUpdated captures the old and new admin keys.
type AdminUpdated struct {
	Token    string `json:"token"`
	OldAdmin string `json:"old_admin"`
	NewAdmin string `json:"new_admin"`
}

func (e AdminUpdated) EventKind() string  { return KindAdminUpdated }
func (e AdminUpdated) EventToken() string { return e.Token }

// TreasuryUpdated captures the old and new treasury keys.
type TreasuryUpdated struct {
	Token       string `json:"token"`
	OldTreasury string `json:"old_treasury"`
	NewTreasury string `json:"new_treasury"`
}

func (e TreasuryUpdated) EventKind() string  { return KindTreasuryUpdated }
func (e TreasuryUpdated) EventToken() string { return e.Token }

// TokenMinted is emitted on every supply increase: direct authority
// mints (paid/fee zero) and sale purchases.
type TokenMinted struct {
	Token      string `json:"token"`
	User       string `json:"user"`
	Amount     uint64 `json:"amount"`
	PaidAmount uint64 `json:"paid_amount"`
	FeeAmount  uint64 `json:"fee_amount"`
}

func (e TokenMinted) EventKind() string  { return KindTokenMinted }
func (e TokenMinted) EventToken() string { return e.Token }

// TokenBurned is emitted on a direct authority burn.
type TokenBurned struct {
	Token  string `json:"token"`
	User   string `json:"user"`
	Amount uint64 `json:"amount"`
}

func (e TokenBurned) EventKind() string  { return KindTokenBurned }
func (e TokenBurned) EventToken() string { return e.Token }

// MintInitialized is emitted once when a sale window is configured.
type MintInitialized struct {
	Token     string `json:"token"`
	MinPrice  uint64 `json:"min_price"`
	MaxPrice  uint64 `json:"max_price"`
	MaxAmount uint64 `json:"max_amount"`
	StartTime int64  `json:"start_time"`
	EndTime   int64  `json:"end_time"`
}

func (e MintInitialized) EventKind() string  { return KindMintInitialized }
func (e MintInitialized) EventToken() string { return e.Token }

// LiquidityInitialized records the external AMM coordinates.
type LiquidityInitialized struct {
	Token       string `json:"token"`
	AMMProgram  string `json:"amm_program"`
	PoolAddress string `json:"pool_address"`
}

func (e LiquidityInitialized) EventKind() string  { return KindLiquidityInitialized }
func (e LiquidityInitialized) EventToken() string { return e.Token }

// LiquidityCreated is emitted when a liquidity record is created.
type LiquidityCreated struct {
	Token  string `json:"token"`
	Amount uint64 `json:"amount"`
}

func (e LiquidityCreated) EventKind() string  { return KindLiquidityCreated }
func (e LiquidityCreated) EventToken() string { return e.Token }

// LiquidityDestroyed is emitted when a liquidity record is retired.
type LiquidityDestroyed struct {
	Token  string `json:"token"`
	Amount uint64 `json:"amount"`
}

func (e LiquidityDestroyed) EventKind() string  { return KindLiquidityDestroyed }
func (e LiquidityDestroyed) EventToken() string { return e.Token }

// StakingPoolCreated is emitted once when a pool is configured.
type StakingPoolCreated struct {
	Token         string `json:"token"`
	Duration      int64  `json:"duration"`
	RewardRateBps uint16 `json:"reward_rate_bps"`
}

func (e StakingPoolCreated) EventKind() string  { return KindStakingPoolCreated }
func (e StakingPoolCreated) EventToken() string { return e.Token }

// TokenStaked is emitted on every accepted stake.
type TokenStaked struct {
	Token   string `json:"token"`
	Owner   string `json:"owner"`
	Amount  uint64 `json:"amount"`
	EndTime int64  `json:"end_time"`
}

func (e TokenStaked) EventKind() string  { return KindTokenStaked }
func (e TokenStaked) EventToken() string { return e.Token }

// StakeClaimed is emitted when a matured position pays out.
type StakeClaimed struct {
	Token  string `json:"token"`
	Owner  string `json:"owner"`
	Amount uint64 `json:"amount"`
	Reward uint64 `json:"reward"`
}

func (e StakeClaimed) EventKind() string  { return KindStakeClaimed }
func (e StakeClaimed) EventToken() string { return e.Token }
