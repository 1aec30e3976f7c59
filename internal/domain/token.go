package domain

// Limits on token identity fields.
const (
	MaxDecimals  = 9
	MaxNameLen   = 32
	MaxSymbolLen = 10
	MaxURILen    = 200
)

// Token represents the per-token ledger record: identity, supply counter,
// pause flag and role set. Corresponds to tokens table in PostgreSQL.
type Token struct {
	Address     string // PRIMARY KEY, PDA-equivalent derived from mint
	Mint        string // token mint address (identity handle)
	Authority   string // issuer key, gates pause/mint/burn
	Admin       string // admin key, gates config operations
	Treasury    string // treasury key, receives sale proceeds and fees
	Decimals    uint8  // 0..9
	TotalSupply uint64 // whole-token units, changes via checked add/sub only
	Initialized bool
	Paused      bool
	CreatedAt   int64  // Unix timestamp in seconds
	Name        string // <= 32 bytes
	Symbol      string // <= 10 bytes
	URI         string // <= 200 bytes
}
