package domain

import "errors"

// Validation errors.
var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrInvalidTime       = errors.New("invalid time")
	ErrInvalidPercentage = errors.New("invalid percentage")
	ErrInvalidDecimals   = errors.New("invalid decimals")
	ErrInvalidDuration   = errors.New("invalid duration")
	ErrInvalidRewardRate = errors.New("invalid reward rate")
	ErrNameTooLong       = errors.New("name too long")
	ErrSymbolTooLong     = errors.New("symbol too long")
	ErrURITooLong        = errors.New("uri too long")
)

// Authorization errors.
var (
	ErrUnauthorized = errors.New("unauthorized")
)

// State errors.
var (
	ErrAlreadyInitialized     = errors.New("already initialized")
	ErrNotInitialized         = errors.New("not initialized")
	ErrTokenPaused            = errors.New("token is paused")
	ErrAlreadyPaused          = errors.New("token is already paused")
	ErrNotPaused              = errors.New("token is not paused")
	ErrMintNotActive          = errors.New("mint not active")
	ErrMintNotStarted         = errors.New("mint not started")
	ErrMintEnded              = errors.New("mint ended")
	ErrStakingNotActive       = errors.New("staking not active")
	ErrStakingPeriodNotEnded  = errors.New("staking period not ended")
	ErrAlreadyClaimed         = errors.New("already claimed")
	ErrLiquidityAlreadyExists = errors.New("liquidity already exists")
	ErrLiquidityNotExists     = errors.New("liquidity not exists")
)

// Bound errors.
var (
	ErrAmountTooSmall  = errors.New("amount too small")
	ErrAmountTooLarge  = errors.New("amount too large")
	ErrExceedMaxAmount = errors.New("exceed max amount")
)

// Arithmetic errors. ErrInsufficientFunds covers supply underflow on burn.
var (
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	ErrInsufficientFunds  = errors.New("insufficient funds")
)
