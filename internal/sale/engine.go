// Package sale owns the time-boxed, price-bounded primary sale. A sale
// moves Uninitialized -> Active -> Ended; Ended is reached by the clock
// passing end_time or by the admin clearing the active flag, and there is
// no way back. Each purchase settles payment with the treasury before any
// state is persisted.
package sale

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pump-token-core/internal/addressing"
	"pump-token-core/internal/authz"
	"pump-token-core/internal/checked"
	"pump-token-core/internal/domain"
	"pump-token-core/internal/events"
	"pump-token-core/internal/external"
	"pump-token-core/internal/storage"
)

// Engine implements the sale operations.
type Engine struct {
	tokens   storage.TokenStore
	configs  storage.SaleConfigStore
	receipts storage.PurchaseReceiptStore
	value    external.ValueTransfer
	sink     events.Sink
	nowFn    func() int64
}

// New creates a sale engine.
func New(tokens storage.TokenStore, configs storage.SaleConfigStore, receipts storage.PurchaseReceiptStore, value external.ValueTransfer, sink events.Sink) *Engine {
	return &Engine{
		tokens:   tokens,
		configs:  configs,
		receipts: receipts,
		value:    value,
		sink:     sink,
		nowFn:    func() int64 { return time.Now().Unix() },
	}
}

// WithClock overrides the engine clock. Each request reads it once.
func (e *Engine) WithClock(nowFn func() int64) *Engine {
	e.nowFn = nowFn
	return e
}

// InitializeParams are the inputs to Initialize.
type InitializeParams struct {
	TokenAddr           string
	Caller              string
	MinPrice            uint64
	MaxPrice            uint64
	MinAmount           uint64
	MaxAmount           uint64
	StartTime           int64
	EndTime             int64
	LiquidityPercentage uint8
	StakingPercentage   uint8
}

// Initialize configures the sale window for a token. Admin only; one-shot
// per token. The protocol fee rate is fixed at 100 bps.
func (e *Engine) Initialize(ctx context.Context, p InitializeParams) (*domain.SaleConfig, error) {
	if p.MinPrice == 0 || p.MaxPrice < p.MinPrice {
		return nil, domain.ErrInvalidPrice
	}
	if p.MaxAmount <= p.MinAmount {
		return nil, domain.ErrInvalidAmount
	}
	if p.EndTime <= p.StartTime {
		return nil, domain.ErrInvalidTime
	}
	if int(p.LiquidityPercentage)+int(p.StakingPercentage) > 100 {
		return nil, domain.ErrInvalidPercentage
	}

	token, err := e.loadToken(ctx, p.TokenAddr)
	if err != nil {
		return nil, err
	}
	if err := authz.Require(authz.OpInitializeSale, token, p.Caller); err != nil {
		return nil, err
	}

	config := &domain.SaleConfig{
		Address:             addressing.SaleConfig(token.Address),
		Token:               token.Address,
		MinPrice:            p.MinPrice,
		MaxPrice:            p.MaxPrice,
		MinAmount:           p.MinAmount,
		MaxAmount:           p.MaxAmount,
		StartTime:           p.StartTime,
		EndTime:             p.EndTime,
		LiquidityPercentage: p.LiquidityPercentage,
		StakingPercentage:   p.StakingPercentage,
		TotalMinted:         0,
		FeeRateBps:          domain.DefaultFeeRateBps,
		Active:              true,
	}

	if err := e.configs.Insert(ctx, config); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, domain.ErrAlreadyInitialized
		}
		return nil, fmt.Errorf("insert sale config: %w", err)
	}

	if err := e.sink.Emit(ctx, domain.MintInitialized{
		Token:     token.Address,
		MinPrice:  config.MinPrice,
		MaxPrice:  config.MaxPrice,
		MaxAmount: config.MaxAmount,
		StartTime: config.StartTime,
		EndTime:   config.EndTime,
	}); err != nil {
		return nil, err
	}

	return config, nil
}

// Deactivate clears the active flag, ending the sale early. Admin only.
// There is no transition back to active.
func (e *Engine) Deactivate(ctx context.Context, saleAddr, caller string) error {
	config, err := e.loadConfig(ctx, saleAddr)
	if err != nil {
		return err
	}
	token, err := e.loadToken(ctx, config.Token)
	if err != nil {
		return err
	}
	if err := authz.Require(authz.OpInitializeSale, token, caller); err != nil {
		return err
	}
	if !config.Active {
		return domain.ErrMintNotActive
	}

	config.Active = false
	if err := e.configs.Update(ctx, config); err != nil {
		return fmt.Errorf("update sale config: %w", err)
	}
	return nil
}

// Purchase buys amount tokens at price. The buyer pays
// paid = amount*price, of which fee = floor(paid*fee_rate/10000) stays
// with the protocol and net = paid-fee is transferred to the treasury.
// The buyer's receipt accumulates across purchases.
func (e *Engine) Purchase(ctx context.Context, saleAddr, buyer string, amount, price uint64) (*domain.PurchaseReceipt, error) {
	now := e.nowFn()

	config, err := e.loadConfig(ctx, saleAddr)
	if err != nil {
		return nil, err
	}
	if !config.Active {
		return nil, domain.ErrMintNotActive
	}
	if now < config.StartTime {
		return nil, domain.ErrMintNotStarted
	}
	if now > config.EndTime {
		return nil, domain.ErrMintEnded
	}
	if amount < config.MinAmount {
		return nil, domain.ErrAmountTooSmall
	}
	if amount > config.MaxAmount {
		return nil, domain.ErrAmountTooLarge
	}
	if price < config.MinPrice || price > config.MaxPrice {
		return nil, domain.ErrInvalidPrice
	}

	minted, err := checked.Add(config.TotalMinted, amount)
	if err != nil {
		return nil, err
	}
	if minted > config.MaxAmount {
		return nil, domain.ErrExceedMaxAmount
	}

	paid, err := checked.Mul(amount, price)
	if err != nil {
		return nil, err
	}
	feeTimesRate, err := checked.Mul(paid, uint64(config.FeeRateBps))
	if err != nil {
		return nil, err
	}
	fee, err := checked.Div(feeTimesRate, domain.BpsDenominator)
	if err != nil {
		return nil, err
	}
	net, err := checked.Sub(paid, fee)
	if err != nil {
		return nil, err
	}

	receiptAddr := addressing.PurchaseReceipt(config.Address, buyer)
	receipt, err := e.receipts.Get(ctx, receiptAddr)
	firstPurchase := false
	switch {
	case err == nil:
		// Re-purchase after claim is rejected until product intent is
		// settled; the claimed flag never resets.
		if receipt.Claimed {
			return nil, domain.ErrAlreadyClaimed
		}
	case errors.Is(err, storage.ErrNotFound):
		firstPurchase = true
		receipt = &domain.PurchaseReceipt{
			Address:   receiptAddr,
			Sale:      config.Address,
			Buyer:     buyer,
			CreatedAt: now,
		}
	default:
		return nil, fmt.Errorf("load receipt: %w", err)
	}

	newAmount, err := checked.Add(receipt.Amount, amount)
	if err != nil {
		return nil, err
	}
	newPaid, err := checked.Add(receipt.PaidAmount, paid)
	if err != nil {
		return nil, err
	}
	newFee, err := checked.Add(receipt.FeeAmount, fee)
	if err != nil {
		return nil, err
	}

	token, err := e.loadToken(ctx, config.Token)
	if err != nil {
		return nil, err
	}

	// Payment settles first; any failure rejects the purchase with no
	// state persisted.
	if err := e.value.Transfer(ctx, buyer, token.Treasury, net); err != nil {
		return nil, fmt.Errorf("transfer payment: %w", err)
	}

	config.TotalMinted = minted
	receipt.Amount = newAmount
	receipt.PaidAmount = newPaid
	receipt.FeeAmount = newFee
	receipt.MintTime = now

	if err := e.configs.Update(ctx, config); err != nil {
		return nil, fmt.Errorf("update sale config: %w", err)
	}
	if firstPurchase {
		err = e.receipts.Insert(ctx, receipt)
	} else {
		err = e.receipts.Update(ctx, receipt)
	}
	if err != nil {
		return nil, fmt.Errorf("persist receipt: %w", err)
	}

	if err := e.sink.Emit(ctx, domain.TokenMinted{
		Token:      config.Token,
		User:       buyer,
		Amount:     amount,
		PaidAmount: paid,
		FeeAmount:  fee,
	}); err != nil {
		return nil, err
	}

	return receipt, nil
}

// Claim acknowledges a receipt exactly once. There is no time gate: the
// purchased allocation is not itself transferred here.
func (e *Engine) Claim(ctx context.Context, saleAddr, buyer string) error {
	receiptAddr := addressing.PurchaseReceipt(saleAddr, buyer)
	receipt, err := e.receipts.Get(ctx, receiptAddr)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.ErrNotInitialized
		}
		return fmt.Errorf("load receipt: %w", err)
	}
	if receipt.Claimed {
		return domain.ErrAlreadyClaimed
	}

	receipt.Claimed = true
	if err := e.receipts.Update(ctx, receipt); err != nil {
		return fmt.Errorf("update receipt: %w", err)
	}
	return nil
}

// Get retrieves a sale config by address.
func (e *Engine) Get(ctx context.Context, saleAddr string) (*domain.SaleConfig, error) {
	return e.loadConfig(ctx, saleAddr)
}

// GetReceipt retrieves a buyer's receipt for a sale.
func (e *Engine) GetReceipt(ctx context.Context, saleAddr, buyer string) (*domain.PurchaseReceipt, error) {
	receipt, err := e.receipts.Get(ctx, addressing.PurchaseReceipt(saleAddr, buyer))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("load receipt: %w", err)
	}
	return receipt, nil
}

// GetActive retrieves all sales open at the current clock reading.
func (e *Engine) GetActive(ctx context.Context) ([]*domain.SaleConfig, error) {
	return e.configs.GetActive(ctx, e.nowFn())
}

func (e *Engine) loadConfig(ctx context.Context, saleAddr string) (*domain.SaleConfig, error) {
	config, err := e.configs.Get(ctx, saleAddr)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("load sale config: %w", err)
	}
	return config, nil
}

func (e *Engine) loadToken(ctx context.Context, tokenAddr string) (*domain.Token, error) {
	token, err := e.tokens.Get(ctx, tokenAddr)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("load token: %w", err)
	}
	return token, nil
}
