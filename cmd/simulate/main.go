// Package main runs a full token lifecycle offline: initialize a token,
// run a sale with several buyers, stake and claim rewards, and cycle a
// liquidity position. Everything runs on in-memory stores and stub
// settlement backends, so it is safe to run anywhere.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"pump-token-core/internal/domain"
	"pump-token-core/internal/events"
	"pump-token-core/internal/external/stub"
	"pump-token-core/internal/ledger"
	"pump-token-core/internal/liquidity"
	"pump-token-core/internal/sale"
	"pump-token-core/internal/staking"
	"pump-token-core/internal/storage/memory"
)

func main() {
	// Parse flags
	buyers := flag.Int("buyers", 3, "Number of buyers in the sale")
	purchaseAmount := flag.Uint64("purchase-amount", 100, "Tokens each buyer purchases")
	price := flag.Uint64("price", 100, "Price per token in value units")
	stakeAmount := flag.Uint64("stake-amount", 50, "Tokens each buyer stakes")
	rewardRateBps := flag.Uint("reward-rate-bps", 500, "Staking reward rate in basis points")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	logger := log.New(os.Stderr, "[simulate] ", log.LstdFlags)

	if *buyers < 1 {
		logger.Fatal("--buyers must be at least 1")
	}

	ctx := context.Background()

	// Simulated clock, advanced explicitly between phases.
	now := time.Now().Unix()
	clock := &simClock{now: now}

	// In-memory stores and stub settlement backends.
	tokens := memory.NewTokenStore()
	saleConfigs := memory.NewSaleConfigStore()
	receipts := memory.NewPurchaseReceiptStore()
	pools := memory.NewStakingPoolStore()
	positions := memory.NewStakingPositionStore()
	liqConfigs := memory.NewLiquidityConfigStore()
	liqRecords := memory.NewLiquidityRecordStore()
	eventStore := memory.NewEventStore()

	sink := events.NewStoreSink(eventStore)

	value := stub.NewValueTransfer()
	program := stub.NewTokenProgram()
	registry := stub.NewMetadataRegistry()

	ledgerEngine := ledger.New(tokens, program, registry, sink).WithClock(clock.Now)
	saleEngine := sale.New(tokens, saleConfigs, receipts, value, sink).WithClock(clock.Now)
	stakingEngine := staking.New(tokens, pools, positions, program, sink).WithClock(clock.Now)
	liquidityEngine := liquidity.New(tokens, liqConfigs, liqRecords, value, sink).WithClock(clock.Now)

	stats := SimulationStats{Buyers: *buyers}

	// Phase 1: token
	logger.Println("Initializing token...")
	token, err := ledgerEngine.Initialize(ctx, ledger.InitializeParams{
		Mint:     "sim-mint",
		Caller:   "issuer",
		Decimals: 0,
		Name:     "Simulated Token",
		Symbol:   "SIM",
		URI:      "https://example.com/sim.json",
	})
	if err != nil {
		logger.Fatalf("initialize token: %v", err)
	}
	stats.Token = token.Address

	// Phase 2: sale
	logger.Println("Running sale...")
	const stakingDuration = int64(86400)

	saleConfig, err := saleEngine.Initialize(ctx, sale.InitializeParams{
		TokenAddr:           token.Address,
		Caller:              "issuer",
		MinPrice:            *price,
		MaxPrice:            *price,
		MinAmount:           1,
		MaxAmount:           *purchaseAmount * uint64(*buyers),
		StartTime:           clock.Now(),
		EndTime:             clock.Now() + 3600,
		LiquidityPercentage: 30,
		StakingPercentage:   20,
	})
	if err != nil {
		logger.Fatalf("initialize sale: %v", err)
	}

	for i := 0; i < *buyers; i++ {
		buyer := fmt.Sprintf("buyer-%d", i+1)
		value.Balances[buyer] = *purchaseAmount * *price

		receipt, err := saleEngine.Purchase(ctx, saleConfig.Address, buyer, *purchaseAmount, *price)
		if err != nil {
			logger.Fatalf("purchase by %s: %v", buyer, err)
		}
		stats.TotalMinted += *purchaseAmount
		stats.TotalPaid += receipt.PaidAmount
		stats.TotalFees += receipt.FeeAmount
	}
	stats.TreasuryBalance = value.Balance(token.Treasury)

	// Phase 3: staking
	logger.Println("Staking...")
	pool, err := stakingEngine.CreatePool(ctx, token.Address, "issuer", stakingDuration, uint16(*rewardRateBps))
	if err != nil {
		logger.Fatalf("create staking pool: %v", err)
	}

	for i := 0; i < *buyers; i++ {
		owner := fmt.Sprintf("buyer-%d", i+1)
		program.SetBalance(token.Mint, owner, *stakeAmount)

		if _, err := stakingEngine.Stake(ctx, pool.Address, owner, *stakeAmount); err != nil {
			logger.Fatalf("stake by %s: %v", owner, err)
		}
		stats.TotalStaked += *stakeAmount
	}

	// Fast-forward past the lock period and claim.
	clock.Advance(stakingDuration)
	logger.Printf("Advanced clock by %ds, claiming stakes...", stakingDuration)

	for i := 0; i < *buyers; i++ {
		owner := fmt.Sprintf("buyer-%d", i+1)
		reward, err := stakingEngine.Claim(ctx, pool.Address, owner)
		if err != nil {
			logger.Fatalf("claim stake by %s: %v", owner, err)
		}
		stats.TotalRewards += reward
	}

	// Phase 4: liquidity
	logger.Println("Cycling liquidity...")
	if _, err := liquidityEngine.Initialize(ctx, token.Address, "issuer", "amm-program", "amm-pool"); err != nil {
		logger.Fatalf("initialize liquidity: %v", err)
	}

	value.Balances["issuer"] = domain.LiquidityFee
	if _, err := liquidityEngine.Create(ctx, token.Address, "issuer", stats.TotalMinted); err != nil {
		logger.Fatalf("create liquidity: %v", err)
	}
	stats.LiquidityFee = domain.LiquidityFee

	if err := liquidityEngine.Destroy(ctx, token.Address, "issuer"); err != nil {
		logger.Fatalf("destroy liquidity: %v", err)
	}

	// Collect the event log.
	emitted, err := eventStore.GetByToken(ctx, token.Address)
	if err != nil {
		logger.Fatalf("read event log: %v", err)
	}
	stats.TotalEvents = len(emitted)

	// Output summary
	if *outputJSON {
		output, _ := json.MarshalIndent(stats, "", "  ")
		fmt.Println(string(output))
		return
	}

	fmt.Printf("\n=== Simulation Summary ===\n")
	fmt.Printf("Token:            %s\n", stats.Token)
	fmt.Printf("Buyers:           %d\n", stats.Buyers)
	fmt.Printf("Tokens Minted:    %d\n", stats.TotalMinted)
	fmt.Printf("Value Paid:       %d\n", stats.TotalPaid)
	fmt.Printf("Fees Collected:   %d\n", stats.TotalFees)
	fmt.Printf("Treasury Balance: %d\n", stats.TreasuryBalance)
	fmt.Printf("Tokens Staked:    %d\n", stats.TotalStaked)
	fmt.Printf("Rewards Paid:     %d\n", stats.TotalRewards)
	fmt.Printf("Liquidity Fee:    %d\n", stats.LiquidityFee)
	fmt.Printf("Events Emitted:   %d\n", stats.TotalEvents)

	fmt.Printf("\n=== Event Log ===\n")
	for _, e := range emitted {
		fmt.Printf("[%s] %s %s\n",
			time.Unix(e.EmittedAt, 0).Format(time.RFC3339),
			e.Kind,
			e.Payload,
		)
	}
}

// SimulationStats holds the outcome of a simulation run.
type SimulationStats struct {
	Token           string `json:"token"`
	Buyers          int    `json:"buyers"`
	TotalMinted     uint64 `json:"total_minted"`
	TotalPaid       uint64 `json:"total_paid"`
	TotalFees       uint64 `json:"total_fees"`
	TreasuryBalance uint64 `json:"treasury_balance"`
	TotalStaked     uint64 `json:"total_staked"`
	TotalRewards    uint64 `json:"total_rewards"`
	LiquidityFee    uint64 `json:"liquidity_fee"`
	TotalEvents     int    `json:"total_events"`
}

// simClock is a manually advanced unix clock.
type simClock struct {
	now int64
}

func (c *simClock) Now() int64 {
	return c.now
}

func (c *simClock) Advance(seconds int64) {
	c.now += seconds
}
