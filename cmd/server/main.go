// Package main runs the token core as an HTTP service: the ledger, sale,
// staking and liquidity engines behind a JSON API, with live domain
// events on a websocket and Prometheus metrics.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"pump-token-core/internal/domain"
	"pump-token-core/internal/events"
	"pump-token-core/internal/external/stub"
	"pump-token-core/internal/ledger"
	"pump-token-core/internal/liquidity"
	"pump-token-core/internal/observability"
	"pump-token-core/internal/sale"
	"pump-token-core/internal/staking"
	"pump-token-core/internal/storage"
	chstore "pump-token-core/internal/storage/clickhouse"
	"pump-token-core/internal/storage/memory"
	"pump-token-core/internal/storage/migrations"
	pgstore "pump-token-core/internal/storage/postgres"
)

// Server holds all components of the service.
type Server struct {
	ledger    *ledger.Engine
	sale      *sale.Engine
	staking   *staking.Engine
	liquidity *liquidity.Engine

	eventStore  storage.EventStore
	broadcaster *events.Broadcaster
	logger      *log.Logger

	started  time.Time
	requests atomic.Int64
}

// allStores holds all storage implementations.
type allStores struct {
	tokenStore           storage.TokenStore
	saleConfigStore      storage.SaleConfigStore
	purchaseReceiptStore storage.PurchaseReceiptStore
	stakingPoolStore     storage.StakingPoolStore
	stakingPositionStore storage.StakingPositionStore
	liquidityConfigStore storage.LiquidityConfigStore
	liquidityRecordStore storage.LiquidityRecordStore
	eventStore           storage.EventStore
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	listenAddr := flag.String("listen-addr", envOr("LISTEN_ADDR", ":8080"), "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	migrate := flag.Bool("migrate", true, "Apply database migrations on startup")
	shutdownTimeout := flag.Duration("shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory, *migrate)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	broadcaster := events.NewBroadcaster(nil)
	defer broadcaster.Close()

	sink := events.Multi{
		events.NewStoreSink(stores.eventStore),
		broadcaster,
		metricsSink{},
	}

	// Settlement backends. The service keeps its own balance ledger for
	// payments and token accounts; swap these for chain-backed clients
	// when running against a live cluster.
	value := stub.NewValueTransfer()
	program := stub.NewTokenProgram()
	registry := stub.NewMetadataRegistry()

	server := &Server{
		ledger:      ledger.New(stores.tokenStore, program, registry, sink),
		sale:        sale.New(stores.tokenStore, stores.saleConfigStore, stores.purchaseReceiptStore, value, sink),
		staking:     staking.New(stores.tokenStore, stores.stakingPoolStore, stores.stakingPositionStore, program, sink),
		liquidity:   liquidity.New(stores.tokenStore, stores.liquidityConfigStore, stores.liquidityRecordStore, value, sink),
		eventStore:  stores.eventStore,
		broadcaster: broadcaster,
		logger:      logger,
		started:     time.Now(),
	}

	httpServer := &http.Server{
		Addr:         *listenAddr,
		Handler:      server.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), *shutdownTimeout)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
		cancel()
	}()

	logger.Printf("Listening on %s", *listenAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("HTTP server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores creates all required stores.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory, migrate bool) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			tokenStore:           memory.NewTokenStore(),
			saleConfigStore:      memory.NewSaleConfigStore(),
			purchaseReceiptStore: memory.NewPurchaseReceiptStore(),
			stakingPoolStore:     memory.NewStakingPoolStore(),
			stakingPositionStore: memory.NewStakingPositionStore(),
			liquidityConfigStore: memory.NewLiquidityConfigStore(),
			liquidityRecordStore: memory.NewLiquidityRecordStore(),
			eventStore:           memory.NewEventStore(),
		}
		return stores, func() {}, nil
	}

	// PostgreSQL holds the mutable records.
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if migrate {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
	}

	// ClickHouse holds the append-only event log.
	var chConn *chstore.Conn
	if migrate {
		chConn, err = migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	} else {
		chConn, err = chstore.NewConn(ctx, clickhouseDSN)
	}
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}

	stores := &allStores{
		tokenStore:           pgstore.NewTokenStore(pool),
		saleConfigStore:      pgstore.NewSaleConfigStore(pool),
		purchaseReceiptStore: pgstore.NewPurchaseReceiptStore(pool),
		stakingPoolStore:     pgstore.NewStakingPoolStore(pool),
		stakingPositionStore: pgstore.NewStakingPositionStore(pool),
		liquidityConfigStore: pgstore.NewLiquidityConfigStore(pool),
		liquidityRecordStore: pgstore.NewLiquidityRecordStore(pool),
		eventStore:           chstore.NewEventStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}

// routes builds the HTTP mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Token ledger
	mux.HandleFunc("POST /v1/tokens", s.handleInitializeToken)
	mux.HandleFunc("GET /v1/tokens/{address}", s.handleGetToken)
	mux.HandleFunc("POST /v1/tokens/{address}/metadata", s.handleUpdateMetadata)
	mux.HandleFunc("POST /v1/tokens/{address}/admin", s.handleUpdateAdmin)
	mux.HandleFunc("POST /v1/tokens/{address}/treasury", s.handleUpdateTreasury)
	mux.HandleFunc("POST /v1/tokens/{address}/pause", s.handlePause)
	mux.HandleFunc("POST /v1/tokens/{address}/unpause", s.handleUnpause)
	mux.HandleFunc("POST /v1/tokens/{address}/mint", s.handleMint)
	mux.HandleFunc("POST /v1/tokens/{address}/burn", s.handleBurn)
	mux.HandleFunc("GET /v1/tokens/{address}/events", s.handleGetEvents)

	// Sale
	mux.HandleFunc("POST /v1/sales", s.handleInitializeSale)
	mux.HandleFunc("GET /v1/sales/active", s.handleGetActiveSales)
	mux.HandleFunc("GET /v1/sales/{address}", s.handleGetSale)
	mux.HandleFunc("POST /v1/sales/{address}/deactivate", s.handleDeactivateSale)
	mux.HandleFunc("POST /v1/sales/{address}/purchase", s.handlePurchase)
	mux.HandleFunc("POST /v1/sales/{address}/claim", s.handleClaimPurchase)
	mux.HandleFunc("GET /v1/sales/{address}/receipts/{buyer}", s.handleGetReceipt)

	// Staking
	mux.HandleFunc("POST /v1/staking/pools", s.handleCreateStakingPool)
	mux.HandleFunc("GET /v1/staking/pools/{address}", s.handleGetStakingPool)
	mux.HandleFunc("GET /v1/staking/pools/{address}/positions", s.handleGetStakingPositions)
	mux.HandleFunc("POST /v1/staking/pools/{address}/stake", s.handleStake)
	mux.HandleFunc("POST /v1/staking/pools/{address}/claim", s.handleClaimStake)

	// Liquidity
	mux.HandleFunc("POST /v1/liquidity/{token}/initialize", s.handleInitializeLiquidity)
	mux.HandleFunc("POST /v1/liquidity/{token}/create", s.handleCreateLiquidity)
	mux.HandleFunc("POST /v1/liquidity/{token}/destroy", s.handleDestroyLiquidity)
	mux.HandleFunc("GET /v1/liquidity/{token}", s.handleGetLiquidity)

	// Operational
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.Handle("GET /metrics", observability.Handler())
	mux.Handle("GET /events", s.broadcaster.Handler())

	return s.countRequests(mux)
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		next.ServeHTTP(w, r)
	})
}

// --- Token ledger handlers ---

func (s *Server) handleInitializeToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mint     string `json:"mint"`
		Caller   string `json:"caller"`
		Decimals uint8  `json:"decimals"`
		Name     string `json:"name"`
		Symbol   string `json:"symbol"`
		URI      string `json:"uri"`
	}
	if !decode(w, r, &req) {
		return
	}

	token, err := s.ledger.Initialize(r.Context(), ledger.InitializeParams{
		Mint:     req.Mint,
		Caller:   req.Caller,
		Decimals: req.Decimals,
		Name:     req.Name,
		Symbol:   req.Symbol,
		URI:      req.URI,
	})
	s.respond(w, "initialize_token", token, err)
}

func (s *Server) handleGetToken(w http.ResponseWriter, r *http.Request) {
	token, err := s.ledger.Get(r.Context(), r.PathValue("address"))
	s.respond(w, "get_token", token, err)
}

func (s *Server) handleUpdateMetadata(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller string `json:"caller"`
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
		URI    string `json:"uri"`
	}
	if !decode(w, r, &req) {
		return
	}
	err := s.ledger.UpdateMetadata(r.Context(), r.PathValue("address"), req.Caller, req.Name, req.Symbol, req.URI)
	s.respond(w, "update_metadata", nil, err)
}

func (s *Server) handleUpdateAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller   string `json:"caller"`
		NewAdmin string `json:"new_admin"`
	}
	if !decode(w, r, &req) {
		return
	}
	err := s.ledger.UpdateAdmin(r.Context(), r.PathValue("address"), req.Caller, req.NewAdmin)
	s.respond(w, "update_admin", nil, err)
}

func (s *Server) handleUpdateTreasury(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller      string `json:"caller"`
		NewTreasury string `json:"new_treasury"`
	}
	if !decode(w, r, &req) {
		return
	}
	err := s.ledger.UpdateTreasury(r.Context(), r.PathValue("address"), req.Caller, req.NewTreasury)
	s.respond(w, "update_treasury", nil, err)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller string `json:"caller"`
	}
	if !decode(w, r, &req) {
		return
	}
	err := s.ledger.Pause(r.Context(), r.PathValue("address"), req.Caller)
	s.respond(w, "pause", nil, err)
}

func (s *Server) handleUnpause(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller string `json:"caller"`
	}
	if !decode(w, r, &req) {
		return
	}
	err := s.ledger.Unpause(r.Context(), r.PathValue("address"), req.Caller)
	s.respond(w, "unpause", nil, err)
}

func (s *Server) handleMint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller  string `json:"caller"`
		Account string `json:"account"`
		Amount  uint64 `json:"amount"`
	}
	if !decode(w, r, &req) {
		return
	}
	err := s.ledger.Mint(r.Context(), r.PathValue("address"), req.Caller, req.Account, req.Amount)
	s.respond(w, "mint", nil, err)
}

func (s *Server) handleBurn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller  string `json:"caller"`
		Account string `json:"account"`
		Amount  uint64 `json:"amount"`
	}
	if !decode(w, r, &req) {
		return
	}
	err := s.ledger.Burn(r.Context(), r.PathValue("address"), req.Caller, req.Account, req.Amount)
	s.respond(w, "burn", nil, err)
}

func (s *Server) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	evs, err := s.eventStore.GetByToken(r.Context(), r.PathValue("address"))
	s.respond(w, "get_events", evs, err)
}

// --- Sale handlers ---

func (s *Server) handleInitializeSale(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token               string `json:"token"`
		Caller              string `json:"caller"`
		MinPrice            uint64 `json:"min_price"`
		MaxPrice            uint64 `json:"max_price"`
		MinAmount           uint64 `json:"min_amount"`
		MaxAmount           uint64 `json:"max_amount"`
		StartTime           int64  `json:"start_time"`
		EndTime             int64  `json:"end_time"`
		LiquidityPercentage uint8  `json:"liquidity_percentage"`
		StakingPercentage   uint8  `json:"staking_percentage"`
	}
	if !decode(w, r, &req) {
		return
	}

	config, err := s.sale.Initialize(r.Context(), sale.InitializeParams{
		TokenAddr:           req.Token,
		Caller:              req.Caller,
		MinPrice:            req.MinPrice,
		MaxPrice:            req.MaxPrice,
		MinAmount:           req.MinAmount,
		MaxAmount:           req.MaxAmount,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		LiquidityPercentage: req.LiquidityPercentage,
		StakingPercentage:   req.StakingPercentage,
	})
	s.respond(w, "initialize_sale", config, err)
}

func (s *Server) handleGetActiveSales(w http.ResponseWriter, r *http.Request) {
	configs, err := s.sale.GetActive(r.Context())
	s.respond(w, "get_active_sales", configs, err)
}

func (s *Server) handleGetSale(w http.ResponseWriter, r *http.Request) {
	config, err := s.sale.Get(r.Context(), r.PathValue("address"))
	s.respond(w, "get_sale", config, err)
}

func (s *Server) handleDeactivateSale(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller string `json:"caller"`
	}
	if !decode(w, r, &req) {
		return
	}
	err := s.sale.Deactivate(r.Context(), r.PathValue("address"), req.Caller)
	s.respond(w, "deactivate_sale", nil, err)
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Buyer  string `json:"buyer"`
		Amount uint64 `json:"amount"`
		Price  uint64 `json:"price"`
	}
	if !decode(w, r, &req) {
		return
	}

	receipt, err := s.sale.Purchase(r.Context(), r.PathValue("address"), req.Buyer, req.Amount, req.Price)
	if err == nil {
		observability.RecordPurchase(receipt.PaidAmount, receipt.FeeAmount)
	} else {
		observability.RecordPurchaseReject(errorKind(err))
	}
	s.respond(w, "purchase", receipt, err)
}

func (s *Server) handleClaimPurchase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Buyer string `json:"buyer"`
	}
	if !decode(w, r, &req) {
		return
	}
	err := s.sale.Claim(r.Context(), r.PathValue("address"), req.Buyer)
	s.respond(w, "claim_purchase", nil, err)
}

func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.sale.GetReceipt(r.Context(), r.PathValue("address"), r.PathValue("buyer"))
	s.respond(w, "get_receipt", receipt, err)
}

// --- Staking handlers ---

func (s *Server) handleCreateStakingPool(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token         string `json:"token"`
		Caller        string `json:"caller"`
		Duration      int64  `json:"duration"`
		RewardRateBps uint16 `json:"reward_rate_bps"`
	}
	if !decode(w, r, &req) {
		return
	}
	pool, err := s.staking.CreatePool(r.Context(), req.Token, req.Caller, req.Duration, req.RewardRateBps)
	s.respond(w, "create_staking_pool", pool, err)
}

func (s *Server) handleGetStakingPool(w http.ResponseWriter, r *http.Request) {
	pool, err := s.staking.GetPool(r.Context(), r.PathValue("address"))
	s.respond(w, "get_staking_pool", pool, err)
}

func (s *Server) handleGetStakingPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := s.staking.GetPositions(r.Context(), r.PathValue("address"))
	s.respond(w, "get_staking_positions", positions, err)
}

func (s *Server) handleStake(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Owner  string `json:"owner"`
		Amount uint64 `json:"amount"`
	}
	if !decode(w, r, &req) {
		return
	}

	position, err := s.staking.Stake(r.Context(), r.PathValue("address"), req.Owner, req.Amount)
	if err == nil {
		observability.RecordStake(req.Amount)
	}
	s.respond(w, "stake", position, err)
}

func (s *Server) handleClaimStake(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Owner string `json:"owner"`
	}
	if !decode(w, r, &req) {
		return
	}

	position, perr := s.staking.GetPosition(r.Context(), r.PathValue("address"), req.Owner)
	reward, err := s.staking.Claim(r.Context(), r.PathValue("address"), req.Owner)
	if err == nil && perr == nil {
		observability.RecordStakeClaim(position.Amount, reward)
	}
	s.respond(w, "claim_stake", map[string]uint64{"reward": reward}, err)
}

// --- Liquidity handlers ---

func (s *Server) handleInitializeLiquidity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller      string `json:"caller"`
		AMMProgram  string `json:"amm_program"`
		PoolAddress string `json:"pool_address"`
	}
	if !decode(w, r, &req) {
		return
	}
	config, err := s.liquidity.Initialize(r.Context(), r.PathValue("token"), req.Caller, req.AMMProgram, req.PoolAddress)
	s.respond(w, "initialize_liquidity", config, err)
}

func (s *Server) handleCreateLiquidity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller string `json:"caller"`
		Amount uint64 `json:"amount"`
	}
	if !decode(w, r, &req) {
		return
	}

	record, err := s.liquidity.Create(r.Context(), r.PathValue("token"), req.Caller, req.Amount)
	if err == nil {
		observability.DefaultMetrics.LiquidityFeesPaid.Add(float64(domain.LiquidityFee))
	}
	s.respond(w, "create_liquidity", record, err)
}

func (s *Server) handleDestroyLiquidity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller string `json:"caller"`
	}
	if !decode(w, r, &req) {
		return
	}
	err := s.liquidity.Destroy(r.Context(), r.PathValue("token"), req.Caller)
	s.respond(w, "destroy_liquidity", nil, err)
}

func (s *Server) handleGetLiquidity(w http.ResponseWriter, r *http.Request) {
	config, err := s.liquidity.GetConfig(r.Context(), r.PathValue("token"))
	if err != nil {
		s.respond(w, "get_liquidity", nil, err)
		return
	}

	record, err := s.liquidity.GetRecord(r.Context(), r.PathValue("token"))
	if err != nil && !errors.Is(err, domain.ErrLiquidityNotExists) {
		s.respond(w, "get_liquidity", nil, err)
		return
	}

	s.respond(w, "get_liquidity", map[string]any{
		"config": config,
		"record": record,
	}, nil)
}

// --- Operational handlers ---

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status      string `json:"status"`
	Uptime      string `json:"uptime"`
	Requests    int64  `json:"requests"`
	Subscribers int    `json:"event_subscribers"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := StatusResponse{
		Status:      "running",
		Uptime:      time.Since(s.started).String(),
		Requests:    s.requests.Load(),
		Subscribers: s.broadcaster.SubscriberCount(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// --- Helpers ---

// decode parses the JSON request body, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"invalid request body: %v"}`, err), http.StatusBadRequest)
		return false
	}
	return true
}

// respond writes the operation result as JSON and records metrics.
func (s *Server) respond(w http.ResponseWriter, operation string, body any, err error) {
	observability.RecordOperation(operation, err)

	if err != nil {
		observability.RecordOperationError(operation, errorKind(err))
		s.logger.Printf("%s: %v", operation, err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusFor(err))
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if body == nil {
		body = map[string]string{"status": "ok"}
	}
	json.NewEncoder(w).Encode(body)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotInitialized),
		errors.Is(err, domain.ErrLiquidityNotExists):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyInitialized),
		errors.Is(err, domain.ErrAlreadyClaimed),
		errors.Is(err, domain.ErrAlreadyPaused),
		errors.Is(err, domain.ErrNotPaused),
		errors.Is(err, domain.ErrTokenPaused),
		errors.Is(err, domain.ErrMintNotActive),
		errors.Is(err, domain.ErrMintNotStarted),
		errors.Is(err, domain.ErrMintEnded),
		errors.Is(err, domain.ErrStakingNotActive),
		errors.Is(err, domain.ErrStakingPeriodNotEnded),
		errors.Is(err, domain.ErrLiquidityAlreadyExists),
		errors.Is(err, domain.ErrExceedMaxAmount):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidTime),
		errors.Is(err, domain.ErrInvalidPercentage),
		errors.Is(err, domain.ErrInvalidDecimals),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrInvalidRewardRate),
		errors.Is(err, domain.ErrNameTooLong),
		errors.Is(err, domain.ErrSymbolTooLong),
		errors.Is(err, domain.ErrURITooLong),
		errors.Is(err, domain.ErrAmountTooSmall),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrArithmeticOverflow),
		errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorKind returns a stable label for an error, for metrics.
func errorKind(err error) string {
	if err == nil {
		return "none"
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		msg = msg[i+2:]
	}
	return strings.ReplaceAll(msg, " ", "_")
}

// metricsSink counts emitted events.
type metricsSink struct{}

func (metricsSink) Emit(_ context.Context, e domain.Event) error {
	observability.RecordEventEmitted(e.EventKind())
	return nil
}

var _ events.Sink = metricsSink{}

// envOr returns the environment value or a default.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
