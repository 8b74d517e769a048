package app

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"cosmossdk.io/log"
	storemetrics "cosmossdk.io/store/metrics"
	"cosmossdk.io/store/rootmulti"
	storetypes "cosmossdk.io/store/types"
	tmproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/runtime"
	servertypes "github.com/cosmos/cosmos-sdk/server/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cast"

	"github.com/DorisUkamaka/StacksGuard/x/guard"
	"github.com/DorisUkamaka/StacksGuard/x/guard/keeper"
	"github.com/DorisUkamaka/StacksGuard/x/guard/types"
)

const (
	// DefaultChainID names the in-memory chain when none is configured.
	DefaultChainID = "stacksguard-local-1"

	// DefaultOwner is the deployer address used when none is configured.
	DefaultOwner = "stx1deployer"

	// DefaultBlockInterval approximates one Bitcoin-anchored block.
	DefaultBlockInterval = 10 * time.Minute
)

// HostConfig configures an in-memory guard chain.
type HostConfig struct {
	ChainID            string
	Owner              string
	ProtocolFeeRateBps uint64
	BlockInterval      time.Duration
	GenesisTime        time.Time
	QuoteCacheSize     int

	// Genesis, when set, replaces the default empty state. An empty owner in
	// it falls back to Owner.
	Genesis *types.GenesisState
}

// DefaultHostConfig returns a config for a fresh local chain.
func DefaultHostConfig() HostConfig {
	return HostConfig{
		ChainID:            DefaultChainID,
		Owner:              DefaultOwner,
		ProtocolFeeRateBps: types.DefaultProtocolFeeRateBps,
		BlockInterval:      DefaultBlockInterval,
		GenesisTime:        time.Unix(1_700_000_000, 0).UTC(),
		QuoteCacheSize:     DefaultQuoteCacheSize,
	}
}

// HostConfigFromOptions reads guard.* keys from app options, leaving
// defaults in place for unset keys.
func HostConfigFromOptions(appOpts servertypes.AppOptions) (HostConfig, error) {
	cfg := DefaultHostConfig()
	if appOpts == nil {
		return cfg, nil
	}
	if v := strings.TrimSpace(cast.ToString(appOpts.Get("guard.chain-id"))); v != "" {
		cfg.ChainID = v
	}
	if v := strings.TrimSpace(cast.ToString(appOpts.Get("guard.owner"))); v != "" {
		cfg.Owner = v
	}
	if raw := appOpts.Get("guard.fee-rate-bps"); raw != nil {
		rate, err := cast.ToUint64E(raw)
		if err != nil {
			return cfg, fmt.Errorf("guard.fee-rate-bps: %w", err)
		}
		cfg.ProtocolFeeRateBps = rate
	}
	if raw := appOpts.Get("guard.block-interval"); raw != nil {
		interval, err := cast.ToDurationE(raw)
		if err != nil {
			return cfg, fmt.Errorf("guard.block-interval: %w", err)
		}
		cfg.BlockInterval = interval
	}
	if raw := appOpts.Get("guard.quote-cache-size"); raw != nil {
		size, err := cast.ToIntE(raw)
		if err != nil {
			return cfg, fmt.Errorf("guard.quote-cache-size: %w", err)
		}
		cfg.QuoteCacheSize = size
	}
	return cfg, cfg.Validate()
}

// Validate checks the config before a host is built from it.
func (c HostConfig) Validate() error {
	if strings.TrimSpace(c.ChainID) == "" {
		return fmt.Errorf("chain id cannot be empty")
	}
	if strings.TrimSpace(c.Owner) == "" {
		return fmt.Errorf("owner cannot be empty")
	}
	if c.ProtocolFeeRateBps > types.MaxProtocolFeeRateBps {
		return fmt.Errorf("fee rate %d bps exceeds cap %d", c.ProtocolFeeRateBps, types.MaxProtocolFeeRateBps)
	}
	if c.BlockInterval <= 0 {
		return fmt.Errorf("block interval must be positive")
	}
	if c.QuoteCacheSize < 0 {
		return fmt.Errorf("quote cache size cannot be negative")
	}
	return nil
}

// Host runs the guard module on an in-memory multistore. Transactions are
// delivered one at a time and the height only moves between them.
type Host struct {
	mu sync.Mutex

	logger   log.Logger
	config   HostConfig
	cms      *rootmulti.Store
	storeKey *storetypes.KVStoreKey
	height   int64

	registry    *prometheus.Registry
	keeper      keeper.Keeper
	module      guard.AppModule
	msgServer   types.MsgServer
	queryServer types.QueryServer
	invariants  []invariantRoute
	quotes      *lru.Cache[quoteKey, uint64]
}

type invariantRoute struct {
	route string
	check sdk.Invariant
}

// NewHost builds the store, keeper and module, then loads genesis at height 1.
func NewHost(logger log.Logger, cfg HostConfig) (*Host, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if cfg.GenesisTime.IsZero() {
		cfg.GenesisTime = DefaultHostConfig().GenesisTime
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid host config: %w", err)
	}

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	cms := rootmulti.NewStore(dbm.NewMemDB(), logger, storemetrics.NoOpMetrics{})
	cms.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}

	registry := prometheus.NewRegistry()
	k := keeper.NewKeeper(runtime.NewKVStoreService(storeKey), cfg.Owner)
	k.SetMetrics(keeper.NewMetrics(registry))

	h := &Host{
		logger:      logger.With("module", "host"),
		config:      cfg,
		cms:         cms,
		storeKey:    storeKey,
		height:      1,
		registry:    registry,
		keeper:      k,
		module:      guard.NewAppModule(k),
		msgServer:   keeper.NewMsgServerImpl(k),
		queryServer: keeper.NewQueryServerImpl(k),
		quotes:      newQuoteCache(cfg.QuoteCacheSize),
	}
	h.module.RegisterInvariants(h)

	genesis := cfg.Genesis
	if genesis == nil {
		genesis = types.DefaultGenesis()
		genesis.Config.ProtocolFeeRateBps = cfg.ProtocolFeeRateBps
	}
	if err := h.initGenesis(genesis); err != nil {
		return nil, err
	}

	h.logger.Info("guard host started", "chain_id", cfg.ChainID, "owner", cfg.Owner)
	return h, nil
}

// NewHostFromOptions is NewHost driven by app options.
func NewHostFromOptions(logger log.Logger, appOpts servertypes.AppOptions) (*Host, error) {
	cfg, err := HostConfigFromOptions(appOpts)
	if err != nil {
		return nil, err
	}
	return NewHost(logger, cfg)
}

func (h *Host) initGenesis(gs *types.GenesisState) error {
	bz, err := json.Marshal(gs)
	if err != nil {
		return err
	}
	if err := h.module.ValidateGenesis(nil, nil, bz); err != nil {
		return err
	}
	ctx := h.newContext()
	if err := h.keeper.InitGenesis(ctx, gs); err != nil {
		return fmt.Errorf("init genesis: %w", err)
	}
	h.cms.Commit()
	return nil
}

// RegisterRoute implements sdk.InvariantRegistry.
func (h *Host) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	h.invariants = append(h.invariants, invariantRoute{route: moduleName + "/" + route, check: invar})
}

// AssertInvariants runs every registered invariant against committed state.
func (h *Host) AssertInvariants() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := h.newContext()
	for _, inv := range h.invariants {
		if msg, broken := inv.check(ctx); broken {
			return fmt.Errorf("invariant %s broken: %s", inv.route, msg)
		}
	}
	return nil
}

// Height is the height the next transaction executes at.
func (h *Host) Height() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.height
}

// ChainID returns the configured chain ID.
func (h *Host) ChainID() string { return h.config.ChainID }

// Owner returns the configured deployer.
func (h *Host) Owner() string { return h.config.Owner }

// Keeper exposes the guard keeper for read paths.
func (h *Host) Keeper() keeper.Keeper { return h.keeper }

// Registry returns the Prometheus registry the keeper reports into.
func (h *Host) Registry() *prometheus.Registry { return h.registry }

// AdvanceBlocks commits the current block and moves n blocks forward.
func (h *Host) AdvanceBlocks(n int64) error {
	if n <= 0 {
		return fmt.Errorf("block count must be positive, got %d", n)
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.cms.Commit()
	h.height += n
	h.logger.Debug("advanced blocks", "blocks", n, "height", h.height)
	return nil
}

// Result is the outcome of one delivered message.
type Result struct {
	Height   int64       `json:"height"`
	Response interface{} `json:"response,omitempty"`
	Events   sdk.Events  `json:"events,omitempty"`
}

// Deliver executes msg as a single transaction at the current height.
func (h *Host) Deliver(msg interface{}) (*Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := h.newContext()
	resp, err := h.dispatch(ctx, msg)
	if err != nil {
		return nil, err
	}
	return &Result{
		Height:   h.height,
		Response: resp,
		Events:   ctx.EventManager().Events(),
	}, nil
}

func (h *Host) dispatch(ctx sdk.Context, msg interface{}) (interface{}, error) {
	switch m := msg.(type) {
	case *types.MsgPause:
		return h.msgServer.Pause(ctx, m)
	case *types.MsgUnpause:
		return h.msgServer.Unpause(ctx, m)
	case *types.MsgSetProtocolFeeRate:
		return h.msgServer.SetProtocolFeeRate(ctx, m)
	case *types.MsgTransferOwnership:
		return h.msgServer.TransferOwnership(ctx, m)
	case *types.MsgCreatePool:
		return h.msgServer.CreatePool(ctx, m)
	case *types.MsgStake:
		return h.msgServer.Stake(ctx, m)
	case *types.MsgUnstake:
		return h.msgServer.Unstake(ctx, m)
	case *types.MsgPurchasePolicy:
		return h.msgServer.PurchasePolicy(ctx, m)
	case *types.MsgSubmitClaim:
		return h.msgServer.SubmitClaim(ctx, m)
	case *types.MsgVoteOnClaim:
		return h.msgServer.VoteOnClaim(ctx, m)
	case *types.MsgProcessClaim:
		return h.msgServer.ProcessClaim(ctx, m)
	default:
		return nil, fmt.Errorf("unsupported message type %T", msg)
	}
}

// Query returns the query server bound to a context at the current height.
func (h *Host) Query() (types.QueryServer, sdk.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.queryServer, h.newContext()
}

// Stats is a convenience read of the protocol totals.
func (h *Host) Stats() (types.ContractStats, error) {
	q, ctx := h.Query()
	resp, err := q.ContractStats(ctx, &types.QueryContractStatsRequest{})
	if err != nil {
		return types.ContractStats{}, err
	}
	return resp.Stats, nil
}

// ExportGenesis dumps the module state as JSON.
func (h *Host) ExportGenesis() (json.RawMessage, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	gs, err := h.keeper.ExportGenesis(h.newContext())
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(gs, "", "  ")
}

// Close releases the store.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.logger.Info("guard host stopped", "height", h.height)
	return h.cms.Close()
}

func (h *Host) newContext() sdk.Context {
	header := tmproto.Header{
		ChainID: h.config.ChainID,
		Height:  h.height,
		Time:    h.config.GenesisTime.Add(time.Duration(h.height-1) * h.config.BlockInterval),
	}
	return sdk.NewContext(h.cms, header, false, h.logger)
}
