package keeper

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/DorisUkamaka/StacksGuard/x/guard/types"
)

// Keeper manages pools, stakes, policies, claims and the access guard.
type Keeper struct {
	storeService store.KVStoreService
	authority    string

	metrics *Metrics

	Pools        collections.Map[uint64, types.Pool]
	Stakes       collections.Map[collections.Pair[string, uint64], types.UnderwriterStake]
	Policies     collections.Map[uint64, types.Policy]
	PoolPolicies collections.KeySet[collections.Pair[uint64, uint64]]
	Claims       collections.Map[uint64, types.Claim]
	ClaimVotes   collections.Map[collections.Pair[uint64, string], types.ClaimVote]
	PoolCount    collections.Item[uint64]
	PolicyCount  collections.Item[uint64]
	ClaimCount   collections.Item[uint64]
	ProtocolFees collections.Item[uint64]
	Config       collections.Item[types.Config]
}

// NewKeeper creates a new guard keeper. authority becomes the owner when
// genesis does not name one.
func NewKeeper(
	storeService store.KVStoreService,
	authority string,
) Keeper {
	sb := collections.NewSchemaBuilder(storeService)

	return Keeper{
		storeService: storeService,
		authority:    authority,
		Pools: collections.NewMap(
			sb,
			collections.NewPrefix(types.PoolKeyPrefix),
			"pools",
			collections.Uint64Key,
			types.JSONValue[types.Pool]("pool"),
		),
		Stakes: collections.NewMap(
			sb,
			collections.NewPrefix(types.StakeKeyPrefix),
			"stakes",
			collections.PairKeyCodec(collections.StringKey, collections.Uint64Key),
			types.JSONValue[types.UnderwriterStake]("stake"),
		),
		Policies: collections.NewMap(
			sb,
			collections.NewPrefix(types.PolicyKeyPrefix),
			"policies",
			collections.Uint64Key,
			types.JSONValue[types.Policy]("policy"),
		),
		PoolPolicies: collections.NewKeySet(
			sb,
			collections.NewPrefix(types.PoolPolicyKeyPrefix),
			"pool_policies",
			collections.PairKeyCodec(collections.Uint64Key, collections.Uint64Key),
		),
		Claims: collections.NewMap(
			sb,
			collections.NewPrefix(types.ClaimKeyPrefix),
			"claims",
			collections.Uint64Key,
			types.JSONValue[types.Claim]("claim"),
		),
		ClaimVotes: collections.NewMap(
			sb,
			collections.NewPrefix(types.ClaimVoteKeyPrefix),
			"claim_votes",
			collections.PairKeyCodec(collections.Uint64Key, collections.StringKey),
			types.JSONValue[types.ClaimVote]("claim_vote"),
		),
		PoolCount: collections.NewItem(
			sb,
			collections.NewPrefix(types.PoolCountKey),
			"pool_count",
			collections.Uint64Value,
		),
		PolicyCount: collections.NewItem(
			sb,
			collections.NewPrefix(types.PolicyCountKey),
			"policy_count",
			collections.Uint64Value,
		),
		ClaimCount: collections.NewItem(
			sb,
			collections.NewPrefix(types.ClaimCountKey),
			"claim_count",
			collections.Uint64Value,
		),
		ProtocolFees: collections.NewItem(
			sb,
			collections.NewPrefix(types.ProtocolFeesKey),
			"protocol_fees",
			collections.Uint64Value,
		),
		Config: collections.NewItem(
			sb,
			collections.NewPrefix(types.ConfigKey),
			"config",
			types.JSONValue[types.Config]("config"),
		),
	}
}

// SetMetrics wires Prometheus collectors. A nil value disables recording.
func (k *Keeper) SetMetrics(m *Metrics) {
	k.metrics = m
}

// Metrics returns the wired collectors (may be nil in tests).
func (k Keeper) Metrics() *Metrics {
	return k.metrics
}

// GetAuthority returns the keeper authority address.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// Logger returns a module-scoped logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	sdkCtx, ok := unwrapSDKContext(ctx)
	if !ok || sdkCtx.Logger() == nil {
		return log.NewNopLogger()
	}
	return sdkCtx.Logger().With("module", "x/"+types.ModuleName)
}

// nextID bumps a sequence item. IDs start at 1.
func nextID(ctx context.Context, seq collections.Item[uint64]) (uint64, error) {
	count, err := readCounter(ctx, seq)
	if err != nil {
		return 0, err
	}
	count++
	if err := seq.Set(ctx, count); err != nil {
		return 0, err
	}
	return count, nil
}

func readCounter(ctx context.Context, item collections.Item[uint64]) (uint64, error) {
	count, err := item.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

func blockHeight(ctx context.Context) int64 {
	if sdkCtx, ok := unwrapSDKContext(ctx); ok {
		return sdkCtx.BlockHeight()
	}
	return 0
}

func unwrapSDKContext(ctx context.Context) (sdk.Context, bool) {
	if ctx == nil {
		return sdk.Context{}, false
	}
	if sdkCtx, ok := ctx.(sdk.Context); ok {
		return sdkCtx, true
	}
	if val := ctx.Value(sdk.SdkContextKey); val != nil {
		if sdkCtx, ok := val.(sdk.Context); ok {
			return sdkCtx, true
		}
	}
	return sdk.Context{}, false
}

func emitEvent(ctx context.Context, eventType string, attrs ...sdk.Attribute) {
	sdkCtx, ok := unwrapSDKContext(ctx)
	if !ok {
		return
	}
	if em := sdkCtx.EventManager(); em != nil {
		em.EmitEvent(sdk.NewEvent(eventType, attrs...))
	}
}

func u64(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func i64(v int64) string {
	return strconv.FormatInt(v, 10)
}

func normalizeAddress(addr string) string {
	return strings.TrimSpace(addr)
}
