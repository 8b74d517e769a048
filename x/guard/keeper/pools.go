package keeper

import (
	"context"
	"errors"
	"math"
	"strings"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/DorisUkamaka/StacksGuard/x/guard/types"
)

// CreatePool registers a new pool and returns its ID.
func (k Keeper) CreatePool(
	ctx context.Context,
	creator string,
	name string,
	description string,
	riskFactor uint64,
) (uint64, error) {
	if _, err := k.requireNotPaused(ctx); err != nil {
		return 0, err
	}
	name = strings.TrimSpace(name)
	if err := types.ValidatePoolParams(name, description, riskFactor); err != nil {
		return 0, err
	}

	id, err := nextID(ctx, k.PoolCount)
	if err != nil {
		return 0, err
	}
	pool := types.Pool{
		ID:              id,
		Name:            name,
		Description:     description,
		Creator:         normalizeAddress(creator),
		RiskFactor:      riskFactor,
		CreatedAtHeight: blockHeight(ctx),
		IsActive:        true,
	}
	if err := k.Pools.Set(ctx, id, pool); err != nil {
		return 0, err
	}

	emitEvent(ctx, types.EventTypePoolCreated,
		sdk.NewAttribute(types.AttributeKeyPoolID, u64(id)),
		sdk.NewAttribute(types.AttributeKeyCaller, pool.Creator),
		sdk.NewAttribute(types.AttributeKeyRiskFactor, u64(riskFactor)),
	)
	k.Logger(ctx).Info("insurance pool created", "pool_id", id, "name", name, "risk_factor", riskFactor)

	return id, nil
}

// GetPool loads a pool or returns ErrPoolNotFound.
func (k Keeper) GetPool(ctx context.Context, id uint64) (types.Pool, error) {
	pool, err := k.Pools.Get(ctx, id)
	if errors.Is(err, collections.ErrNotFound) {
		return types.Pool{}, errorsmod.Wrapf(types.ErrPoolNotFound, "pool %d", id)
	}
	return pool, err
}

func (k Keeper) adjustPoolStake(ctx context.Context, id uint64, delta int64) (types.Pool, error) {
	pool, err := k.GetPool(ctx, id)
	if err != nil {
		return types.Pool{}, err
	}
	next, err := applyDelta(pool.TotalStaked, delta)
	if err != nil {
		return types.Pool{}, errorsmod.Wrapf(err, "pool %d total staked", id)
	}
	pool.TotalStaked = next
	return pool, k.Pools.Set(ctx, id, pool)
}

func (k Keeper) adjustActivePolicies(ctx context.Context, id uint64, delta int64) (types.Pool, error) {
	pool, err := k.GetPool(ctx, id)
	if err != nil {
		return types.Pool{}, err
	}
	next, err := applyDelta(pool.ActivePolicies, delta)
	if err != nil {
		return types.Pool{}, errorsmod.Wrapf(err, "pool %d active policies", id)
	}
	pool.ActivePolicies = next
	return pool, k.Pools.Set(ctx, id, pool)
}

// CommittedCoverage sums the unpaid coverage of the pool's policies that are
// still valid at the current height.
func (k Keeper) CommittedCoverage(ctx context.Context, poolID uint64) (uint64, error) {
	height := blockHeight(ctx)
	var committed uint64
	rng := collections.NewPrefixedPairRange[uint64, uint64](poolID)
	err := k.PoolPolicies.Walk(ctx, rng, func(key collections.Pair[uint64, uint64]) (bool, error) {
		policy, err := k.Policies.Get(ctx, key.K2())
		if err != nil {
			return true, err
		}
		if !policy.ValidAt(height) {
			return false, nil
		}
		committed, err = addUint64(committed, policy.RemainingCoverage())
		return err != nil, err
	})
	return committed, err
}

// AvailableCapacity is the coverage a pool can still underwrite.
func (k Keeper) AvailableCapacity(ctx context.Context, pool types.Pool) (uint64, error) {
	committed, err := k.CommittedCoverage(ctx, pool.ID)
	if err != nil {
		return 0, err
	}
	if committed >= pool.TotalStaked {
		return 0, nil
	}
	return pool.TotalStaked - committed, nil
}

func applyDelta(value uint64, delta int64) (uint64, error) {
	if delta >= 0 {
		return addUint64(value, uint64(delta))
	}
	dec := uint64(-delta)
	if delta == math.MinInt64 {
		dec = uint64(math.MaxInt64) + 1
	}
	if dec > value {
		return 0, errorsmod.Wrapf(types.ErrInsufficientBalance, "cannot subtract %d from %d", dec, value)
	}
	return value - dec, nil
}

func addUint64(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, errorsmod.Wrapf(types.ErrInvalidAmount, "amount overflow adding %d to %d", b, a)
	}
	return a + b, nil
}
