package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/DorisUkamaka/StacksGuard/x/guard/types"
)

// PurchasePolicy issues coverage from poolID to holder and returns the policy
// ID and the premium charged.
func (k Keeper) PurchasePolicy(
	ctx context.Context,
	holder string,
	poolID uint64,
	coverage uint64,
	duration uint64,
) (uint64, uint64, error) {
	cfg, err := k.requireNotPaused(ctx)
	if err != nil {
		return 0, 0, err
	}
	if err := types.ValidatePolicyTerms(coverage, duration); err != nil {
		return 0, 0, err
	}
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return 0, 0, err
	}
	premium, err := premiumFor(pool, coverage, duration)
	if err != nil {
		return 0, 0, err
	}
	capacity, err := k.AvailableCapacity(ctx, pool)
	if err != nil {
		return 0, 0, err
	}
	if coverage > capacity {
		return 0, 0, errorsmod.Wrapf(types.ErrInsufficientCoverage, "coverage %d exceeds pool %d capacity %d", coverage, poolID, capacity)
	}

	fee, poolShare := types.SplitPremium(sdkmath.NewIntFromUint64(premium), cfg.ProtocolFeeRateBps)
	fees, err := readCounter(ctx, k.ProtocolFees)
	if err != nil {
		return 0, 0, err
	}
	if fees, err = addUint64(fees, fee.Uint64()); err != nil {
		return 0, 0, err
	}
	if pool.PremiumsCollected, err = addUint64(pool.PremiumsCollected, poolShare.Uint64()); err != nil {
		return 0, 0, err
	}

	id, err := nextID(ctx, k.PolicyCount)
	if err != nil {
		return 0, 0, err
	}
	start := blockHeight(ctx)
	policy := types.Policy{
		ID:             id,
		Holder:         normalizeAddress(holder),
		PoolID:         poolID,
		CoverageAmount: coverage,
		PremiumPaid:    premium,
		StartHeight:    start,
		EndHeight:      start + int64(duration),
		IsActive:       true,
	}
	if err := k.Policies.Set(ctx, id, policy); err != nil {
		return 0, 0, err
	}
	if err := k.PoolPolicies.Set(ctx, collections.Join(poolID, id)); err != nil {
		return 0, 0, err
	}
	if err := k.Pools.Set(ctx, poolID, pool); err != nil {
		return 0, 0, err
	}
	if _, err := k.adjustActivePolicies(ctx, poolID, 1); err != nil {
		return 0, 0, err
	}
	if err := k.ProtocolFees.Set(ctx, fees); err != nil {
		return 0, 0, err
	}

	if k.metrics != nil {
		k.metrics.PremiumsCollected.Add(float64(premium))
		k.metrics.ProtocolFees.Add(float64(fee.Uint64()))
	}
	emitEvent(ctx, types.EventTypePolicyPurchased,
		sdk.NewAttribute(types.AttributeKeyPolicyID, u64(id)),
		sdk.NewAttribute(types.AttributeKeyPoolID, u64(poolID)),
		sdk.NewAttribute(types.AttributeKeyCaller, policy.Holder),
		sdk.NewAttribute(types.AttributeKeyCoverage, u64(coverage)),
		sdk.NewAttribute(types.AttributeKeyPremium, u64(premium)),
		sdk.NewAttribute(types.AttributeKeyProtocolFee, fee.String()),
		sdk.NewAttribute(types.AttributeKeyEndHeight, i64(policy.EndHeight)),
	)

	return id, premium, nil
}

// GetPolicy loads a policy or returns ErrPolicyNotFound.
func (k Keeper) GetPolicy(ctx context.Context, id uint64) (types.Policy, error) {
	policy, err := k.Policies.Get(ctx, id)
	if errors.Is(err, collections.ErrNotFound) {
		return types.Policy{}, errorsmod.Wrapf(types.ErrPolicyNotFound, "policy %d", id)
	}
	return policy, err
}

// IsPolicyValid reports whether the policy exists and still covers the
// current height. It never errors.
func (k Keeper) IsPolicyValid(ctx context.Context, id uint64) bool {
	policy, err := k.GetPolicy(ctx, id)
	if err != nil {
		return false
	}
	return policy.ValidAt(blockHeight(ctx))
}
