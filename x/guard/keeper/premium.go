package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	"github.com/DorisUkamaka/StacksGuard/x/guard/types"
)

// CalculatePremium prices coverage for duration blocks in poolID. Terms must
// be purchasable; below MinCoverage the floored premium stops growing with
// the risk factor.
func (k Keeper) CalculatePremium(ctx context.Context, coverage, duration, poolID uint64) (uint64, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return 0, err
	}
	if err := types.ValidatePolicyTerms(coverage, duration); err != nil {
		return 0, err
	}
	return premiumFor(pool, coverage, duration)
}

func premiumFor(pool types.Pool, coverage, duration uint64) (uint64, error) {
	premium := types.ComputePremium(coverage, duration, pool.RiskFactor)
	if !premium.IsUint64() {
		return 0, errorsmod.Wrapf(types.ErrInvalidAmount, "premium for coverage %d overflows", coverage)
	}
	return premium.Uint64(), nil
}
