package keeper

import (
	"context"
	"errors"
	"math"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/DorisUkamaka/StacksGuard/x/guard/types"
)

// Stake adds amount to the underwriter's position in a pool.
func (k Keeper) Stake(ctx context.Context, underwriter string, poolID uint64, amount uint64) error {
	if _, err := k.requireNotPaused(ctx); err != nil {
		return err
	}
	underwriter = normalizeAddress(underwriter)
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return err
	}
	if amount < types.MinStake {
		return errorsmod.Wrapf(types.ErrInvalidAmount, "stake %d below minimum %d", amount, types.MinStake)
	}
	if amount > math.MaxInt64 {
		return errorsmod.Wrapf(types.ErrInvalidAmount, "stake %d too large", amount)
	}
	if _, err := addUint64(pool.TotalStaked, amount); err != nil {
		return err
	}

	key := collections.Join(underwriter, poolID)
	stake, err := k.Stakes.Get(ctx, key)
	switch {
	case errors.Is(err, collections.ErrNotFound):
		stake = types.UnderwriterStake{
			Underwriter:    underwriter,
			PoolID:         poolID,
			StakedAtHeight: blockHeight(ctx),
		}
	case err != nil:
		return err
	case stake.StakedAmount == 0:
		// A fully withdrawn position restarts its tenure.
		stake.StakedAtHeight = blockHeight(ctx)
	}
	if stake.StakedAmount, err = addUint64(stake.StakedAmount, amount); err != nil {
		return err
	}
	stake.IsActive = true

	if err := k.Stakes.Set(ctx, key, stake); err != nil {
		return err
	}
	pool, err = k.adjustPoolStake(ctx, poolID, int64(amount))
	if err != nil {
		return err
	}

	emitEvent(ctx, types.EventTypeStaked,
		sdk.NewAttribute(types.AttributeKeyPoolID, u64(poolID)),
		sdk.NewAttribute(types.AttributeKeyCaller, underwriter),
		sdk.NewAttribute(types.AttributeKeyAmount, u64(amount)),
		sdk.NewAttribute(types.AttributeKeyTotalStaked, u64(pool.TotalStaked)),
	)
	return nil
}

// Unstake withdraws amount from the underwriter's position. Capital backing
// live policies cannot be withdrawn.
func (k Keeper) Unstake(ctx context.Context, underwriter string, poolID uint64, amount uint64) error {
	if _, err := k.requireNotPaused(ctx); err != nil {
		return err
	}
	underwriter = normalizeAddress(underwriter)
	key := collections.Join(underwriter, poolID)
	stake, err := k.Stakes.Get(ctx, key)
	if errors.Is(err, collections.ErrNotFound) || (err == nil && !stake.IsActive) {
		return errorsmod.Wrapf(types.ErrNoActiveStake, "%s in pool %d", underwriter, poolID)
	}
	if err != nil {
		return err
	}
	if amount == 0 {
		return errorsmod.Wrap(types.ErrInvalidAmount, "unstake amount must be positive")
	}
	if amount > stake.StakedAmount {
		return errorsmod.Wrapf(types.ErrInsufficientBalance, "unstake %d exceeds stake %d", amount, stake.StakedAmount)
	}

	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return err
	}
	committed, err := k.CommittedCoverage(ctx, poolID)
	if err != nil {
		return err
	}
	if pool.TotalStaked < amount || pool.TotalStaked-amount < committed {
		return errorsmod.Wrapf(types.ErrCapitalLocked, "pool %d has %d committed of %d staked", poolID, committed, pool.TotalStaked)
	}

	stake.StakedAmount -= amount
	if stake.StakedAmount == 0 {
		stake.IsActive = false
	}
	if err := k.Stakes.Set(ctx, key, stake); err != nil {
		return err
	}
	pool, err = k.adjustPoolStake(ctx, poolID, -int64(amount))
	if err != nil {
		return err
	}

	emitEvent(ctx, types.EventTypeUnstaked,
		sdk.NewAttribute(types.AttributeKeyPoolID, u64(poolID)),
		sdk.NewAttribute(types.AttributeKeyCaller, underwriter),
		sdk.NewAttribute(types.AttributeKeyAmount, u64(amount)),
		sdk.NewAttribute(types.AttributeKeyTotalStaked, u64(pool.TotalStaked)),
	)
	return nil
}

// GetUnderwriterStake returns the stake record, if any.
func (k Keeper) GetUnderwriterStake(ctx context.Context, underwriter string, poolID uint64) (types.UnderwriterStake, bool, error) {
	stake, err := k.Stakes.Get(ctx, collections.Join(normalizeAddress(underwriter), poolID))
	if errors.Is(err, collections.ErrNotFound) {
		return types.UnderwriterStake{}, false, nil
	}
	if err != nil {
		return types.UnderwriterStake{}, false, err
	}
	return stake, true, nil
}

// GetVotingPower is floor(stakedAmount / 1 STX) for an active stake and zero
// otherwise, including for unknown pools.
func (k Keeper) GetVotingPower(ctx context.Context, underwriter string, poolID uint64) uint64 {
	stake, found, err := k.GetUnderwriterStake(ctx, underwriter, poolID)
	if err != nil {
		k.Logger(ctx).Error("failed to load stake for voting power", "underwriter", underwriter, "pool_id", poolID, "error", err)
		return 0
	}
	if !found {
		return 0
	}
	return stake.VotingPower()
}

func (k Keeper) hasActiveStake(ctx context.Context, underwriter string, poolID uint64) (types.UnderwriterStake, bool, error) {
	stake, found, err := k.GetUnderwriterStake(ctx, underwriter, poolID)
	if err != nil || !found {
		return types.UnderwriterStake{}, false, err
	}
	return stake, stake.IsActive && stake.StakedAmount > 0, nil
}
