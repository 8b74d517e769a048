package keeper

import (
	"fmt"

	"cosmossdk.io/collections"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/DorisUkamaka/StacksGuard/x/guard/types"
)

// RegisterInvariants registers all guard invariants.
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "pool-stake", PoolStakeInvariant(k))
	ir.RegisterRoute(types.ModuleName, "pool-solvency", PoolSolvencyInvariant(k))
	ir.RegisterRoute(types.ModuleName, "sequences", SequenceInvariant(k))
}

// AllInvariants runs every invariant and stops at the first broken one.
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		for _, inv := range []sdk.Invariant{
			PoolStakeInvariant(k),
			PoolSolvencyInvariant(k),
			SequenceInvariant(k),
		} {
			if msg, broken := inv(ctx); broken {
				return msg, broken
			}
		}
		return "", false
	}
}

// PoolStakeInvariant checks that each pool's TotalStaked equals the sum of its
// underwriters' stakes.
func PoolStakeInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		sums := make(map[uint64]uint64)
		err := k.Stakes.Walk(ctx, nil, func(key collections.Pair[string, uint64], stake types.UnderwriterStake) (bool, error) {
			sums[key.K2()] += stake.StakedAmount
			return false, nil
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "pool-stake", err.Error()), true
		}

		var msg string
		broken := false
		err = k.Pools.Walk(ctx, nil, func(id uint64, pool types.Pool) (bool, error) {
			if pool.TotalStaked != sums[id] {
				broken = true
				msg += fmt.Sprintf("\tpool %d total staked %d, stakes sum %d\n", id, pool.TotalStaked, sums[id])
			}
			return false, nil
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "pool-stake", err.Error()), true
		}
		return sdk.FormatInvariant(types.ModuleName, "pool-stake", msg), broken
	}
}

// PoolSolvencyInvariant checks that no pool has promised more live coverage
// than it holds in stake.
func PoolSolvencyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		broken := false
		err := k.Pools.Walk(ctx, nil, func(id uint64, pool types.Pool) (bool, error) {
			committed, err := k.CommittedCoverage(ctx, id)
			if err != nil {
				return true, err
			}
			if committed > pool.TotalStaked {
				broken = true
				msg += fmt.Sprintf("\tpool %d committed %d exceeds staked %d\n", id, committed, pool.TotalStaked)
			}
			return false, nil
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "pool-solvency", err.Error()), true
		}
		return sdk.FormatInvariant(types.ModuleName, "pool-solvency", msg), broken
	}
}

// SequenceInvariant checks that no stored ID exceeds its sequence. Maps walk
// in ascending key order, so the last key visited is the highest ID.
func SequenceInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg    string
			broken bool
		)
		report := func(name string, seq collections.Item[uint64], last uint64, walkErr error) {
			count, err := readCounter(ctx, seq)
			switch {
			case walkErr != nil:
				err = walkErr
			case err == nil && last > count:
				err = fmt.Errorf("id %d exceeds sequence %d", last, count)
			}
			if err != nil {
				broken = true
				msg += fmt.Sprintf("\t%s: %v\n", name, err)
			}
		}

		var lastPool, lastPolicy, lastClaim uint64
		err := k.Pools.Walk(ctx, nil, func(id uint64, _ types.Pool) (bool, error) {
			lastPool = id
			return false, nil
		})
		report("pool", k.PoolCount, lastPool, err)

		err = k.Policies.Walk(ctx, nil, func(id uint64, _ types.Policy) (bool, error) {
			lastPolicy = id
			return false, nil
		})
		report("policy", k.PolicyCount, lastPolicy, err)

		err = k.Claims.Walk(ctx, nil, func(id uint64, _ types.Claim) (bool, error) {
			lastClaim = id
			return false, nil
		})
		report("claim", k.ClaimCount, lastClaim, err)

		return sdk.FormatInvariant(types.ModuleName, "sequences", msg), broken
	}
}
