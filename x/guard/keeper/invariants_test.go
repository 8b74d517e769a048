package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DorisUkamaka/StacksGuard/x/guard/keeper"
)

func TestInvariantsHoldAfterOperations(t *testing.T) {
	k, ctx, _, policyID := claimFixture(t)
	_, err := k.SubmitClaim(ctx, dave, policyID, 5_000_000, "Medical emergency")
	require.NoError(t, err)

	msg, broken := keeper.AllInvariants(k)(ctx)
	require.False(t, broken, msg)
}

func TestPoolStakeInvariantDetectsDrift(t *testing.T) {
	k, ctx := setupKeeper(t)
	poolID := createPool(t, k, ctx, 10)
	stake(t, k, ctx, bob, poolID, 20_000_000)

	pool, err := k.GetPool(ctx, poolID)
	require.NoError(t, err)
	pool.TotalStaked++
	require.NoError(t, k.Pools.Set(ctx, poolID, pool))

	msg, broken := keeper.PoolStakeInvariant(k)(ctx)
	require.True(t, broken)
	require.Contains(t, msg, "pool 1 total staked 20000001")
}

func TestPoolSolvencyInvariantDetectsOvercommitment(t *testing.T) {
	k, ctx := setupKeeper(t)
	poolID := createPool(t, k, ctx, 10)
	stake(t, k, ctx, bob, poolID, 20_000_000)
	_, _, err := k.PurchasePolicy(ctx, carol, poolID, 20_000_000, 1000)
	require.NoError(t, err)

	_, broken := keeper.PoolSolvencyInvariant(k)(ctx)
	require.False(t, broken)

	pool, err := k.GetPool(ctx, poolID)
	require.NoError(t, err)
	pool.TotalStaked = 1
	require.NoError(t, k.Pools.Set(ctx, poolID, pool))

	_, broken = keeper.PoolSolvencyInvariant(k)(ctx)
	require.True(t, broken)
}

func TestSequenceInvariantDetectsOrphanID(t *testing.T) {
	k, ctx := setupKeeper(t)
	createPool(t, k, ctx, 10)
	require.NoError(t, k.PoolCount.Set(ctx, 0))

	msg, broken := keeper.SequenceInvariant(k)(ctx)
	require.True(t, broken)
	require.Contains(t, msg, "pool: id 1 exceeds sequence 0")
}
