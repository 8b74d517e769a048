package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DorisUkamaka/StacksGuard/x/guard/types"
)

func TestContractStartsWithEmptyStats(t *testing.T) {
	k, ctx := setupKeeper(t)

	require.Equal(t, types.ContractStats{}, stats(t, k, ctx))

	cfg, err := k.GetConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, deployer, cfg.Owner)
	require.Equal(t, types.DefaultProtocolFeeRateBps, cfg.ProtocolFeeRateBps)
}

func TestOwnerCanPauseAndUnpause(t *testing.T) {
	k, ctx := setupKeeper(t)

	require.NoError(t, k.Pause(ctx, deployer))
	require.True(t, stats(t, k, ctx).IsPaused)

	// Pausing twice is not rejected.
	require.NoError(t, k.Pause(ctx, deployer))

	require.NoError(t, k.Unpause(ctx, deployer))
	require.False(t, stats(t, k, ctx).IsPaused)
}

func TestNonOwnerCannotChangeGuard(t *testing.T) {
	k, ctx := setupKeeper(t)

	require.ErrorIs(t, k.Pause(ctx, alice), types.ErrUnauthorized)
	require.ErrorIs(t, k.Unpause(ctx, alice), types.ErrUnauthorized)
	require.ErrorIs(t, k.SetProtocolFeeRate(ctx, alice, 300), types.ErrUnauthorized)
	require.ErrorIs(t, k.TransferOwnership(ctx, alice, alice), types.ErrUnauthorized)
	require.False(t, stats(t, k, ctx).IsPaused)
}

func TestSetProtocolFeeRateBounds(t *testing.T) {
	k, ctx := setupKeeper(t)

	require.NoError(t, k.SetProtocolFeeRate(ctx, deployer, 500))
	require.NoError(t, k.SetProtocolFeeRate(ctx, deployer, types.MaxProtocolFeeRateBps))
	require.ErrorIs(t, k.SetProtocolFeeRate(ctx, deployer, 1100), types.ErrInvalidAmount)

	cfg, err := k.GetConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, types.MaxProtocolFeeRateBps, cfg.ProtocolFeeRateBps)
}

func TestTransferOwnership(t *testing.T) {
	k, ctx := setupKeeper(t)

	require.NoError(t, k.Pause(ctx, deployer))
	require.NoError(t, k.TransferOwnership(ctx, deployer, bob))
	require.ErrorIs(t, k.Unpause(ctx, deployer), types.ErrUnauthorized)
	require.NoError(t, k.Unpause(ctx, bob))
	require.ErrorIs(t, k.TransferOwnership(ctx, bob, "  "), types.ErrInvalidAmount)
}

func TestPausedContractRejectsEveryMutation(t *testing.T) {
	k, ctx := setupKeeper(t)

	poolID := createPool(t, k, ctx, 40)
	stake(t, k, ctx, bob, poolID, 50_000_000)
	policyID, _, err := k.PurchasePolicy(ctx, carol, poolID, 10_000_000, 1000)
	require.NoError(t, err)
	claimID, err := k.SubmitClaim(ctx, carol, policyID, 5_000_000, "water damage")
	require.NoError(t, err)

	before, err := k.ExportGenesis(ctx)
	require.NoError(t, err)

	require.NoError(t, k.Pause(ctx, deployer))

	_, err = k.CreatePool(ctx, alice, "Test Pool", "Test description", 50)
	require.ErrorIs(t, err, types.ErrUnauthorized)
	require.ErrorIs(t, err, types.ErrContractPaused)
	require.ErrorIs(t, k.Stake(ctx, bob, poolID, types.MinStake), types.ErrUnauthorized)
	require.ErrorIs(t, k.Unstake(ctx, bob, poolID, types.MinStake), types.ErrUnauthorized)
	_, _, err = k.PurchasePolicy(ctx, carol, poolID, types.MinCoverage, types.MinDuration)
	require.ErrorIs(t, err, types.ErrUnauthorized)
	_, err = k.SubmitClaim(ctx, carol, policyID, 1, "again")
	require.ErrorIs(t, err, types.ErrUnauthorized)
	_, err = k.VoteOnClaim(ctx, bob, claimID, true)
	require.ErrorIs(t, err, types.ErrUnauthorized)
	_, err = k.ProcessClaim(advance(ctx, types.VotingPeriod+1), claimID)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	after, err := k.ExportGenesis(ctx)
	require.NoError(t, err)
	after.Config.Paused = false
	require.Equal(t, before, after)

	// Reads stay available.
	_, err = k.GetPool(ctx, poolID)
	require.NoError(t, err)
	require.True(t, k.IsPolicyValid(ctx, policyID))
	require.Equal(t, uint64(50), k.GetVotingPower(ctx, bob, poolID))
	require.True(t, stats(t, k, ctx).IsPaused)
}
