package keeper_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/DorisUkamaka/StacksGuard/x/guard/keeper"
	"github.com/DorisUkamaka/StacksGuard/x/guard/types"
)

func TestMsgServerLifecycle(t *testing.T) {
	k, ctx := setupKeeper(t)
	srv := keeper.NewMsgServerImpl(k)

	created, err := srv.CreatePool(ctx, &types.MsgCreatePool{Sender: alice, Name: "Auto Insurance", RiskFactor: 45})
	require.NoError(t, err)
	require.Equal(t, uint64(1), created.PoolID)

	_, err = srv.Stake(ctx, &types.MsgStake{Sender: bob, PoolID: created.PoolID, Amount: 80_000_000})
	require.NoError(t, err)

	bought, err := srv.PurchasePolicy(ctx, &types.MsgPurchasePolicy{
		Sender:         dave,
		PoolID:         created.PoolID,
		CoverageAmount: 25_000_000,
		Duration:       3000,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(103453), bought.PremiumPaid)

	submitted, err := srv.SubmitClaim(ctx, &types.MsgSubmitClaim{
		Sender:      dave,
		PolicyID:    bought.PolicyID,
		Amount:      15_000_000,
		Description: "Car accident damage",
	})
	require.NoError(t, err)

	voted, err := srv.VoteOnClaim(ctx, &types.MsgVoteOnClaim{Sender: bob, ClaimID: submitted.ClaimID, Approve: true})
	require.NoError(t, err)
	require.Equal(t, uint64(80), voted.Power)

	processed, err := srv.ProcessClaim(advance(ctx, 1009), &types.MsgProcessClaim{Sender: carol, ClaimID: submitted.ClaimID})
	require.NoError(t, err)
	require.Equal(t, types.ClaimStatusApproved, processed.Status)

	var resolved bool
	for _, ev := range ctx.EventManager().Events() {
		if ev.Type != types.EventTypeClaimResolved {
			continue
		}
		resolved = true
		claimID, ok := ev.GetAttribute(types.AttributeKeyClaimID)
		require.True(t, ok)
		require.Equal(t, "1", claimID.Value)
	}
	require.True(t, resolved)

	var purchased bool
	for _, ev := range ctx.EventManager().Events() {
		if ev.Type != types.EventTypePolicyPurchased {
			continue
		}
		purchased = true
		premium, ok := ev.GetAttribute(types.AttributeKeyPremium)
		require.True(t, ok)
		require.Equal(t, "103453", premium.Value)
	}
	require.True(t, purchased)
}

func TestMsgServerFailureLeavesNoTrace(t *testing.T) {
	k, ctx := setupKeeper(t)
	srv := keeper.NewMsgServerImpl(k)

	before := len(ctx.EventManager().Events())
	_, err := srv.Stake(ctx, &types.MsgStake{Sender: bob, PoolID: 7, Amount: types.MinStake})
	require.ErrorIs(t, err, types.ErrPoolNotFound)
	require.Len(t, ctx.EventManager().Events(), before)

	_, err = srv.CreatePool(ctx, &types.MsgCreatePool{Sender: "", Name: "Pool"})
	require.ErrorIs(t, err, types.ErrUnauthorized)
	require.Zero(t, stats(t, k, ctx).TotalPools)

	created, err := srv.CreatePool(ctx, &types.MsgCreatePool{Sender: alice, Name: "Pool", RiskFactor: 10})
	require.NoError(t, err)
	require.Equal(t, uint64(1), created.PoolID)
	require.Greater(t, len(ctx.EventManager().Events()), before)
}

func TestMsgServerGuardMessages(t *testing.T) {
	k, ctx := setupKeeper(t)
	srv := keeper.NewMsgServerImpl(k)

	_, err := srv.Pause(ctx, &types.MsgPause{Sender: alice})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = srv.Pause(ctx, &types.MsgPause{Sender: deployer})
	require.NoError(t, err)
	_, err = srv.CreatePool(ctx, &types.MsgCreatePool{Sender: alice, Name: "Pool", RiskFactor: 10})
	require.ErrorIs(t, err, types.ErrContractPaused)

	_, err = srv.SetProtocolFeeRate(ctx, &types.MsgSetProtocolFeeRate{Sender: deployer, RateBps: 2000})
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, err = srv.TransferOwnership(ctx, &types.MsgTransferOwnership{Sender: deployer, NewOwner: alice})
	require.NoError(t, err)
	_, err = srv.Unpause(ctx, &types.MsgUnpause{Sender: alice})
	require.NoError(t, err)

	_, err = srv.Unstake(ctx, &types.MsgUnstake{Sender: bob, PoolID: 1, Amount: 0})
	require.ErrorIs(t, err, types.ErrNoActiveStake)
}

func TestMsgServerPausedOutranksArgumentErrors(t *testing.T) {
	k, ctx := setupKeeper(t)
	srv := keeper.NewMsgServerImpl(k)

	poolID := createPool(t, k, ctx, 40)
	stake(t, k, ctx, bob, poolID, 50_000_000)
	policyID, _, err := k.PurchasePolicy(ctx, dave, poolID, 10_000_000, 1000)
	require.NoError(t, err)

	_, err = srv.Pause(ctx, &types.MsgPause{Sender: deployer})
	require.NoError(t, err)

	before, err := k.ExportGenesis(ctx)
	require.NoError(t, err)
	events := len(ctx.EventManager().Events())

	cases := []struct {
		name string
		send func() error
	}{
		{"stake below minimum", func() error {
			_, err := srv.Stake(ctx, &types.MsgStake{Sender: bob, PoolID: poolID, Amount: 1})
			return err
		}},
		{"stake into unknown pool", func() error {
			_, err := srv.Stake(ctx, &types.MsgStake{Sender: bob, PoolID: 999, Amount: 1})
			return err
		}},
		{"unstake zero", func() error {
			_, err := srv.Unstake(ctx, &types.MsgUnstake{Sender: bob, PoolID: poolID})
			return err
		}},
		{"create pool without name", func() error {
			_, err := srv.CreatePool(ctx, &types.MsgCreatePool{Sender: alice})
			return err
		}},
		{"create pool above max risk", func() error {
			_, err := srv.CreatePool(ctx, &types.MsgCreatePool{Sender: alice, Name: "Pool", RiskFactor: 101})
			return err
		}},
		{"purchase below min coverage", func() error {
			_, err := srv.PurchasePolicy(ctx, &types.MsgPurchasePolicy{Sender: dave, PoolID: poolID, CoverageAmount: 1, Duration: 1000})
			return err
		}},
		{"claim zero without description", func() error {
			_, err := srv.SubmitClaim(ctx, &types.MsgSubmitClaim{Sender: dave, PolicyID: policyID})
			return err
		}},
		{"vote on unknown claim", func() error {
			_, err := srv.VoteOnClaim(ctx, &types.MsgVoteOnClaim{Sender: bob, ClaimID: 99, Approve: true})
			return err
		}},
		{"process unknown claim", func() error {
			_, err := srv.ProcessClaim(ctx, &types.MsgProcessClaim{Sender: bob, ClaimID: 99})
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.send()
			require.ErrorIs(t, err, types.ErrContractPaused)
			require.ErrorIs(t, err, types.ErrUnauthorized)
		})
	}

	after, err := k.ExportGenesis(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after)
	require.Len(t, ctx.EventManager().Events(), events)
}

func TestMsgServerStatefulChecksOutrankArgumentErrors(t *testing.T) {
	k, ctx := setupKeeper(t)
	srv := keeper.NewMsgServerImpl(k)

	poolID := createPool(t, k, ctx, 40)
	stake(t, k, ctx, bob, poolID, 50_000_000)
	policyID, _, err := k.PurchasePolicy(ctx, dave, poolID, 10_000_000, 1000)
	require.NoError(t, err)

	cases := []struct {
		name string
		send func() error
		want error
	}{
		{"stake below minimum into unknown pool", func() error {
			_, err := srv.Stake(ctx, &types.MsgStake{Sender: bob, PoolID: 999, Amount: 1})
			return err
		}, types.ErrPoolNotFound},
		{"non-owner sets fee above cap", func() error {
			_, err := srv.SetProtocolFeeRate(ctx, &types.MsgSetProtocolFeeRate{Sender: alice, RateBps: 5000})
			return err
		}, types.ErrUnauthorized},
		{"non-owner hands ownership to nobody", func() error {
			_, err := srv.TransferOwnership(ctx, &types.MsgTransferOwnership{Sender: alice})
			return err
		}, types.ErrUnauthorized},
		{"zero claim on unknown policy", func() error {
			_, err := srv.SubmitClaim(ctx, &types.MsgSubmitClaim{Sender: dave, PolicyID: 999})
			return err
		}, types.ErrPolicyNotFound},
		{"zero claim by non-holder", func() error {
			_, err := srv.SubmitClaim(ctx, &types.MsgSubmitClaim{Sender: bob, PolicyID: policyID})
			return err
		}, types.ErrNotPolicyHolder},
		{"unstake zero without a stake", func() error {
			_, err := srv.Unstake(ctx, &types.MsgUnstake{Sender: carol, PoolID: poolID})
			return err
		}, types.ErrNoActiveStake},
		{"coverage is checked before the pool", func() error {
			_, err := srv.PurchasePolicy(ctx, &types.MsgPurchasePolicy{Sender: dave, PoolID: 999, CoverageAmount: 1, Duration: 1000})
			return err
		}, types.ErrInvalidAmount},
		{"owner sets fee above cap", func() error {
			_, err := srv.SetProtocolFeeRate(ctx, &types.MsgSetProtocolFeeRate{Sender: deployer, RateBps: 5000})
			return err
		}, types.ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.send(), tc.want)
		})
	}
}

func TestMsgServerRecordsMetrics(t *testing.T) {
	k, ctx := setupKeeper(t)
	metrics := keeper.NewMetrics(prometheus.NewRegistry())
	k.SetMetrics(metrics)
	srv := keeper.NewMsgServerImpl(k)

	created, err := srv.CreatePool(ctx, &types.MsgCreatePool{Sender: alice, Name: "Pool", RiskFactor: 40})
	require.NoError(t, err)
	_, err = srv.Stake(ctx, &types.MsgStake{Sender: bob, PoolID: 99, Amount: types.MinStake})
	require.Error(t, err)
	_, err = srv.Stake(ctx, &types.MsgStake{Sender: bob, PoolID: created.PoolID, Amount: 50_000_000})
	require.NoError(t, err)
	_, err = srv.PurchasePolicy(ctx, &types.MsgPurchasePolicy{Sender: carol, PoolID: created.PoolID, CoverageAmount: 10_000_000, Duration: 1000})
	require.NoError(t, err)

	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Operations.WithLabelValues("create_pool", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Operations.WithLabelValues("stake", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Operations.WithLabelValues("stake", "pool not found")))
	require.Equal(t, 13318.0, testutil.ToFloat64(metrics.PremiumsCollected))
	require.Equal(t, 332.0, testutil.ToFloat64(metrics.ProtocolFees))
}

func TestMsgServerMissingSenderLeavesClaimPending(t *testing.T) {
	k, ctx, _, policyID := claimFixture(t)
	metrics := keeper.NewMetrics(prometheus.NewRegistry())
	k.SetMetrics(metrics)
	srv := keeper.NewMsgServerImpl(k)

	claimID, err := k.SubmitClaim(ctx, dave, policyID, 5_000_000, "Medical emergency")
	require.NoError(t, err)
	later := advance(ctx, types.VotingPeriod+1)

	_, err = srv.ProcessClaim(later, &types.MsgProcessClaim{ClaimID: claimID})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	claim, err := k.GetClaim(later, claimID)
	require.NoError(t, err)
	require.Equal(t, types.ClaimStatusPending, claim.Status)
	require.Zero(t, testutil.ToFloat64(metrics.ClaimsResolved.WithLabelValues(string(types.ClaimStatusRejected))))

	processed, err := srv.ProcessClaim(later, &types.MsgProcessClaim{Sender: carol, ClaimID: claimID})
	require.NoError(t, err)
	require.Equal(t, types.ClaimStatusRejected, processed.Status)
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.ClaimsResolved.WithLabelValues(string(types.ClaimStatusRejected))))
}
