package keeper_test

import (
	"strings"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/DorisUkamaka/StacksGuard/x/guard/keeper"
	"github.com/DorisUkamaka/StacksGuard/x/guard/types"
)

const dave = "stx1dave"

// claimFixture is a pool with bob (50 votes) and carol (30 votes) staked and
// a 20 STX policy held by dave.
func claimFixture(t *testing.T) (keeper.Keeper, sdk.Context, uint64, uint64) {
	t.Helper()
	k, ctx := setupKeeper(t)
	poolID := createPool(t, k, ctx, 40)
	stake(t, k, ctx, bob, poolID, 50_000_000)
	stake(t, k, ctx, carol, poolID, 30_000_000)
	policyID, _, err := k.PurchasePolicy(ctx, dave, poolID, 20_000_000, 2000)
	require.NoError(t, err)
	return k, ctx, poolID, policyID
}

func TestSubmitClaim(t *testing.T) {
	k, ctx, poolID, policyID := claimFixture(t)

	claimID, err := k.SubmitClaim(ctx, dave, policyID, 5_000_000, "Medical emergency")
	require.NoError(t, err)
	require.Equal(t, uint64(1), claimID)

	claim, err := k.GetClaim(ctx, claimID)
	require.NoError(t, err)
	require.Equal(t, policyID, claim.PolicyID)
	require.Equal(t, poolID, claim.PoolID)
	require.Equal(t, dave, claim.Claimant)
	require.Equal(t, types.ClaimStatusPending, claim.Status)
	require.Equal(t, ctx.BlockHeight()+types.VotingPeriod, claim.VotingEndsAtHeight)
	require.Zero(t, claim.VotesFor)
	require.Zero(t, claim.VotesAgainst)

	policy, err := k.GetPolicy(ctx, policyID)
	require.NoError(t, err)
	require.Equal(t, uint64(1), policy.ClaimsMade)
	require.Equal(t, uint64(1), stats(t, k, ctx).TotalClaims)
}

func TestSubmitClaimValidation(t *testing.T) {
	k, ctx, _, policyID := claimFixture(t)

	_, err := k.SubmitClaim(ctx, dave, 999, 1_000_000, "lost")
	require.ErrorIs(t, err, types.ErrPolicyNotFound)

	_, err = k.SubmitClaim(ctx, bob, policyID, 1_000_000, "not mine")
	require.ErrorIs(t, err, types.ErrUnauthorized)
	require.ErrorIs(t, err, types.ErrNotPolicyHolder)

	_, err = k.SubmitClaim(ctx, dave, policyID, 0, "nothing")
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, err = k.SubmitClaim(ctx, dave, policyID, 20_000_001, "too much")
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, err = k.SubmitClaim(ctx, dave, policyID, 1_000_000, "")
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, err = k.SubmitClaim(ctx, dave, policyID, 1_000_000, strings.Repeat("x", types.MaxClaimDescriptionLen+1))
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, err = k.SubmitClaim(advance(ctx, 2001), dave, policyID, 1_000_000, "late")
	require.ErrorIs(t, err, types.ErrPolicyExpired)

	// The full coverage amount is claimable on the last covered block.
	_, err = k.SubmitClaim(advance(ctx, 2000), dave, policyID, 20_000_000, "total loss")
	require.NoError(t, err)
	require.Equal(t, uint64(1), stats(t, k, ctx).TotalClaims)
}

func TestVoteOnClaim(t *testing.T) {
	k, ctx, _, policyID := claimFixture(t)
	claimID, err := k.SubmitClaim(ctx, dave, policyID, 5_000_000, "Medical emergency")
	require.NoError(t, err)

	power, err := k.VoteOnClaim(ctx, bob, claimID, true)
	require.NoError(t, err)
	require.Equal(t, uint64(50), power)

	power, err = k.VoteOnClaim(advance(ctx, types.VotingPeriod), carol, claimID, false)
	require.NoError(t, err)
	require.Equal(t, uint64(30), power)

	claim, err := k.GetClaim(ctx, claimID)
	require.NoError(t, err)
	require.Equal(t, uint64(50), claim.VotesFor)
	require.Equal(t, uint64(30), claim.VotesAgainst)

	_, err = k.VoteOnClaim(ctx, bob, claimID, false)
	require.ErrorIs(t, err, types.ErrAlreadyVoted)
	require.ErrorIs(t, err, types.ErrClaimAlreadyProcessed)

	_, err = k.VoteOnClaim(ctx, dave, claimID, true)
	require.ErrorIs(t, err, types.ErrNoActiveStake)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = k.VoteOnClaim(ctx, bob, 999, true)
	require.ErrorIs(t, err, types.ErrClaimNotFound)

	claim, err = k.GetClaim(ctx, claimID)
	require.NoError(t, err)
	require.Equal(t, uint64(50), claim.VotesFor)
	require.Equal(t, uint64(30), claim.VotesAgainst)
}

func TestVoteAfterWindowCloses(t *testing.T) {
	k, ctx, _, policyID := claimFixture(t)
	claimID, err := k.SubmitClaim(ctx, dave, policyID, 5_000_000, "Medical emergency")
	require.NoError(t, err)

	_, err = k.VoteOnClaim(advance(ctx, types.VotingPeriod+1), bob, claimID, true)
	require.ErrorIs(t, err, types.ErrVotingClosed)
	require.ErrorIs(t, err, types.ErrPolicyExpired)

	// Stake from another pool gives no say.
	other := createPool(t, k, ctx, 10)
	stake(t, k, ctx, dave, other, 90_000_000)
	_, err = k.VoteOnClaim(ctx, dave, claimID, true)
	require.ErrorIs(t, err, types.ErrNoActiveStake)
}

func TestProcessClaimBeforeWindowCloses(t *testing.T) {
	k, ctx, _, policyID := claimFixture(t)
	claimID, err := k.SubmitClaim(ctx, dave, policyID, 5_000_000, "Medical emergency")
	require.NoError(t, err)

	_, err = k.ProcessClaim(advance(ctx, types.VotingPeriod), claimID)
	require.ErrorIs(t, err, types.ErrVotingNotEnded)
	require.ErrorIs(t, err, types.ErrClaimNotFound)

	_, err = k.ProcessClaim(ctx, 999)
	require.ErrorIs(t, err, types.ErrClaimNotFound)
}

func TestProcessClaimTieRejects(t *testing.T) {
	k, ctx := setupKeeper(t)
	poolID := createPool(t, k, ctx, 40)
	stake(t, k, ctx, bob, poolID, 30_000_000)
	stake(t, k, ctx, carol, poolID, 30_000_000)
	policyID, _, err := k.PurchasePolicy(ctx, dave, poolID, 20_000_000, 2000)
	require.NoError(t, err)
	claimID, err := k.SubmitClaim(ctx, dave, policyID, 5_000_000, "Medical emergency")
	require.NoError(t, err)

	_, err = k.VoteOnClaim(ctx, bob, claimID, true)
	require.NoError(t, err)
	_, err = k.VoteOnClaim(ctx, carol, claimID, false)
	require.NoError(t, err)

	status, err := k.ProcessClaim(advance(ctx, types.VotingPeriod+1), claimID)
	require.NoError(t, err)
	require.Equal(t, types.ClaimStatusRejected, status)

	pool, err := k.GetPool(ctx, poolID)
	require.NoError(t, err)
	require.Zero(t, pool.ClaimsPaid)
	require.Equal(t, uint64(1), pool.ActivePolicies)
}

func TestProcessClaimWithoutVotesRejects(t *testing.T) {
	k, ctx, _, policyID := claimFixture(t)
	claimID, err := k.SubmitClaim(ctx, dave, policyID, 5_000_000, "Medical emergency")
	require.NoError(t, err)

	status, err := k.ProcessClaim(advance(ctx, types.VotingPeriod+1), claimID)
	require.NoError(t, err)
	require.Equal(t, types.ClaimStatusRejected, status)
}

func TestProcessClaimOnlyOnce(t *testing.T) {
	k, ctx, _, policyID := claimFixture(t)
	claimID, err := k.SubmitClaim(ctx, dave, policyID, 5_000_000, "Medical emergency")
	require.NoError(t, err)
	_, err = k.VoteOnClaim(ctx, bob, claimID, true)
	require.NoError(t, err)

	after := advance(ctx, types.VotingPeriod+1)
	status, err := k.ProcessClaim(after, claimID)
	require.NoError(t, err)
	require.Equal(t, types.ClaimStatusApproved, status)

	_, err = k.ProcessClaim(after, claimID)
	require.ErrorIs(t, err, types.ErrClaimAlreadyProcessed)

	claim, err := k.GetClaim(after, claimID)
	require.NoError(t, err)
	require.Equal(t, types.ClaimStatusApproved, claim.Status)
	require.Equal(t, after.BlockHeight(), claim.ResolvedAtHeight)
}

func TestApprovedPayoutsNeverExceedCoverage(t *testing.T) {
	k, ctx, poolID, policyID := claimFixture(t)

	first, err := k.SubmitClaim(ctx, dave, policyID, 15_000_000, "fire")
	require.NoError(t, err)
	second, err := k.SubmitClaim(ctx, dave, policyID, 15_000_000, "flood")
	require.NoError(t, err)
	for _, id := range []uint64{first, second} {
		_, err = k.VoteOnClaim(ctx, bob, id, true)
		require.NoError(t, err)
	}

	after := advance(ctx, types.VotingPeriod+1)
	for _, id := range []uint64{first, second} {
		status, err := k.ProcessClaim(after, id)
		require.NoError(t, err)
		require.Equal(t, types.ClaimStatusApproved, status)
	}

	policy, err := k.GetPolicy(after, policyID)
	require.NoError(t, err)
	require.Equal(t, uint64(20_000_000), policy.PaidOut)
	require.Zero(t, policy.RemainingCoverage())

	pool, err := k.GetPool(after, poolID)
	require.NoError(t, err)
	require.Equal(t, uint64(20_000_000), pool.ClaimsPaid)
	require.Zero(t, pool.ActivePolicies)
}
