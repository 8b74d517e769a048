package keeper

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/DorisUkamaka/StacksGuard/x/guard/types"
)

// SubmitClaim opens a claim against one of the claimant's policies.
func (k Keeper) SubmitClaim(
	ctx context.Context,
	claimant string,
	policyID uint64,
	amount uint64,
	description string,
) (uint64, error) {
	if _, err := k.requireNotPaused(ctx); err != nil {
		return 0, err
	}
	claimant = normalizeAddress(claimant)
	policy, err := k.GetPolicy(ctx, policyID)
	if err != nil {
		return 0, err
	}
	if claimant != policy.Holder {
		return 0, errorsmod.Wrapf(types.ErrNotPolicyHolder, "policy %d", policyID)
	}
	height := blockHeight(ctx)
	if height > policy.EndHeight {
		return 0, errorsmod.Wrapf(types.ErrPolicyExpired, "policy %d ended at %d", policyID, policy.EndHeight)
	}
	if amount == 0 || amount > policy.CoverageAmount {
		return 0, errorsmod.Wrapf(types.ErrInvalidAmount, "claim %d outside (0, %d]", amount, policy.CoverageAmount)
	}
	if err := types.ValidateClaimDescription(description); err != nil {
		return 0, err
	}

	id, err := nextID(ctx, k.ClaimCount)
	if err != nil {
		return 0, err
	}
	claim := types.Claim{
		ID:                 id,
		PolicyID:           policyID,
		PoolID:             policy.PoolID,
		Claimant:           claimant,
		Amount:             amount,
		Description:        description,
		SubmittedAtHeight:  height,
		Status:             types.ClaimStatusPending,
		VotingEndsAtHeight: height + types.VotingPeriod,
	}
	if err := k.Claims.Set(ctx, id, claim); err != nil {
		return 0, err
	}
	policy.ClaimsMade++
	if err := k.Policies.Set(ctx, policyID, policy); err != nil {
		return 0, err
	}

	emitEvent(ctx, types.EventTypeClaimSubmitted,
		sdk.NewAttribute(types.AttributeKeyClaimID, u64(id)),
		sdk.NewAttribute(types.AttributeKeyPolicyID, u64(policyID)),
		sdk.NewAttribute(types.AttributeKeyCaller, claimant),
		sdk.NewAttribute(types.AttributeKeyAmount, u64(amount)),
		sdk.NewAttribute(types.AttributeKeyVotingEnds, i64(claim.VotingEndsAtHeight)),
	)
	k.Logger(ctx).Info("claim submitted", "claim_id", id, "policy_id", policyID, "amount", amount)

	return id, nil
}

// VoteOnClaim adds the voter's current voting power to one side of a claim
// and returns the power applied. Each underwriter votes at most once.
func (k Keeper) VoteOnClaim(ctx context.Context, voter string, claimID uint64, approve bool) (uint64, error) {
	if _, err := k.requireNotPaused(ctx); err != nil {
		return 0, err
	}
	voter = normalizeAddress(voter)
	claim, err := k.GetClaim(ctx, claimID)
	if err != nil {
		return 0, err
	}
	height := blockHeight(ctx)
	if !claim.VotingOpenAt(height) {
		return 0, errorsmod.Wrapf(types.ErrVotingClosed, "claim %d voting ended at %d", claimID, claim.VotingEndsAtHeight)
	}
	if claim.Status != types.ClaimStatusPending {
		return 0, errorsmod.Wrapf(types.ErrClaimAlreadyProcessed, "claim %d is %s", claimID, claim.Status)
	}
	stake, active, err := k.hasActiveStake(ctx, voter, claim.PoolID)
	if err != nil {
		return 0, err
	}
	if !active {
		return 0, errorsmod.Wrapf(types.ErrNoActiveStake, "%s in pool %d", voter, claim.PoolID)
	}
	voteKey := collections.Join(claimID, voter)
	voted, err := k.ClaimVotes.Has(ctx, voteKey)
	if err != nil {
		return 0, err
	}
	if voted {
		return 0, errorsmod.Wrapf(types.ErrAlreadyVoted, "%s on claim %d", voter, claimID)
	}

	power := stake.VotingPower()
	if approve {
		claim.VotesFor, err = addUint64(claim.VotesFor, power)
	} else {
		claim.VotesAgainst, err = addUint64(claim.VotesAgainst, power)
	}
	if err != nil {
		return 0, err
	}

	vote := types.ClaimVote{
		ClaimID:      claimID,
		Voter:        voter,
		Approve:      approve,
		Power:        power,
		CastAtHeight: height,
	}
	if err := k.ClaimVotes.Set(ctx, voteKey, vote); err != nil {
		return 0, err
	}
	if err := k.Claims.Set(ctx, claimID, claim); err != nil {
		return 0, err
	}

	emitEvent(ctx, types.EventTypeClaimVote,
		sdk.NewAttribute(types.AttributeKeyClaimID, u64(claimID)),
		sdk.NewAttribute(types.AttributeKeyCaller, voter),
		sdk.NewAttribute(types.AttributeKeyApprove, fmt.Sprintf("%t", approve)),
		sdk.NewAttribute(types.AttributeKeyPower, u64(power)),
		sdk.NewAttribute(types.AttributeKeyVotesFor, u64(claim.VotesFor)),
		sdk.NewAttribute(types.AttributeKeyVotesAgainst, u64(claim.VotesAgainst)),
	)

	return power, nil
}

// ProcessClaim resolves a pending claim after its voting window has closed.
// Approval needs strictly more votes for than against.
func (k Keeper) ProcessClaim(ctx context.Context, claimID uint64) (types.ClaimStatus, error) {
	if _, err := k.requireNotPaused(ctx); err != nil {
		return "", err
	}
	claim, err := k.GetClaim(ctx, claimID)
	if err != nil {
		return "", err
	}
	height := blockHeight(ctx)
	if claim.VotingOpenAt(height) {
		return "", errorsmod.Wrapf(types.ErrVotingNotEnded, "claim %d voting ends at %d", claimID, claim.VotingEndsAtHeight)
	}
	if claim.Status != types.ClaimStatusPending {
		return "", errorsmod.Wrapf(types.ErrClaimAlreadyProcessed, "claim %d is %s", claimID, claim.Status)
	}

	claim.Status = claim.Outcome()
	claim.ResolvedAtHeight = height

	if claim.Status == types.ClaimStatusApproved {
		if err := k.settleApprovedClaim(ctx, claim); err != nil {
			return "", err
		}
	}
	if err := k.Claims.Set(ctx, claimID, claim); err != nil {
		return "", err
	}

	if k.metrics != nil {
		k.metrics.ClaimsResolved.WithLabelValues(string(claim.Status)).Inc()
	}
	emitEvent(ctx, types.EventTypeClaimResolved,
		sdk.NewAttribute(types.AttributeKeyClaimID, u64(claimID)),
		sdk.NewAttribute(types.AttributeKeyStatus, string(claim.Status)),
		sdk.NewAttribute(types.AttributeKeyVotesFor, u64(claim.VotesFor)),
		sdk.NewAttribute(types.AttributeKeyVotesAgainst, u64(claim.VotesAgainst)),
	)
	k.Logger(ctx).Info("claim resolved",
		"claim_id", claimID,
		"status", claim.Status,
		"votes_for", claim.VotesFor,
		"votes_against", claim.VotesAgainst,
	)

	return claim.Status, nil
}

// settleApprovedClaim books the payout against the policy and pool. Payouts
// never exceed the policy's remaining coverage. The first payout on a policy
// retires it from the pool's active count.
func (k Keeper) settleApprovedClaim(ctx context.Context, claim types.Claim) error {
	policy, err := k.GetPolicy(ctx, claim.PolicyID)
	if err != nil {
		return err
	}
	pool, err := k.GetPool(ctx, policy.PoolID)
	if err != nil {
		return err
	}

	payout := claim.Amount
	if remaining := policy.RemainingCoverage(); payout > remaining {
		payout = remaining
	}
	firstPayout := policy.PaidOut == 0 && payout > 0

	policy.PaidOut += payout
	if pool.ClaimsPaid, err = addUint64(pool.ClaimsPaid, payout); err != nil {
		return err
	}

	if err := k.Policies.Set(ctx, policy.ID, policy); err != nil {
		return err
	}
	if err := k.Pools.Set(ctx, pool.ID, pool); err != nil {
		return err
	}
	if firstPayout && pool.ActivePolicies > 0 {
		if _, err := k.adjustActivePolicies(ctx, pool.ID, -1); err != nil {
			return err
		}
	}
	return nil
}

// GetClaim loads a claim or returns ErrClaimNotFound.
func (k Keeper) GetClaim(ctx context.Context, id uint64) (types.Claim, error) {
	claim, err := k.Claims.Get(ctx, id)
	if errors.Is(err, collections.ErrNotFound) {
		return types.Claim{}, errorsmod.Wrapf(types.ErrClaimNotFound, "claim %d", id)
	}
	return claim, err
}
