package keeper

import (
	"context"
	"errors"

	"github.com/DorisUkamaka/StacksGuard/x/guard/types"
)

type queryServer struct {
	Keeper
}

// NewQueryServerImpl returns the read-only query surface. Queries work while
// the contract is paused.
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

func (q queryServer) Pool(ctx context.Context, req *types.QueryPoolRequest) (*types.QueryPoolResponse, error) {
	pool, err := q.GetPool(ctx, req.PoolID)
	if errors.Is(err, types.ErrPoolNotFound) {
		return &types.QueryPoolResponse{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &types.QueryPoolResponse{Pool: &pool}, nil
}

func (q queryServer) UnderwriterStake(ctx context.Context, req *types.QueryUnderwriterStakeRequest) (*types.QueryUnderwriterStakeResponse, error) {
	stake, found, err := q.GetUnderwriterStake(ctx, req.Underwriter, req.PoolID)
	if err != nil {
		return nil, err
	}
	if !found {
		return &types.QueryUnderwriterStakeResponse{}, nil
	}
	return &types.QueryUnderwriterStakeResponse{Stake: &stake}, nil
}

func (q queryServer) VotingPower(ctx context.Context, req *types.QueryVotingPowerRequest) (*types.QueryVotingPowerResponse, error) {
	return &types.QueryVotingPowerResponse{Power: q.GetVotingPower(ctx, req.Underwriter, req.PoolID)}, nil
}

// Premium is the one query that reports a missing pool as an error, since a
// price cannot be quoted without a risk factor.
func (q queryServer) Premium(ctx context.Context, req *types.QueryPremiumRequest) (*types.QueryPremiumResponse, error) {
	premium, err := q.CalculatePremium(ctx, req.CoverageAmount, req.Duration, req.PoolID)
	if err != nil {
		return nil, err
	}
	return &types.QueryPremiumResponse{Premium: premium}, nil
}

func (q queryServer) Policy(ctx context.Context, req *types.QueryPolicyRequest) (*types.QueryPolicyResponse, error) {
	policy, err := q.GetPolicy(ctx, req.PolicyID)
	if errors.Is(err, types.ErrPolicyNotFound) {
		return &types.QueryPolicyResponse{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &types.QueryPolicyResponse{Policy: &policy}, nil
}

func (q queryServer) PolicyValid(ctx context.Context, req *types.QueryPolicyValidRequest) (*types.QueryPolicyValidResponse, error) {
	return &types.QueryPolicyValidResponse{Valid: q.IsPolicyValid(ctx, req.PolicyID)}, nil
}

func (q queryServer) Claim(ctx context.Context, req *types.QueryClaimRequest) (*types.QueryClaimResponse, error) {
	claim, err := q.GetClaim(ctx, req.ClaimID)
	if errors.Is(err, types.ErrClaimNotFound) {
		return &types.QueryClaimResponse{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &types.QueryClaimResponse{Claim: &claim}, nil
}

func (q queryServer) ContractStats(ctx context.Context, _ *types.QueryContractStatsRequest) (*types.QueryContractStatsResponse, error) {
	stats, err := q.GetContractStats(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryContractStatsResponse{Stats: stats}, nil
}

func (q queryServer) Config(ctx context.Context, _ *types.QueryConfigRequest) (*types.QueryConfigResponse, error) {
	cfg, err := q.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryConfigResponse{Config: cfg}, nil
}
