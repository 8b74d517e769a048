package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/collections"

	"github.com/DorisUkamaka/StacksGuard/x/guard/types"
)

// InitGenesis loads module state. An empty owner defaults to the authority.
func (k Keeper) InitGenesis(ctx context.Context, gs *types.GenesisState) error {
	if gs == nil {
		gs = types.DefaultGenesis()
	}
	if err := gs.Validate(); err != nil {
		return fmt.Errorf("invalid %s genesis: %w", types.ModuleName, err)
	}

	cfg := gs.Config
	if cfg.Owner == "" {
		cfg.Owner = k.authority
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := k.Config.Set(ctx, cfg); err != nil {
		return err
	}

	for _, pool := range gs.Pools {
		if err := k.Pools.Set(ctx, pool.ID, pool); err != nil {
			return err
		}
	}
	for _, stake := range gs.Stakes {
		if err := k.Stakes.Set(ctx, collections.Join(stake.Underwriter, stake.PoolID), stake); err != nil {
			return err
		}
	}
	for _, policy := range gs.Policies {
		if err := k.Policies.Set(ctx, policy.ID, policy); err != nil {
			return err
		}
		if err := k.PoolPolicies.Set(ctx, collections.Join(policy.PoolID, policy.ID)); err != nil {
			return err
		}
	}
	for _, claim := range gs.Claims {
		if err := k.Claims.Set(ctx, claim.ID, claim); err != nil {
			return err
		}
	}
	for _, vote := range gs.Votes {
		if err := k.ClaimVotes.Set(ctx, collections.Join(vote.ClaimID, vote.Voter), vote); err != nil {
			return err
		}
	}

	if err := k.PoolCount.Set(ctx, gs.PoolCount); err != nil {
		return err
	}
	if err := k.PolicyCount.Set(ctx, gs.PolicyCount); err != nil {
		return err
	}
	if err := k.ClaimCount.Set(ctx, gs.ClaimCount); err != nil {
		return err
	}
	return k.ProtocolFees.Set(ctx, gs.ProtocolFees)
}

// ExportGenesis dumps module state.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	gs := types.DefaultGenesis()

	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	gs.Config = cfg

	if err := k.Pools.Walk(ctx, nil, func(_ uint64, pool types.Pool) (bool, error) {
		gs.Pools = append(gs.Pools, pool)
		return false, nil
	}); err != nil {
		return nil, err
	}
	if err := k.Stakes.Walk(ctx, nil, func(_ collections.Pair[string, uint64], stake types.UnderwriterStake) (bool, error) {
		gs.Stakes = append(gs.Stakes, stake)
		return false, nil
	}); err != nil {
		return nil, err
	}
	if err := k.Policies.Walk(ctx, nil, func(_ uint64, policy types.Policy) (bool, error) {
		gs.Policies = append(gs.Policies, policy)
		return false, nil
	}); err != nil {
		return nil, err
	}
	if err := k.Claims.Walk(ctx, nil, func(_ uint64, claim types.Claim) (bool, error) {
		gs.Claims = append(gs.Claims, claim)
		return false, nil
	}); err != nil {
		return nil, err
	}
	if err := k.ClaimVotes.Walk(ctx, nil, func(_ collections.Pair[uint64, string], vote types.ClaimVote) (bool, error) {
		gs.Votes = append(gs.Votes, vote)
		return false, nil
	}); err != nil {
		return nil, err
	}

	if gs.PoolCount, err = readCounter(ctx, k.PoolCount); err != nil {
		return nil, err
	}
	if gs.PolicyCount, err = readCounter(ctx, k.PolicyCount); err != nil {
		return nil, err
	}
	if gs.ClaimCount, err = readCounter(ctx, k.ClaimCount); err != nil {
		return nil, err
	}
	if gs.ProtocolFees, err = readCounter(ctx, k.ProtocolFees); err != nil {
		return nil, err
	}
	return gs, nil
}
