package keeper

import (
	"context"

	"github.com/DorisUkamaka/StacksGuard/x/guard/types"
)

// GetContractStats assembles the protocol-wide totals. Pools, policies and
// claims are never deleted, so each total equals its ID sequence.
func (k Keeper) GetContractStats(ctx context.Context) (types.ContractStats, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return types.ContractStats{}, err
	}
	var stats types.ContractStats
	if stats.TotalPools, err = readCounter(ctx, k.PoolCount); err != nil {
		return types.ContractStats{}, err
	}
	if stats.TotalPolicies, err = readCounter(ctx, k.PolicyCount); err != nil {
		return types.ContractStats{}, err
	}
	if stats.TotalClaims, err = readCounter(ctx, k.ClaimCount); err != nil {
		return types.ContractStats{}, err
	}
	if stats.ProtocolFees, err = readCounter(ctx, k.ProtocolFees); err != nil {
		return types.ContractStats{}, err
	}
	stats.IsPaused = cfg.Paused
	return stats, nil
}
