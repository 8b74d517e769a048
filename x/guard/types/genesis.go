package types

import "fmt"

// GenesisState is the full exported module state.
type GenesisState struct {
	Config       Config             `json:"config"`
	Pools        []Pool             `json:"pools"`
	Stakes       []UnderwriterStake `json:"stakes"`
	Policies     []Policy           `json:"policies"`
	Claims       []Claim            `json:"claims"`
	Votes        []ClaimVote        `json:"votes"`
	PoolCount    uint64             `json:"pool_count"`
	PolicyCount  uint64             `json:"policy_count"`
	ClaimCount   uint64             `json:"claim_count"`
	ProtocolFees uint64             `json:"protocol_fees"`
}

// DefaultGenesis returns an empty state. An empty owner is replaced by the
// keeper authority on import.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Config:   DefaultConfig(""),
		Pools:    []Pool{},
		Stakes:   []UnderwriterStake{},
		Policies: []Policy{},
		Claims:   []Claim{},
		Votes:    []ClaimVote{},
	}
}

// Validate performs basic genesis state validation.
func (gs GenesisState) Validate() error {
	if gs.Config.Owner != "" {
		if err := gs.Config.Validate(); err != nil {
			return err
		}
	} else if gs.Config.ProtocolFeeRateBps > MaxProtocolFeeRateBps {
		return fmt.Errorf("protocol fee rate %d exceeds cap %d", gs.Config.ProtocolFeeRateBps, MaxProtocolFeeRateBps)
	}

	pools := make(map[uint64]uint64, len(gs.Pools))
	for i, pool := range gs.Pools {
		if pool.ID == 0 || pool.ID > gs.PoolCount {
			return fmt.Errorf("pool at index %d has id %d outside [1, %d]", i, pool.ID, gs.PoolCount)
		}
		if _, dup := pools[pool.ID]; dup {
			return fmt.Errorf("duplicate pool id %d", pool.ID)
		}
		if err := ValidatePoolParams(pool.Name, pool.Description, pool.RiskFactor); err != nil {
			return fmt.Errorf("invalid pool %d: %w", pool.ID, err)
		}
		pools[pool.ID] = 0
	}

	seenStakes := make(map[string]struct{}, len(gs.Stakes))
	for _, stake := range gs.Stakes {
		if stake.Underwriter == "" {
			return fmt.Errorf("stake in pool %d has empty underwriter", stake.PoolID)
		}
		if _, ok := pools[stake.PoolID]; !ok {
			return fmt.Errorf("stake of %s references unknown pool %d", stake.Underwriter, stake.PoolID)
		}
		key := fmt.Sprintf("%s|%d", stake.Underwriter, stake.PoolID)
		if _, dup := seenStakes[key]; dup {
			return fmt.Errorf("duplicate stake %s", key)
		}
		seenStakes[key] = struct{}{}
		pools[stake.PoolID] += stake.StakedAmount
	}
	for _, pool := range gs.Pools {
		if pools[pool.ID] != pool.TotalStaked {
			return fmt.Errorf("pool %d total staked %d does not match stakes %d", pool.ID, pool.TotalStaked, pools[pool.ID])
		}
	}

	policies := make(map[uint64]struct{}, len(gs.Policies))
	for _, policy := range gs.Policies {
		if policy.ID == 0 || policy.ID > gs.PolicyCount {
			return fmt.Errorf("policy id %d outside [1, %d]", policy.ID, gs.PolicyCount)
		}
		if _, dup := policies[policy.ID]; dup {
			return fmt.Errorf("duplicate policy id %d", policy.ID)
		}
		if _, ok := pools[policy.PoolID]; !ok {
			return fmt.Errorf("policy %d references unknown pool %d", policy.ID, policy.PoolID)
		}
		if policy.EndHeight < policy.StartHeight {
			return fmt.Errorf("policy %d ends before it starts", policy.ID)
		}
		policies[policy.ID] = struct{}{}
	}

	claims := make(map[uint64]struct{}, len(gs.Claims))
	for _, claim := range gs.Claims {
		if claim.ID == 0 || claim.ID > gs.ClaimCount {
			return fmt.Errorf("claim id %d outside [1, %d]", claim.ID, gs.ClaimCount)
		}
		if _, dup := claims[claim.ID]; dup {
			return fmt.Errorf("duplicate claim id %d", claim.ID)
		}
		if _, ok := policies[claim.PolicyID]; !ok {
			return fmt.Errorf("claim %d references unknown policy %d", claim.ID, claim.PolicyID)
		}
		switch claim.Status {
		case ClaimStatusPending, ClaimStatusApproved, ClaimStatusRejected:
		default:
			return fmt.Errorf("claim %d has unknown status %q", claim.ID, claim.Status)
		}
		claims[claim.ID] = struct{}{}
	}

	for _, vote := range gs.Votes {
		if _, ok := claims[vote.ClaimID]; !ok {
			return fmt.Errorf("vote by %s references unknown claim %d", vote.Voter, vote.ClaimID)
		}
		if vote.Voter == "" {
			return fmt.Errorf("vote on claim %d has empty voter", vote.ClaimID)
		}
	}

	return nil
}
