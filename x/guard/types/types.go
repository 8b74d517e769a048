package types

// ClaimStatus is the lifecycle state of a claim.
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusRejected ClaimStatus = "rejected"
)

// IsTerminal reports whether no further transitions are allowed.
func (s ClaimStatus) IsTerminal() bool {
	return s == ClaimStatusApproved || s == ClaimStatusRejected
}

// Pool is a shared capital reserve backing policies.
type Pool struct {
	ID                uint64 `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	Creator           string `json:"creator"`
	TotalStaked       uint64 `json:"total_staked"`
	ActivePolicies    uint64 `json:"active_policies"`
	RiskFactor        uint64 `json:"risk_factor"`
	CreatedAtHeight   int64  `json:"created_at_height"`
	IsActive          bool   `json:"is_active"`
	PremiumsCollected uint64 `json:"premiums_collected"`
	ClaimsPaid        uint64 `json:"claims_paid"`
}

// UnderwriterStake is one underwriter's position in one pool.
type UnderwriterStake struct {
	Underwriter    string `json:"underwriter"`
	PoolID         uint64 `json:"pool_id"`
	StakedAmount   uint64 `json:"staked_amount"`
	StakedAtHeight int64  `json:"staked_at_height"`
	RewardsEarned  uint64 `json:"rewards_earned"`
	IsActive       bool   `json:"is_active"`
}

// VotingPower is one vote per whole staked unit.
func (s UnderwriterStake) VotingPower() uint64 {
	if !s.IsActive {
		return 0
	}
	return s.StakedAmount / VotingPowerUnit
}

// Policy is a time-bounded coverage agreement between a holder and a pool.
type Policy struct {
	ID             uint64 `json:"id"`
	Holder         string `json:"holder"`
	PoolID         uint64 `json:"pool_id"`
	CoverageAmount uint64 `json:"coverage_amount"`
	PremiumPaid    uint64 `json:"premium_paid"`
	StartHeight    int64  `json:"start_height"`
	EndHeight      int64  `json:"end_height"`
	IsActive       bool   `json:"is_active"`
	ClaimsMade     uint64 `json:"claims_made"`
	PaidOut        uint64 `json:"paid_out"`
}

// ValidAt reports whether the policy still provides coverage at height.
func (p Policy) ValidAt(height int64) bool {
	return p.IsActive && height <= p.EndHeight
}

// RemainingCoverage is the coverage not yet consumed by approved claims.
func (p Policy) RemainingCoverage() uint64 {
	if p.PaidOut >= p.CoverageAmount {
		return 0
	}
	return p.CoverageAmount - p.PaidOut
}

// Claim is a holder's request to draw against a policy.
type Claim struct {
	ID                 uint64      `json:"id"`
	PolicyID           uint64      `json:"policy_id"`
	PoolID             uint64      `json:"pool_id"`
	Claimant           string      `json:"claimant"`
	Amount             uint64      `json:"amount"`
	Description        string      `json:"description"`
	SubmittedAtHeight  int64       `json:"submitted_at_height"`
	Status             ClaimStatus `json:"status"`
	VotesFor           uint64      `json:"votes_for"`
	VotesAgainst       uint64      `json:"votes_against"`
	VotingEndsAtHeight int64       `json:"voting_ends_at_height"`
	ResolvedAtHeight   int64       `json:"resolved_at_height,omitempty"`
}

// VotingOpenAt reports whether ballots are still accepted at height.
func (c Claim) VotingOpenAt(height int64) bool {
	return height <= c.VotingEndsAtHeight
}

// Outcome applies the simple-majority rule. Ties reject.
func (c Claim) Outcome() ClaimStatus {
	if c.VotesFor > c.VotesAgainst {
		return ClaimStatusApproved
	}
	return ClaimStatusRejected
}

// ClaimVote is a single underwriter ballot.
type ClaimVote struct {
	ClaimID      uint64 `json:"claim_id"`
	Voter        string `json:"voter"`
	Approve      bool   `json:"approve"`
	Power        uint64 `json:"power"`
	CastAtHeight int64  `json:"cast_at_height"`
}

// ContractStats are the protocol-wide running totals.
type ContractStats struct {
	TotalPools    uint64 `json:"total_pools"`
	TotalPolicies uint64 `json:"total_policies"`
	TotalClaims   uint64 `json:"total_claims"`
	ProtocolFees  uint64 `json:"protocol_fees"`
	IsPaused      bool   `json:"is_paused"`
}
