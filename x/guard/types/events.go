package types

// Event types emitted by the module.
const (
	EventTypePaused          = "guard_paused"
	EventTypeUnpaused        = "guard_unpaused"
	EventTypeFeeRateUpdated  = "guard_fee_rate_updated"
	EventTypeOwnerChanged    = "guard_owner_changed"
	EventTypePoolCreated     = "guard_pool_created"
	EventTypeStaked          = "guard_staked"
	EventTypeUnstaked        = "guard_unstaked"
	EventTypePolicyPurchased = "guard_policy_purchased"
	EventTypeClaimSubmitted  = "guard_claim_submitted"
	EventTypeClaimVote       = "guard_claim_vote"
	EventTypeClaimResolved   = "guard_claim_resolved"
)

// Event attribute keys.
const (
	AttributeKeyCaller       = "caller"
	AttributeKeyOwner        = "owner"
	AttributeKeyRateBps      = "rate_bps"
	AttributeKeyPoolID       = "pool_id"
	AttributeKeyRiskFactor   = "risk_factor"
	AttributeKeyAmount       = "amount"
	AttributeKeyTotalStaked  = "total_staked"
	AttributeKeyPolicyID     = "policy_id"
	AttributeKeyCoverage     = "coverage"
	AttributeKeyPremium      = "premium"
	AttributeKeyProtocolFee  = "protocol_fee"
	AttributeKeyEndHeight    = "end_height"
	AttributeKeyClaimID      = "claim_id"
	AttributeKeyVotingEnds   = "voting_ends_at"
	AttributeKeyApprove      = "approve"
	AttributeKeyPower        = "power"
	AttributeKeyVotesFor     = "votes_for"
	AttributeKeyVotesAgainst = "votes_against"
	AttributeKeyStatus       = "status"
)
