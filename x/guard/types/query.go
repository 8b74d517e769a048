package types

import "context"

// QueryServer is the read-only surface of the module. Absent entities are
// reported through nil response fields, never as errors.
type QueryServer interface {
	Pool(context.Context, *QueryPoolRequest) (*QueryPoolResponse, error)
	UnderwriterStake(context.Context, *QueryUnderwriterStakeRequest) (*QueryUnderwriterStakeResponse, error)
	VotingPower(context.Context, *QueryVotingPowerRequest) (*QueryVotingPowerResponse, error)
	Premium(context.Context, *QueryPremiumRequest) (*QueryPremiumResponse, error)
	Policy(context.Context, *QueryPolicyRequest) (*QueryPolicyResponse, error)
	PolicyValid(context.Context, *QueryPolicyValidRequest) (*QueryPolicyValidResponse, error)
	Claim(context.Context, *QueryClaimRequest) (*QueryClaimResponse, error)
	ContractStats(context.Context, *QueryContractStatsRequest) (*QueryContractStatsResponse, error)
	Config(context.Context, *QueryConfigRequest) (*QueryConfigResponse, error)
}

type QueryPoolRequest struct {
	PoolID uint64 `json:"pool_id"`
}

type QueryPoolResponse struct {
	Pool *Pool `json:"pool,omitempty"`
}

type QueryUnderwriterStakeRequest struct {
	Underwriter string `json:"underwriter"`
	PoolID      uint64 `json:"pool_id"`
}

type QueryUnderwriterStakeResponse struct {
	Stake *UnderwriterStake `json:"stake,omitempty"`
}

type QueryVotingPowerRequest struct {
	Underwriter string `json:"underwriter"`
	PoolID      uint64 `json:"pool_id"`
}

type QueryVotingPowerResponse struct {
	Power uint64 `json:"power"`
}

type QueryPremiumRequest struct {
	PoolID         uint64 `json:"pool_id"`
	CoverageAmount uint64 `json:"coverage_amount"`
	Duration       uint64 `json:"duration"`
}

type QueryPremiumResponse struct {
	Premium uint64 `json:"premium"`
}

type QueryPolicyRequest struct {
	PolicyID uint64 `json:"policy_id"`
}

type QueryPolicyResponse struct {
	Policy *Policy `json:"policy,omitempty"`
}

type QueryPolicyValidRequest struct {
	PolicyID uint64 `json:"policy_id"`
}

type QueryPolicyValidResponse struct {
	Valid bool `json:"valid"`
}

type QueryClaimRequest struct {
	ClaimID uint64 `json:"claim_id"`
}

type QueryClaimResponse struct {
	Claim *Claim `json:"claim,omitempty"`
}

type QueryContractStatsRequest struct{}

type QueryContractStatsResponse struct {
	Stats ContractStats `json:"stats"`
}

type QueryConfigRequest struct{}

type QueryConfigResponse struct {
	Config Config `json:"config"`
}
