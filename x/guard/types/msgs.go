package types

import (
	"context"
	"strings"

	errorsmod "cosmossdk.io/errors"
)

// MsgServer is the transactional surface of the module.
type MsgServer interface {
	Pause(context.Context, *MsgPause) (*MsgPauseResponse, error)
	Unpause(context.Context, *MsgUnpause) (*MsgUnpauseResponse, error)
	SetProtocolFeeRate(context.Context, *MsgSetProtocolFeeRate) (*MsgSetProtocolFeeRateResponse, error)
	TransferOwnership(context.Context, *MsgTransferOwnership) (*MsgTransferOwnershipResponse, error)
	CreatePool(context.Context, *MsgCreatePool) (*MsgCreatePoolResponse, error)
	Stake(context.Context, *MsgStake) (*MsgStakeResponse, error)
	Unstake(context.Context, *MsgUnstake) (*MsgUnstakeResponse, error)
	PurchasePolicy(context.Context, *MsgPurchasePolicy) (*MsgPurchasePolicyResponse, error)
	SubmitClaim(context.Context, *MsgSubmitClaim) (*MsgSubmitClaimResponse, error)
	VoteOnClaim(context.Context, *MsgVoteOnClaim) (*MsgVoteOnClaimResponse, error)
	ProcessClaim(context.Context, *MsgProcessClaim) (*MsgProcessClaimResponse, error)
}

func validateSender(sender string) error {
	if strings.TrimSpace(sender) == "" {
		return errorsmod.Wrap(ErrUnauthorized, "sender cannot be empty")
	}
	return nil
}

// MsgPause halts every mutating operation.
type MsgPause struct {
	Sender string `json:"sender"`
}

func (m MsgPause) ValidateBasic() error { return validateSender(m.Sender) }

type MsgPauseResponse struct{}

// MsgUnpause lifts a pause.
type MsgUnpause struct {
	Sender string `json:"sender"`
}

func (m MsgUnpause) ValidateBasic() error { return validateSender(m.Sender) }

type MsgUnpauseResponse struct{}

// MsgSetProtocolFeeRate updates the share of premiums kept by the protocol.
type MsgSetProtocolFeeRate struct {
	Sender  string `json:"sender"`
	RateBps uint64 `json:"rate_bps"`
}

func (m MsgSetProtocolFeeRate) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}
	if m.RateBps > MaxProtocolFeeRateBps {
		return errorsmod.Wrapf(ErrInvalidAmount, "fee rate %d bps exceeds cap %d", m.RateBps, MaxProtocolFeeRateBps)
	}
	return nil
}

type MsgSetProtocolFeeRateResponse struct{}

// MsgTransferOwnership hands the access guard to a new owner.
type MsgTransferOwnership struct {
	Sender   string `json:"sender"`
	NewOwner string `json:"new_owner"`
}

func (m MsgTransferOwnership) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}
	if strings.TrimSpace(m.NewOwner) == "" {
		return errorsmod.Wrap(ErrInvalidAmount, "new owner cannot be empty")
	}
	return nil
}

type MsgTransferOwnershipResponse struct{}

// MsgCreatePool registers a new insurance pool.
type MsgCreatePool struct {
	Sender      string `json:"sender"`
	Name        string `json:"name"`
	Description string `json:"description"`
	RiskFactor  uint64 `json:"risk_factor"`
}

func (m MsgCreatePool) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}
	return ValidatePoolParams(m.Name, m.Description, m.RiskFactor)
}

type MsgCreatePoolResponse struct {
	PoolID uint64 `json:"pool_id"`
}

// MsgStake deposits underwriting capital into a pool.
type MsgStake struct {
	Sender string `json:"sender"`
	PoolID uint64 `json:"pool_id"`
	Amount uint64 `json:"amount"`
}

func (m MsgStake) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}
	if m.Amount < MinStake {
		return errorsmod.Wrapf(ErrInvalidAmount, "stake %d below minimum %d", m.Amount, MinStake)
	}
	return nil
}

type MsgStakeResponse struct{}

// MsgUnstake withdraws underwriting capital from a pool.
type MsgUnstake struct {
	Sender string `json:"sender"`
	PoolID uint64 `json:"pool_id"`
	Amount uint64 `json:"amount"`
}

func (m MsgUnstake) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}
	if m.Amount == 0 {
		return errorsmod.Wrap(ErrInvalidAmount, "unstake amount must be positive")
	}
	return nil
}

type MsgUnstakeResponse struct{}

// MsgPurchasePolicy buys coverage from a pool.
type MsgPurchasePolicy struct {
	Sender         string `json:"sender"`
	PoolID         uint64 `json:"pool_id"`
	CoverageAmount uint64 `json:"coverage_amount"`
	Duration       uint64 `json:"duration"`
}

func (m MsgPurchasePolicy) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}
	return ValidatePolicyTerms(m.CoverageAmount, m.Duration)
}

type MsgPurchasePolicyResponse struct {
	PolicyID    uint64 `json:"policy_id"`
	PremiumPaid uint64 `json:"premium_paid"`
}

// MsgSubmitClaim opens a claim against a policy.
type MsgSubmitClaim struct {
	Sender      string `json:"sender"`
	PolicyID    uint64 `json:"policy_id"`
	Amount      uint64 `json:"amount"`
	Description string `json:"description"`
}

func (m MsgSubmitClaim) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}
	if m.Amount == 0 {
		return errorsmod.Wrap(ErrInvalidAmount, "claim amount must be positive")
	}
	return ValidateClaimDescription(m.Description)
}

type MsgSubmitClaimResponse struct {
	ClaimID uint64 `json:"claim_id"`
}

// MsgVoteOnClaim casts an underwriter ballot.
type MsgVoteOnClaim struct {
	Sender  string `json:"sender"`
	ClaimID uint64 `json:"claim_id"`
	Approve bool   `json:"approve"`
}

func (m MsgVoteOnClaim) ValidateBasic() error { return validateSender(m.Sender) }

type MsgVoteOnClaimResponse struct {
	Power uint64 `json:"power"`
}

// MsgProcessClaim resolves a claim once its voting window has closed.
type MsgProcessClaim struct {
	Sender  string `json:"sender"`
	ClaimID uint64 `json:"claim_id"`
}

func (m MsgProcessClaim) ValidateBasic() error { return validateSender(m.Sender) }

type MsgProcessClaimResponse struct {
	Status ClaimStatus `json:"status"`
}

// ValidatePoolParams checks the stateless pool creation rules.
func ValidatePoolParams(name, description string, riskFactor uint64) error {
	if strings.TrimSpace(name) == "" {
		return errorsmod.Wrap(ErrInvalidAmount, "pool name cannot be empty")
	}
	if len(name) > MaxPoolNameLength {
		return errorsmod.Wrapf(ErrInvalidAmount, "pool name longer than %d", MaxPoolNameLength)
	}
	if len(description) > MaxPoolDescriptionLength {
		return errorsmod.Wrapf(ErrInvalidAmount, "pool description longer than %d", MaxPoolDescriptionLength)
	}
	if riskFactor > MaxRiskFactor {
		return errorsmod.Wrapf(ErrInvalidAmount, "risk factor %d exceeds %d", riskFactor, MaxRiskFactor)
	}
	return nil
}

// ValidatePolicyTerms checks coverage and duration bounds. Both are inclusive.
func ValidatePolicyTerms(coverage, duration uint64) error {
	if coverage < MinCoverage || coverage > MaxCoverage {
		return errorsmod.Wrapf(ErrInvalidAmount, "coverage %d outside [%d, %d]", coverage, MinCoverage, MaxCoverage)
	}
	if duration < MinDuration || duration > MaxDuration {
		return errorsmod.Wrapf(ErrInvalidDuration, "duration %d outside [%d, %d]", duration, MinDuration, MaxDuration)
	}
	return nil
}

// ValidateClaimDescription requires a non-empty, bounded description.
func ValidateClaimDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return errorsmod.Wrap(ErrInvalidAmount, "claim description cannot be empty")
	}
	if len(description) > MaxClaimDescriptionLen {
		return errorsmod.Wrapf(ErrInvalidAmount, "claim description longer than %d", MaxClaimDescriptionLen)
	}
	return nil
}
