package types

import (
	"fmt"
	"strings"
)

const (
	// MinStake is the smallest amount an underwriter may deposit in one call.
	MinStake uint64 = 10_000_000

	// VotingPowerUnit converts staked base units into votes (1 STX = 1 vote).
	VotingPowerUnit uint64 = 1_000_000

	// MinCoverage is the lower coverage bound of a policy.
	MinCoverage uint64 = 1_000_000

	// MaxCoverage is the upper coverage bound of a policy.
	MaxCoverage uint64 = 1_000_000_000_000

	// MinDuration is roughly one day of blocks.
	MinDuration uint64 = 144

	// MaxDuration is roughly one year of blocks.
	MaxDuration uint64 = 52_560

	// VotingPeriod is the claim voting window in blocks (~7 days).
	VotingPeriod int64 = 1008

	// MaxRiskFactor bounds Pool.RiskFactor.
	MaxRiskFactor uint64 = 100

	// MaxProtocolFeeRateBps caps the protocol fee at 10%.
	MaxProtocolFeeRateBps uint64 = 1000

	// DefaultProtocolFeeRateBps is 2.5% of every premium.
	DefaultProtocolFeeRateBps uint64 = 250

	// BasisPoints is the fee rate denominator.
	BasisPoints uint64 = 10_000

	MaxPoolNameLength        = 50
	MaxPoolDescriptionLength = 200
	MaxClaimDescriptionLen   = 500
)

// Config is the singleton access-guard record.
type Config struct {
	Owner              string `json:"owner"`
	Paused             bool   `json:"paused"`
	ProtocolFeeRateBps uint64 `json:"protocol_fee_rate_bps"`
}

// DefaultConfig returns an unpaused config owned by owner.
func DefaultConfig(owner string) Config {
	return Config{
		Owner:              owner,
		Paused:             false,
		ProtocolFeeRateBps: DefaultProtocolFeeRateBps,
	}
}

// Validate checks the config for structural errors.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Owner) == "" {
		return fmt.Errorf("owner cannot be empty")
	}
	if c.ProtocolFeeRateBps > MaxProtocolFeeRateBps {
		return fmt.Errorf("protocol fee rate %d exceeds cap %d", c.ProtocolFeeRateBps, MaxProtocolFeeRateBps)
	}
	return nil
}
