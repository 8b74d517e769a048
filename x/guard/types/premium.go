package types

import (
	sdkmath "cosmossdk.io/math"
)

const (
	// BaseAnnualRateBps is the yearly premium rate of a zero-risk pool (5%).
	BaseAnnualRateBps uint64 = 500

	// BlocksPerYear prorates the annual rate by policy duration.
	BlocksPerYear uint64 = MaxDuration

	riskScale uint64 = 100
)

// ComputePremium prices coverage for duration blocks in a pool of the given
// risk factor:
//
//	coverage * BaseAnnualRateBps * duration * (100 + riskFactor)
//	-------------------------------------------------------------
//	           BasisPoints * BlocksPerYear * 100
//
// At the minimum coverage and duration one unit of risk factor adds more than
// one base unit, so the floored result is strictly increasing in riskFactor.
func ComputePremium(coverage, duration, riskFactor uint64) sdkmath.Int {
	num := sdkmath.NewIntFromUint64(coverage).
		Mul(sdkmath.NewIntFromUint64(BaseAnnualRateBps)).
		Mul(sdkmath.NewIntFromUint64(duration)).
		Mul(sdkmath.NewIntFromUint64(riskScale + riskFactor))
	den := sdkmath.NewIntFromUint64(BasisPoints).
		Mul(sdkmath.NewIntFromUint64(BlocksPerYear)).
		Mul(sdkmath.NewIntFromUint64(riskScale))
	return num.Quo(den)
}

// SplitPremium routes feeRateBps of premium to the protocol and the rest to
// the pool.
func SplitPremium(premium sdkmath.Int, feeRateBps uint64) (fee, poolShare sdkmath.Int) {
	fee = premium.Mul(sdkmath.NewIntFromUint64(feeRateBps)).Quo(sdkmath.NewIntFromUint64(BasisPoints))
	return fee, premium.Sub(fee)
}
