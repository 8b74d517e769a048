package cmd

import (
	"fmt"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/DorisUkamaka/StacksGuard/x/guard/types"
)

const (
	flagCoverage   = "coverage"
	flagDuration   = "duration"
	flagRiskFactor = "risk-factor"
)

type quote struct {
	Coverage   uint64 `json:"coverage"`
	Duration   uint64 `json:"duration"`
	RiskFactor uint64 `json:"risk_factor"`
	Premium    string `json:"premium"`
	Fee        string `json:"protocol_fee"`
	PoolShare  string `json:"pool_share"`
}

func newQuoteCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a policy without touching chain state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			coverage, _ := cmd.Flags().GetUint64(flagCoverage)
			duration, _ := cmd.Flags().GetUint64(flagDuration)
			riskFactor, _ := cmd.Flags().GetUint64(flagRiskFactor)
			feeRate, err := cast.ToUint64E(v.Get("guard.fee-rate-bps"))
			if err != nil {
				return fmt.Errorf("fee rate: %w", err)
			}

			if err := types.ValidatePolicyTerms(coverage, duration); err != nil {
				return err
			}
			if riskFactor > types.MaxRiskFactor {
				return fmt.Errorf("risk factor %d exceeds %d", riskFactor, types.MaxRiskFactor)
			}
			if feeRate > types.MaxProtocolFeeRateBps {
				return fmt.Errorf("fee rate %d bps exceeds cap %d", feeRate, types.MaxProtocolFeeRateBps)
			}

			premium := types.ComputePremium(coverage, duration, riskFactor)
			fee, poolShare := types.SplitPremium(premium, feeRate)
			return writeJSON(cmd, quote{
				Coverage:   coverage,
				Duration:   duration,
				RiskFactor: riskFactor,
				Premium:    premium.String(),
				Fee:        fee.String(),
				PoolShare:  poolShare.String(),
			})
		},
	}
	cmd.Flags().Uint64(flagCoverage, types.MinCoverage, "coverage in base units")
	cmd.Flags().Uint64(flagDuration, types.MinDuration, "policy duration in blocks")
	cmd.Flags().Uint64(flagRiskFactor, 0, "pool risk factor (0-100)")
	return cmd
}
