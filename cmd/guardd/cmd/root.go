package cmd

import (
	"fmt"
	"io"
	"strings"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/DorisUkamaka/StacksGuard/app"
)

const (
	flagChainID       = "chain-id"
	flagOwner         = "owner"
	flagFeeRateBps    = "fee-rate-bps"
	flagBlockInterval = "block-interval"
	flagLogLevel      = "log-level"
	flagLogFormat     = "log-format"
	flagQuoteCache    = "quote-cache-size"

	envPrefix = "GUARD"
)

// hostKeys maps persistent flags onto the app option keys the host reads.
var hostKeys = map[string]string{
	flagChainID:       "guard.chain-id",
	flagOwner:         "guard.owner",
	flagFeeRateBps:    "guard.fee-rate-bps",
	flagBlockInterval: "guard.block-interval",
	flagLogLevel:      "guard.log-level",
	flagLogFormat:     "guard.log-format",
	flagQuoteCache:    "guard.quote-cache-size",
}

// NewRootCmd creates the root command for guardd.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "guardd",
		Short: "StacksGuard - pooled insurance with stake-weighted claim voting",
		Long: `guardd runs the StacksGuard insurance module on an in-memory chain.

Underwriters stake into risk pools, holders buy time-bounded policies and
claims are settled by a stake-weighted vote of the pool's underwriters.

Flags can also be set through GUARD_* environment variables, for example
GUARD_CHAIN_ID or GUARD_FEE_RATE_BPS.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindConfig(v, cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(flagChainID, app.DefaultChainID, "chain ID of the in-memory chain")
	flags.String(flagOwner, app.DefaultOwner, "contract owner address")
	flags.Uint64(flagFeeRateBps, 250, "protocol fee rate in basis points")
	flags.Duration(flagBlockInterval, app.DefaultBlockInterval, "wall-clock time between blocks")
	flags.String(flagLogLevel, "info", "log level (trace|debug|info|warn|error)")
	flags.String(flagLogFormat, "plain", "log format (plain|json)")
	flags.Int(flagQuoteCache, app.DefaultQuoteCacheSize, "number of premium quotes kept in memory")

	rootCmd.AddCommand(
		newSimulateCmd(v),
		newQuoteCmd(v),
		newServeCmd(v),
		newScenariosCmd(),
	)

	return rootCmd
}

func bindConfig(v *viper.Viper, cmd *cobra.Command) error {
	for flag, key := range hostKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
		env := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind env %s: %w", env, err)
		}
	}
	return nil
}

// newLogger builds the process logger from the resolved options.
func newLogger(v *viper.Viper, out io.Writer) (log.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(v.GetString("guard.log-level")))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	opts := []log.Option{log.LevelOption(level)}
	switch format := v.GetString("guard.log-format"); format {
	case "json":
		opts = append(opts, log.OutputJSONOption())
	case "plain", "":
		opts = append(opts, log.ColorOption(false))
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
	return log.NewLogger(out, opts...), nil
}

// newHost builds a host from the resolved options.
func newHost(v *viper.Viper, cmd *cobra.Command) (*app.Host, error) {
	logger, err := newLogger(v, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return app.NewHostFromOptions(logger, v)
}
