package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/DorisUkamaka/StacksGuard/app"
)

const (
	flagScenario      = "scenario"
	flagExportGenesis = "export-genesis"
)

func newSimulateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [scenario.json]",
		Short: "Run a scripted scenario against a fresh chain and print the report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := resolveScenario(cmd, args)
			if err != nil {
				return err
			}

			host, err := newHost(v, cmd)
			if err != nil {
				return err
			}
			defer host.Close()

			report, runErr := app.RunScenario(host, scenario)
			if report != nil {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			}
			if runErr != nil {
				return runErr
			}

			if path, _ := cmd.Flags().GetString(flagExportGenesis); path != "" {
				bz, err := host.ExportGenesis()
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, bz, 0o600); err != nil {
					return fmt.Errorf("write genesis: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().String(flagScenario, "", "run a builtin scenario by ID instead of a file")
	cmd.Flags().String(flagExportGenesis, "", "write the final module state to this file")
	return cmd
}

func resolveScenario(cmd *cobra.Command, args []string) (*app.Scenario, error) {
	id, _ := cmd.Flags().GetString(flagScenario)
	switch {
	case id != "" && len(args) > 0:
		return nil, fmt.Errorf("pass either a scenario file or --%s, not both", flagScenario)
	case id != "":
		s, ok := app.BuiltinScenario(id)
		if !ok {
			return nil, fmt.Errorf("unknown builtin scenario %q", id)
		}
		return s, nil
	case len(args) == 1:
		return app.LoadScenarioFile(args[0])
	default:
		return nil, fmt.Errorf("a scenario file or --%s is required", flagScenario)
	}
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the builtin scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, s := range app.BuiltinScenarios() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", s.ID, s.Name)
			}
			return nil
		},
	}
}
