package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vrisa/alertengine/pkg/client"
)

func newThresholdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "threshold",
		Short: "Manage per-variable alert thresholds",
	}

	cmd.AddCommand(newThresholdListCmd())
	cmd.AddCommand(newThresholdGetCmd())
	cmd.AddCommand(newThresholdSetCmd())

	return cmd
}

func renderThresholds(thresholds ...client.Threshold) {
	t := NewTable("VARIABLE", "LOW", "MEDIUM", "HIGH", "CRITICAL", "UPDATED")
	for _, th := range thresholds {
		t.AddRow(
			th.VariableID,
			formatTier(th.Low),
			formatTier(th.Medium),
			formatTier(th.High),
			formatTier(th.Critical),
			formatTime(th.UpdatedAt),
		)
	}
	t.Render()
}

func newThresholdListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured thresholds",
		RunE: func(cmd *cobra.Command, args []string) error {
			thresholds, err := apiClient.Thresholds().List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list thresholds: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(thresholds)
			}
			renderThresholds(thresholds...)
			return nil
		},
	}
}

func newThresholdGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <variable>",
		Short: "Show the threshold of a variable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			th, err := apiClient.Thresholds().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get threshold: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(th)
			}
			renderThresholds(*th)
			return nil
		},
	}
}

func newThresholdSetCmd() *cobra.Command {
	var low, medium, high, critical float64

	cmd := &cobra.Command{
		Use:   "set <variable>",
		Short: "Create or replace the tiers of a variable",
		Long: `Set replaces every tier of the variable. Tiers whose flag is omitted
become unconfigured. At least one tier is required.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := client.SetThresholdRequest{}
			flags := cmd.Flags()
			if flags.Changed("low") {
				req.Low = &low
			}
			if flags.Changed("medium") {
				req.Medium = &medium
			}
			if flags.Changed("high") {
				req.High = &high
			}
			if flags.Changed("critical") {
				req.Critical = &critical
			}
			if req.Low == nil && req.Medium == nil && req.High == nil && req.Critical == nil {
				return fmt.Errorf("at least one of --low, --medium, --high, --critical is required")
			}

			th, err := apiClient.Thresholds().Set(context.Background(), args[0], req)
			if err != nil {
				return fmt.Errorf("failed to set threshold: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(th)
			}
			renderThresholds(*th)
			return nil
		},
	}

	cmd.Flags().Float64Var(&low, "low", 0, "low tier limit")
	cmd.Flags().Float64Var(&medium, "medium", 0, "medium tier limit")
	cmd.Flags().Float64Var(&high, "high", 0, "high tier limit")
	cmd.Flags().Float64Var(&critical, "critical", 0, "critical tier limit")

	return cmd
}
