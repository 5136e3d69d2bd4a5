package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newAlertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Review and resolve alerts",
	}

	cmd.AddCommand(newAlertListCmd())
	cmd.AddCommand(newAlertGetCmd())
	cmd.AddCommand(newAlertSummaryCmd())
	cmd.AddCommand(newAlertResolveCmd())

	return cmd
}

func newAlertListCmd() *cobra.Command {
	var severity string
	var openOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List alerts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			all, err := apiClient.Alerts().List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list alerts: %w", err)
			}

			alerts := all[:0]
			for _, a := range all {
				if severity != "" && a.Severity != severity {
					continue
				}
				if openOnly && a.IsResolved {
					continue
				}
				alerts = append(alerts, a)
			}

			if getOutputFormat() != "table" {
				return printOutput(alerts)
			}

			t := NewTable("ID", "STATION", "VARIABLE", "SEVERITY", "STATUS", "CREATED", "MESSAGE")
			for _, a := range alerts {
				t.AddRow(
					strconv.FormatInt(a.ID, 10),
					strconv.FormatInt(a.StationID, 10),
					a.VariableID,
					formatSeverity(a.Severity),
					formatResolved(a.IsResolved),
					formatTime(a.CreatedAt),
					truncate(a.Message, 50),
				)
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&severity, "severity", "", "filter by severity (low, medium, high, critical)")
	cmd.Flags().BoolVar(&openOnly, "open", false, "only show unresolved alerts")

	return cmd
}

func newAlertGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get alert details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid alert ID: %s", args[0])
			}

			alert, err := apiClient.Alerts().Get(context.Background(), id)
			if err != nil {
				return fmt.Errorf("failed to get alert: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(alert)
			}

			fmt.Printf("ID:        %d\n", alert.ID)
			fmt.Printf("Station:   %d\n", alert.StationID)
			fmt.Printf("Variable:  %s\n", alert.VariableID)
			fmt.Printf("Severity:  %s\n", formatSeverity(alert.Severity))
			fmt.Printf("Status:    %s\n", formatResolved(alert.IsResolved))
			fmt.Printf("Message:   %s\n", alert.Message)
			fmt.Printf("Created:   %s\n", formatTime(alert.CreatedAt))
			if alert.ResolvedAt != nil {
				fmt.Printf("Resolved:  %s\n", formatTime(*alert.ResolvedAt))
			}
			return nil
		},
	}
}

func newAlertSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Count open alerts by severity",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := apiClient.Alerts().Summary(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get alert summary: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(summary)
			}

			t := NewTable("SEVERITY", "OPEN")
			t.AddRow(formatSeverity("critical"), strconv.Itoa(summary.Critical))
			t.AddRow(formatSeverity("high"), strconv.Itoa(summary.High))
			t.AddRow(formatSeverity("medium"), strconv.Itoa(summary.Medium))
			t.AddRow(formatSeverity("low"), strconv.Itoa(summary.Low))
			t.AddRow("TOTAL", strconv.Itoa(summary.Total))
			t.Render()
			return nil
		},
	}
}

func newAlertResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <id>",
		Short: "Resolve an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid alert ID: %s", args[0])
			}

			alert, err := apiClient.Alerts().Resolve(context.Background(), id)
			if err != nil {
				return fmt.Errorf("failed to resolve alert: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(alert)
			}

			fmt.Printf("Alert %d resolved\n", alert.ID)
			return nil
		},
	}
}
