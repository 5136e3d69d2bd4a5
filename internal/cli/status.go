package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server health and open alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			format := getOutputFormat()
			if format != "table" {
				status := map[string]interface{}{}
				if ready, err := apiClient.Ready(ctx); err == nil {
					status["server"] = ready.Status
				} else {
					status["server"] = err.Error()
				}
				if summary, err := apiClient.Alerts().Summary(ctx); err == nil {
					status["open_alerts"] = summary
				}
				return printOutput(status)
			}

			fmt.Println("VriSA Alert Engine")
			fmt.Println(strings.Repeat("=", 40))

			ready, err := apiClient.Ready(ctx)
			if err != nil {
				fmt.Printf("  Server:        (error: %v)\n", err)
			} else {
				fmt.Printf("  Server:        %s\n", ready.Status)
			}

			summary, err := apiClient.Alerts().Summary(ctx)
			if err != nil {
				fmt.Printf("  Open alerts:   (error: %v)\n", err)
				return nil
			}
			fmt.Printf("  Open alerts:   %d", summary.Total)
			if summary.Critical > 0 {
				fmt.Printf(" (%d critical)", summary.Critical)
			}
			fmt.Println()

			return nil
		},
	}
}
