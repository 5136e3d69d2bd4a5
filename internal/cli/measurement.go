package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vrisa/alertengine/pkg/client"
)

func newMeasurementCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "measurement",
		Aliases: []string{"m"},
		Short:   "Submit and browse sensor measurements",
	}

	cmd.AddCommand(newMeasurementIngestCmd())
	cmd.AddCommand(newMeasurementListCmd())

	return cmd
}

func newMeasurementIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <sensor-id> <variable> <value>",
		Short: "Submit a reading; breaches raise alerts",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sensorID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid sensor ID: %s", args[0])
			}
			value, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid value: %s", args[2])
			}

			m, err := apiClient.Measurements().Create(context.Background(), client.CreateMeasurementRequest{
				SensorID:   sensorID,
				VariableID: args[1],
				Value:      value,
			})
			if err != nil {
				return fmt.Errorf("failed to ingest measurement: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(m)
			}

			fmt.Printf("Measurement %d stored for station %d (%s = %s)\n",
				m.ID, m.StationID, m.VariableID, strconv.FormatFloat(m.Value, 'f', -1, 64))
			return nil
		},
	}
}

func newMeasurementListCmd() *cobra.Command {
	var (
		stationID int64
		sensorID  int64
		opts      client.MeasurementListOptions
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List measurement history for a station or sensor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (stationID == 0) == (sensorID == 0) {
				return fmt.Errorf("exactly one of --station or --sensor is required")
			}

			ctx := context.Background()
			var (
				page *client.PaginatedMeasurements
				err  error
			)
			if stationID != 0 {
				page, err = apiClient.Measurements().ListByStation(ctx, stationID, &opts)
			} else {
				page, err = apiClient.Measurements().ListBySensor(ctx, sensorID, &opts)
			}
			if err != nil {
				return fmt.Errorf("failed to list measurements: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(page)
			}

			t := NewTable("ID", "SENSOR", "STATION", "VARIABLE", "VALUE", "TIMESTAMP")
			for _, m := range page.Data {
				t.AddRow(
					strconv.FormatInt(m.ID, 10),
					strconv.FormatInt(m.SensorID, 10),
					strconv.FormatInt(m.StationID, 10),
					m.VariableID,
					strconv.FormatFloat(m.Value, 'f', -1, 64),
					formatTime(m.Timestamp),
				)
			}
			t.Render()
			fmt.Printf("\nPage %d of %d (%d measurements)\n", page.Page, page.TotalPages, page.TotalItems)
			return nil
		},
	}

	cmd.Flags().Int64Var(&stationID, "station", 0, "station ID")
	cmd.Flags().Int64Var(&sensorID, "sensor", 0, "sensor ID")
	cmd.Flags().StringVar(&opts.StartDate, "start", "", "start date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&opts.EndDate, "end", "", "end date, inclusive (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&opts.VariableID, "variable", "", "variable filter, e.g. PM25")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 100, "page size")

	return cmd
}
