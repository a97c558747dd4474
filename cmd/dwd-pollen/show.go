package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/dwd-pollen/internal/pollen"
)

func newShowCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Fetch the feed once and print every configured sensor as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			entities := make([]pollen.Entity, 0, len(a.cfg.PollenTypes))
			for _, sensor := range a.newSensors() {
				snap, _ := sensor.Refresh(ctx)
				entities = append(entities, pollen.Render(a.cfg.SensorName, snap))
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entities)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall deadline for the fetches")
	return cmd
}
