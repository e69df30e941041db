package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show labeling progress counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, _, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			counts, err := st.Counts(cmd.Context())
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetStyle(table.StyleRounded)
			tw.AppendHeader(table.Row{"Metric", "Count"})
			tw.AppendRows([]table.Row{
				{"Events total", strconv.Itoa(counts.Total)},
				{"Unlabeled", strconv.Itoa(counts.Unlabeled)},
				{"Labeled real", strconv.Itoa(counts.Real)},
				{"Labeled fake", strconv.Itoa(counts.Fake)},
				{"Archival trainer rows", strconv.Itoa(counts.Archival)},
			})
			fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
			return nil
		},
	}
}
