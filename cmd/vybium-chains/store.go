package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vybium/vybium-chains/internal/vybium-chains/report"
	vybiumchains "github.com/vybium/vybium-chains/pkg/vybium-chains"
)

func (a *app) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the report of a stored run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			meta, db, err := vybiumchains.LoadRun(cmd.Context(), store, a.v.GetString("run"))
			if err != nil {
				return err
			}
			r, err := report.Build(db, meta.MaxBitWidth)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run %s: width %d, %d rounds, %s\n",
				meta.ID, meta.MaxBitWidth, meta.Rounds, meta.CreatedAt.Format(time.RFC3339))
			return report.Render(out, r, report.Options{
				AllChains: a.v.GetBool("all-chains"),
				Styled:    styled(out),
			})
		},
	}
	cmd.Flags().String("store", "", "run store directory")
	cmd.Flags().String("run", "", "run id, latest when empty")
	cmd.Flags().Bool("all-chains", false, "report every minimal chain")
	return cmd
}

func (a *app) runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Runs(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tWIDTH\tROUNDS\tVALUES\tCHAINS")
			for _, m := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\n",
					m.ID, m.CreatedAt.Format(time.RFC3339), m.MaxBitWidth, m.Rounds, m.Values, m.Chains)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().String("store", "", "run store directory")
	return cmd
}
