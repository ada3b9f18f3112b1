package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vybium/vybium-chains/internal/vybium-chains/costs"
)

func (a *app) costsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "costs",
		Short: "Print optimal bootstrapping costs of multiplication and squaring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			half := a.v.GetInt("max-half")
			mul, err := costs.NewMultiplication(half)
			if err != nil {
				return err
			}
			sq, err := costs.NewSquaring(half)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			st := styled(out)
			if err := costs.Render(out, mul, st); err != nil {
				return err
			}
			fmt.Fprintln(out, strings.Repeat("-", 80))
			return costs.Render(out, sq, st)
		},
	}
	cmd.Flags().Int("max-half", 16, "largest half size; tables reach 2·max-half+1 bits")
	return cmd
}
