package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vybium/vybium-chains/internal/vybium-chains/report"
	vybiumchains "github.com/vybium/vybium-chains/pkg/vybium-chains"
)

func (a *app) evalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval VALUE",
		Short: "Compute VALUE·x in the Goldilocks field along a minimal chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || k <= 0 {
				return &vybiumchains.ChainError{Code: vybiumchains.ErrInvalidInput, Message: "VALUE must be a positive integer: " + args[0]}
			}

			var db *vybiumchains.Database
			if path := a.v.GetString("input"); path != "" {
				f, err := os.Open(path)
				if err != nil {
					return errors.Wrap(err, "opening prescriptions")
				}
				db, err = report.ImportYAML(f, 0)
				f.Close()
				if err != nil {
					return err
				}
			} else if db, err = a.database(cmd); err != nil {
				return err
			}

			x := a.v.GetUint64("x")
			y, err := vybiumchains.ScalarMul(db, k, x)
			if err != nil {
				return err
			}
			e, _ := db.Lookup(k)
			adds, doublings := e.Chains[0].Operations()
			fmt.Fprintf(cmd.OutOrStdout(), "%d·%d = %d\n", k, x, y)
			fmt.Fprintf(cmd.OutOrStdout(), "chain %s: %d additions, %d doublings\n", e.Chains[0], adds, doublings)
			return nil
		},
	}
	flags := cmd.Flags()
	searchFlags(flags)
	flags.Uint64("x", 1, "field element to multiply")
	flags.String("input", "", "prescription file instead of a search")
	flags.String("store", "", "run store directory instead of a search")
	flags.String("run", "", "run id, latest when empty")
	return cmd
}
