package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vybium/vybium-chains/internal/vybium-chains/recoding"
	vybiumchains "github.com/vybium/vybium-chains/pkg/vybium-chains"
)

func (a *app) recodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recode K",
		Short: "Print the signed-digit recoding of K, most significant digit first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return &vybiumchains.ChainError{Code: vybiumchains.ErrInvalidInput, Message: "K must be a non-negative integer: " + args[0], Cause: err}
			}

			var digits []int8
			switch method := a.v.GetString("method"); method {
			case "kt":
				digits = recoding.KoyamaTsuruoka(k)
			case "naf":
				digits = recoding.NAF(k)
			default:
				return &vybiumchains.ChainError{Code: vybiumchains.ErrInvalidInput, Message: "unknown method " + method}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d: %s (weight %d)\n", k, recoding.Format(digits), recoding.Weight(digits))
			if k&1 == 1 {
				c, err := recoding.Chain(digits)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "chain %s\n", c)
			}
			return nil
		},
	}
	cmd.Flags().String("method", "kt", "recoding: kt (Koyama-Tsuruoka) or naf")
	return cmd
}
