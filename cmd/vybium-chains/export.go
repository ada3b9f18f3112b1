package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vybium/vybium-chains/internal/vybium-chains/report"
	vybiumchains "github.com/vybium/vybium-chains/pkg/vybium-chains"
)

func (a *app) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write chains in prescription form as YAML",
		Long: `Write one minimal chain per value as a list of steps
{l_pos, l_idx, r_pos, r_idx, r_shift}, index 0 being the unit.
Chains come from a stored run when --store is given, otherwise from a
fresh search configured by the search flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.database(cmd)
			if err != nil {
				return err
			}

			var limit int64
			if b := a.v.GetInt("bit-len"); b > 0 {
				limit = int64(1) << uint(b)
			}
			return a.withOutput(cmd, func(w io.Writer) error {
				return report.ExportYAML(w, db, limit)
			})
		},
	}
	flags := cmd.Flags()
	searchFlags(flags)
	flags.String("store", "", "run store directory")
	flags.String("run", "", "run id, latest when empty")
	flags.String("out", "-", "output file, - for stdout")
	flags.Int("bit-len", 0, "only export values below 2^bit-len")
	return cmd
}

func (a *app) checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Verify a prescription file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(err, "opening prescriptions")
			}
			defer f.Close()

			db, err := report.ImportYAML(f, a.v.GetInt("bit-len"))
			if err != nil {
				return &vybiumchains.ChainError{Code: vybiumchains.ErrInvalidInput, Message: args[0], Cause: err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d chains ok\n", args[0], db.Len())
			return nil
		},
	}
	cmd.Flags().Int("bit-len", 0, "require every odd value below 2^bit-len")
	return cmd
}

// database loads the run named by --store/--run, or searches.
func (a *app) database(cmd *cobra.Command) (*vybiumchains.Database, error) {
	if a.v.GetString("store") != "" {
		store, err := a.openStore()
		if err != nil {
			return nil, err
		}
		defer store.Close()
		_, db, err := vybiumchains.LoadRun(cmd.Context(), store, a.v.GetString("run"))
		return db, err
	}

	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	s, err := a.search(cmd.Context(), cfg, nil)
	if err != nil {
		return nil, err
	}
	return s.Database(), nil
}

func (a *app) withOutput(cmd *cobra.Command, fn func(io.Writer) error) error {
	path := a.v.GetString("out")
	if path == "" || path == "-" {
		return fn(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
