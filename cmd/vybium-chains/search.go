package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	vybiumchains "github.com/vybium/vybium-chains/pkg/vybium-chains"
)

func (a *app) searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run the chain search and print the report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			s, err := a.search(cmd.Context(), cfg, reg)
			if err != nil {
				return err
			}

			if path := a.v.GetString("store"); path != "" {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				defer store.Close()
				meta, err := s.Save(cmd.Context(), store)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "saved run %s\n", meta.ID)
			}

			if path := a.v.GetString("metrics-file"); path != "" {
				if err := prometheus.WriteToTextfile(path, reg); err != nil {
					return errors.Wrapf(err, "writing metrics to %s", path)
				}
			}

			if a.v.GetBool("quiet") {
				return nil
			}
			out := cmd.OutOrStdout()
			return s.WriteReport(out, vybiumchains.ReportOptions{Styled: styled(out)})
		},
	}

	flags := cmd.Flags()
	searchFlags(flags)
	flags.String("store", "", "save the finished search in this directory")
	flags.String("metrics-file", "", "write Prometheus metrics to this file")
	flags.Bool("quiet", false, "do not print the report")
	return cmd
}

// search runs a full search with cfg.
func (a *app) search(ctx context.Context, cfg *vybiumchains.Config, reg prometheus.Registerer) (vybiumchains.Searcher, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opts := []vybiumchains.Option{vybiumchains.WithLogger(a.logger)}
	if reg != nil {
		opts = append(opts, vybiumchains.WithRegisterer(reg))
	}
	s, err := vybiumchains.NewSearcher(cfg, opts...)
	if err != nil {
		return nil, err
	}

	a.logger.Info("starting search",
		zap.Int("max_bit_width", cfg.MaxBitWidth),
		zap.Int("rounds", cfg.Rounds),
		zap.Int("workers", cfg.Workers))
	if _, err := s.Run(ctx); err != nil {
		return nil, err
	}
	return s, nil
}
