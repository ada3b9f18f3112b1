package main

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	vybiumchains "github.com/vybium/vybium-chains/pkg/vybium-chains"
)

const envPrefix = "VYBIUM_CHAINS"

// app carries what every subcommand needs once flags are parsed.
type app struct {
	v      *viper.Viper
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: zap.NewNop()}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:          "vybium-chains",
		Short:        "Search minimal signed-digit addition-subtraction chains",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Flags())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "YAML config file")
	flags.String("log-level", vybiumchains.DefaultConfig().LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(
		a.searchCmd(),
		a.reportCmd(),
		a.runsCmd(),
		a.exportCmd(),
		a.checkCmd(),
		a.evalCmd(),
		a.recodeCmd(),
		a.costsCmd(),
	)
	return root
}

func (a *app) init(flags *pflag.FlagSet) error {
	if err := a.v.BindPFlags(flags); err != nil {
		return errors.Wrap(err, "binding flags")
	}
	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading config %s", path)
		}
	}
	a.logger = vybiumchains.NewLogger(a.v.GetString("log-level"))
	return nil
}

// searchFlags registers the flags that configure a search.
func searchFlags(flags *pflag.FlagSet) {
	d := vybiumchains.DefaultConfig()
	flags.Int("max-bit-width", d.MaxBitWidth, "widest node; values above 2^(w-1) are unverified")
	flags.Int("rounds", d.Rounds, "extension rounds")
	flags.Int("workers", d.Workers, "parallel workers")
	flags.Duration("timeout", d.Timeout, "overall deadline, 0 for none")
	flags.Bool("all-chains", d.AllChains, "report every minimal chain")
}

func (a *app) config() (*vybiumchains.Config, error) {
	cfg := vybiumchains.DefaultConfig().
		WithMaxBitWidth(a.v.GetInt("max-bit-width")).
		WithRounds(a.v.GetInt("rounds")).
		WithWorkers(a.v.GetInt("workers")).
		WithTimeout(a.v.GetDuration("timeout")).
		WithLogLevel(a.v.GetString("log-level")).
		WithAllChains(a.v.GetBool("all-chains"))
	if err := cfg.Validate(); err != nil {
		return nil, &vybiumchains.ChainError{Code: vybiumchains.ErrInvalidConfig, Message: "invalid search flags", Cause: err}
	}
	return cfg, nil
}

func (a *app) openStore() (*vybiumchains.Store, error) {
	path := a.v.GetString("store")
	if path == "" {
		return nil, &vybiumchains.ChainError{Code: vybiumchains.ErrInvalidInput, Message: "--store is required"}
	}
	s, err := vybiumchains.OpenStoreWithConfig(vybiumchains.StoreConfig{
		Path:       path,
		SyncWrites: true,
		Logger:     a.logger,
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// styled reports whether w is a terminal.
func styled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
