// Command midc is the compiler driver: it turns source paths/globs into a
// pipeline.Result, printing diagnostics and a compile report.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/midc/internal/cache"
	"github.com/oxhq/midc/internal/config"
)

// globalFlags holds the persistent flags every subcommand shares, layered
// onto internal/config.Load()'s environment-derived defaults.
type globalFlags struct {
	targetTriple string
	cacheDSN     string
	warnAsError  bool
	debug        bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "midc",
		Short: "midc compiles one source module through its semantic pipeline",
	}

	root.PersistentFlags().StringVar(&flags.targetTriple, "target", "", "compilation target triple (default: host)")
	root.PersistentFlags().StringVar(&flags.cacheDSN, "cache-dsn", "", "instantiation cache DSN (default: "+config.DefaultCacheDSN()+", or a libsql:// URL)")
	root.PersistentFlags().BoolVar(&flags.warnAsError, "warnings-as-errors", false, "treat every warning as a build failure")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable verbose cache SQL logging")

	root.AddCommand(newBuildCmd(flags))
	root.AddCommand(newCacheCmd(flags))

	return root
}

// resolveConfig layers the process's flags on top of its environment.
func resolveConfig(flags *globalFlags) *config.Config {
	cfg := config.Load()
	cfg.Apply(config.Overrides{
		TargetTriple:     flags.targetTriple,
		CacheDSN:         flags.cacheDSN,
		WarningsAsErrors: boolOverride(flags.warnAsError),
		Debug:            boolOverride(flags.debug),
	})
	return cfg
}

func boolOverride(v bool) *bool {
	if !v {
		return nil
	}
	return &v
}

func openCache(cfg *config.Config) (*cache.Store, error) {
	store, err := cache.Open(cfg.CacheDSN, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("opening instantiation cache %q: %w", cfg.CacheDSN, err)
	}
	return store, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
