// rocker translates litmus test programs into Promela models for SPIN,
// instrumented for memory-model robustness checking.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dprr/rocker/api"
	"github.com/dprr/rocker/config"
)

var (
	flagModel   string
	flagOutDir  string
	flagOutName string
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "rocker [flags] file...",
	Short: "translate litmus test programs into Promela models",
	Long: `rocker translates litmus test programs into Promela models for the
SPIN model checker. The --model flag selects the instrumentation strategy
applied to every memory operation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(len(args))
		if err != nil {
			return err
		}

		var group errgroup.Group
		for _, path := range args {
			path := path
			group.Go(func() error {
				if result := api.Run(path, cfg); result != api.RunSuccessful {
					return fmt.Errorf("translation of %s failed", path)
				}
				return nil
			})
		}
		return group.Wait()
	},
	SilenceUsage: true,
}

func buildConfig(inputCount int) (config.Config, error) {
	var cfg config.Config
	if flagConfig != "" {
		var err error
		cfg, err = config.ReadConfig(flagConfig)
		if err != nil {
			return config.Config{}, err
		}
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
	if flagOutDir != "" {
		cfg.OutDir = flagOutDir
	}
	if flagOutName != "" {
		cfg.OutName = flagOutName
	}
	if cfg.OutName != "" && inputCount > 1 {
		return config.Config{}, fmt.Errorf("--out-name requires a single input file")
	}
	return cfg, nil
}

func init() {
	rootCmd.Flags().StringVar(&flagModel, "model", "", "instrumentation strategy (sc, trace)")
	rootCmd.Flags().StringVar(&flagOutDir, "out", "", "output directory for generated .pml files")
	rootCmd.Flags().StringVar(&flagOutName, "out-name", "", "output file name (single input only)")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "configuration file (yaml, toml, or json)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
