// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the genizah CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/genizah-data/internal/logger"
	"github.com/pdiddy/genizah-data/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// diag is the diagnostic logger, built from config before any command runs.
var diag logger.Logger = logger.NewNop()

// rootCmd is the base command for the genizah CLI.
var rootCmd = &cobra.Command{
	Use:   "genizah",
	Short: "Extract manuscript metadata from TEI descriptions",
	Long: `genizah reads TEI-XML manuscript descriptions, selects Cairo Genizah
items whose title marks them as medical, and writes their bibliographic
metadata (title, summary, date range, material, dimensions, layout) as
tabular data.

Records are written to stdout. Warnings about malformed values and
unreadable files are written to stderr.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(logConfig())
		if err != nil {
			return err
		}
		diag = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = diag.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./genizah.yaml or ~/.config/genizah/genizah.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "diagnostic level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "diagnostic encoding: console or json")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("genizah")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "genizah"))
		}
	}

	viper.SetEnvPrefix("GENIZAH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func logConfig() types.LogConfig {
	return types.LogConfig{
		Level:  viper.GetString("log.level"),
		Format: viper.GetString("log.format"),
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
