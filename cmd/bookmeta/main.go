// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bookmeta CLI: book metadata
// lookups against the catalog by identifier, search query, or ISBN.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the bookmeta CLI.
var rootCmd = &cobra.Command{
	Use:   "bookmeta",
	Short: "Fetch and normalize book metadata from the catalog",
	Long: `bookmeta looks up books on the catalog site and prints normalized
metadata records. Requests are rate limited and retried with backoff when
the site pushes back.

Commands: details <id>, search <query>, isbn <isbn>, version.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./bookmeta.yaml or ~/.config/bookmeta/bookmeta.yaml)")
	pf.StringP("output", "o", "table", "output format: table, json, yaml")
	pf.Bool("metrics", false, "print fetch counters to stderr after the command")
	pf.String("secrets-dir", ".secrets", "directory holding secret files (catalog-cookie)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("cache", "", "SQLite page cache path (disabled when empty)")
	pf.String("image-size", "", "cover image size: s, m, l")

	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("cache.path", pf.Lookup("cache"))
	viper.BindPFlag("catalog.image_size", pf.Lookup("image-size"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bookmeta")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bookmeta"))
		}
	}

	viper.SetEnvPrefix("BOOKMETA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// execute runs the root command on a context that is cancelled on
// SIGINT or SIGTERM, so an interrupted lookup stops between attempts.
func execute(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func main() {
	if err := execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
