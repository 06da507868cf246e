package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pbaille/skycat/internal/config"
	"github.com/pbaille/skycat/internal/logging"
	"github.com/pbaille/skycat/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs once flags and config are read.
type app struct {
	cfg config.Config
	log logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: logging.Noop()}
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "skycat",
		Short:         "Celestial object catalog and coordinate toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cfgFile)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default .skycat.yaml)")
	flags.String("db", "", "database path (default ~/.skycat/skycat.db)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text or json")
	flags.Float64("radius", 0, "match radius in arc-seconds (default 5)")
	viper.BindPFlag("db", flags.Lookup("db"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
	viper.BindPFlag("log_format", flags.Lookup("log-format"))
	viper.BindPFlag("match_radius", flags.Lookup("radius"))

	rootCmd.AddCommand(raCmd())
	rootCmd.AddCommand(decCmd())
	rootCmd.AddCommand(coordsCmd())
	rootCmd.AddCommand(addCmd(a))
	rootCmd.AddCommand(listCmd(a))
	rootCmd.AddCommand(showCmd(a))
	rootCmd.AddCommand(searchCmd(a))
	rootCmd.AddCommand(nearCmd(a))
	rootCmd.AddCommand(deleteCmd(a))
	rootCmd.AddCommand(importCmd(a))
	rootCmd.AddCommand(exportCmd(a))
	rootCmd.AddCommand(lookupCmd(a))
	rootCmd.AddCommand(serveCmd(a))

	return rootCmd
}

func (a *app) init(cfgFile string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".skycat")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}
	if err := viper.ReadInConfig(); err != nil {
		// No config file is fine unless one was asked for.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	return nil
}

func (a *app) openStore() (*store.Store, error) {
	return store.New(a.cfg.DBPath)
}

// shortID trims an object ID for table output
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	// Replace newlines with spaces for display
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	cut := max - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
