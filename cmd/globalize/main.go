// Command globalize formats, parses and converts values with culture aware
// rules from the command line.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-globalization"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var version = "dev"

const (
	defaultConfigName = ".globalize"
	defaultConfigPath = ".globalize.yaml"
	envPrefix         = "GLOBALIZE"
)

var defaultCultures = []string{"en-GB", "de", "ar-EG"}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the per invocation state so every root command is isolated.
type app struct {
	v       *viper.Viper
	cfgFile string
	logger  *zap.Logger
	config  *globalization.Config
}

// newRootCmd builds a fresh command tree with its own viper instance.
func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	a.v.SetDefault("cultures", defaultCultures)
	a.v.SetDefault("log.level", "warn")

	cmd := &cobra.Command{
		Use:   "globalize",
		Short: "Culture aware date and number formatting",
		Long: `globalize formats and parses dates, numbers and currency amounts using
locale conventions, and converts values between string, number, boolean
and date. The current culture is stored in the config file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	cmd.Version = version

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./.globalize.yaml or $HOME/.globalize.yaml)")
	flags.StringP("culture", "c", "", "culture for this call; the current culture when empty")
	flags.StringSlice("cultures", defaultCultures, "supported cultures, the first is the default")
	flags.StringSlice("locale-file", nil, "extra locale bundle files (yaml or json)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")

	_ = a.v.BindPFlag("culture", flags.Lookup("culture"))
	_ = a.v.BindPFlag("cultures", flags.Lookup("cultures"))
	_ = a.v.BindPFlag("locale_files", flags.Lookup("locale-file"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))

	cmd.AddCommand(
		a.formatDateCmd(),
		a.parseDateCmd(),
		a.formatNumberCmd(),
		a.parseNumberCmd(),
		a.formatCurrencyCmd(),
		a.convertCmd(),
		a.cultureCmd(),
	)

	return cmd
}

// setup reads the config file and environment, then builds the logger and
// the globalization config.
func (a *app) setup() error {
	if err := a.readConfig(); err != nil {
		return err
	}

	logger, err := buildLogger(a.v.GetString("log.level"))
	if err != nil {
		return err
	}
	a.logger = logger

	cfg, err := globalization.NewConfig(
		globalization.WithCultures(a.v.GetStringSlice("cultures")...),
		globalization.WithLocaleFiles(a.v.GetStringSlice("locale_files")...),
		globalization.WithLogger(logger),
		globalization.WithCulturePersister(newViperPersister(a.v, a.configPath())),
	)
	if err != nil {
		return fmt.Errorf("configure globalization: %w", err)
	}
	a.config = cfg
	return nil
}

func (a *app) readConfig() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home)
		}
		a.v.SetConfigType("yaml")
		a.v.SetConfigName(defaultConfigName)
	}

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// configPath is where culture changes are written.
func (a *app) configPath() string {
	if used := a.v.ConfigFileUsed(); used != "" {
		return used
	}
	if a.cfgFile != "" {
		return a.cfgFile
	}
	return defaultConfigPath
}

func (a *app) culture() string {
	return a.v.GetString("culture")
}
