package cmd

import (
	"fmt"
	"strings"

	"github.com/mr-shifu/paillier-lib/pkg/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	EnvPrefix   = "PHE"
	DefaultBits = 1024

	flagConfig   = "config"
	flagBits     = "bits"
	flagLogLevel = "log-level"
	flagLogJSON  = "log-json"
	flagWorkers  = "workers"
	flagValues   = "values"
)

// NewRootCmd returns the `phe` command. Every flag can also be set through a
// PHE_* environment variable or the file passed with --config.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "phe",
		Short:         "Paillier additively homomorphic encryption toolkit",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd, v)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(flagConfig, "", "path to a config file (yaml, toml or json)")
	flags.Int(flagBits, DefaultBits, "bit length of each prime factor")
	flags.String(flagLogLevel, zerolog.LevelInfoValue, "log level (debug, info, warn, error, disabled)")
	flags.Bool(flagLogJSON, false, "emit logs as JSON")

	rootCmd.AddCommand(
		newDemoCmd(v),
		newKeygenCmd(v),
		newAggregateCmd(v),
	)
	return rootCmd
}

func initConfig(cmd *cobra.Command, v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if path := v.GetString(flagConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	return nil
}

func newLogger(cmd *cobra.Command, v *viper.Viper) (zerolog.Logger, error) {
	return logging.New(cmd.ErrOrStderr(), v.GetString(flagLogLevel), v.GetBool(flagLogJSON))
}
