package cmd

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/cronokirby/saferith"
	"github.com/mr-shifu/paillier-lib/core/paillier"
	"github.com/mr-shifu/paillier-lib/pkg/aggregate"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// newAggregateCmd returns the `aggregate` command, which runs a whole
// aggregation session in-process: every value is sealed by its own
// contributor, the aggregator folds the envelopes, and the key holder
// decrypts the total.
func newAggregateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Sum values through an encrypted aggregation session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger(cmd, v)
			if err != nil {
				return err
			}

			kp, err := paillier.GenerateKey(nil, v.GetInt(flagBits))
			if err != nil {
				return err
			}
			pk := kp.PublicKey

			values, err := parseValues(pk, v.GetStringSlice(flagValues))
			if err != nil {
				return err
			}

			agg := aggregate.NewAggregator(pk, aggregate.Config{Workers: v.GetInt(flagWorkers)}, log)
			for _, m := range values {
				envelope, err := aggregate.Seal(nil, pk, agg.ID(), m)
				if err != nil {
					return err
				}
				if _, err := agg.Submit(envelope); err != nil {
					return err
				}
			}
			agg.Close()

			total, err := agg.Total(cmd.Context())
			if err != nil {
				return err
			}
			sum, err := kp.DecryptVerified(total)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), sum.Big())
			return nil
		},
	}

	addAggregateFlags(cmd.Flags())
	return cmd
}

func addAggregateFlags(flags *pflag.FlagSet) {
	flags.StringSlice(flagValues, nil, "comma separated non-negative integers to add")
	flags.Int(flagWorkers, aggregate.DefaultWorkers, "goroutines used to fold contributions")
}

func parseValues(pk *paillier.PublicKey, raw []string) ([]*saferith.Nat, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("--%s is required", flagValues)
	}
	values := make([]*saferith.Nat, 0, len(raw))
	for _, s := range raw {
		x, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
		if !ok {
			return nil, fmt.Errorf("invalid value %q", s)
		}
		m, err := pk.PlaintextFromBig(x)
		if err != nil {
			return nil, fmt.Errorf("value %s: %w", s, err)
		}
		values = append(values, m)
	}
	return values, nil
}
