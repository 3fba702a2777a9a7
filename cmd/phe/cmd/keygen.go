package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/mr-shifu/paillier-lib/core/paillier"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newKeygenCmd returns the `keygen` command. Only the public part is printed;
// the private key is discarded when the command exits.
func newKeygenCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a key pair and print its public modulus",
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
			encoded, err := kp.PublicKey.MarshalBinary()
			if err != nil {
				return err
			}
			log.Debug().Int("modulus_bits", kp.PublicKey.N().BitLen()).Msg("key pair generated")

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "n: %s\n", kp.PublicKey.N().Big())
			fmt.Fprintf(out, "fingerprint: %s\n", hex.EncodeToString(kp.PublicKey.Fingerprint()))
			fmt.Fprintf(out, "public key: %s\n", hex.EncodeToString(encoded))
			return nil
		},
	}
}
