package cmd

import (
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/mr-shifu/paillier-lib/core/paillier"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newDemoCmd returns the `demo` command: encrypt 5 and 3, add the ciphertexts
// and decrypt the result.
func newDemoCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Encrypt 5 and 3, add them homomorphically and decrypt the sum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger(cmd, v)
			if err != nil {
				return err
			}

			bits := v.GetInt(flagBits)
			kp, err := paillier.GenerateKey(nil, bits)
			if err != nil {
				return err
			}
			log.Debug().Int("bits", bits).Hex("fingerprint", kp.PublicKey.Fingerprint()).Msg("key pair generated")

			pk := kp.PublicKey
			enc1, err := pk.Encrypt(nil, new(saferith.Nat).SetUint64(5))
			if err != nil {
				return err
			}
			enc2, err := pk.Encrypt(nil, new(saferith.Nat).SetUint64(3))
			if err != nil {
				return err
			}
			encSum, err := pk.Add(enc1, enc2)
			if err != nil {
				return err
			}
			decSum, err := kp.DecryptVerified(encSum)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, ct := range []*paillier.Ciphertext{enc1, enc2, encSum} {
				fmt.Fprintln(out, ct.Nat().Big())
			}
			fmt.Fprintln(out, decSum.Big())
			return nil
		},
	}
}
