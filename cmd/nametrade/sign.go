package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Klingon-tech/nametrade/internal/log"
	"github.com/Klingon-tech/nametrade/internal/trade"
)

// unlockDuration is how long the wallet stays unlocked for signing.
const unlockDuration = 60 * time.Second

func newSignCmd(a *app) *cobra.Command {
	var (
		offerFile string
		unlock    bool
	)

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign the inputs of an offer that the local wallet controls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, description, err := a.readOffer(offerFile)
			if err != nil {
				return err
			}

			if unlock {
				pass, err := a.readPassword("Wallet passphrase: ")
				if err != nil {
					return fmt.Errorf("read passphrase: %w", err)
				}
				err = a.gw.UnlockWallet(cmd.Context(), string(pass), unlockDuration)
				clear(pass)
				if err != nil {
					return fmt.Errorf("unlock wallet: %w", err)
				}
			}

			signed, err := trade.NewSigner(a.gw, a.params).Sign(cmd.Context(), msg)
			if err != nil {
				return err
			}
			if signed == 0 {
				log.CLI.Warn().Msg("wallet holds no key for any unsigned input")
			} else {
				log.CLI.Info().
					Int("signed", signed).
					Int("inputs", len(msg.TxIn)).
					Msg("signed offer")
			}
			return writeOffer(cmd.OutOrStdout(), msg, description)
		},
	}

	cmd.Flags().StringVarP(&offerFile, "offer", "o", "", "offer to sign (- for stdin)")
	cmd.Flags().BoolVar(&unlock, "unlock", false, "prompt for the wallet passphrase and unlock it first")
	_ = cmd.MarkFlagRequired("offer")
	return cmd
}
