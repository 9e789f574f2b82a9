package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Klingon-tech/nametrade/internal/log"
	"github.com/Klingon-tech/nametrade/pkg/tx"
)

func newBroadcastCmd(a *app) *cobra.Command {
	var offerFile string

	cmd := &cobra.Command{
		Use:   "broadcast",
		Short: "Submit a completed offer to the network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, _, err := a.readOffer(offerFile)
			if err != nil {
				return err
			}
			raw, err := tx.Serialize(msg)
			if err != nil {
				return err
			}

			txid, err := a.gw.Broadcast(cmd.Context(), raw)
			if err != nil {
				return err
			}
			log.CLI.Info().Str("txid", txid.String()).Msg("offer broadcast")
			fmt.Fprintln(cmd.OutOrStdout(), txid)
			return nil
		},
	}

	cmd.Flags().StringVarP(&offerFile, "offer", "o", "", "completed offer to submit (- for stdin)")
	_ = cmd.MarkFlagRequired("offer")
	return cmd
}
