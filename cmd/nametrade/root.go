package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Klingon-tech/nametrade/internal/log"
	"github.com/Klingon-tech/nametrade/internal/trade"
	"github.com/Klingon-tech/nametrade/pkg/types"
)

// offerFlags are the root command's offer preparation flags.
type offerFlags struct {
	offerFile   string
	buy         string
	sell        string
	amount      string
	funding     string
	address     string
	data        string
	description string
}

func newRootCmd(a *app) *cobra.Command {
	var f offerFlags

	root := &cobra.Command{
		Use:   "nametrade",
		Short: "Prepare trustless offers to buy or sell Namecoin names",
		Long: `nametrade builds unsigned transactions that swap a name for coins.

  nametrade --buy NAME --funding TXID:VOUT --address ADDR [--data VALUE]
  nametrade --sell NAME --address PAYOUT --amount AMOUNT
  nametrade --offer FILE
  nametrade sign --offer FILE [--unlock]
  nametrade broadcast --offer FILE`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			return a.setup(flags.Changed("log-level"), flags.Changed("log-json"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, a, f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "config file location (default: search the Namecoin data directories)")
	pf.StringVar(&a.network, "network", "", "network: mainnet, testnet or regtest (default from config)")
	pf.StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.BoolVar(&a.logJSON, "log-json", false, "log in JSON format")

	fl := root.Flags()
	fl.StringVarP(&f.offerFile, "offer", "o", "", "read offer from FILE (- for stdin)")
	fl.StringVarP(&f.buy, "buy", "b", "", "name to prepare a buy offer for")
	fl.StringVarP(&f.sell, "sell", "s", "", "name to prepare a sell offer for")
	fl.StringVarP(&f.amount, "amount", "a", "", "amount of the offer in NMC")
	fl.StringVar(&f.funding, "funding", "", "output funding a buy offer (TXID:VOUT)")
	fl.StringVar(&f.address, "address", "", "address receiving the name (buy) or the payment (sell)")
	fl.StringVar(&f.data, "data", "", "value to store with the name (buy)")
	fl.StringVar(&f.description, "description", "", "description line added to the offer")

	root.AddCommand(newSignCmd(a), newBroadcastCmd(a))
	return root
}

func runRoot(cmd *cobra.Command, a *app, f offerFlags) error {
	if f.buy != "" && f.sell != "" {
		return ErrUserInputConflict
	}

	switch {
	case f.buy != "":
		return runBuy(cmd, a, f)
	case f.sell != "":
		return runSell(cmd, a, f)
	case f.offerFile != "":
		return runShow(cmd, a, f.offerFile)
	default:
		return cmd.Help()
	}
}

func runBuy(cmd *cobra.Command, a *app, f offerFlags) error {
	if f.funding == "" || f.address == "" {
		return fmt.Errorf("--buy requires --funding and --address")
	}
	funding, err := types.ParseOutputReference(f.funding)
	if err != nil {
		return fmt.Errorf("--funding: %w", err)
	}
	dest, err := types.ParseAddress(f.address, a.params)
	if err != nil {
		return fmt.Errorf("--address: %w", err)
	}

	b := trade.NewBuilder(a.gw, a.params)
	msg, err := b.BuildBuyOffer(cmd.Context(), funding, f.buy, f.data, dest)
	if err != nil {
		return err
	}
	return writeOffer(cmd.OutOrStdout(), msg, f.description)
}

func runSell(cmd *cobra.Command, a *app, f offerFlags) error {
	if f.address == "" || f.amount == "" {
		return fmt.Errorf("--sell requires --address and --amount")
	}
	amount, err := types.ParseAmount(f.amount)
	if err != nil {
		return fmt.Errorf("--amount: %w", err)
	}
	payout, err := types.ParseAddress(f.address, a.params)
	if err != nil {
		return fmt.Errorf("--address: %w", err)
	}

	b := trade.NewBuilder(a.gw, a.params)
	last, err := b.LastOutput(cmd.Context(), f.sell)
	if err != nil {
		return err
	}
	log.CLI.Debug().
		Str("name", f.sell).
		Str("output", last.Reference.String()).
		Msg("funding sell offer from name output")

	msg, err := b.BuildSellOffer(cmd.Context(), last.Reference, payout, amount)
	if err != nil {
		return err
	}
	return writeOffer(cmd.OutOrStdout(), msg, f.description)
}

func runShow(cmd *cobra.Command, a *app, path string) error {
	msg, description, err := a.readOffer(path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if description != "" {
		fmt.Fprintf(out, "Description: %s\n", description)
	}
	summary := trade.Inspect(msg, a.params)
	fmt.Fprint(out, summary.String())

	statuses := trade.NewBuilder(a.gw, a.params).CheckNames(cmd.Context(), summary)
	if len(statuses) > 0 {
		fmt.Fprintln(out, "Names:")
	}
	for _, st := range statuses {
		switch {
		case st.Err != nil:
			fmt.Fprintf(out, "  %q lookup failed: %v\n", st.Name, st.Err)
		case st.Spent:
			fmt.Fprintf(out, "  %q held by %s (%s), spent by this offer\n", st.Name, st.Current.Reference, st.Current.Amount)
		default:
			// The owner adds the name input when completing a buy offer.
			fmt.Fprintf(out, "  %q held by %s (%s), not yet an input of this offer\n", st.Name, st.Current.Reference, st.Current.Amount)
		}
	}
	return nil
}
