package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	managerconfig "github.com/quantumauth-io/caviar-manager/cmd/caviar-manager/config"
	"github.com/quantumauth-io/caviar-manager/internal/wallet"
	"github.com/quantumauth-io/quantum-go-utils/log"
	"github.com/spf13/cobra"
)

func openWallet(opts *rootOptions) (*wallet.Manager, error) {
	cfg, err := managerconfig.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	return wallet.Open(cfg.Wallet.Path, wallet.Options{KDF: cfg.Wallet.KDF})
}

func newAccountCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage wallet accounts",
	}

	var label string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account and print its address and recovery phrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := openWallet(opts)
			if err != nil {
				return err
			}
			pw, err := promptNewPassword()
			if err != nil {
				return err
			}
			defer zeroBytes(pw)

			data, err := w.CreateAccount(label, string(pw))
			if err != nil {
				return err
			}
			acct, err := w.GetAccountByAddress(data.Address, string(pw))
			if err != nil {
				return err
			}
			mnemonic, err := acct.Mnemonic()
			if err != nil {
				return err
			}
			if err := w.Save(); err != nil {
				return err
			}
			log.Info("account created", "address", data.Address, "wallet", w.Path())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "address:  %s\n", data.Address)
			fmt.Fprintf(out, "label:    %s\n", data.Label)
			fmt.Fprintf(out, "mnemonic: %s\n", mnemonic)
			fmt.Fprintln(out, "Write the mnemonic down. It is the only backup of this key.")
			return nil
		},
	}
	create.Flags().StringVar(&label, "label", "", "account label")

	list := &cobra.Command{
		Use:   "list",
		Short: "List wallet accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := openWallet(opts)
			if err != nil {
				return err
			}
			rows := make([][3]string, 0)
			for _, a := range w.Accounts() {
				rows = append(rows, [3]string{defaultMark(a.IsDefault), a.Address, a.Label})
			}
			return printTable(cmd.OutOrStdout(), [3]string{"", "ADDRESS", "LABEL"}, rows)
		},
	}

	cmd.AddCommand(create, list)
	return cmd
}

func newIdentityCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Manage decentralized identities",
	}

	var label string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an identity with a fresh control key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := openWallet(opts)
			if err != nil {
				return err
			}
			pw, err := promptNewPassword()
			if err != nil {
				return err
			}
			defer zeroBytes(pw)

			id, err := w.CreateIdentity(label, string(pw))
			if err != nil {
				return err
			}
			if err := w.Save(); err != nil {
				return err
			}
			log.Info("identity created", "ont_id", id.OntID, "wallet", w.Path())

			fmt.Fprintf(cmd.OutOrStdout(), "ont id: %s\nlabel:  %s\n", id.OntID, id.Label)
			return nil
		},
	}
	create.Flags().StringVar(&label, "label", "", "identity label")

	list := &cobra.Command{
		Use:   "list",
		Short: "List identities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := openWallet(opts)
			if err != nil {
				return err
			}
			rows := make([][3]string, 0)
			for _, id := range w.Identities() {
				rows = append(rows, [3]string{defaultMark(id.IsDefault), id.OntID, id.Label})
			}
			return printTable(cmd.OutOrStdout(), [3]string{"", "ONT ID", "LABEL"}, rows)
		},
	}

	cmd.AddCommand(create, list)
	return cmd
}

func defaultMark(isDefault bool) string {
	if isDefault {
		return "*"
	}
	return ""
}

func printTable(out io.Writer, header [3]string, rows [][3]string) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n", header[0], header[1], header[2])
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r[0], r[1], r[2])
	}
	return tw.Flush()
}
