package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	envFile    string
	verbose    bool
	email      string
	password   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "vetcart",
		Short: "VetCart - shop the clinic catalog from the terminal",
		Long: `vetcart is a terminal client for the clinic shop.

Browse the product catalog, fill a cart and place orders against the clinic
backend. Run without arguments to start the interactive shop.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShop(cmd, opts)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	pf.StringVar(&opts.envFile, "env-file", "", "path to a .env file (default: ./.env if present)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&opts.email, "email", os.Getenv("VETCART_EMAIL"), "account email, used when no session is active")
	pf.StringVar(&opts.password, "password", os.Getenv("VETCART_PASSWORD"), "account password")

	rootCmd.AddCommand(
		newShopCmd(opts),
		newCatalogCmd(opts),
		newWhoamiCmd(opts),
		newLoginCmd(opts),
	)
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
