package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fjod/vetcart/internal/cart"
	"github.com/fjod/vetcart/internal/catalog"
	"github.com/fjod/vetcart/internal/checkout"
	"github.com/fjod/vetcart/internal/clinic"
	"github.com/fjod/vetcart/internal/domain"
	"github.com/fjod/vetcart/internal/ui"
	"github.com/spf13/cobra"
)

func newShopCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shop",
		Short: "Start the interactive shop",
		Long: `Opens the catalog, cart and order history screens.

Only owner and employee accounts can shop. Orders placed here are sent to the
clinic backend and kept in the local order history until the program exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShop(cmd, opts)
		},
	}
}

func runShop(cmd *cobra.Command, opts *options) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, opts, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.authenticate(ctx, opts); err != nil {
		return err
	}
	sess, err := a.guard.RequireShopper(ctx)
	if errors.Is(err, clinic.ErrUnauthorized) {
		return fmt.Errorf("not signed in (use --email and --password): %w", err)
	}
	if err != nil {
		return err
	}

	relay := &ui.NoticeRelay{}
	store := cart.NewStore(
		cart.WithLogger(a.logger.Named("cart")),
		cart.WithNotifier(relay),
	)
	flow := checkout.NewFlow(store, a.client, a.logger.Named("checkout"))

	poller := catalog.NewPoller(a.catalog, a.cfg.Cache.RefreshInterval, a.logger.Named("catalog"))

	return ui.Run(ctx, ui.NewModel(store, a.catalog, flow, sess), relay, poller)
}

func newCatalogCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [query]",
		Short: "Print the product catalog",
		Long:  `Prints every product, or those whose name or category matches the query.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			var products []domain.Product
			if query := strings.Join(args, " "); query != "" {
				products, err = a.catalog.Search(ctx, query)
			} else {
				products, err = a.catalog.Products(ctx)
			}
			if err != nil {
				return err
			}

			if len(products) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No products found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderProducts(products))
			return nil
		},
	}
}

func renderProducts(products []domain.Product) string {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		stock := strconv.Itoa(p.Stock)
		if !p.InStock() {
			stock = "out"
		}
		rows = append(rows, []string{p.ID, p.Name, p.Category, fmt.Sprintf("%.2f", p.Price), stock})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "CATEGORY", "PRICE", "STOCK").
		Rows(rows...).
		String()
}

func newWhoamiCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and their landing page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			sess, err := a.authenticate(ctx, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !sess.Authenticated() {
				fmt.Fprintf(out, "Not signed in\nroute: %s\n", sess.Route)
				return nil
			}
			fmt.Fprintf(out, "%s <%s>\nrole:  %s\nroute: %s\nshop:  %t\n",
				sess.User.Name, sess.User.Email, sess.User.Role, sess.Route, sess.CanShop())
			return nil
		},
	}
}

func newLoginCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print the landing page for the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.email == "" || opts.password == "" {
				return fmt.Errorf("--email and --password are required")
			}
			ctx := cmd.Context()
			a, err := newApp(ctx, opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			sess, err := a.guard.Login(ctx, opts.email, opts.password)
			if err != nil {
				return err
			}
			if !sess.Authenticated() {
				return fmt.Errorf("account has no usable role")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\nroute: %s\n", sess.User.Name, sess.User.Role, sess.Route)
			return nil
		},
	}
	return cmd
}
