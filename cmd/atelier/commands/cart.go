package commands

import (
	"fmt"
	"strconv"
	"time"

	"atelier/internal/cart"
	"atelier/internal/pricing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newCartCommand(a *app) *cobra.Command {
	cartCmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
	}

	var (
		item     cart.Item
		price    string
		quantity int
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a catalog product to the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := decimal.NewFromString(price)
			if err != nil || p.IsNegative() {
				return fmt.Errorf("invalid price %q", price)
			}
			if quantity < 1 {
				return fmt.Errorf("quantity must be at least 1")
			}

			store, err := a.cart(cmd.Context())
			if err != nil {
				return err
			}

			added := item
			added.Price = p
			store.Add(cmd.Context(), added)
			if quantity > 1 {
				for _, it := range store.Items() {
					if it.ID == added.ID {
						store.UpdateQuantity(cmd.Context(), it.ID, it.Quantity+quantity-1)
					}
				}
			}

			a.out.Success("Added %s to the cart (%d item(s), %s)", added.Name, store.TotalItems(), pricing.Format(store.TotalPrice()))
			return nil
		},
	}
	addCmd.Flags().StringVar(&item.ID, "id", "", "Product id")
	addCmd.Flags().StringVar(&item.Name, "name", "", "Product name")
	addCmd.Flags().StringVar(&price, "price", "", "Unit price, e.g. 1499.99")
	addCmd.Flags().StringVar(&item.Image, "image", "", "Image path")
	addCmd.Flags().IntVar(&quantity, "quantity", 1, "Quantity")
	addCmd.MarkFlagRequired("id")
	addCmd.MarkFlagRequired("name")
	addCmd.MarkFlagRequired("price")

	design := pricing.DefaultDesign()
	addDesignCmd := &cobra.Command{
		Use:   "add-design",
		Short: "Price a studio design and add it to the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := pricing.DefaultCatalog().Quote(design)
			if err != nil {
				return err
			}

			store, err := a.cart(cmd.Context())
			if err != nil {
				return err
			}

			added := cart.ItemFromQuote(q, time.Now())
			store.Add(cmd.Context(), added)

			printQuote(a, q)
			a.out.Success("Added %s to the cart as %s", added.Name, added.ID)
			return nil
		},
	}
	bindDesignFlags(addDesignCmd.Flags(), &design)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.cart(cmd.Context())
			if err != nil {
				return err
			}
			printCart(a, store)
			return nil
		},
	}

	qtyCmd := &cobra.Command{
		Use:   "qty <id> <quantity>",
		Short: "Set the quantity of an item; 0 or less removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}

			store, err := a.cart(cmd.Context())
			if err != nil {
				return err
			}
			store.UpdateQuantity(cmd.Context(), args[0], n)
			printCart(a, store)
			return nil
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an item from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.cart(cmd.Context())
			if err != nil {
				return err
			}
			store.Remove(cmd.Context(), args[0])
			a.out.Success("Removed %s", args[0])
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.cart(cmd.Context())
			if err != nil {
				return err
			}
			store.Clear(cmd.Context())
			a.out.Success("Cart cleared")
			return nil
		},
	}

	cartCmd.AddCommand(addCmd, addDesignCmd, listCmd, qtyCmd, removeCmd, clearCmd)
	return cartCmd
}

func printCart(a *app, store *cart.Store) {
	items := store.Items()
	if len(items) == 0 {
		a.out.Info("Your cart is empty")
		return
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		line := pricing.LineTotal(it.Price, it.Quantity)
		rows = append(rows, []string{it.ID, it.Name, pricing.Format(it.Price), strconv.Itoa(it.Quantity), pricing.Format(line)})
	}
	a.out.Table([]string{"ID", "Name", "Price", "Qty", "Line total"}, rows)
	a.out.Info("%d item(s), total %s", store.TotalItems(), pricing.Format(store.TotalPrice()))
}
