package commands

import (
	"strconv"

	"atelier/internal/pricing"

	"github.com/spf13/cobra"
)

func newOrdersCommand(a *app) *cobra.Command {
	ordersCmd := &cobra.Command{
		Use:   "orders",
		Short: "Orders placed from this machine",
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show locally recorded orders, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := a.history(cmd.Context())
			if err != nil {
				return err
			}

			records := history.Records()
			if len(records) == 0 {
				a.out.Info("No orders placed yet")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, r := range records {
				orderID := "-"
				if r.OrderID > 0 {
					orderID = strconv.FormatInt(r.OrderID, 10)
				}
				rows = append(rows, []string{
					orderID,
					r.CreatedAt.Local().Format("2006-01-02 15:04"),
					r.Customer.Name,
					strconv.Itoa(len(r.Items)),
					pricing.Format(r.Total),
				})
			}
			a.out.Table([]string{"Order", "Placed", "Customer", "Items", "Total"}, rows)
			return nil
		},
	}

	ordersCmd.AddCommand(historyCmd)
	return ordersCmd
}
