package commands

import (
	"errors"
	"strconv"

	"atelier/cmd/atelier/output"
	"atelier/internal/client"
	"atelier/internal/model"
	"atelier/internal/pricing"
	"atelier/internal/service"

	"github.com/spf13/cobra"
)

func newAdminCommand(a *app) *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage customers and orders",
		Long: `Admin commands call the protected /admin routes.

Set ATELIER_ADMIN_API_KEY (or admin_api_key in the config file) to the
server's ADMIN_API_KEY.`,
	}

	var query, status string
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "List customers with their order summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := a.api.ListUsers(cmd.Context(), query)
			if err != nil {
				return reportAPIError(a, err)
			}

			users = service.FilterByLastStatus(users, status)
			if len(users) == 0 {
				a.out.Info("No users found")
				return nil
			}

			rows := make([][]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, []string{
					strconv.FormatInt(u.ID, 10),
					u.Name,
					u.Email,
					u.Phone,
					strconv.Itoa(u.TotalOrders),
					pricing.Format(pricing.FromCents(u.LifetimeValue)),
					output.StatusIcon(u.LastOrderStatus) + " " + u.LastOrderStatus,
				})
			}
			a.out.Table([]string{"ID", "Name", "Email", "Phone", "Orders", "Lifetime value", "Last status"}, rows)
			return nil
		},
	}
	usersCmd.Flags().StringVarP(&query, "query", "q", "", "Match name, email or phone")
	usersCmd.Flags().StringVar(&status, "status", service.StatusFilterAll, "Only users whose last order has this status")

	userOrdersCmd := &cobra.Command{
		Use:   "user-orders <user-id>",
		Short: "List a customer's orders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := a.api.ListUserOrders(cmd.Context(), args[0])
			if err != nil {
				return reportAPIError(a, err)
			}
			if len(orders) == 0 {
				a.out.Info("User %s has no orders", args[0])
				return nil
			}
			printOrders(a, orders)
			return nil
		},
	}

	orderCmd := &cobra.Command{
		Use:   "order <order-id>",
		Short: "Show an order with its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := a.api.GetOrder(cmd.Context(), args[0])
			if err != nil {
				return reportAPIError(a, err)
			}
			printOrder(a, order)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status <order-id> <status>",
		Short: "Move an order to pending, completed, cancelled or rejected",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := a.api.UpdateOrderStatus(cmd.Context(), args[0], args[1])
			if err != nil {
				return reportAPIError(a, err)
			}
			a.out.Success("Order #%d is now %s", order.ID, order.Status)
			return nil
		},
	}

	deleteOrderCmd := &cobra.Command{
		Use:   "delete-order <order-id>",
		Short: "Delete a completed order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.api.DeleteOrder(cmd.Context(), args[0])
			if err != nil {
				return reportAPIError(a, err)
			}
			a.out.Success("%s", resp.Message)
			return nil
		},
	}

	deleteUserCmd := &cobra.Command{
		Use:   "delete-user <user-id>",
		Short: "Delete a customer without orders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.api.DeleteUser(cmd.Context(), args[0])
			if err != nil {
				return reportAPIError(a, err)
			}
			a.out.Success("%s", resp.Message)
			return nil
		},
	}

	adminCmd.AddCommand(usersCmd, userOrdersCmd, orderCmd, statusCmd, deleteOrderCmd, deleteUserCmd)
	return adminCmd
}

func printOrders(a *app, orders []model.Order) {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			strconv.FormatInt(o.ID, 10),
			o.CreatedAt.Local().Format("2006-01-02 15:04"),
			output.StatusIcon(string(o.Status)) + " " + string(o.Status),
			strconv.Itoa(len(o.Items)),
			pricing.Format(pricing.FromCents(o.TotalAmount)),
		})
	}
	a.out.Table([]string{"ID", "Placed", "Status", "Items", "Total"}, rows)
}

func printOrder(a *app, o *model.Order) {
	a.out.Section("Order #" + strconv.FormatInt(o.ID, 10))
	a.out.Info("Status: %s %s", output.StatusIcon(string(o.Status)), o.Status)
	if o.User != nil {
		a.out.Info("Customer: %s <%s> %s", o.User.Name, o.User.Email, o.User.Phone)
	}
	if o.Notes != nil && *o.Notes != "" {
		a.out.Muted("Notes: %s", *o.Notes)
	}

	rows := make([][]string, 0, len(o.Items))
	for _, it := range o.Items {
		price := pricing.FromCents(it.Price)
		rows = append(rows, []string{
			it.ProductID,
			it.Name,
			pricing.Format(price),
			strconv.Itoa(it.Quantity),
			pricing.Format(pricing.LineTotal(price, it.Quantity)),
		})
	}
	a.out.Table([]string{"Product", "Name", "Price", "Qty", "Line total"}, rows)
	a.out.Success("Total: %s", pricing.Format(pricing.FromCents(o.TotalAmount)))
}

// reportAPIError prints the server's error body and returns err.
func reportAPIError(a *app, err error) error {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		a.out.Error("%s", err.Error())
		return err
	}

	body := apiErr.Body
	a.out.Error("%s", body.Error)
	if body.Message != "" {
		a.out.Muted("%s", body.Message)
	}
	if body.CurrentStatus != "" {
		a.out.Muted("Current status: %s", body.CurrentStatus)
	}
	if body.OrderCount > 0 {
		a.out.Muted("Orders on record: %d", body.OrderCount)
	}
	if len(body.Allowed) > 0 {
		a.out.Muted("Allowed: %v", body.Allowed)
	}
	if body.Hint != "" {
		a.out.Muted("%s", body.Hint)
	}
	return err
}
