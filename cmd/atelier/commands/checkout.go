package commands

import (
	"context"
	"errors"

	"atelier/internal/cart"
	"atelier/internal/checkout"
	"atelier/internal/model"
	"atelier/internal/pricing"

	"github.com/spf13/cobra"
)

func newCheckoutCommand(a *app) *cobra.Command {
	var form checkout.Form

	checkoutCmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for everything in the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := a.cart(ctx)
			if err != nil {
				return err
			}
			history, err := a.history(ctx)
			if err != nil {
				return err
			}

			total := store.TotalPrice()
			onSuccess := func(ctx context.Context, order *model.Order, items []cart.Item, customer checkout.Form) {
				history.Add(ctx, order.ID, customer, items, total)
				store.Clear(ctx)
			}

			order, err := checkout.NewSubmitter(a.api, onSuccess, a.logger).Submit(ctx, store.Items(), form)
			if err != nil {
				return reportCheckoutError(a, err)
			}

			a.out.Success("Order #%d placed, total %s", order.ID, pricing.Format(pricing.FromCents(order.TotalAmount)))
			a.out.Muted("We'll contact %s to confirm your reservation.", form.Trimmed().Email)
			return nil
		},
	}

	checkoutCmd.Flags().StringVar(&form.Name, "name", "", "Full name")
	checkoutCmd.Flags().StringVar(&form.Email, "email", "", "Email address")
	checkoutCmd.Flags().StringVar(&form.Phone, "phone", "", "Phone number")
	checkoutCmd.Flags().StringVar(&form.Address, "address", "", "Shipping address")
	checkoutCmd.Flags().StringVar(&form.Note, "note", "", "Note for the atelier")

	return checkoutCmd
}

// reportCheckoutError prints err the way the shopper should see it and
// returns it so the process exits non-zero.
func reportCheckoutError(a *app, err error) error {
	var (
		fieldErr      *checkout.FieldError
		validationErr *checkout.ValidationError
		submitErr     *checkout.SubmitError
	)

	switch {
	case errors.As(err, &fieldErr):
		a.out.Error("%s", fieldErr.Message)
	case errors.Is(err, checkout.ErrEmptyCart):
		a.out.Warning("Your cart is empty. Add something before checking out.")
	case errors.Is(err, checkout.ErrServerUnreachable):
		a.out.Error("%s", err.Error())
	case errors.As(err, &validationErr):
		a.out.Error("%s", validationErr.Response.Error)
		for _, issue := range validationErr.Response.Issues {
			a.out.Muted("  %s", issue.String())
		}
	case errors.As(err, &submitErr):
		a.out.Error("%s", submitErr.Message)
	default:
		a.out.Error("%s", err.Error())
	}
	return err
}
