package commands

import (
	"fmt"

	"atelier/internal/pricing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newStudioCommand(a *app) *cobra.Command {
	studioCmd := &cobra.Command{
		Use:   "studio",
		Short: "Design a custom piece",
	}

	optionsCmd := &cobra.Command{
		Use:   "options",
		Short: "List every option the studio offers",
		RunE: func(cmd *cobra.Command, args []string) error {
			printCatalog(a, pricing.DefaultCatalog())
			return nil
		},
	}

	design := pricing.DefaultDesign()
	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a design without adding it to the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := pricing.DefaultCatalog().Quote(design)
			if err != nil {
				return err
			}
			printQuote(a, q)
			return nil
		},
	}
	bindDesignFlags(quoteCmd.Flags(), &design)

	studioCmd.AddCommand(optionsCmd, quoteCmd)
	return studioCmd
}

// bindDesignFlags exposes one flag per studio step, defaulting to the
// studio's starting selection.
func bindDesignFlags(fs *pflag.FlagSet, d *pricing.Design) {
	fs.StringVar(&d.Type, "type", d.Type, "Jewelry type (ring, necklace, earrings, bracelet)")
	fs.StringVar(&d.Metal, "metal", d.Metal, "Metal id")
	fs.StringVar(&d.Gemstone, "gemstone", d.Gemstone, "Gemstone id")
	fs.StringVar(&d.Shape, "shape", d.Shape, "Shape id")
	fs.StringVar(&d.Carat, "carat", d.Carat, "Carat id")
	fs.StringVar(&d.BandWidth, "band-width", d.BandWidth, "Band width id")
	fs.StringVar(&d.Finish, "finish", d.Finish, "Finish id")
	fs.StringVar(&d.Size, "size", d.Size, "Ring size (rings only)")
	fs.StringVar(&d.Engraving, "engraving", d.Engraving, fmt.Sprintf("Engraving, up to %d characters", pricing.MaxEngravingLength))
}

func printCatalog(a *app, c *pricing.Catalog) {
	a.out.Section("Jewelry types")
	rows := make([][]string, 0, len(c.Types))
	for _, t := range c.Types {
		rows = append(rows, []string{t.ID, t.Name, pricing.Format(t.BasePrice)})
	}
	a.out.Table([]string{"ID", "Name", "Base price"}, rows)

	groups := []struct {
		title   string
		options []pricing.Option
	}{
		{"Metals", c.Metals},
		{"Gemstones", c.Gemstones},
		{"Shapes", c.Shapes},
		{"Carats", c.Carats},
		{"Band widths", c.BandWidths},
		{"Finishes", c.Finishes},
	}
	for _, g := range groups {
		a.out.Section(g.title)
		rows := make([][]string, 0, len(g.options))
		for _, o := range g.options {
			rows = append(rows, []string{o.ID, o.Name, "+" + pricing.Format(o.Price)})
		}
		a.out.Table([]string{"ID", "Name", "Surcharge"}, rows)
	}

	a.out.Section("Ring sizes")
	a.out.Muted("%v", c.RingSizes)
}

func printQuote(a *app, q *pricing.Quote) {
	a.out.Section(q.ItemName())

	rows := [][]string{{"Base", q.Type.Name, pricing.Format(q.Type.BasePrice)}}
	for _, comp := range q.Components {
		rows = append(rows, []string{comp.Label, comp.Option.Name, "+" + pricing.Format(comp.Option.Price)})
	}
	if q.Size != "" {
		rows = append(rows, []string{"Size", q.Size, ""})
	}
	if q.Engraving != "" {
		rows = append(rows, []string{"Engraving", fmt.Sprintf("%q", q.Engraving), ""})
	}
	a.out.Table([]string{"Step", "Choice", "Price"}, rows)
	a.out.Success("Total: %s", pricing.Format(q.Total))
}
