package pricing

import (
	"fmt"
	"strconv"
	"time"

	"atelier/internal/validation"

	"github.com/shopspring/decimal"
)

// MaxEngravingLength is the longest engraving the studio accepts.
const MaxEngravingLength = 25

// Option is a selectable design choice and its surcharge.
type Option struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// JewelryType is the base silhouette a design starts from.
type JewelryType struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"basePrice"`
	Image     string          `json:"image"`
}

// Catalog lists every option the design studio offers.
type Catalog struct {
	Types      []JewelryType `json:"types"`
	Metals     []Option      `json:"metals"`
	Gemstones  []Option      `json:"gemstones"`
	Shapes     []Option      `json:"shapes"`
	Carats     []Option      `json:"carats"`
	BandWidths []Option      `json:"bandWidths"`
	Finishes   []Option      `json:"finishes"`
	RingSizes  []string      `json:"ringSizes"`
}

func opt(id, name string, price int64) Option {
	return Option{ID: id, Name: name, Price: decimal.NewFromInt(price)}
}

// DefaultCatalog returns the storefront's design studio catalog.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Types: []JewelryType{
			{ID: "ring", Name: "Ring", BasePrice: decimal.NewFromInt(1200), Image: "/images/Ring.jpg"},
			{ID: "necklace", Name: "Necklace", BasePrice: decimal.NewFromInt(1500), Image: "/images/Necklace.jpg"},
			{ID: "earrings", Name: "Earrings", BasePrice: decimal.NewFromInt(800), Image: "/images/Earrings.jpg"},
			{ID: "bracelet", Name: "Bracelet", BasePrice: decimal.NewFromInt(1000), Image: "/images/bracelets.jpg"},
		},
		Metals: []Option{
			opt("yellow-gold", "Yellow Gold", 0),
			opt("white-gold", "White Gold", 200),
			opt("rose-gold", "Rose Gold", 150),
			opt("platinum", "Platinum", 500),
		},
		Gemstones: []Option{
			opt("diamond", "Diamond", 1000),
			opt("sapphire", "Sapphire", 600),
			opt("emerald", "Emerald", 700),
			opt("ruby", "Ruby", 800),
			opt("pearl", "Pearl", 300),
			opt("none", "None", 0),
		},
		Shapes: []Option{
			opt("round", "Round Brilliant", 0),
			opt("oval", "Oval", 150),
			opt("cushion", "Cushion", 180),
			opt("emerald", "Emerald", 220),
			opt("princess", "Princess", 200),
		},
		Carats: []Option{
			opt("0.75", "0.75 ct", 0),
			opt("1.0", "1.00 ct", 450),
			opt("1.5", "1.50 ct", 950),
			opt("2.0", "2.00 ct", 1900),
		},
		BandWidths: []Option{
			opt("thin", "2 mm (delicate)", 0),
			opt("classic", "3 mm (classic)", 120),
			opt("bold", "4 mm (statement)", 240),
		},
		Finishes: []Option{
			opt("polished", "Polished", 0),
			opt("matte", "Matte", 100),
			opt("brushed", "Brushed", 100),
		},
		RingSizes: []string{"5", "5.5", "6", "6.5", "7", "7.5", "8", "8.5", "9"},
	}
}

// Design is a shopper's selection, one option id per step.
type Design struct {
	Type      string `json:"type"`
	Metal     string `json:"metal"`
	Gemstone  string `json:"gemstone"`
	Shape     string `json:"shape"`
	Carat     string `json:"carat"`
	BandWidth string `json:"bandWidth"`
	Finish    string `json:"finish"`
	Size      string `json:"size,omitempty"`
	Engraving string `json:"engraving,omitempty"`
}

// DefaultDesign is the studio's starting selection.
func DefaultDesign() Design {
	return Design{
		Type:      "ring",
		Metal:     "yellow-gold",
		Gemstone:  "diamond",
		Shape:     "round",
		Carat:     "1.0",
		BandWidth: "classic",
		Finish:    "polished",
		Size:      "6.5",
	}
}

// Component is one priced line of a quote breakdown.
type Component struct {
	Label  string `json:"label"`
	Option Option `json:"option"`
}

// Quote is a priced design.
type Quote struct {
	Type       JewelryType     `json:"type"`
	Components []Component     `json:"components"`
	Size       string          `json:"size,omitempty"`
	Engraving  string          `json:"engraving,omitempty"`
	Total      decimal.Decimal `json:"total"`
}

// InvalidDesignError lists every problem found in a design.
type InvalidDesignError struct {
	Issues []validation.Issue
}

func (e *InvalidDesignError) Error() string {
	return "invalid design: " + validation.Join(e.Issues)
}

func find(options []Option, id string) (Option, bool) {
	for _, o := range options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Quote validates d against the catalog and prices it as the base price plus
// every surcharge.
func (c *Catalog) Quote(d Design) (*Quote, error) {
	v := validation.New()

	var jewelryType JewelryType
	typeFound := false
	for _, t := range c.Types {
		if t.ID == d.Type {
			jewelryType, typeFound = t, true
			break
		}
	}
	v.Check(typeFound, "type", fmt.Sprintf("Unknown jewelry type %q", d.Type))

	steps := []struct {
		label   string
		field   string
		id      string
		options []Option
	}{
		{"Metal", "metal", d.Metal, c.Metals},
		{"Gemstone", "gemstone", d.Gemstone, c.Gemstones},
		{"Shape", "shape", d.Shape, c.Shapes},
		{"Carat", "carat", d.Carat, c.Carats},
		{"Band Width", "bandWidth", d.BandWidth, c.BandWidths},
		{"Finish", "finish", d.Finish, c.Finishes},
	}

	components := make([]Component, 0, len(steps))
	for _, s := range steps {
		o, ok := find(s.options, s.id)
		if v.Check(ok, s.field, fmt.Sprintf("Unknown %s %q", s.field, s.id)) {
			components = append(components, Component{Label: s.label, Option: o})
		}
	}

	size := ""
	if d.Type == "ring" {
		size = d.Size
		known := false
		for _, rs := range c.RingSizes {
			if rs == d.Size {
				known = true
				break
			}
		}
		v.Check(known, "size", fmt.Sprintf("Unknown ring size %q", d.Size))
	}

	v.MaxLen("engraving", d.Engraving, MaxEngravingLength,
		fmt.Sprintf("Engraving must be at most %d characters", MaxEngravingLength))

	if !v.Valid() {
		return nil, &InvalidDesignError{Issues: v.Issues()}
	}

	prices := make([]decimal.Decimal, 0, len(components)+1)
	prices = append(prices, jewelryType.BasePrice)
	for _, comp := range components {
		prices = append(prices, comp.Option.Price)
	}

	return &Quote{
		Type:       jewelryType,
		Components: components,
		Size:       size,
		Engraving:  d.Engraving,
		Total:      Sum(prices...),
	}, nil
}

// ItemID returns the cart identity of a custom piece created at now.
func (q *Quote) ItemID(now time.Time) string {
	return "custom-" + strconv.FormatInt(now.UnixMilli(), 10)
}

// ItemName returns the display name of the custom piece.
func (q *Quote) ItemName() string {
	return "Custom " + q.Type.Name
}

// Customization returns the attribute snapshot stored with the cart item.
func (q *Quote) Customization() map[string]string {
	keys := map[string]string{
		"Metal":      "metal",
		"Gemstone":   "gemstone",
		"Shape":      "shape",
		"Carat":      "carat",
		"Band Width": "bandWidth",
		"Finish":     "finish",
	}

	custom := make(map[string]string, len(q.Components)+2)
	for _, comp := range q.Components {
		custom[keys[comp.Label]] = comp.Option.Name
	}
	if q.Size != "" {
		custom["size"] = q.Size
	}
	if q.Engraving != "" {
		custom["engraving"] = q.Engraving
	}
	return custom
}
