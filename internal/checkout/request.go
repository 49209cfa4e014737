package checkout

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"atelier/internal/cart"
	"atelier/internal/model"
	"atelier/internal/pricing"
)

// UnnamedProduct is sent for cart lines without a name.
const UnnamedProduct = "Unnamed Product"

// BuildRequest maps cart lines and the form onto the API order payload.
// Prices are converted to cents here and nowhere else on the client.
func BuildRequest(items []cart.Item, form Form, now time.Time) model.CreateOrderRequest {
	f := form.Trimmed()

	req := model.CreateOrderRequest{
		User: model.UserInput{
			Name:  f.Name,
			Email: f.Email,
			Phone: f.Phone,
		},
		Items: make([]model.OrderItemRequest, 0, len(items)),
	}

	for _, it := range items {
		req.Items = append(req.Items, buildItem(it, now))
	}

	if f.Address != "" {
		// Marshalling a map of strings cannot fail.
		shipping, _ := json.Marshal(map[string]string{"address": f.Address})
		req.Shipping = shipping
	}
	if f.Note != "" {
		note := f.Note
		req.Notes = &note
	}

	return req
}

func buildItem(it cart.Item, now time.Time) model.OrderItemRequest {
	productID := it.ID
	if productID == "" {
		productID = strconv.FormatInt(now.UnixMilli(), 10)
	}

	name := it.Name
	if name == "" {
		name = UnnamedProduct
	}

	quantity := it.Quantity
	if quantity < 1 {
		quantity = 1
	}

	item := model.OrderItemRequest{
		ProductID: productID,
		Name:      name,
		Price:     model.Number(pricing.ToCents(it.Price)),
		Quantity:  model.Number(int64(quantity)),
	}

	if image := strings.TrimSpace(it.Image); image != "" {
		item.Image = &image
	}
	if len(it.Customization) > 0 {
		item.Meta = it.Customization
	}

	return item
}
