package cart

import "github.com/luxemart/storefront/pkg/types"

// LineItem is one product held in the cart. Name and price are snapshots
// taken when the item was first added; they are not refreshed afterwards.
type LineItem struct {
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	Price     types.Money `json:"price"`
	Quantity  int         `json:"quantity"`
}

// Subtotal returns price times quantity for the line.
func (li LineItem) Subtotal() types.Money {
	return li.Price.Times(li.Quantity)
}
