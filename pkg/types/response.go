package types

// Response is the uniform reply envelope. Every frame, well-formed or not,
// receives exactly one of these on the output stream.
type Response struct {
	Response any  `json:"response"`
	Success  bool `json:"success"`
}

// OK wraps a payload in a successful response.
func OK(payload any) Response {
	return Response{Response: payload, Success: true}
}

// Fail wraps a message in a failed response.
func Fail(message string) Response {
	return Response{Response: message, Success: false}
}

// ProductRow is one listProducts element.
type ProductRow struct {
	Name      string `json:"name"`
	Brand     string `json:"brand"`
	ProductID string `json:"product_id"`
}

// ContentRow is one listContents element. Amount holds the non-null values
// among (quantity, volume, weight) in that fixed column order.
type ContentRow struct {
	Name           string    `json:"name"`
	ItemID         string    `json:"item_id"`
	ExpirationDate string    `json:"expiration_date"`
	Amount         []float64 `json:"amount"`
}

// ExpiryRow is one checkDates element.
type ExpiryRow struct {
	Name   string `json:"name"`
	ItemID string `json:"item_id"`
}

// OpenItemResult reports the item's expiration date after an openItem,
// recomputed or not.
type OpenItemResult struct {
	ExpirationDate string `json:"expiration_date"`
}
