package types

// Typed payloads for each wire operation. The router decodes the frame into
// the envelope first; handlers decode it again into their payload struct and
// run it through the shared validator.

// Envelope carries the operation name common to every request. The pointer
// distinguishes an absent request field from an empty one.
type Envelope struct {
	Request *string `json:"request"`
}

// AddProductRequest creates a catalog entry.
type AddProductRequest struct {
	Name            string `json:"name" validate:"required"`
	Brand           string `json:"brand" validate:"required"`
	MeasurementType string `json:"measurement_type" validate:"required,oneof=quantity volume weight"`
	UseWithin       *int   `json:"use_within" validate:"omitempty,min=0"`
}

// RemoveProductRequest deletes a catalog entry by its (name, brand) pair.
type RemoveProductRequest struct {
	Name  string `json:"name" validate:"required"`
	Brand string `json:"brand" validate:"required"`
}

// InsertItemRequest places one physical item in the fridge. Data must carry
// the measurement field selected by the product's measurement type.
type InsertItemRequest struct {
	Name  string         `json:"name" validate:"required"`
	Brand string         `json:"brand" validate:"required"`
	Data  InsertItemData `json:"data" validate:"required"`
}

// InsertItemData is the measurement-specific portion of an insertItem
// request. The three amount fields are mutually exclusive; which one is
// required depends on the product, so the choice is enforced by the handler
// rather than by a tag.
type InsertItemData struct {
	Quantity *float64 `json:"quantity" validate:"omitempty,min=0"`
	Volume   *float64 `json:"volume" validate:"omitempty,min=0"`
	Weight   *float64 `json:"weight" validate:"omitempty,min=0"`
	UseBy    string   `json:"use_by" validate:"required"`
}

// ItemRequest addresses a fridge item by id (removeItem, openItem).
type ItemRequest struct {
	ItemID string `json:"item_id" validate:"required"`
}

// FavouriteRequest addresses a product by id (addFavourite, removeFavourite).
type FavouriteRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// CheckDatesRequest filters contents by days until expiry. WarningDays nil
// means use the configured default.
type CheckDatesRequest struct {
	WarningDays *int `json:"warning_days" validate:"omitempty,min=0"`
}
