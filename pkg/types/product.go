package types

// Measurement types. A product tracks its amount in exactly one of these
// units; the choice decides which fridge_contents column an item populates.
const (
	MeasurementQuantity = "quantity"
	MeasurementVolume   = "volume"
	MeasurementWeight   = "weight"
)

// measurementColumns is the closed allow-list of fridge_contents columns a
// measurement type may select. Statements never interpolate client-supplied
// text as a column name; they go through this map.
var measurementColumns = map[string]string{
	MeasurementQuantity: "quantity",
	MeasurementVolume:   "volume",
	MeasurementWeight:   "weight",
}

// MeasurementColumn returns the fridge_contents column for a measurement
// type. The second return is false when the type is not recognized.
func MeasurementColumn(measurementType string) (string, bool) {
	col, ok := measurementColumns[measurementType]
	return col, ok
}

// ValidMeasurementType reports whether the value is a recognized
// measurement type.
func ValidMeasurementType(measurementType string) bool {
	_, ok := measurementColumns[measurementType]
	return ok
}

// Product is a catalog entry describing a kind of grocery item. The
// (Name, Brand) pair is unique across the catalog.
type Product struct {
	ProductID       string // UUID v7, generated on creation.
	Name            string
	Brand           string
	MeasurementType string // One of the Measurement constants.
	UseWithin       *int   // Days an opened item keeps; nil disables recompute on open.
}

// Favourite marks a product for quick reference, independent of stock.
// At most one favourite exists per product.
type Favourite struct {
	ProductID string
}
