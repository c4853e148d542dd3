package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/coldchain/icebox/pkg/types"
)

// ContentsTable is the accessor for the fridge_contents table.
type ContentsTable struct {
	store *Store
}

// JoinedItem pairs a fridge item with the catalog fields of its product.
type JoinedItem struct {
	Item  types.FridgeItem
	Name  string
	Brand string
}

// Insert creates a fridge item with a generated id, populating the single
// measurement column selected by the product's measurement type. The column
// name comes from the fixed allow-list in types, never from the wire.
func (ct *ContentsTable) Insert(item *types.FridgeItem, measurementType string) (string, error) {
	column, ok := types.MeasurementColumn(measurementType)
	if !ok {
		return "", fmt.Errorf("measurement type %q: %w", measurementType, types.ErrMissingMeasurement)
	}

	var amount *float64
	switch column {
	case "quantity":
		amount = item.Quantity
	case "volume":
		amount = item.Volume
	case "weight":
		amount = item.Weight
	}
	if amount == nil {
		return "", fmt.Errorf("no %s value: %w", column, types.ErrMissingMeasurement)
	}

	item.ItemID = generateUUID()

	tx, err := ct.store.db.Begin()
	if err != nil {
		return "", storageErr("beginning transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO fridge_contents (item_id, product_id, "+column+", expiration_date) VALUES (?, ?, ?, ?)",
		item.ItemID, item.ProductID, *amount, item.ExpirationDate.Format(types.DateLayout),
	)
	if err != nil {
		return "", storageErr("inserting fridge item", err)
	}
	if err := tx.Commit(); err != nil {
		return "", storageErr("committing fridge item", err)
	}
	return item.ItemID, nil
}

// Get retrieves a fridge item by id. Returns types.ErrNotFound if absent.
func (ct *ContentsTable) Get(itemID string) (*types.FridgeItem, error) {
	row := ct.store.db.QueryRow(
		"SELECT item_id, product_id, quantity, volume, weight, expiration_date FROM fridge_contents WHERE item_id = ?",
		itemID,
	)
	var item types.FridgeItem
	var quantity, volume, weight sql.NullFloat64
	var expiration string
	err := row.Scan(&item.ItemID, &item.ProductID, &quantity, &volume, &weight, &expiration)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("item %s: %w", itemID, types.ErrNotFound)
		}
		return nil, storageErr("getting fridge item", err)
	}
	hydrateAmounts(&item, quantity, volume, weight)
	item.ExpirationDate, err = types.ParseDate(expiration)
	if err != nil {
		return nil, storageErr("parsing expiration_date", err)
	}
	return &item, nil
}

// ListJoined returns every fridge item joined to its product, in
// storage-native order.
func (ct *ContentsTable) ListJoined() ([]JoinedItem, error) {
	rows, err := ct.store.db.Query(
		"SELECT c.item_id, c.product_id, c.quantity, c.volume, c.weight, c.expiration_date, p.name, p.brand " +
			"FROM fridge_contents c INNER JOIN products p ON p.id = c.product_id",
	)
	if err != nil {
		return nil, storageErr("listing fridge contents", err)
	}
	defer rows.Close()

	var joined []JoinedItem
	for rows.Next() {
		var j JoinedItem
		var quantity, volume, weight sql.NullFloat64
		var expiration string
		err := rows.Scan(
			&j.Item.ItemID, &j.Item.ProductID,
			&quantity, &volume, &weight, &expiration,
			&j.Name, &j.Brand,
		)
		if err != nil {
			return nil, storageErr("scanning fridge item", err)
		}
		hydrateAmounts(&j.Item, quantity, volume, weight)
		j.Item.ExpirationDate, err = types.ParseDate(expiration)
		if err != nil {
			return nil, storageErr("parsing expiration_date", err)
		}
		joined = append(joined, j)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating fridge contents", err)
	}
	return joined, nil
}

// Delete removes a fridge item by id. Returns types.ErrNotFound if no such
// item exists; a missing target is never a silent no-op.
func (ct *ContentsTable) Delete(itemID string) error {
	var exists int
	err := ct.store.db.QueryRow(
		"SELECT 1 FROM fridge_contents WHERE item_id = ?", itemID,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("item %s: %w", itemID, types.ErrNotFound)
	}
	if err != nil {
		return storageErr("checking item existence", err)
	}

	tx, err := ct.store.db.Begin()
	if err != nil {
		return storageErr("beginning transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM fridge_contents WHERE item_id = ?", itemID); err != nil {
		return storageErr("deleting fridge item", err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("committing item deletion", err)
	}
	return nil
}

// UpdateExpiration overwrites an item's expiration date.
func (ct *ContentsTable) UpdateExpiration(itemID string, date time.Time) error {
	tx, err := ct.store.db.Begin()
	if err != nil {
		return storageErr("beginning transaction", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"UPDATE fridge_contents SET expiration_date = ? WHERE item_id = ?",
		date.Format(types.DateLayout), itemID,
	)
	if err != nil {
		return storageErr("updating expiration_date", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("item %s: %w", itemID, types.ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("committing expiration update", err)
	}
	return nil
}

// CountForProduct returns how many fridge items reference the product.
func (ct *ContentsTable) CountForProduct(productID string) (int, error) {
	var n int
	err := ct.store.db.QueryRow(
		"SELECT COUNT(*) FROM fridge_contents WHERE product_id = ?", productID,
	).Scan(&n)
	if err != nil {
		return 0, storageErr("counting fridge items", err)
	}
	return n, nil
}

// hydrateAmounts copies the nullable measurement columns onto the item.
func hydrateAmounts(item *types.FridgeItem, quantity, volume, weight sql.NullFloat64) {
	if quantity.Valid {
		item.Quantity = &quantity.Float64
	}
	if volume.Valid {
		item.Volume = &volume.Float64
	}
	if weight.Valid {
		item.Weight = &weight.Float64
	}
}
