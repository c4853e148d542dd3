package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/coldchain/icebox/pkg/types"
)

// FavouritesTable is the accessor for the favourites table.
type FavouritesTable struct {
	store *Store
}

// Add marks a product as a favourite. Adding an existing favourite is an
// idempotent no-op, keeping the at-most-one-row invariant. The caller
// checks that the product exists.
func (ft *FavouritesTable) Add(productID string) error {
	var exists int
	err := ft.store.db.QueryRow(
		"SELECT 1 FROM favourites WHERE product_id = ?", productID,
	).Scan(&exists)
	if err == nil {
		return nil // already a favourite
	}
	if err != sql.ErrNoRows {
		return storageErr("checking favourite existence", err)
	}

	tx, err := ft.store.db.Begin()
	if err != nil {
		return storageErr("beginning transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("INSERT INTO favourites (product_id) VALUES (?)", productID); err != nil {
		return storageErr("inserting favourite", err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("committing favourite", err)
	}
	return nil
}

// Remove deletes a favourite marker. Returns types.ErrNotFound if the
// product is not marked.
func (ft *FavouritesTable) Remove(productID string) error {
	var exists int
	err := ft.store.db.QueryRow(
		"SELECT 1 FROM favourites WHERE product_id = ?", productID,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("favourite %s: %w", productID, types.ErrNotFound)
	}
	if err != nil {
		return storageErr("checking favourite existence", err)
	}

	tx, err := ft.store.db.Begin()
	if err != nil {
		return storageErr("beginning transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM favourites WHERE product_id = ?", productID); err != nil {
		return storageErr("deleting favourite", err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("committing favourite deletion", err)
	}
	return nil
}

// List returns the favourited products joined to their catalog rows, in
// storage-native order.
func (ft *FavouritesTable) List() ([]*types.Product, error) {
	rows, err := ft.store.db.Query(
		"SELECT p.id, p.name, p.brand, p.measurement_type, p.use_within " +
			"FROM favourites f INNER JOIN products p ON p.id = f.product_id",
	)
	if err != nil {
		return nil, storageErr("listing favourites", err)
	}
	defer rows.Close()

	var products []*types.Product
	for rows.Next() {
		p, err := hydrateProductFromRows(rows)
		if err != nil {
			return nil, storageErr("scanning favourite", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating favourites", err)
	}
	return products, nil
}
