package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/coldchain/icebox/pkg/types"
)

// ProductsTable is the accessor for the products catalog table. Each
// operation hydrates between rows and *types.Product.
type ProductsTable struct {
	store *Store
}

// Insert creates a product with a generated id. Returns
// types.ErrDuplicateProduct if the (name, brand) pair is already taken.
func (pt *ProductsTable) Insert(p *types.Product) (string, error) {
	var exists int
	err := pt.store.db.QueryRow(
		"SELECT 1 FROM products WHERE name = ? AND brand = ?",
		p.Name, p.Brand,
	).Scan(&exists)
	if err == nil {
		return "", fmt.Errorf("product %s (%s): %w", p.Name, p.Brand, types.ErrDuplicateProduct)
	}
	if err != sql.ErrNoRows {
		return "", storageErr("checking product uniqueness", err)
	}

	p.ProductID = generateUUID()

	tx, err := pt.store.db.Begin()
	if err != nil {
		return "", storageErr("beginning transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO products (id, name, brand, measurement_type, use_within) VALUES (?, ?, ?, ?, ?)",
		p.ProductID, p.Name, p.Brand, p.MeasurementType, p.UseWithin,
	)
	if err != nil {
		return "", storageErr("inserting product", err)
	}
	if err := tx.Commit(); err != nil {
		return "", storageErr("committing product", err)
	}
	return p.ProductID, nil
}

// Get retrieves a product by id. Returns types.ErrNotFound if absent.
func (pt *ProductsTable) Get(id string) (*types.Product, error) {
	row := pt.store.db.QueryRow(
		"SELECT id, name, brand, measurement_type, use_within FROM products WHERE id = ?",
		id,
	)
	p, err := hydrateProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("product %s: %w", id, types.ErrNotFound)
		}
		return nil, storageErr("getting product", err)
	}
	return p, nil
}

// GetByNameBrand retrieves a product by its unique (name, brand) pair.
// Returns types.ErrNotFound if absent.
func (pt *ProductsTable) GetByNameBrand(name, brand string) (*types.Product, error) {
	row := pt.store.db.QueryRow(
		"SELECT id, name, brand, measurement_type, use_within FROM products WHERE name = ? AND brand = ?",
		name, brand,
	)
	p, err := hydrateProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("product %s (%s): %w", name, brand, types.ErrNotFound)
		}
		return nil, storageErr("getting product by name and brand", err)
	}
	return p, nil
}

// List returns every product in storage-native order.
func (pt *ProductsTable) List() ([]*types.Product, error) {
	rows, err := pt.store.db.Query(
		"SELECT id, name, brand, measurement_type, use_within FROM products",
	)
	if err != nil {
		return nil, storageErr("listing products", err)
	}
	defer rows.Close()

	var products []*types.Product
	for rows.Next() {
		p, err := hydrateProductFromRows(rows)
		if err != nil {
			return nil, storageErr("scanning product", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating products", err)
	}
	return products, nil
}

// Delete removes a product by id, cascading to its favourite marker.
// Returns types.ErrNotFound if no such product exists. The referential
// check against fridge_contents belongs to the model layer.
func (pt *ProductsTable) Delete(id string) error {
	var exists int
	err := pt.store.db.QueryRow("SELECT 1 FROM products WHERE id = ?", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("product %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return storageErr("checking product existence", err)
	}

	tx, err := pt.store.db.Begin()
	if err != nil {
		return storageErr("beginning transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM favourites WHERE product_id = ?", id); err != nil {
		return storageErr("deleting product favourite", err)
	}
	if _, err := tx.Exec("DELETE FROM products WHERE id = ?", id); err != nil {
		return storageErr("deleting product", err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("committing product deletion", err)
	}
	return nil
}

// hydrateProduct converts a single row into a *types.Product.
func hydrateProduct(row *sql.Row) (*types.Product, error) {
	var p types.Product
	var useWithin sql.NullInt64
	if err := row.Scan(&p.ProductID, &p.Name, &p.Brand, &p.MeasurementType, &useWithin); err != nil {
		return nil, err
	}
	if useWithin.Valid {
		days := int(useWithin.Int64)
		p.UseWithin = &days
	}
	return &p, nil
}

// hydrateProductFromRows converts a row from sql.Rows into a *types.Product.
func hydrateProductFromRows(rows *sql.Rows) (*types.Product, error) {
	var p types.Product
	var useWithin sql.NullInt64
	if err := rows.Scan(&p.ProductID, &p.Name, &p.Brand, &p.MeasurementType, &useWithin); err != nil {
		return nil, err
	}
	if useWithin.Valid {
		days := int(useWithin.Int64)
		p.UseWithin = &days
	}
	return &p, nil
}
