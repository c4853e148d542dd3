package sqlite

// Schema DDL for the three fridge tables. Applied only by Create (the
// explicit init path) and by test fixtures; Open requires the schema to
// pre-exist.
const (
	createProducts = `CREATE TABLE products (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    brand TEXT NOT NULL,
    measurement_type TEXT NOT NULL,
    use_within INTEGER,
    UNIQUE (name, brand)
);`

	createFridgeContents = `CREATE TABLE fridge_contents (
    item_id TEXT PRIMARY KEY,
    product_id TEXT NOT NULL,
    quantity REAL,
    volume REAL,
    weight REAL,
    expiration_date TEXT NOT NULL,
    FOREIGN KEY (product_id) REFERENCES products(id)
);`

	createFavourites = `CREATE TABLE favourites (
    product_id TEXT PRIMARY KEY,
    FOREIGN KEY (product_id) REFERENCES products(id)
);`
)

// schemaStatements lists the DDL in dependency order.
var schemaStatements = []string{
	createProducts,
	createFridgeContents,
	createFavourites,
}
