// Package main provides the icebox CLI: a line-delimited JSON inventory
// service for a refrigerator, backed by a relational storage file.
package main

import "os"

func main() {
	os.Exit(execute())
}
