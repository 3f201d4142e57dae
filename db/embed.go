// Package db provides the embedded sample catalog.
package db

import _ "embed"

// Products is the JSON array of sample products served by the demo catalog.
//
//go:embed seed/products.json
var Products []byte
