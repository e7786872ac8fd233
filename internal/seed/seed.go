// Package seed loads catalogue seed files and upserts their contents into
// the store. Seed files are gzipped JSON lines, one product record per line.
package seed

import "context"

// CategoryRecord names the category a seed product belongs to.
type CategoryRecord struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProductRecord is one line of a seed file.
type ProductRecord struct {
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description,omitempty"`
	Images      []string       `json:"images,omitempty"`
	Category    CategoryRecord `json:"category"`
	Price       float64        `json:"price"`
	Stock       int            `json:"stock"`
	IsActive    *bool          `json:"isActive,omitempty"`
}

// Loader reads a seed file from some medium.
type Loader interface {
	// Load reads the seed file at path and returns its product records.
	Load(ctx context.Context, path string) ([]ProductRecord, error)
}
