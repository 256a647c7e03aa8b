// internal/domain/catalog/seed.go
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadProducts decodes a JSON array of products and validates each one.
// Status is normalized to lower case.
func ReadProducts(r io.Reader) ([]Product, error) {
	var ps []Product
	if err := json.NewDecoder(r).Decode(&ps); err != nil {
		return nil, fmt.Errorf("catalog: decode products: %w", err)
	}
	for i := range ps {
		ps[i].ID = strings.TrimSpace(ps[i].ID)
		ps[i].Status = Status(strings.ToLower(strings.TrimSpace(string(ps[i].Status))))
		if err := ps[i].Validate(); err != nil {
			return nil, fmt.Errorf("catalog: product %q: %w", ps[i].ID, err)
		}
	}
	return ps, nil
}

// ReadProductsFile is ReadProducts over a file.
func ReadProductsFile(path string) ([]Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()
	return ReadProducts(f)
}
