// cmd/ddlgen/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	outdb "storefront/internal/adapters/out/db"
)

func main() {
	outDir := flag.String("out", filepath.Join("internal", "infra", "database", "migrations"), "output directory")
	flag.Parse()

	path := filepath.Join(*outDir, "init_shipping_addresses.sql")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := os.WriteFile(path, []byte(outdb.AddressDDL), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println("✅ Generated:", path)
}
