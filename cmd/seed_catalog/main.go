// cmd/seed_catalog/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	outfs "storefront/internal/adapters/out/firestore"
	catalogdom "storefront/internal/domain/catalog"
	appcfg "storefront/internal/infra/config"
	"storefront/internal/platform/logger"
)

// seed_catalog writes products from a JSON file into the "products" collection
// for local/dev use.
func main() {
	file := flag.String("file", "products.json", "JSON file with products")
	flag.Parse()

	log, err := logger.New("dev", "info")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatal("config", "err", err)
	}
	if cfg.FirestoreProjectID == "" {
		log.Fatal("FIRESTORE_PROJECT_ID (or GCP_PROJECT_ID) is required")
	}

	products, err := catalogdom.ReadProductsFile(*file)
	if err != nil {
		log.Fatal("read products", "file", *file, "err", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var opts []option.ClientOption
	if f := cfg.FirestoreCredentialsFile; f != "" {
		opts = append(opts, option.WithCredentialsFile(f))
	}
	client, err := firestore.NewClient(ctx, cfg.FirestoreProjectID, opts...)
	if err != nil {
		log.Fatal("firestore.NewClient", "err", err)
	}
	defer client.Close()

	bw := client.BulkWriter(ctx)
	col := client.Collection("products")
	for _, p := range products {
		if _, err := bw.Set(col.Doc(p.ID), outfs.ProductToDocData(p), firestore.MergeAll); err != nil {
			log.Fatal("enqueue", "productId", p.ID, "err", err)
		}
	}
	bw.End()

	fmt.Printf("✅ Seeded %d products\n", len(products))
}
