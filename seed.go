package main

import (
	"context"
	"fmt"

	"github.com/Zhima-Mochi/procurement-portal/internal/domain/catalog"
	"github.com/Zhima-Mochi/procurement-portal/internal/infrastructure/id"
	"github.com/Zhima-Mochi/procurement-portal/internal/infrastructure/memory"
	"github.com/Zhima-Mochi/procurement-portal/internal/infrastructure/seed"
)

// seedCatalog inserts the seed products in one transaction.
func seedCatalog(ctx context.Context, store *memory.Store, path string, ids *id.Sequence) error {
	var (
		products []*catalog.Product
		err      error
	)
	if path != "" {
		products, err = seed.LoadFile(path)
	} else {
		products, err = seed.Default()
	}
	if err != nil {
		return err
	}

	repo := store.Products()
	err = store.WithTransaction(ctx, func(ctx context.Context) error {
		for _, p := range products {
			if err := repo.Insert(ctx, p); err != nil {
				return err
			}
			ids.Observe(p.ID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	return nil
}
