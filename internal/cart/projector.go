package cart

import (
	"context"
	"errors"

	"github.com/alextreichler/tiendamanzana/internal/models"
	"github.com/alextreichler/tiendamanzana/internal/store"
	"github.com/shopspring/decimal"
)

// Catalog is the product lookup the projector resolves cart lines through.
// *store.Store satisfies it; tests supply a fake.
type Catalog interface {
	GetProduct(ctx context.Context, category models.Category, id int) (*models.Product, error)
}

// ProjectedLine joins a cart line with its current catalog product. It is a
// derived view, recomputed on every cart read and never persisted.
type ProjectedLine struct {
	Key        string
	Category   models.Category
	ProductID  int
	Name       string
	Generation string
	ImageURL   string
	Quantity   int
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal
}

// Projection is the reconciled view of a cart: enriched lines in cart
// insertion order, the running total and the total item count.
type Projection struct {
	Lines     []ProjectedLine
	Total     decimal.Decimal
	ItemCount int
}

// Project reconciles c against the catalog. Lines whose category is not a
// known slug or whose product no longer resolves are pruned from c in
// place; the caller is responsible for persisting the mutated cart (and
// the cached item count) back to session state.
func Project(ctx context.Context, catalog Catalog, c *Cart) (Projection, error) {
	proj := Projection{Total: decimal.Zero}

	var pruned []string
	for _, line := range c.Lines {
		if !line.Category.Valid() {
			pruned = append(pruned, line.Key())
			continue
		}

		product, err := catalog.GetProduct(ctx, line.Category, line.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			pruned = append(pruned, line.Key())
			continue
		}
		if err != nil {
			return Projection{}, err
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		proj.Lines = append(proj.Lines, ProjectedLine{
			Key:        line.Key(),
			Category:   line.Category,
			ProductID:  line.ProductID,
			Name:       product.DisplayName(),
			Generation: product.Generation,
			ImageURL:   product.ImageURL,
			Quantity:   line.Quantity,
			UnitPrice:  product.Price,
			Subtotal:   subtotal,
		})
		proj.Total = proj.Total.Add(subtotal)
		proj.ItemCount += line.Quantity
	}

	for _, key := range pruned {
		c.Remove(key)
	}

	return proj, nil
}
