// Package checkout materializes a reconciled cart into persisted order
// records. The surrounding step flow (address, payment, summary) lives in
// the handlers; this package is the terminal step only.
package checkout

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alextreichler/tiendamanzana/internal/cart"
	"github.com/alextreichler/tiendamanzana/internal/models"
	"github.com/alextreichler/tiendamanzana/internal/store"
)

// OrderWriter is the persistence surface the materializer needs.
// *store.Store satisfies it.
type OrderWriter interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	CreateOrderLine(ctx context.Context, l *models.OrderLine) error
}

// ErrEmptyCart is returned when there is nothing to materialize.
var ErrEmptyCart = errors.New("checkout: cart is empty")

type Materializer struct {
	Catalog cart.Catalog
	Orders  OrderWriter
}

// Materialize converts the projection into one order header plus one line
// per projected line, snapshotting the shopper's current address and
// payment method, then clears the cart. Each line re-resolves its product
// against the live catalog; a product deleted since projection is skipped.
// The order total is NOT recomputed when that happens, so a concurrent
// admin delete can leave the total higher than the sum of persisted lines.
// That mirrors the documented behavior and is pinned by a test; do not
// quietly change it.
//
// There is no transaction around the loop. A failure mid-loop returns the
// partially detailed order along with the error.
func (m *Materializer) Materialize(ctx context.Context, shopper *models.Shopper, proj cart.Projection, c *cart.Cart) (*models.Order, error) {
	if proj.ItemCount == 0 {
		return nil, ErrEmptyCart
	}

	order := &models.Order{
		ShopperID:       shopper.ID,
		AddressID:       shopper.AddressID,
		PaymentMethodID: shopper.PaymentMethodID,
		Total:           proj.Total,
		Status:          models.OrderStatusPending,
	}
	if err := m.Orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	for _, line := range proj.Lines {
		// Second lookup, independent of the projector's resolution.
		if _, err := m.Catalog.GetProduct(ctx, line.Category, line.ProductID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				slog.Warn("Skipping vanished product during order finalization",
					"order_id", order.ID, "key", line.Key)
				continue
			}
			return order, err
		}

		ol := &models.OrderLine{
			OrderID:   order.ID,
			Category:  line.Category,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice, // price frozen at projection time
		}
		if err := m.Orders.CreateOrderLine(ctx, ol); err != nil {
			return order, err
		}
		order.Lines = append(order.Lines, *ol)
	}

	c.Clear()
	return order, nil
}
