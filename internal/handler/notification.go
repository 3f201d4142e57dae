package handler

import (
	"context"
	"fmt"

	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/wishlist"
	"github.com/xenking/storefront/internal/session"
)

var _ session.Listener = (*collector)(nil)

// notification is a toast shown by the UI after a mutation.
type notification struct {
	Kind        string
	Title       string
	Description string
}

// collector gathers the events raised during one request.
type collector struct {
	items []notification
}

func (c *collector) CartEvent(e cart.Event) {
	n := notification{Kind: "cart." + string(e.Kind)}
	switch e.Kind {
	case cart.EventAdded:
		n.Title = "Added to Cart"
		n.Description = fmt.Sprintf("%s has been added to your cart", e.Name)
	case cart.EventQuantityIncreased:
		n.Title = "Cart Updated"
		n.Description = fmt.Sprintf("%s quantity increased", e.Name)
	case cart.EventRemoved:
		n.Title = "Removed from Cart"
		n.Description = fmt.Sprintf("%s has been removed from your cart", e.Name)
	default:
		return
	}
	c.items = append(c.items, n)
}

func (c *collector) WishlistEvent(e wishlist.Event) {
	n := notification{Kind: "wishlist." + string(e.Kind)}
	switch e.Kind {
	case wishlist.EventAdded:
		n.Title = "Added to Wishlist"
		n.Description = "Product added to your wishlist"
	case wishlist.EventRemoved:
		n.Title = "Removed from Wishlist"
		n.Description = "Product removed from your wishlist"
	default:
		return
	}
	c.items = append(c.items, n)
}

// publish logs the collected notifications and records them on the request
// span.
func (c *collector) publish(ctx context.Context, sessionID string) {
	if len(c.items) == 0 {
		return
	}
	lg := zctx.From(ctx)
	span := trace.SpanFromContext(ctx)
	for _, n := range c.items {
		lg.Info(n.Title,
			zap.String("session_id", sessionID),
			zap.String("kind", n.Kind),
			zap.String("description", n.Description),
		)
		span.AddEvent(n.Kind, trace.WithAttributes(
			attribute.String("storefront.session_id", sessionID),
			attribute.String("storefront.notification", n.Description),
		))
	}
}
