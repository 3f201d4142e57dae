package cart

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/product"
)

// ErrItemNotFound is returned by a strict ledger when SetQuantity or Remove
// targets an id that is not in the ledger.
var ErrItemNotFound = errors.New("cart item not found")

// LineItem is a ledger entry. Name, prices, image and category are a snapshot
// of the product taken when the item was first added.
type LineItem struct {
	ID            string
	Name          string
	Price         decimal.Decimal
	OriginalPrice decimal.NullDecimal
	Image         string
	Category      string
	Quantity      int
}

// LineTotal returns Price * Quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

func snapshot(p product.Product) LineItem {
	return LineItem{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Image:         p.Image,
		Category:      p.Category,
		Quantity:      1,
	}
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithNotifier sets the receiver of ledger events.
func WithNotifier(n Notifier) Option {
	return func(l *Ledger) {
		if n != nil {
			l.notify = n
		}
	}
}

// WithStrict makes SetQuantity and Remove report ErrItemNotFound for ids that
// are not in the ledger instead of silently ignoring them.
func WithStrict() Option {
	return func(l *Ledger) { l.strict = true }
}

// Ledger is an ordered list of line items with unique ids.
//
// A Ledger is owned by a single session and is not safe for concurrent use.
// Every method either applies fully or leaves the ledger unchanged.
type Ledger struct {
	items  []LineItem
	notify Notifier
	strict bool
}

// New returns an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{notify: nopNotifier{}}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Strict reports whether the ledger was created WithStrict.
func (l *Ledger) Strict() bool { return l.strict }

// Add puts one unit of p into the ledger. If p is already present only its
// quantity changes; the snapshot taken on first add is kept as is.
func (l *Ledger) Add(p product.Product) []LineItem {
	if i := l.index(p.ID); i >= 0 {
		l.items[i].Quantity++
		l.notify.Notify(Event{
			Kind:     EventQuantityIncreased,
			ItemID:   p.ID,
			Name:     p.Name,
			Quantity: l.items[i].Quantity,
		})
		return l.Items()
	}

	l.items = append(l.items, snapshot(p))
	l.notify.Notify(Event{
		Kind:     EventAdded,
		ItemID:   p.ID,
		Name:     p.Name,
		Quantity: 1,
	})
	return l.Items()
}

// SetQuantity replaces the quantity of id. A quantity of zero or less removes
// the item. There is no upper bound.
func (l *Ledger) SetQuantity(id string, quantity int) ([]LineItem, error) {
	if quantity <= 0 {
		return l.Remove(id)
	}

	i := l.index(id)
	if i < 0 {
		if l.strict {
			return l.Items(), ErrItemNotFound
		}
		return l.Items(), nil
	}
	l.items[i].Quantity = quantity
	return l.Items(), nil
}

// Remove deletes id from the ledger. The removed event is only emitted when
// the item was actually present.
func (l *Ledger) Remove(id string) ([]LineItem, error) {
	i := l.index(id)
	if i < 0 {
		if l.strict {
			return l.Items(), ErrItemNotFound
		}
		return l.Items(), nil
	}

	removed := l.items[i]
	l.items = append(l.items[:i:i], l.items[i+1:]...)
	l.notify.Notify(Event{
		Kind:   EventRemoved,
		ItemID: removed.ID,
		Name:   removed.Name,
	})
	return l.Items(), nil
}

// Items returns a copy of the line items in insertion order.
func (l *Ledger) Items() []LineItem {
	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}

// Get returns the line item with the given id.
func (l *Ledger) Get(id string) (LineItem, bool) {
	if i := l.index(id); i >= 0 {
		return l.items[i], true
	}
	return LineItem{}, false
}

// Len returns the number of distinct line items.
func (l *Ledger) Len() int { return len(l.items) }

// IsEmpty reports whether the ledger has no items. Presentation uses it to
// pick the empty-state view and to disable checkout.
func (l *Ledger) IsEmpty() bool { return len(l.items) == 0 }

// Totals computes the totals of the current items.
func (l *Ledger) Totals() Totals { return ComputeTotals(l.items) }

func (l *Ledger) index(id string) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}
