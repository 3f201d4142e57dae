package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/domain/product"
)

func newTestProduct(id, name, price string) product.Product {
	return product.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Image:    "https://example.com/" + id + ".jpg",
		Category: "Electronics",
	}
}

type recorder struct {
	events []Event
}

func (r *recorder) Notify(e Event) { r.events = append(r.events, e) }

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

func TestLedger_AddDistinct(t *testing.T) {
	l := New()
	a := newTestProduct("a", "Alpha", "10.00")
	b := newTestProduct("b", "Beta", "20.00")
	c := newTestProduct("c", "Gamma", "30.00")

	l.Add(a)
	l.Add(b)
	l.Add(a)
	items := l.Add(c)

	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
	assert.Equal(t, "c", items[2].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, 1, items[2].Quantity)
}

func TestLedger_AddTwiceIncrementsByOne(t *testing.T) {
	rec := &recorder{}
	l := New(WithNotifier(rec))
	p := newTestProduct("1", "Headphones", "299.99")

	l.Add(p)
	items := l.Add(p)

	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, []EventKind{EventAdded, EventQuantityIncreased}, rec.kinds())
	assert.Equal(t, 2, rec.events[1].Quantity)
	assert.Equal(t, "Headphones", rec.events[1].Name)
}

func TestLedger_AddKeepsSnapshot(t *testing.T) {
	l := New()
	p := newTestProduct("1", "Original Name", "10.00")
	p.OriginalPrice = decimal.NewNullDecimal(decimal.RequireFromString("15.00"))
	l.Add(p)

	changed := p
	changed.Name = "Renamed"
	changed.Price = decimal.RequireFromString("99.00")
	changed.OriginalPrice = decimal.NullDecimal{}
	changed.Image = "other.jpg"
	items := l.Add(changed)

	require.Len(t, items, 1)
	li := items[0]
	assert.Equal(t, "Original Name", li.Name)
	assert.True(t, li.Price.Equal(decimal.RequireFromString("10.00")))
	require.True(t, li.OriginalPrice.Valid)
	assert.True(t, li.OriginalPrice.Decimal.Equal(decimal.RequireFromString("15.00")))
	assert.Equal(t, "https://example.com/1.jpg", li.Image)
	assert.Equal(t, 2, li.Quantity)
}

func TestLedger_SetQuantity(t *testing.T) {
	l := New()
	l.Add(newTestProduct("a", "Alpha", "10.00"))
	l.Add(newTestProduct("b", "Beta", "20.00"))

	items, err := l.SetQuantity("a", 7)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 7, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)

	// No upper bound.
	items, err = l.SetQuantity("b", 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, 1_000_000, items[1].Quantity)
}

func TestLedger_SetQuantityNonPositiveRemoves(t *testing.T) {
	for _, q := range []int{0, -1, -42} {
		rec := &recorder{}
		l := New(WithNotifier(rec))
		l.Add(newTestProduct("a", "Alpha", "10.00"))
		l.Add(newTestProduct("b", "Beta", "20.00"))

		items, err := l.SetQuantity("a", q)
		require.NoError(t, err)
		require.Len(t, items, 1, "quantity %d", q)
		assert.Equal(t, "b", items[0].ID)
		assert.Equal(t, EventRemoved, rec.events[len(rec.events)-1].Kind)
	}
}

func TestLedger_SetQuantityUnknownIsNoop(t *testing.T) {
	rec := &recorder{}
	l := New(WithNotifier(rec))
	l.Add(newTestProduct("a", "Alpha", "10.00"))
	before := l.Items()

	items, err := l.SetQuantity("missing", 5)
	require.NoError(t, err)
	assert.Equal(t, before, items)

	items, err = l.SetQuantity("missing", 0)
	require.NoError(t, err)
	assert.Equal(t, before, items)
	assert.Equal(t, []EventKind{EventAdded}, rec.kinds())
}

func TestLedger_RemoveIdempotent(t *testing.T) {
	rec := &recorder{}
	l := New(WithNotifier(rec))
	l.Add(newTestProduct("a", "Alpha", "10.00"))
	l.Add(newTestProduct("b", "Beta", "20.00"))
	l.Add(newTestProduct("c", "Gamma", "30.00"))

	first, err := l.Remove("b")
	require.NoError(t, err)
	second, err := l.Remove("b")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, second, 2)
	assert.Equal(t, "a", second[0].ID)
	assert.Equal(t, "c", second[1].ID)
	assert.Equal(t, []EventKind{EventAdded, EventAdded, EventAdded, EventRemoved}, rec.kinds())
	assert.Equal(t, "Beta", rec.events[3].Name)
}

func TestLedger_RemoveLast(t *testing.T) {
	l := New()
	l.Add(newTestProduct("a", "Alpha", "10.00"))

	items, err := l.Remove("a")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.True(t, l.IsEmpty())
	assert.Equal(t, 0, l.Len())
}

func TestLedger_Strict(t *testing.T) {
	l := New(WithStrict())
	require.True(t, l.Strict())
	l.Add(newTestProduct("a", "Alpha", "10.00"))

	_, err := l.SetQuantity("missing", 3)
	require.ErrorIs(t, err, ErrItemNotFound)

	_, err = l.SetQuantity("missing", 0)
	require.ErrorIs(t, err, ErrItemNotFound)

	items, err := l.Remove("missing")
	require.ErrorIs(t, err, ErrItemNotFound)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)

	_, err = l.SetQuantity("a", 4)
	require.NoError(t, err)
}

func TestLedger_ItemsReturnsCopy(t *testing.T) {
	l := New()
	items := l.Add(newTestProduct("a", "Alpha", "10.00"))
	items[0].Quantity = 99

	got, ok := l.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, got.Quantity)

	_, ok = l.Get("missing")
	assert.False(t, ok)
}

func TestLedger_RemoveDoesNotAliasReturnedSlice(t *testing.T) {
	l := New()
	l.Add(newTestProduct("a", "Alpha", "10.00"))
	l.Add(newTestProduct("b", "Beta", "20.00"))
	before := l.Items()

	_, err := l.Remove("a")
	require.NoError(t, err)

	require.Len(t, before, 2)
	assert.Equal(t, "a", before[0].ID)
	assert.Equal(t, "b", before[1].ID)
}

func TestLedger_NilNotifier(t *testing.T) {
	l := New(WithNotifier(nil))
	require.NotPanics(t, func() {
		l.Add(newTestProduct("a", "Alpha", "10.00"))
		_, _ = l.Remove("a")
	})
}

func TestLedger_NotifierFunc(t *testing.T) {
	var got []string
	l := New(WithNotifier(NotifierFunc(func(e Event) {
		got = append(got, string(e.Kind)+":"+e.ItemID)
	})))
	p := newTestProduct("a", "Alpha", "10.00")
	l.Add(p)
	l.Add(p)
	_, _ = l.SetQuantity("a", 0)

	assert.Equal(t, []string{"added:a", "quantity_increased:a", "removed:a"}, got)
}
