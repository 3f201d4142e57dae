package cart

// EventKind identifies what a ledger mutation did.
type EventKind string

const (
	EventAdded             EventKind = "added"
	EventQuantityIncreased EventKind = "quantity_increased"
	EventRemoved           EventKind = "removed"
)

// Event describes a completed ledger mutation.
type Event struct {
	Kind     EventKind
	ItemID   string
	Name     string
	Quantity int
}

// Notifier receives ledger events. Notify is called synchronously after the
// mutation has been applied.
type Notifier interface {
	Notify(e Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(e Event)

// Notify calls f(e).
func (f NotifierFunc) Notify(e Event) { f(e) }

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}
