package outbox

// Notifier wakes the sync engine after a mutation commits. Implementations
// must be cheap and non-blocking; the engine coalesces bursts.
type Notifier interface {
	Trigger()
}

// NopNotifier is used when no sync engine is wired, e.g. in tests.
type NopNotifier struct{}

func (NopNotifier) Trigger() {}
