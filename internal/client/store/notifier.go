package store

// Notifier receives store failures. op names the failed operation
// ("fetch", "add", "update", "remove").
type Notifier interface {
	Error(op string, err error)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(op string, err error)

func (f NotifierFunc) Error(op string, err error) { f(op, err) }

type nopNotifier struct{}

func (nopNotifier) Error(string, error) {}
