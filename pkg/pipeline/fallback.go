package pipeline

// ParseResult is the outcome of a strict parse that may have fallen back to a
// tolerant one. Err holds the strict failure when Degraded is set.
type ParseResult[T any] struct {
	Node     T
	Degraded bool
	Err      error
}

// Fallback runs strict and, when it fails, tolerant. The tolerant parser must
// never fail.
func Fallback[T any](strict func() (T, error), tolerant func() T) ParseResult[T] {
	node, err := strict()
	if err == nil {
		return ParseResult[T]{Node: node}
	}
	return ParseResult[T]{Node: tolerant(), Degraded: true, Err: err}
}
