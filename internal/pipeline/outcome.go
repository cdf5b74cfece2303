package pipeline

// OutcomeKind classifies how a phase ended.
type OutcomeKind int

const (
	// OutcomeData means the phase produced usable output.
	OutcomeData OutcomeKind = iota
	// OutcomeEmpty means the phase failed or found nothing; the run continues
	// with the phase default.
	OutcomeEmpty
	// OutcomeFatal aborts the run.
	OutcomeFatal
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeData:
		return "data"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Outcome is a phase result. Err explains an Empty or Fatal outcome and may
// be nil when an Empty phase simply found nothing.
type Outcome[T any] struct {
	Kind  OutcomeKind
	Value T
	Err   error
}

// Data wraps a successful phase value.
func Data[T any](value T) Outcome[T] {
	return Outcome[T]{Kind: OutcomeData, Value: value}
}

// Empty records a degraded phase.
func Empty[T any](err error) Outcome[T] {
	return Outcome[T]{Kind: OutcomeEmpty, Err: err}
}

// Fatal records a run-ending failure.
func Fatal[T any](err error) Outcome[T] {
	return Outcome[T]{Kind: OutcomeFatal, Err: err}
}

// ValueOr returns the phase value, or fallback unless the outcome is Data.
func (o Outcome[T]) ValueOr(fallback T) T {
	if o.Kind == OutcomeData {
		return o.Value
	}
	return fallback
}
