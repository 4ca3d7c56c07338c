package trace

// Kind classifies what the loop did with a scheduled callback.
type Kind string

const (
	// KindCallback: the callback body was executed.
	KindCallback Kind = "callback"
	// KindSkipped: the callback had been cancelled and was skipped.
	KindSkipped Kind = "skipped"
)

// CallbackRecord captures one ready-queue entry as the loop reached it.
type CallbackRecord struct {
	Clock int64  // virtual time of execution, microseconds
	Seq   uint64 // submission sequence number
	Kind  Kind
}

// AdvanceRecord captures one clock jump to the next pending timer.
type AdvanceRecord struct {
	From int64
	To   int64
}
