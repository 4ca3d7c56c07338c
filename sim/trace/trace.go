package trace

// TraceLevel controls the verbosity of execution tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelExecution captures every executed callback and clock jump.
	TraceLevelExecution TraceLevel = "execution"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelExecution: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// ExecutionTrace collects callback and clock-advance records while a loop
// runs. Two runs of the same deterministic program produce identical
// traces, which is what the determinism tests assert.
type ExecutionTrace struct {
	Config    TraceConfig
	Callbacks []CallbackRecord
	Advances  []AdvanceRecord
}

// NewExecutionTrace creates an ExecutionTrace ready for recording.
func NewExecutionTrace(config TraceConfig) *ExecutionTrace {
	return &ExecutionTrace{
		Config:    config,
		Callbacks: make([]CallbackRecord, 0),
		Advances:  make([]AdvanceRecord, 0),
	}
}

// Enabled reports whether records should be collected at all.
func (et *ExecutionTrace) Enabled() bool {
	return et.Config.Level == TraceLevelExecution
}

// RecordCallback appends a callback execution record.
func (et *ExecutionTrace) RecordCallback(record CallbackRecord) {
	et.Callbacks = append(et.Callbacks, record)
}

// RecordAdvance appends a clock jump record.
func (et *ExecutionTrace) RecordAdvance(record AdvanceRecord) {
	et.Advances = append(et.Advances, record)
}
